package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	cmap "github.com/orcaman/concurrent-map/v2"
	"golang.org/x/sys/unix"
)

type DiskStorage struct {
	// BasePath is a directory writable by the current process
	BasePath string
	dirs     cmap.ConcurrentMap[string, bool]
}

func NewDiskStorage(basePath string) (*DiskStorage, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, err
	}
	if err = os.MkdirAll(abs, 0775); err != nil {
		return nil, err
	}
	return &DiskStorage{
		BasePath: abs,
		dirs:     cmap.New[bool](),
	}, nil
}

func (s *DiskStorage) getFullPath(path string) (string, error) {
	clean, err := cleanPath(path)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.BasePath, filepath.FromSlash(clean)), nil
}

func (s *DiskStorage) createDir(dir string) error {
	if s.dirs.Has(dir) {
		return nil
	}
	if err := os.MkdirAll(dir, 0775); err != nil {
		return err
	}
	s.dirs.Set(dir, true)
	return nil
}

func (s *DiskStorage) EnsureDir(ctx context.Context, dir string) error {
	fullPath, err := s.getFullPath(dir)
	if err != nil {
		return err
	}
	return s.createDir(fullPath)
}

func (s *DiskStorage) Save(ctx context.Context, path string, reader io.Reader) (int64, error) {
	fileName, err := s.getFullPath(path)
	if err != nil {
		return 0, err
	}
	if err := s.createDir(filepath.Dir(fileName)); err != nil {
		return 0, err
	}
	file, err := os.Create(fileName)
	if err != nil {
		return 0, err
	}
	result, err := io.Copy(file, reader)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	return result, err
}

func (s *DiskStorage) Delete(ctx context.Context, path string) error {
	fileName, err := s.getFullPath(path)
	if err != nil {
		return err
	}
	if err = os.Remove(fileName); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (s *DiskStorage) Exists(ctx context.Context, path string) (bool, error) {
	fileName, err := s.getFullPath(path)
	if err != nil {
		return false, err
	}
	fi, err := os.Stat(fileName)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !fi.IsDir(), nil
}

func (s *DiskStorage) Serve(path string, request *http.Request, writer http.ResponseWriter) {
	fileName, err := s.getFullPath(path)
	if err != nil {
		http.NotFound(writer, request)
		return
	}
	if fi, err := os.Stat(fileName); err != nil || fi.IsDir() {
		http.NotFound(writer, request)
		return
	}
	http.ServeFile(writer, request, fileName)
}

func (s *DiskStorage) GetFreeSpace() uint64 {
	var stat unix.Statfs_t
	if err := unix.Statfs(s.BasePath, &stat); err != nil {
		return 0
	}
	return stat.Bavail * uint64(stat.Bsize)
}
