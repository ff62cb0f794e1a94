// Package media stores uploaded images and keeps files and database rows in
// step.
package media

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"portfolio/logging"
	"portfolio/metrics"
	"portfolio/models"
	"portfolio/processing"
	"portfolio/storage"
	"portfolio/utils"

	"gorm.io/gorm/clause"
)

type Service struct {
	store     *models.Store
	storage   storage.StorageAPI
	converter processing.Converter
}

// NewService wires the service and registers the file cleanup hook on store
func NewService(store *models.Store, st storage.StorageAPI, converter processing.Converter) *Service {
	s := &Service{
		store:     store,
		storage:   st,
		converter: converter,
	}
	store.OnBeforeMediaDelete(s.deleteFile)
	return s
}

// Put converts the attached upload, stores it under targetDirectory and
// saves the media row. filename is optional; a random name is used when
// empty. The row and the file are written together or not at all.
func (s *Service) Put(ctx context.Context, m *models.Media, targetDirectory, filename string) (*models.Media, error) {
	if m.File == nil {
		metrics.MediaIngestTotal.WithLabelValues(metrics.ResultNoUpload).Inc()
		return nil, ErrNoUpload
	}

	dir := normalizeDir(targetDirectory)
	if err := s.storage.EnsureDir(ctx, dir); err != nil {
		metrics.MediaIngestTotal.WithLabelValues(metrics.ResultStorage).Inc()
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	var buf bytes.Buffer
	if err := s.convert(m.File, &buf); err != nil {
		metrics.MediaIngestTotal.WithLabelValues(metrics.ResultConversion).Inc()
		return nil, fmt.Errorf("%w: %w", ErrConversion, err)
	}

	oldID, oldPath := m.ID, m.Path
	m.Path = s.targetPath(dir, filename, oldPath)

	restore := func() {
		m.ID, m.Path = oldID, oldPath
	}

	tx := s.store.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		restore()
		metrics.MediaIngestTotal.WithLabelValues(metrics.ResultPersistence).Inc()
		return nil, fmt.Errorf("%w: %w", ErrPersistence, tx.Error)
	}
	if err := tx.Omit(clause.Associations).Save(m).Error; err != nil {
		tx.Rollback()
		restore()
		metrics.MediaIngestTotal.WithLabelValues(metrics.ResultPersistence).Inc()
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if _, err := s.storage.Save(ctx, m.Path, &buf); err != nil {
		tx.Rollback()
		s.discard(ctx, m.Path, oldPath)
		restore()
		metrics.MediaIngestTotal.WithLabelValues(metrics.ResultStorage).Inc()
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if err := tx.Commit().Error; err != nil {
		s.discard(ctx, m.Path, oldPath)
		restore()
		metrics.MediaIngestTotal.WithLabelValues(metrics.ResultPersistence).Inc()
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	if oldPath != "" && oldPath != m.Path {
		s.deleteFile(ctx, &models.Media{ID: m.ID, Path: oldPath})
	}
	m.File = nil
	metrics.MediaIngestTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	metrics.StorageFreeBytes.Set(float64(s.storage.GetFreeSpace()))
	logging.Info().Uint64("media_id", m.ID).Str("path", m.Path).Msg("media stored")
	return m, nil
}

// Remove deletes the media row, its file goes away through the delete hook
func (s *Service) Remove(ctx context.Context, m *models.Media) error {
	if err := s.store.DeleteMedia(ctx, m); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	metrics.StorageFreeBytes.Set(float64(s.storage.GetFreeSpace()))
	return nil
}

func (s *Service) convert(upload *models.PendingUpload, buf *bytes.Buffer) error {
	src, err := upload.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	start := time.Now()
	err = s.converter.Convert(src, buf)
	metrics.ConversionDuration.Observe(time.Since(start).Seconds())
	return err
}

// deleteFile is the pre-delete hook; failures are logged and never returned
func (s *Service) deleteFile(ctx context.Context, m *models.Media) {
	if m.Path == "" || strings.Contains(m.Path, "://") {
		return
	}
	exists, err := s.storage.Exists(ctx, m.Path)
	if err != nil {
		logging.Warn().Err(err).Uint64("media_id", m.ID).Str("path", m.Path).Msg("could not check media file")
		return
	}
	if !exists {
		return
	}
	if err = s.storage.Delete(ctx, m.Path); err != nil {
		logging.Warn().Err(err).Uint64("media_id", m.ID).Str("path", m.Path).Msg("could not delete media file")
		return
	}
	metrics.MediaRemovedTotal.Inc()
}

// targetPath never returns the file the record currently points to, so a
// failed re-upload leaves the committed file untouched
func (s *Service) targetPath(dir, filename, current string) string {
	base := baseName(filename)
	p := dir + base + "." + s.converter.Extension()
	if p == current {
		p = dir + base + "-" + utils.RandHex(4) + "." + s.converter.Extension()
	}
	return p
}

// discard removes a file written for a record that was not committed
func (s *Service) discard(ctx context.Context, p, committed string) {
	if p == committed {
		return
	}
	if err := s.storage.Delete(ctx, p); err != nil {
		logging.Error().Err(err).Str("path", p).Msg("orphan media file left behind")
	}
}

func normalizeDir(dir string) string {
	dir = strings.Trim(dir, "/")
	if dir == "" {
		return ""
	}
	return dir + "/"
}

func baseName(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	if base == "" || base == "." || base == "/" {
		return utils.RandHex(16)
	}
	return base
}
