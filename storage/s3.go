package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"portfolio/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

const (
	presignViewURLFor = 15 * time.Minute
	// redirects must expire well before the URL they point to
	redirectCacheFor = presignViewURLFor - 5*time.Minute
)

type S3Storage struct {
	Bucket   string
	Prefix   string
	s3Client *s3.S3
}

func NewS3Storage(cfg config.StorageConfig) (*S3Storage, error) {
	awsConfig := aws.NewConfig().WithRegion(cfg.S3Region)
	if cfg.S3Endpoint != "" {
		awsConfig = awsConfig.WithEndpoint(cfg.S3Endpoint).WithS3ForcePathStyle(true)
	}
	if cfg.S3AccessKey != "" {
		awsConfig = awsConfig.WithCredentials(credentials.NewStaticCredentials(cfg.S3AccessKey, cfg.S3SecretKey, ""))
	}
	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, err
	}
	return &S3Storage{
		Bucket:   cfg.S3Bucket,
		Prefix:   strings.Trim(cfg.S3Prefix, "/"),
		s3Client: s3.New(sess),
	}, nil
}

func (s *S3Storage) GetRemotePath(path string) (string, error) {
	clean, err := cleanPath(path)
	if err != nil {
		return "", err
	}
	if s.Prefix == "" {
		return clean, nil
	}
	return s.Prefix + "/" + clean, nil
}

// EnsureDir is a no-op, S3 has no directories
func (s *S3Storage) EnsureDir(ctx context.Context, dir string) error {
	_, err := cleanPath(dir)
	return err
}

func (s *S3Storage) Save(ctx context.Context, path string, reader io.Reader) (int64, error) {
	key, err := s.GetRemotePath(path)
	if err != nil {
		return 0, err
	}
	counter := &countingReader{r: reader}
	uploader := s3manager.NewUploaderWithClient(s.s3Client)
	_, err = uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
		Body:   counter,
	})
	return counter.n, err
}

func (s *S3Storage) Delete(ctx context.Context, path string) error {
	key, err := s.GetRemotePath(path)
	if err != nil {
		return err
	}
	_, err = s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	return err
}

func (s *S3Storage) Exists(ctx context.Context, path string) (bool, error) {
	key, err := s.GetRemotePath(path)
	if err != nil {
		return false, err
	}
	_, err = s.s3Client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	var aerr awserr.RequestFailure
	if errors.As(err, &aerr) && aerr.StatusCode() == http.StatusNotFound {
		return false, nil
	}
	return err == nil, err
}

// Serve redirects to a short lived presigned URL
func (s *S3Storage) Serve(path string, request *http.Request, writer http.ResponseWriter) {
	key, err := s.GetRemotePath(path)
	if err != nil {
		http.NotFound(writer, request)
		return
	}
	req, _ := s.s3Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	url, err := req.Presign(presignViewURLFor)
	if err != nil {
		http.Error(writer, "storage unavailable", http.StatusBadGateway)
		return
	}
	writer.Header().Set("Cache-Control", "private, max-age="+strconv.Itoa(int(redirectCacheFor/time.Second)))
	http.Redirect(writer, request, url, http.StatusTemporaryRedirect)
}

// GetFreeSpace is unknown for S3
func (s *S3Storage) GetFreeSpace() uint64 {
	return 0
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
