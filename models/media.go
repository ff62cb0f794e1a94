package models

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"strings"
)

type Media struct {
	ID        uint64  `gorm:"primaryKey" json:"id"`
	CreatedAt int64   `gorm:"index" json:"created_at"`
	Path      string  `gorm:"type:varchar(255);not null" json:"path"` // relative to the storage root
	Title     string  `gorm:"type:varchar(255);not null" json:"title"`
	UserID    *uint64 `gorm:"index" json:"user_id"`
	User      *User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"user,omitempty"`
	AlbumID   *uint64 `gorm:"index" json:"album_id"`
	Album     *Album  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"album,omitempty"`

	// File is only set while an upload is being ingested
	File *PendingUpload `gorm:"-" json:"-"`
}

func (Media) TableName() string {
	return "media"
}

// PendingUpload is an uploaded file that has not been stored yet
type PendingUpload struct {
	Filename string
	Size     int64
	open     func() (io.ReadCloser, error)
}

func (p *PendingUpload) Open() (io.ReadCloser, error) {
	return p.open()
}

func UploadFromHeader(fh *multipart.FileHeader) *PendingUpload {
	return &PendingUpload{
		Filename: fh.Filename,
		Size:     fh.Size,
		open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

func UploadFromBytes(filename string, data []byte) *PendingUpload {
	return &PendingUpload{
		Filename: filename,
		Size:     int64(len(data)),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

type MediaFilters struct {
	UserID     *uint64
	AlbumID    *uint64
	ActiveUser bool // only media whose owner is active
	Page       int
	Limit      int
}

// ListMedia returns one page of media, newest first
func (s *Store) ListMedia(ctx context.Context, f MediaFilters) (Page[Media], error) {
	query := s.DB.WithContext(ctx).Model(&Media{})
	if f.UserID != nil {
		query = query.Where("media.user_id = ?", *f.UserID)
	}
	if f.AlbumID != nil {
		query = query.Where("media.album_id = ?", *f.AlbumID)
	}
	if f.ActiveUser {
		query = query.Joins("JOIN users ON users.id = media.user_id").Where("users.active = ?", true)
	}
	return Paginate[Media](query.Order("media.id DESC"), f.Page, f.Limit, "User", "Album")
}

func (s *Store) FindMedia(ctx context.Context, id uint64) (*Media, error) {
	var m Media
	if err := s.DB.WithContext(ctx).Preload("User").Preload("Album").First(&m, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

// DeleteMedia runs the delete hooks and removes the row
func (s *Store) DeleteMedia(ctx context.Context, m *Media) error {
	s.beforeMediaDelete(ctx, m)
	return s.DB.WithContext(ctx).Delete(&Media{}, m.ID).Error
}

// URL is where the file is served from; seeded media may point elsewhere
func (m *Media) URL() string {
	if strings.Contains(m.Path, "://") {
		return m.Path
	}
	return "/" + m.Path
}
