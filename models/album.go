package models

import (
	"context"

	"gorm.io/gorm"
)

type Album struct {
	ID        uint64 `gorm:"primaryKey" json:"id"`
	CreatedAt int64  `json:"created_at"`
	Name      string `gorm:"type:varchar(255);not null" json:"name"`
}

func (s *Store) FindAlbum(ctx context.Context, id uint64) (*Album, error) {
	var a Album
	if err := s.DB.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (s *Store) Albums(ctx context.Context) ([]Album, error) {
	var albums []Album
	err := s.DB.WithContext(ctx).Order("id ASC").Find(&albums).Error
	return albums, err
}

func (s *Store) SaveAlbum(ctx context.Context, a *Album) error {
	return s.DB.WithContext(ctx).Save(a).Error
}

// DeleteAlbum removes the album together with its media. Delete hooks run
// for every media row so their files go away too.
func (s *Store) DeleteAlbum(ctx context.Context, a *Album) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var media []Media
		if err := tx.Where("album_id = ?", a.ID).Find(&media).Error; err != nil {
			return err
		}
		for i := range media {
			s.beforeMediaDelete(ctx, &media[i])
		}
		if err := tx.Where("album_id = ?", a.ID).Delete(&Media{}).Error; err != nil {
			return err
		}
		return tx.Delete(a).Error
	})
}
