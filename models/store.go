package models

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already in use")
)

// MediaHook is called right before a media row is deleted
type MediaHook func(ctx context.Context, m *Media)

type Store struct {
	DB *gorm.DB

	mu    sync.RWMutex
	hooks []MediaHook
}

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// OnBeforeMediaDelete registers fn to run before every media deletion,
// including the ones caused by deleting an album
func (s *Store) OnBeforeMediaDelete(fn MediaHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

func (s *Store) beforeMediaDelete(ctx context.Context, m *Media) {
	s.mu.RLock()
	hooks := s.hooks
	s.mu.RUnlock()
	for _, fn := range hooks {
		fn(ctx, m)
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
