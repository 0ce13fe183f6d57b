// Package cas implements the content addressed result cache.
package cas

import (
	"sync"

	"go.trai.ch/darkroom/internal/core/domain"
	"go.trai.ch/darkroom/internal/core/ports"
)

var _ ports.ResultCache = (*Store)(nil)

// Store implements ports.ResultCache in memory. Images are cloned on the way
// in and on the way out, so callers never share a buffer with the cache.
type Store struct {
	mu      sync.RWMutex
	entries map[domain.CacheKey]*domain.Image
}

// NewStore creates an empty result cache.
func NewStore() *Store {
	return &Store{
		entries: make(map[domain.CacheKey]*domain.Image),
	}
}

// Get returns a copy of the image stored under key.
func (s *Store) Get(key domain.CacheKey) (*domain.Image, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	img, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	return img.Clone(), true
}

// Put stores a copy of img under key. A nil image is not stored.
func (s *Store) Put(key domain.CacheKey, img *domain.Image) {
	if img == nil {
		return
	}
	clone := img.Clone()

	s.mu.Lock()
	s.entries[key] = clone
	s.mu.Unlock()
}

// Clear drops every entry.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.entries)
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
