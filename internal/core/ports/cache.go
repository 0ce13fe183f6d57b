package ports

import "go.trai.ch/darkroom/internal/core/domain"

// ResultCache stores evaluated node images keyed by fingerprint.
// Implementations must be safe for concurrent use.
//
//go:generate go run go.uber.org/mock/mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type ResultCache interface {
	// Get returns the image stored under key.
	Get(key domain.CacheKey) (*domain.Image, bool)
	// Put stores img under key, replacing any previous entry.
	Put(key domain.CacheKey, img *domain.Image)
	// Clear drops every entry.
	Clear()
	// Len returns the number of entries.
	Len() int
}
