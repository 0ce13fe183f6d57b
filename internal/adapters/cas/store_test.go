package cas_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/darkroom/internal/adapters/cas"
	"go.trai.ch/darkroom/internal/core/domain"
)

func key(node, fp string) domain.CacheKey {
	return domain.PreviewKey(domain.NodeID(node), domain.Fingerprint(fp), domain.QualityPreview)
}

func TestStore_PutAndGet(t *testing.T) {
	store := cas.NewStore()

	img := domain.NewImage(1, 1)
	img.Set(0, 0, domain.Color{R: 10, A: 255})
	store.Put(key("n1", "aaaa"), img)

	got, ok := store.Get(key("n1", "aaaa"))
	require.True(t, ok)
	assert.Equal(t, img, got)
	assert.Equal(t, 1, store.Len())
}

func TestStore_ExactKeyMatch(t *testing.T) {
	store := cas.NewStore()
	store.Put(key("n1", "aaaa"), domain.NewImage(1, 1))

	tests := []struct {
		name string
		key  domain.CacheKey
	}{
		{"other fingerprint", key("n1", "bbbb")},
		{"other node", key("n2", "aaaa")},
		{"other quality", domain.PreviewKey("n1", "aaaa", "full")},
		{"other tile", domain.CacheKey{Node: "n1", Fingerprint: "aaaa", X: 1, Quality: domain.QualityPreview}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := store.Get(tt.key)
			assert.False(t, ok)
		})
	}
}

func TestStore_ClonesInAndOut(t *testing.T) {
	store := cas.NewStore()

	img := domain.NewImage(1, 1)
	store.Put(key("n1", "aaaa"), img)

	// mutating the original must not reach the cache
	img.Set(0, 0, domain.Color{R: 99})
	got, _ := store.Get(key("n1", "aaaa"))
	assert.Equal(t, domain.Color{}, got.At(0, 0))

	// mutating a hit must not reach the cache either
	got.Set(0, 0, domain.Color{G: 99})
	again, _ := store.Get(key("n1", "aaaa"))
	assert.Equal(t, domain.Color{}, again.At(0, 0))
}

func TestStore_NilImageNotStored(t *testing.T) {
	store := cas.NewStore()
	store.Put(key("n1", "aaaa"), nil)

	_, ok := store.Get(key("n1", "aaaa"))
	assert.False(t, ok)
	assert.Zero(t, store.Len())
}

func TestStore_Clear(t *testing.T) {
	store := cas.NewStore()
	store.Put(key("n1", "aaaa"), domain.NewImage(1, 1))
	store.Put(key("n2", "bbbb"), domain.NewImage(1, 1))

	store.Clear()

	assert.Zero(t, store.Len())
	_, ok := store.Get(key("n1", "aaaa"))
	assert.False(t, ok)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := cas.NewStore()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Go(func() {
			k := key("n", string(rune('a'+i)))
			for range 100 {
				store.Put(k, domain.NewImage(2, 2))
				_, _ = store.Get(k)
			}
		})
	}
	wg.Wait()

	assert.Equal(t, 8, store.Len())
}
