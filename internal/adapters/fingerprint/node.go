package fingerprint

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/darkroom/internal/core/ports"
)

// HasherNodeID is the unique identifier for the fingerprint hasher Graft node.
const HasherNodeID graft.ID = "adapter.hasher"

func init() {
	graft.Register(graft.Node[ports.Hasher]{
		ID:        HasherNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Hasher, error) {
			return NewHasher(), nil
		},
	})
}
