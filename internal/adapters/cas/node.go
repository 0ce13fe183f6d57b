package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/darkroom/internal/core/ports"
)

// NodeID is the unique identifier for the result cache Graft node.
const NodeID graft.ID = "adapter.result_cache"

func init() {
	graft.Register(graft.Node[ports.ResultCache]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ResultCache, error) {
			return NewStore(), nil
		},
	})
}
