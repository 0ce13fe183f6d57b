package catalog

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/darkroom/internal/core/ports"
)

// NodeID is the unique identifier for the node type catalog Graft node.
const NodeID graft.ID = "adapter.catalog"

func init() {
	graft.Register(graft.Node[ports.Catalog]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Catalog, error) {
			return New(), nil
		},
	})
}
