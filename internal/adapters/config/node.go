package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/darkroom/internal/adapters/catalog"
	"go.trai.ch/darkroom/internal/core/ports"
)

// NodeID is the unique identifier for the document store Graft node.
const NodeID graft.ID = "adapter.document_store"

func init() {
	graft.Register(graft.Node[ports.DocumentStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{catalog.NodeID},
		Run: func(ctx context.Context) (ports.DocumentStore, error) {
			c, err := graft.Dep[ports.Catalog](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(c), nil
		},
	})
}
