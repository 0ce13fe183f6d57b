package compiler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/darkroom/internal/adapters/fingerprint" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/darkroom/internal/core/ports"
)

// NodeID is the unique identifier for the compiler Graft node.
const NodeID graft.ID = "engine.compiler"

func init() {
	graft.Register(graft.Node[*Compiler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fingerprint.HasherNodeID},
		Run: func(ctx context.Context) (*Compiler, error) {
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			return New(hasher), nil
		},
	})
}
