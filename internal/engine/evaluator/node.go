package evaluator

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/darkroom/internal/adapters/cas"                //nolint:depguard // Wired in engine wiring
	"go.trai.ch/darkroom/internal/adapters/kernel"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/darkroom/internal/adapters/metrics"            //nolint:depguard // Wired in engine wiring
	"go.trai.ch/darkroom/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/darkroom/internal/core/ports"
)

// NodeID is the unique identifier for the evaluator Graft node.
const NodeID graft.ID = "engine.evaluator"

func init() {
	graft.Register(graft.Node[*Evaluator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			kernel.NodeID,
			cas.NodeID,
			metrics.NodeID,
			progrock.NodeID,
		},
		Run: func(ctx context.Context) (*Evaluator, error) {
			k, err := graft.Dep[ports.Kernel](ctx)
			if err != nil {
				return nil, err
			}

			cache, err := graft.Dep[ports.ResultCache](ctx)
			if err != nil {
				return nil, err
			}

			m, err := graft.Dep[*metrics.Prometheus](ctx)
			if err != nil {
				return nil, err
			}

			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			return New(k, cache, m, telemetry), nil
		},
	})
}
