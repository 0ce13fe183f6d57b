package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/darkroom/internal/adapters/cas"                //nolint:depguard // Wired in app layer
	"go.trai.ch/darkroom/internal/adapters/catalog"            //nolint:depguard // Wired in app layer
	"go.trai.ch/darkroom/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/darkroom/internal/adapters/fingerprint"        //nolint:depguard // Wired in app layer
	"go.trai.ch/darkroom/internal/adapters/kernel"             //nolint:depguard // Wired in app layer
	"go.trai.ch/darkroom/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/darkroom/internal/adapters/metrics"            //nolint:depguard // Wired in app layer
	"go.trai.ch/darkroom/internal/adapters/telemetry"          //nolint:depguard // Wired in app layer
	"go.trai.ch/darkroom/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/darkroom/internal/adapters/watcher"            //nolint:depguard // Wired in app layer
	"go.trai.ch/darkroom/internal/core/ports"
	"go.trai.ch/darkroom/internal/engine/compiler"
	"go.trai.ch/darkroom/internal/engine/evaluator"
	"go.trai.ch/darkroom/internal/engine/scheduler"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			catalog.NodeID,
			compiler.NodeID,
			evaluator.NodeID,
			scheduler.NodeID,
			cas.NodeID,
			fingerprint.HasherNodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
			config.NodeID,
			kernel.CodecNodeID,
			watcher.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			metrics.NodeID,
			progrock.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	var deps Dependencies
	var err error

	if deps.Catalog, err = graft.Dep[ports.Catalog](ctx); err != nil {
		return nil, err
	}
	if deps.Compiler, err = graft.Dep[*compiler.Compiler](ctx); err != nil {
		return nil, err
	}
	if deps.Evaluator, err = graft.Dep[*evaluator.Evaluator](ctx); err != nil {
		return nil, err
	}
	if deps.Scheduler, err = graft.Dep[*scheduler.Scheduler](ctx); err != nil {
		return nil, err
	}
	if deps.Cache, err = graft.Dep[ports.ResultCache](ctx); err != nil {
		return nil, err
	}
	if deps.Hasher, err = graft.Dep[ports.Hasher](ctx); err != nil {
		return nil, err
	}
	if deps.Logger, err = graft.Dep[ports.Logger](ctx); err != nil {
		return nil, err
	}
	if deps.Tracer, err = graft.Dep[ports.Tracer](ctx); err != nil {
		return nil, err
	}
	if deps.Documents, err = graft.Dep[ports.DocumentStore](ctx); err != nil {
		return nil, err
	}
	if deps.Codec, err = graft.Dep[ports.ImageCodec](ctx); err != nil {
		return nil, err
	}
	if deps.Watcher, err = graft.Dep[ports.Watcher](ctx); err != nil {
		return nil, err
	}

	return New(deps), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
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

	return NewComponents(app, log, m, telemetry), nil
}
