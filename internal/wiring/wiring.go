// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/darkroom/internal/adapters/cas"
	_ "go.trai.ch/darkroom/internal/adapters/catalog"
	_ "go.trai.ch/darkroom/internal/adapters/config"
	_ "go.trai.ch/darkroom/internal/adapters/fingerprint"
	_ "go.trai.ch/darkroom/internal/adapters/kernel"
	_ "go.trai.ch/darkroom/internal/adapters/logger"
	_ "go.trai.ch/darkroom/internal/adapters/metrics"
	_ "go.trai.ch/darkroom/internal/adapters/telemetry"
	_ "go.trai.ch/darkroom/internal/adapters/telemetry/progrock"
	_ "go.trai.ch/darkroom/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/darkroom/internal/app"
	_ "go.trai.ch/darkroom/internal/engine/compiler"
	_ "go.trai.ch/darkroom/internal/engine/evaluator"
	_ "go.trai.ch/darkroom/internal/engine/scheduler"
)
