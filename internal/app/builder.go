package app

import (
	"go.trai.ch/darkroom/internal/adapters/metrics" //nolint:depguard // Exposed to the CLI layer
	"go.trai.ch/darkroom/internal/core/ports"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App       *App
	Logger    ports.Logger
	Metrics   *metrics.Prometheus
	Telemetry ports.Telemetry
}

// NewComponents creates a new Components struct from dependencies.
func NewComponents(app *App, logger ports.Logger, m *metrics.Prometheus, telemetry ports.Telemetry) *Components {
	return &Components{
		App:       app,
		Logger:    logger,
		Metrics:   m,
		Telemetry: telemetry,
	}
}
