package metrics

import "go.trai.ch/darkroom/internal/core/ports"

// NoOp is a ports.Metrics that discards everything.
type NoOp struct{}

// CacheLookup does nothing.
func (NoOp) CacheLookup(bool) {}

// Generation does nothing.
func (NoOp) Generation(ports.GenerationOutcome) {}
