// Package metrics implements ports.Metrics with Prometheus counters.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.trai.ch/darkroom/internal/core/ports"
)

var _ ports.Metrics = (*Prometheus)(nil)

// Prometheus counts cache lookups and render generations on its own registry.
type Prometheus struct {
	registry    *prometheus.Registry
	cache       *prometheus.CounterVec
	generations *prometheus.CounterVec
}

// NewPrometheus creates the counters and registers them on a fresh registry.
func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "darkroom_cache_lookups_total",
			Help: "Result cache lookups by outcome",
		}, []string{"result"}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "darkroom_render_generations_total",
			Help: "Render generations by outcome",
		}, []string{"outcome"}),
	}
	p.registry.MustRegister(p.cache, p.generations)
	return p
}

// CacheLookup counts one cache lookup as a hit or a miss.
func (p *Prometheus) CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	p.cache.WithLabelValues(result).Inc()
}

// Generation counts one finished render generation.
func (p *Prometheus) Generation(outcome ports.GenerationOutcome) {
	p.generations.WithLabelValues(string(outcome)).Inc()
}

// Registry returns the registry holding the counters.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
