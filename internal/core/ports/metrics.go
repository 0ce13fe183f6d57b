package ports

// GenerationOutcome classifies how a render generation ended.
type GenerationOutcome string

const (
	// OutcomeCompleted means the generation published its result.
	OutcomeCompleted GenerationOutcome = "completed"
	// OutcomeSuperseded means a newer request cancelled the generation.
	OutcomeSuperseded GenerationOutcome = "superseded"
	// OutcomeFailed means evaluation returned an error.
	OutcomeFailed GenerationOutcome = "failed"
)

// Metrics counts engine events.
//
//go:generate go run go.uber.org/mock/mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type Metrics interface {
	// CacheLookup counts one result cache lookup.
	CacheLookup(hit bool)
	// Generation counts one finished render generation.
	Generation(outcome GenerationOutcome)
}
