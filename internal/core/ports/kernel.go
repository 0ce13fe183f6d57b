package ports

import (
	"context"

	"go.trai.ch/darkroom/internal/core/domain"
)

// KernelInputs carries the resolved images a kernel reads.
// A port without a connected upstream, or whose upstream produced nothing, maps to nil.
type KernelInputs struct {
	Ports map[domain.InternedString]*domain.Image
	// External is the image supplied from outside the graph for source nodes.
	External *domain.Image
}

// Port returns the image connected to the named input port, or nil.
func (in KernelInputs) Port(name string) *domain.Image {
	return in.Ports[domain.NewInternedString(name)]
}

// Kernel evaluates a single node.
//
//go:generate go run go.uber.org/mock/mockgen -source=kernel.go -destination=mocks/mock_kernel.go -package=mocks
type Kernel interface {
	// Evaluate computes the node's output image from its inputs.
	// A nil image with a nil error means the node produced nothing.
	// Implementations must be deterministic in the node's parameters and inputs.
	Evaluate(ctx context.Context, node *domain.Node, inputs KernelInputs) (*domain.Image, error)
}
