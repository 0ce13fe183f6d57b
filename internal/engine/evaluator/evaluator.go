// Package evaluator executes compiled plans against the node kernels and the result cache.
package evaluator

import (
	"context"
	"fmt"

	"go.trai.ch/darkroom/internal/core/domain"
	"go.trai.ch/darkroom/internal/core/ports"
	"go.trai.ch/zerr"
)

// Evaluator walks an execution plan, serving unchanged nodes from the cache.
type Evaluator struct {
	kernel    ports.Kernel
	cache     ports.ResultCache
	metrics   ports.Metrics
	telemetry ports.Telemetry
}

// New creates an Evaluator.
func New(kernel ports.Kernel, cache ports.ResultCache, metrics ports.Metrics, telemetry ports.Telemetry) *Evaluator {
	return &Evaluator{
		kernel:    kernel,
		cache:     cache,
		metrics:   metrics,
		telemetry: telemetry,
	}
}

// Request is one evaluation of a plan over a graph snapshot.
type Request struct {
	Graph *domain.Graph
	Plan  *domain.GraphExecutionPlan
	// External holds images supplied from outside the graph, by source node.
	External map[domain.NodeID]*domain.Image
	Quality  domain.Quality
}

// Result is the outcome of a completed evaluation.
type Result struct {
	// Image is the target's output. It is nil when the target produced nothing.
	Image    *domain.Image
	Statuses map[domain.NodeID]domain.NodeStatus
}

// Evaluate runs the plan in order. Cancellation is checked before every node
// and returned as the context error. A node producing no image is not an error.
func (e *Evaluator) Evaluate(ctx context.Context, req Request) (*Result, error) {
	quality := req.Quality
	if quality == "" {
		quality = domain.QualityPreview
	}

	outputs := make(map[domain.NodeID]*domain.Image, len(req.Plan.Order))
	res := &Result{Statuses: make(map[domain.NodeID]domain.NodeStatus, len(req.Plan.Order))}
	for _, id := range req.Plan.Order {
		res.Statuses[id] = domain.NodeStatusPending
	}

	for _, id := range req.Plan.Order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		node, ok := req.Graph.Node(id)
		if !ok {
			return nil, zerr.With(zerr.With(domain.ErrInvariantViolation, "reason", "plan node missing from graph"),
				"node_id", id.String())
		}

		status, err := e.evaluateNode(ctx, req, node, quality, outputs)
		if err != nil {
			res.Statuses[id] = domain.NodeStatusFailed
			return nil, err
		}
		res.Statuses[id] = status
	}

	res.Image = outputs[req.Plan.Target]
	return res, nil
}

func (e *Evaluator) evaluateNode(
	ctx context.Context,
	req Request,
	node *domain.Node,
	quality domain.Quality,
	outputs map[domain.NodeID]*domain.Image,
) (domain.NodeStatus, error) {
	fp := req.Plan.Fingerprints[node.ID]
	key := domain.PreviewKey(node.ID, fp, quality)

	ctx, vertex := e.telemetry.Record(ctx, node.ID.String()+" "+node.Type.String()+" "+fp.String())

	if img, hit := e.cache.Get(key); hit {
		e.metrics.CacheLookup(true)
		vertex.Cached()
		vertex.Complete(nil)
		outputs[node.ID] = img
		return domain.NodeStatusCached, nil
	}
	e.metrics.CacheLookup(false)

	img, err := e.runKernel(ctx, node, resolveInputs(req, node.ID, outputs))
	if err != nil {
		vertex.Complete(err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.NodeStatusFailed, ctxErr
		}
		wrapped := zerr.Wrap(err, domain.ErrKernelFailed.Error())
		wrapped = zerr.With(wrapped, "node_id", node.ID.String())
		return domain.NodeStatusFailed, zerr.With(wrapped, "type", node.Type.String())
	}
	vertex.Complete(nil)

	if img == nil {
		vertex.Log("no output")
		return domain.NodeStatusEmpty, nil
	}
	outputs[node.ID] = img
	e.cache.Put(key, img)
	return domain.NodeStatusEvaluated, nil
}

// runKernel calls the kernel and turns a panic into an error.
func (e *Evaluator) runKernel(ctx context.Context, node *domain.Node, in ports.KernelInputs) (img *domain.Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			img, err = nil, zerr.New(fmt.Sprintf("kernel panicked: %v", r))
		}
	}()
	return e.kernel.Evaluate(ctx, node, in)
}

// resolveInputs maps each connected input port to the upstream output, which
// may be nil when the upstream produced nothing.
func resolveInputs(req Request, id domain.NodeID, outputs map[domain.NodeID]*domain.Image) ports.KernelInputs {
	incoming := req.Graph.IncomingEdges(id)
	in := ports.KernelInputs{
		Ports:    make(map[domain.InternedString]*domain.Image, len(incoming)),
		External: req.External[id],
	}
	for _, edge := range incoming {
		in.Ports[edge.ToPort] = outputs[edge.From]
	}
	return in
}
