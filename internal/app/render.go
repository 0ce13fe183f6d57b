package app

import (
	"context"
	"maps"
	"strconv"

	"go.trai.ch/darkroom/internal/core/domain"
	"go.trai.ch/darkroom/internal/engine/compiler"
	"go.trai.ch/darkroom/internal/engine/evaluator"
	"go.trai.ch/darkroom/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// snapshot is an immutable view of everything one render needs.
type snapshot struct {
	graph    *domain.Graph
	plan     *domain.GraphExecutionPlan
	external map[domain.NodeID]*domain.Image
}

// resolveTarget must be called with mu held.
func (a *App) resolveTarget(target domain.NodeID) (domain.NodeID, error) {
	if target == "" {
		target = a.outputNode
	}
	if target == "" {
		return "", domain.ErrNoTarget
	}
	return target, nil
}

// Plan compiles the execution plan for target, or for the output node when target is empty.
func (a *App) Plan(target domain.NodeID) (*domain.GraphExecutionPlan, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	target, err := a.resolveTarget(target)
	if err != nil {
		return nil, err
	}
	return a.compile(target)
}

// compile must be called with mu held.
func (a *App) compile(target domain.NodeID) (*domain.GraphExecutionPlan, error) {
	plan, err := a.deps.Compiler.Compile(a.processor.Graph(), target, compiler.WithExternalInputs(a.digests))
	if err != nil {
		return nil, a.reportInvariant(err)
	}
	return plan, nil
}

// snapshot must be called with mu held.
func (a *App) snapshot(target domain.NodeID) (*snapshot, error) {
	target, err := a.resolveTarget(target)
	if err != nil {
		return nil, err
	}
	plan, err := a.compile(target)
	if err != nil {
		return nil, err
	}
	return &snapshot{
		graph:    a.processor.Graph().Clone(),
		plan:     plan,
		external: maps.Clone(a.external),
	}, nil
}

// RequestRender compiles target against the current graph and schedules its
// evaluation, cancelling any render still in flight. Compilation errors are
// returned directly; evaluation outcomes are published to the preview stream.
func (a *App) RequestRender(ctx context.Context, target domain.NodeID) (*scheduler.Generation, error) {
	gen, _, err := a.request(ctx, target)
	return gen, err
}

// Render schedules a render of target and waits for it. It returns the frame
// that generation published. A render superseded by a newer request returns
// context.Canceled.
func (a *App) Render(ctx context.Context, target domain.NodeID) (domain.Frame, error) {
	gen, frame, err := a.request(ctx, target)
	if err != nil {
		return domain.Frame{}, err
	}
	if err := gen.Wait(ctx); err != nil {
		return domain.Frame{}, err
	}
	if gen.Status() != scheduler.StatusCompleted {
		return domain.Frame{}, context.Canceled
	}
	return *frame, nil
}

// request schedules a render. The returned frame is filled in when the
// generation publishes and may be read once it is done. mu is held until the
// generation is scheduled so a concurrent LoadDocument cancels it.
func (a *App) request(ctx context.Context, target domain.NodeID) (*scheduler.Generation, *domain.Frame, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap, err := a.snapshot(target)
	if err != nil {
		return nil, nil, err
	}

	frame := new(domain.Frame)
	gen := a.deps.Scheduler.ScheduleLatest(ctx, func(ctx context.Context, gen *scheduler.Generation) error {
		return a.evaluate(ctx, gen, snap, frame)
	})
	a.preview.rendering(gen.ID())
	return gen, frame, nil
}

func (a *App) evaluate(ctx context.Context, gen *scheduler.Generation, snap *snapshot, out *domain.Frame) error {
	a.evalMu.Lock()
	defer a.evalMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	order := make([]string, len(snap.plan.Order))
	for i, id := range snap.plan.Order {
		order[i] = id.String()
	}
	a.deps.Tracer.EmitPlan(ctx, order)

	res, err := a.deps.Evaluator.Evaluate(ctx, evaluator.Request{
		Graph:    snap.graph,
		Plan:     snap.plan,
		External: snap.external,
		Quality:  a.opts.Quality,
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		err = zerr.With(err, "generation", formatGeneration(gen.ID()))
		if gen.Publish(func() { a.preview.fail(gen.ID(), err) }) {
			a.deps.Logger.Error(err)
		}
		return err
	}

	frame := domain.NewFrame(gen.ID(), res.Image)
	gen.Publish(func() {
		*out = frame
		a.preview.publish(frame, res.Statuses)
	})
	return nil
}

func formatGeneration(id uint64) string {
	return strconv.FormatUint(id, 10)
}
