// Package scheduler implements the latest-wins render scheduler.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.trai.ch/darkroom/internal/core/ports"
	"go.trai.ch/zerr"
)

// Status is the lifecycle state of a generation.
type Status int32

const (
	// StatusRunning indicates the work is still executing.
	StatusRunning Status = iota
	// StatusCompleted indicates the work finished and was not superseded.
	StatusCompleted
	// StatusSuperseded indicates a newer request or Cancel ended the work.
	StatusSuperseded
	// StatusFailed indicates the work returned an error.
	StatusFailed
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusSuperseded:
		return "superseded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrWorkPanicked is the error of a generation whose work panicked.
var ErrWorkPanicked = zerr.New("render work panicked")

// Work is one unit of render work. It must stop promptly once ctx is done.
type Work func(ctx context.Context, gen *Generation) error

// Scheduler runs at most one current generation. Scheduling new work cancels
// the previous generation, and only the current generation may publish.
type Scheduler struct {
	tracer  ports.Tracer
	metrics ports.Metrics

	mu      sync.Mutex
	current *Generation
	nextID  uint64
	wg      sync.WaitGroup
}

// NewScheduler creates a new Scheduler.
func NewScheduler(tracer ports.Tracer, metrics ports.Metrics) *Scheduler {
	return &Scheduler{tracer: tracer, metrics: metrics}
}

// ScheduleLatest installs work as the current generation, cancels the previous
// one and runs work on its own goroutine.
func (s *Scheduler) ScheduleLatest(ctx context.Context, work Work) *Generation {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	genCtx, cancel := context.WithCancel(ctx)
	gen := &Generation{
		id:     s.nextID,
		ctx:    genCtx,
		cancel: cancel,
		done:   make(chan struct{}),
		s:      s,
	}

	if prev := s.current; prev != nil {
		prev.cancel()
	}
	s.current = gen

	s.wg.Go(func() { s.run(gen, work) })
	return gen
}

func (s *Scheduler) run(gen *Generation, work Work) {
	defer close(gen.done)
	defer gen.cancel()

	ctx, span := s.tracer.Start(gen.ctx, "render.generation")
	defer span.End()
	span.SetAttribute("generation", gen.id)

	err := runWork(ctx, gen, work)

	var outcome ports.GenerationOutcome
	switch {
	case err != nil && !gen.cancelled(err):
		gen.err = err
		gen.status.Store(int32(StatusFailed))
		outcome = ports.OutcomeFailed
		span.RecordError(err)
	case gen.published.Load():
		gen.status.Store(int32(StatusCompleted))
		outcome = ports.OutcomeCompleted
	case gen.ctx.Err() != nil:
		// Expected when a newer request arrives; never surfaced as an error.
		gen.status.Store(int32(StatusSuperseded))
		outcome = ports.OutcomeSuperseded
	default:
		gen.status.Store(int32(StatusCompleted))
		outcome = ports.OutcomeCompleted
	}
	span.SetAttribute("outcome", string(outcome))
	s.metrics.Generation(outcome)
}

// runWork calls work and turns a panic into an error so the generation fails
// instead of the process.
func runWork(ctx context.Context, gen *Generation, work Work) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = zerr.With(ErrWorkPanicked, "panic", fmt.Sprint(r))
		}
	}()
	return work(ctx, gen)
}

// Current returns the most recently scheduled generation, or nil.
func (s *Scheduler) Current() *Generation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Cancel ends the current generation.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.current.cancel()
	}
}

// Wait blocks until every scheduled generation has returned.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// Close cancels the current generation and waits for all work to return.
func (s *Scheduler) Close() {
	s.Cancel()
	s.Wait()
}

// Generation is one scheduled unit of work.
type Generation struct {
	id     uint64
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	s      *Scheduler

	status    atomic.Int32
	published atomic.Bool
	// err is written before done is closed.
	err error
}

// ID returns the generation number. Numbers increase with every request.
func (g *Generation) ID() uint64 {
	return g.id
}

// Status returns the current lifecycle state.
func (g *Generation) Status() Status {
	return Status(g.status.Load())
}

// Done is closed when the work has returned and the status is final.
func (g *Generation) Done() <-chan struct{} {
	return g.done
}

// Wait blocks until the generation is done or ctx ends, and returns the work
// error. A superseded generation returns nil.
func (g *Generation) Wait(ctx context.Context) error {
	select {
	case <-g.done:
		return g.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the work error once the generation is done.
func (g *Generation) Err() error {
	select {
	case <-g.done:
		return g.err
	default:
		return nil
	}
}

// cancelled reports whether err is the generation's own cancellation.
func (g *Generation) cancelled(err error) bool {
	return g.ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded))
}

// Publish runs fn only while g is the current, uncancelled generation, and
// reports whether it ran. fn runs under the scheduler lock and must not call
// back into the scheduler.
func (g *Generation) Publish(fn func()) bool {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()

	if g.s.current != g || g.ctx.Err() != nil {
		return false
	}
	fn()
	g.published.Store(true)
	return true
}
