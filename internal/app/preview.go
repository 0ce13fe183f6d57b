package app

import (
	"sync"

	"go.trai.ch/darkroom/internal/core/domain"
)

// RenderState is the coarse state of the most recent render.
type RenderState string

const (
	// StateIdle indicates nothing has been rendered yet.
	StateIdle RenderState = "idle"
	// StateRendering indicates a generation is in flight.
	StateRendering RenderState = "rendering"
	// StateCompleted indicates the latest generation published a frame.
	StateCompleted RenderState = "completed"
	// StateFailed indicates the latest generation failed; the last frame is unchanged.
	StateFailed RenderState = "failed"
)

// RenderStatus describes the most recent render generation.
type RenderStatus struct {
	Generation uint64
	State      RenderState
	// Message is the failure text when State is StateFailed.
	Message string
	Nodes   map[domain.NodeID]domain.NodeStatus
}

// Preview fans published frames out to subscribers and remembers the last one.
type Preview struct {
	mu      sync.Mutex
	subs    map[int]chan domain.Frame
	nextSub int
	last    domain.Frame
	hasLast bool
	status  RenderStatus
}

// NewPreview creates an empty preview stream.
func NewPreview() *Preview {
	return &Preview{
		subs:   make(map[int]chan domain.Frame),
		status: RenderStatus{State: StateIdle},
	}
}

// Subscribe returns a channel of published frames and a function that ends
// the subscription and closes the channel. A subscriber that falls behind
// loses older frames, never the newest.
func (p *Preview) Subscribe(buffer int) (<-chan domain.Frame, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch := make(chan domain.Frame, max(buffer, 1))
	id := p.nextSub
	p.nextSub++
	p.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			delete(p.subs, id)
			close(ch)
		})
	}
}

// LastFrame returns the most recently published frame.
func (p *Preview) LastFrame() (domain.Frame, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last, p.hasLast
}

// Status returns the status of the most recent render.
func (p *Preview) Status() RenderStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// rendering marks generation as in flight unless that generation or a newer
// one has already reported.
func (p *Preview) rendering(generation uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if generation <= p.status.Generation && p.status.State != StateIdle {
		return
	}
	p.status = RenderStatus{Generation: generation, State: StateRendering}
}

func (p *Preview) publish(frame domain.Frame, nodes map[domain.NodeID]domain.NodeStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.last, p.hasLast = frame, true
	p.status = RenderStatus{Generation: frame.Generation, State: StateCompleted, Nodes: nodes}
	for _, ch := range p.subs {
		select {
		case ch <- frame:
			continue
		default:
		}
		// Drop the oldest frame to make room for this one.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- frame:
		default:
		}
	}
}

func (p *Preview) fail(generation uint64, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = RenderStatus{Generation: generation, State: StateFailed, Message: err.Error()}
}
