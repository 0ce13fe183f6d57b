// Package command implements reversible graph mutations and the undo/redo processor.
package command

import (
	"go.trai.ch/darkroom/internal/core/domain"
	"go.trai.ch/zerr"
)

// Command is a reversible graph mutation.
//
// Apply captures whatever pre-state Revert needs on its first call only, so
// a later redo replays the same plan. A failed Apply leaves the graph as it was.
type Command interface {
	// Name describes the command for diagnostics.
	Name() string
	// Apply performs the mutation.
	Apply(g *domain.Graph) error
	// Revert undoes a successful Apply.
	Revert(g *domain.Graph) error
}

// Processor runs commands against one graph and keeps the undo and redo stacks.
// It is not safe for concurrent use; the caller serializes access.
type Processor struct {
	graph *domain.Graph
	undo  []Command
	redo  []Command
}

// NewProcessor creates a processor over g. A nil graph starts empty.
func NewProcessor(g *domain.Graph) *Processor {
	if g == nil {
		g = domain.NewGraph()
	}
	return &Processor{graph: g}
}

// Graph returns the graph owned by the processor.
func (p *Processor) Graph() *domain.Graph {
	return p.graph
}

// Execute applies cmd. On success it is pushed to the undo stack and the redo
// stack is cleared; on failure neither stack changes.
func (p *Processor) Execute(cmd Command) error {
	if err := cmd.Apply(p.graph); err != nil {
		return err
	}
	p.undo = append(p.undo, cmd)
	p.redo = nil
	return nil
}

// Undo reverts the most recent command. It reports false when there is nothing to undo.
// A command whose inverse cannot apply stays on the undo stack.
func (p *Processor) Undo() (bool, error) {
	if len(p.undo) == 0 {
		return false, nil
	}
	cmd := p.undo[len(p.undo)-1]
	if err := cmd.Revert(p.graph); err != nil {
		return false, invariantViolation(err, "undo", cmd)
	}
	p.undo = p.undo[:len(p.undo)-1]
	p.redo = append(p.redo, cmd)
	return true, nil
}

// Redo re-applies the most recently undone command. It reports false when there is nothing to redo.
func (p *Processor) Redo() (bool, error) {
	if len(p.redo) == 0 {
		return false, nil
	}
	cmd := p.redo[len(p.redo)-1]
	if err := cmd.Apply(p.graph); err != nil {
		return false, invariantViolation(err, "redo", cmd)
	}
	p.redo = p.redo[:len(p.redo)-1]
	p.undo = append(p.undo, cmd)
	return true, nil
}

// CanUndo reports whether Undo has a command to revert.
func (p *Processor) CanUndo() bool {
	return len(p.undo) > 0
}

// CanRedo reports whether Redo has a command to re-apply.
func (p *Processor) CanRedo() bool {
	return len(p.redo) > 0
}

// Reset replaces the graph and clears both stacks.
func (p *Processor) Reset(g *domain.Graph) {
	p.graph = g
	p.undo = nil
	p.redo = nil
}

func invariantViolation(cause error, op string, cmd Command) error {
	err := zerr.Wrap(cause, domain.ErrInvariantViolation.Error())
	err = zerr.With(err, "operation", op)
	return zerr.With(err, "command", cmd.Name())
}
