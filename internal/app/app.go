// Package app implements the application layer for darkroom.
package app

import (
	"errors"
	"sync"
	"time"

	"go.trai.ch/darkroom/internal/core/domain"
	"go.trai.ch/darkroom/internal/core/ports"
	"go.trai.ch/darkroom/internal/engine/command"
	"go.trai.ch/darkroom/internal/engine/compiler"
	"go.trai.ch/darkroom/internal/engine/evaluator"
	"go.trai.ch/darkroom/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// DefaultDebounce is the default window for coalescing document changes in watch mode.
const DefaultDebounce = 150 * time.Millisecond

// Options tune the engine.
type Options struct {
	// Quality labels cached results. Empty means domain.QualityPreview.
	Quality domain.Quality
	// Debounce is the watch mode coalescing window.
	Debounce time.Duration
}

// DefaultOptions returns the engine defaults.
func DefaultOptions() Options {
	return Options{
		Quality:  domain.QualityPreview,
		Debounce: DefaultDebounce,
	}
}

// Dependencies groups the collaborators of an App.
type Dependencies struct {
	Catalog   ports.Catalog
	Compiler  *compiler.Compiler
	Evaluator *evaluator.Evaluator
	Scheduler *scheduler.Scheduler
	Cache     ports.ResultCache
	Hasher    ports.Hasher
	Logger    ports.Logger
	Tracer    ports.Tracer
	Documents ports.DocumentStore
	Codec     ports.ImageCodec
	Watcher   ports.Watcher
}

// App is the engine facade. Graph mutations and render snapshots are
// serialized by one lock, so a render sees a graph either before or after a
// command, never in between.
type App struct {
	deps Dependencies
	opts Options

	mu         sync.Mutex
	processor  *command.Processor
	external   map[domain.NodeID]*domain.Image
	digests    map[domain.NodeID]domain.Fingerprint
	inputNode  domain.NodeID
	outputNode domain.NodeID

	// evalMu keeps a cancelled generation from evaluating alongside its successor.
	evalMu sync.Mutex

	preview *Preview
}

// New creates a new App with an empty graph.
func New(deps Dependencies) *App {
	return &App{
		deps:      deps,
		opts:      DefaultOptions(),
		processor: command.NewProcessor(nil),
		external:  make(map[domain.NodeID]*domain.Image),
		digests:   make(map[domain.NodeID]domain.Fingerprint),
		preview:   NewPreview(),
	}
}

// WithOptions replaces the engine options.
func (a *App) WithOptions(opts Options) *App {
	if opts.Quality == "" {
		opts.Quality = domain.QualityPreview
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	a.opts = opts
	return a
}

// Options returns the engine options.
func (a *App) Options() Options {
	return a.opts
}

// Preview returns the preview publication stream.
func (a *App) Preview() *Preview {
	return a.preview
}

func (a *App) execute(cmd command.Command) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.processor.Execute(cmd)
}

// AddNode creates a node of the named type with default parameters and returns its id.
func (a *App) AddNode(typeName string) (domain.NodeID, error) {
	return a.AddNodeWithID(domain.NewNodeID(), typeName)
}

// AddNodeWithID is AddNode with a caller-chosen id.
func (a *App) AddNodeWithID(id domain.NodeID, typeName string) (domain.NodeID, error) {
	nt, err := a.deps.Catalog.Lookup(typeName)
	if err != nil {
		return "", err
	}
	if err := a.execute(command.NewAddNode(domain.NewNode(id, nt))); err != nil {
		return "", err
	}
	return id, nil
}

// RemoveNode removes a node and its edges, optionally splicing its primary stream.
func (a *App) RemoveNode(id domain.NodeID, reconnect bool) error {
	return a.execute(command.NewRemoveNode(a.deps.Catalog, id, reconnect))
}

// BypassNode wires a node's primary input source straight to its consumers.
func (a *App) BypassNode(id domain.NodeID) error {
	return a.execute(command.NewBypassNode(a.deps.Catalog, id))
}

// Connect inserts an edge, replacing any edge already feeding the destination input.
func (a *App) Connect(e domain.Edge) error {
	return a.execute(command.NewConnect(a.deps.Catalog, e))
}

// Disconnect removes an edge.
func (a *App) Disconnect(e domain.Edge) error {
	return a.execute(command.NewDisconnect(e))
}

// SetParameter validates and assigns a node parameter.
func (a *App) SetParameter(id domain.NodeID, name string, v domain.ParameterValue) error {
	return a.execute(command.NewSetParameter(a.deps.Catalog, id, name, v))
}

// Undo reverts the most recent command. It reports false when there was nothing to undo.
func (a *App) Undo() (bool, error) {
	a.mu.Lock()
	ok, err := a.processor.Undo()
	a.mu.Unlock()
	return ok, a.reportInvariant(err)
}

// Redo re-applies the most recently undone command.
func (a *App) Redo() (bool, error) {
	a.mu.Lock()
	ok, err := a.processor.Redo()
	a.mu.Unlock()
	return ok, a.reportInvariant(err)
}

// CanUndo reports whether there is a command to undo.
func (a *App) CanUndo() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.processor.CanUndo()
}

// CanRedo reports whether there is a command to redo.
func (a *App) CanRedo() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.processor.CanRedo()
}

// Snapshot returns a deep copy of the current graph.
func (a *App) Snapshot() *domain.Graph {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.processor.Graph().Clone()
}

// SetDesignatedNodes records the document's input and output nodes.
func (a *App) SetDesignatedNodes(input, output domain.NodeID) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	g := a.processor.Graph()
	for _, id := range []domain.NodeID{input, output} {
		if id != "" && !g.HasNode(id) {
			return zerr.With(domain.ErrNodeNotFound, "node_id", id.String())
		}
	}
	a.inputNode, a.outputNode = input, output
	return nil
}

// reportInvariant logs invariant violations, which indicate a defect.
func (a *App) reportInvariant(err error) error {
	if err != nil && errors.Is(err, domain.ErrInvariantViolation) {
		a.deps.Logger.Error(err)
	}
	return err
}
