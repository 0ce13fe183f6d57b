package app

import (
	"context"
	"errors"

	"go.trai.ch/darkroom/internal/adapters/watcher" //nolint:depguard // Debouncer is shared with the watcher adapter
	"go.trai.ch/darkroom/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// WatchOptions configures Watch.
type WatchOptions struct {
	Document string
	// Input is an optional image file for the document's input node.
	Input string
	// Target overrides the document's output node.
	Target domain.NodeID
}

// Watch loads the project, renders it, and reloads and re-renders whenever
// the document or input file changes. Bursts of changes coalesce into one
// reload. A document that fails to load is logged and the previous graph
// stays active. Watch returns when ctx ends.
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	if err := a.OpenProject(opts.Document, opts.Input); err != nil {
		return err
	}
	if _, err := a.RequestRender(ctx, opts.Target); err != nil {
		return err
	}

	paths := []string{opts.Document}
	if opts.Input != "" {
		paths = append(paths, opts.Input)
	}
	if err := a.deps.Watcher.Start(ctx, paths...); err != nil {
		return zerr.Wrap(err, "failed to start watcher")
	}

	debouncer := watcher.NewDebouncer(a.opts.Debounce, func(changed []string) {
		a.reload(ctx, opts, changed)
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for event := range a.deps.Watcher.Events() {
			debouncer.Add(event.Path)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		// Stop returns after any in-flight reload, so Close waits on all its renders.
		debouncer.Stop()
		a.deps.Scheduler.Close()
		return a.deps.Watcher.Stop()
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (a *App) reload(ctx context.Context, opts WatchOptions, changed []string) {
	if ctx.Err() != nil {
		return
	}
	for _, path := range changed {
		a.deps.Logger.Info("changed " + path)
	}
	if err := a.OpenProject(opts.Document, opts.Input); err != nil {
		a.deps.Logger.Error(err)
		return
	}
	if _, err := a.RequestRender(ctx, opts.Target); err != nil {
		a.deps.Logger.Error(err)
	}
}
