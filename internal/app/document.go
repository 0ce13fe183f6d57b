package app

import (
	"go.trai.ch/darkroom/internal/core/domain"
	"go.trai.ch/zerr"
)

// CaptureDocument snapshots the graph and its designated nodes.
// Designated nodes no longer in the graph are omitted.
func (a *App) CaptureDocument() *domain.GraphDocument {
	a.mu.Lock()
	defer a.mu.Unlock()

	g := a.processor.Graph()
	keep := func(id domain.NodeID) domain.NodeID {
		if g.HasNode(id) {
			return id
		}
		return ""
	}
	return domain.CaptureDocument(g, keep(a.inputNode), keep(a.outputNode))
}

// LoadDocument replaces the graph with the document's. It clears undo and
// redo history, the result cache and every external input. An invalid
// document leaves all state untouched.
func (a *App) LoadDocument(doc *domain.GraphDocument) error {
	if err := doc.Check(a.deps.Catalog.Lookup); err != nil {
		return err
	}
	g, err := doc.Build()
	if err != nil {
		return err
	}

	a.mu.Lock()
	// Renders are scheduled under mu, so none of the old graph survives this.
	a.deps.Scheduler.Cancel()
	a.processor.Reset(g)
	clear(a.external)
	clear(a.digests)
	a.inputNode, a.outputNode = doc.InputNode, doc.OutputNode
	a.mu.Unlock()

	// Waits for a cancelled evaluation so it cannot refill the cleared cache.
	a.evalMu.Lock()
	a.deps.Cache.Clear()
	a.evalMu.Unlock()
	return nil
}

// SetExternalInput supplies the image a source node reads from outside the
// graph. Its digest is folded into the node's fingerprint. A nil image clears it.
func (a *App) SetExternalInput(id domain.NodeID, img *domain.Image) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.processor.Graph().HasNode(id) {
		return zerr.With(domain.ErrNodeNotFound, "node_id", id.String())
	}
	if img == nil {
		delete(a.external, id)
		delete(a.digests, id)
		return nil
	}
	a.external[id] = img.Clone()
	a.digests[id] = a.deps.Hasher.ImageDigest(img)
	return nil
}

// OpenProject loads a document file and, when inputPath is set, decodes it
// as the external image of the document's input node.
func (a *App) OpenProject(documentPath, inputPath string) error {
	doc, err := a.deps.Documents.Load(documentPath)
	if err != nil {
		return zerr.Wrap(err, "failed to load document")
	}
	if inputPath != "" && doc.InputNode == "" {
		return zerr.With(zerr.New("document declares no input node"), "path", documentPath)
	}

	var img *domain.Image
	if inputPath != "" {
		if img, err = a.deps.Codec.Decode(inputPath); err != nil {
			return zerr.Wrap(err, "failed to read input image")
		}
	}

	if err := a.LoadDocument(doc); err != nil {
		return zerr.With(err, "path", documentPath)
	}
	if img != nil {
		if err := a.SetExternalInput(doc.InputNode, img); err != nil {
			return err
		}
	}
	a.deps.Logger.Info("loaded " + documentPath)
	return nil
}

// SaveDocument writes the current graph to path.
func (a *App) SaveDocument(path string) error {
	if err := a.deps.Documents.Save(path, a.CaptureDocument()); err != nil {
		return zerr.Wrap(err, "failed to save document")
	}
	return nil
}

// WriteFrame encodes a published frame as an image file. Empty frames are rejected.
func (a *App) WriteFrame(path string, frame domain.Frame) error {
	if frame.Empty {
		return zerr.With(zerr.New("render produced no image"), "generation", formatGeneration(frame.Generation))
	}
	img := &domain.Image{Width: frame.Width, Height: frame.Height, Pix: frame.Pix}
	if err := a.deps.Codec.Encode(path, img); err != nil {
		return zerr.Wrap(err, "failed to write image")
	}
	return nil
}
