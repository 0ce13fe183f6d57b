package domain

import "go.trai.ch/zerr"

// GraphDocument is the serializable form of a graph plus its designated
// input and output nodes.
type GraphDocument struct {
	Nodes      []*Node
	Edges      []Edge
	InputNode  NodeID
	OutputNode NodeID
}

// Build turns the document into a new, validated Graph. The document's
// nodes are cloned. It fails if an edge references a missing node, if an
// input port has more than one incoming edge, if a designated node is
// missing, or if the edges form a cycle.
func (d *GraphDocument) Build() (*Graph, error) {
	g := NewGraph()
	for _, n := range d.Nodes {
		if err := g.AddNode(n.Clone()); err != nil {
			return nil, zerr.Wrap(err, ErrInvalidDocument.Error())
		}
	}
	for _, e := range d.Edges {
		if existing, ok := g.FindIncomingEdge(e.To, e.ToPort); ok && existing != e {
			return nil, zerr.With(zerr.Wrap(zerr.New("input port has more than one incoming edge"), ErrInvalidDocument.Error()),
				"port", e.To.String()+"."+e.ToPort.String())
		}
		if err := g.AddEdge(e); err != nil {
			return nil, zerr.Wrap(err, ErrInvalidDocument.Error())
		}
	}
	for _, id := range []NodeID{d.InputNode, d.OutputNode} {
		if id != "" && !g.HasNode(id) {
			return nil, zerr.With(zerr.Wrap(ErrNodeNotFound, ErrInvalidDocument.Error()), "node_id", id.String())
		}
	}
	if err := ValidateAcyclic(g); err != nil {
		return nil, zerr.Wrap(err, ErrInvalidDocument.Error())
	}
	return g, nil
}

// CaptureDocument snapshots a graph into a document.
func CaptureDocument(g *Graph, input, output NodeID) *GraphDocument {
	doc := &GraphDocument{
		Nodes:      make([]*Node, 0, g.NodeCount()),
		Edges:      g.Edges(),
		InputNode:  input,
		OutputNode: output,
	}
	for n := range g.Nodes() {
		doc.Nodes = append(doc.Nodes, n.Clone())
	}
	return doc
}

// Check validates the document against the node types returned by lookup:
// every node type must exist, every parameter must be declared and valid,
// and every edge must leave an output port and enter an input port.
func (d *GraphDocument) Check(lookup func(name string) (*NodeType, error)) error {
	types := make(map[NodeID]*NodeType, len(d.Nodes))
	for _, n := range d.Nodes {
		nt, err := lookup(n.Type.String())
		if err != nil {
			return zerr.With(zerr.Wrap(err, ErrInvalidDocument.Error()), "node_id", n.ID.String())
		}
		for name, v := range n.Parameters {
			def, ok := nt.Parameter(name)
			if !ok {
				err = zerr.With(ErrUnknownParameter, "parameter", name)
			} else {
				err = def.Validate(v)
			}
			if err != nil {
				return zerr.With(zerr.Wrap(err, ErrInvalidDocument.Error()), "node_id", n.ID.String())
			}
		}
		types[n.ID] = nt
	}

	for _, e := range d.Edges {
		if err := checkEndpoint(types, e.From, e.FromPort, PortOutput); err != nil {
			return zerr.With(zerr.Wrap(err, ErrInvalidDocument.Error()), "edge", e.String())
		}
		if err := checkEndpoint(types, e.To, e.ToPort, PortInput); err != nil {
			return zerr.With(zerr.Wrap(err, ErrInvalidDocument.Error()), "edge", e.String())
		}
	}
	return nil
}

func checkEndpoint(types map[NodeID]*NodeType, id NodeID, port InternedString, dir PortDirection) error {
	nt, ok := types[id]
	if !ok {
		return zerr.With(ErrMissingEndpoint, "node_id", id.String())
	}
	if _, ok := nt.Port(port, dir); !ok {
		return zerr.With(zerr.With(ErrUnknownPort, "port", id.String()+"."+port.String()), "direction", string(dir))
	}
	return nil
}
