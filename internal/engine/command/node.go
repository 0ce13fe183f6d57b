package command

import (
	"go.trai.ch/darkroom/internal/core/domain"
	"go.trai.ch/darkroom/internal/core/ports"
	"go.trai.ch/zerr"
)

// AddNode inserts a node.
type AddNode struct {
	node *domain.Node
}

// NewAddNode returns a command that inserts n. Undo removes the same node object.
func NewAddNode(n *domain.Node) *AddNode {
	return &AddNode{node: n}
}

// Name implements Command.
func (c *AddNode) Name() string { return "add node " + c.node.ID.String() }

// Node returns the node the command inserts.
func (c *AddNode) Node() *domain.Node { return c.node }

// Apply implements Command.
func (c *AddNode) Apply(g *domain.Graph) error {
	return g.AddNode(c.node)
}

// Revert implements Command. It fails if edges still reference the node,
// which only happens when commands were undone out of order.
func (c *AddNode) Revert(g *domain.Graph) error {
	if len(g.IncomingEdges(c.node.ID)) > 0 || len(g.OutgoingEdges(c.node.ID)) > 0 {
		return zerr.With(domain.ErrDanglingEdges, "node_id", c.node.ID.String())
	}
	_, err := g.RemoveNode(c.node.ID)
	return err
}

// RemoveNode removes a node with every incident edge, optionally splicing its
// primary input source to each primary output consumer.
type RemoveNode struct {
	id        domain.NodeID
	reconnect bool
	catalog   ports.Catalog

	captured bool
	node     *domain.Node
	removed  []indexedEdge
	spliced  []domain.Edge
}

// NewRemoveNode returns a command that removes the node with the given id.
func NewRemoveNode(catalog ports.Catalog, id domain.NodeID, reconnect bool) *RemoveNode {
	return &RemoveNode{id: id, reconnect: reconnect, catalog: catalog}
}

// Name implements Command.
func (c *RemoveNode) Name() string { return "remove node " + c.id.String() }

// Spliced returns the edges added by the reconnection. It is empty before the first Apply.
func (c *RemoveNode) Spliced() []domain.Edge { return c.spliced }

// Apply implements Command.
func (c *RemoveNode) Apply(g *domain.Graph) error {
	if !c.captured {
		if err := c.plan(g); err != nil {
			return err
		}
	}

	t := begin(g)
	for _, ie := range c.removed {
		if err := t.removeEdge(ie.edge); err != nil {
			return t.fail(err)
		}
	}
	if err := t.removeNode(c.id); err != nil {
		return t.fail(err)
	}
	for _, e := range c.spliced {
		if err := t.connect(e); err != nil {
			return t.fail(err)
		}
	}
	return nil
}

func (c *RemoveNode) plan(g *domain.Graph) error {
	n, ok := g.Node(c.id)
	if !ok {
		return zerr.With(domain.ErrNodeNotFound, "node_id", c.id.String())
	}
	incident := append(g.IncomingEdges(c.id), g.OutgoingEdges(c.id)...)

	var spliced []domain.Edge
	if c.reconnect {
		nt, err := c.catalog.Lookup(n.Type.String())
		if err != nil {
			return err
		}
		spliced = planBypass(g, nt, c.id).splices
	}

	c.node = n
	c.removed = capture(g, incident)
	c.spliced = spliced
	c.captured = true
	return nil
}

// Revert implements Command.
func (c *RemoveNode) Revert(g *domain.Graph) error {
	t := begin(g)
	for _, e := range c.spliced {
		if err := t.removeEdge(e); err != nil {
			return t.fail(err)
		}
	}
	if err := t.addNode(c.node); err != nil {
		return t.fail(err)
	}
	for _, ie := range c.removed {
		if err := t.insertEdge(ie); err != nil {
			return t.fail(err)
		}
	}
	return nil
}

// BypassNode wires a node's primary input source directly to each of its
// primary output consumers. The node stays in the graph.
type BypassNode struct {
	id      domain.NodeID
	catalog ports.Catalog

	captured  bool
	displaced []indexedEdge
	added     []domain.Edge
}

// NewBypassNode returns a command that bypasses the node with the given id.
func NewBypassNode(catalog ports.Catalog, id domain.NodeID) *BypassNode {
	return &BypassNode{id: id, catalog: catalog}
}

// Name implements Command.
func (c *BypassNode) Name() string { return "bypass node " + c.id.String() }

// Added returns the bypass edges inserted by the command.
func (c *BypassNode) Added() []domain.Edge { return c.added }

// Apply implements Command. A node without a connected primary input is a no-op.
func (c *BypassNode) Apply(g *domain.Graph) error {
	if !c.captured {
		n, ok := g.Node(c.id)
		if !ok {
			return zerr.With(domain.ErrNodeNotFound, "node_id", c.id.String())
		}
		nt, err := c.catalog.Lookup(n.Type.String())
		if err != nil {
			return err
		}
		p := planBypass(g, nt, c.id)
		c.displaced = capture(g, p.consumers)
		for _, e := range p.splices {
			if !g.HasEdge(e) {
				c.added = append(c.added, e)
			}
		}
		c.captured = true
	}

	t := begin(g)
	for _, ie := range c.displaced {
		if err := t.removeEdge(ie.edge); err != nil {
			return t.fail(err)
		}
	}
	for _, e := range c.added {
		if err := t.connect(e); err != nil {
			return t.fail(err)
		}
	}
	return nil
}

// Revert implements Command.
func (c *BypassNode) Revert(g *domain.Graph) error {
	t := begin(g)
	for _, e := range c.added {
		if err := t.removeEdge(e); err != nil {
			return t.fail(err)
		}
	}
	for _, ie := range c.displaced {
		if err := t.insertEdge(ie); err != nil {
			return t.fail(err)
		}
	}
	return nil
}

type bypassPlan struct {
	consumers []domain.Edge
	splices   []domain.Edge
}

// planBypass finds the edges leaving the node's primary output and the edges
// that link its primary input source to each of those consumers. Without a
// primary stream or a connected primary input the plan is empty.
func planBypass(g *domain.Graph, nt *domain.NodeType, id domain.NodeID) bypassPlan {
	in, out, ok := nt.PrimaryStream()
	if !ok {
		return bypassPlan{}
	}
	source, ok := g.FindIncomingEdge(id, in.Name)
	if !ok {
		return bypassPlan{}
	}

	var p bypassPlan
	for _, e := range g.OutgoingEdges(id) {
		if e.FromPort != out.Name {
			continue
		}
		p.consumers = append(p.consumers, e)
		p.splices = append(p.splices, domain.Edge{
			From:     source.From,
			FromPort: source.FromPort,
			To:       e.To,
			ToPort:   e.ToPort,
		})
	}
	return p
}
