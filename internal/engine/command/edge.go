package command

import (
	"go.trai.ch/darkroom/internal/core/domain"
	"go.trai.ch/darkroom/internal/core/ports"
	"go.trai.ch/zerr"
)

// Connect inserts an edge, replacing whatever edge fed the destination input.
type Connect struct {
	edge    domain.Edge
	catalog ports.Catalog

	captured  bool
	displaced *indexedEdge
}

// NewConnect returns a command that inserts e.
func NewConnect(catalog ports.Catalog, e domain.Edge) *Connect {
	return &Connect{edge: e, catalog: catalog}
}

// Name implements Command.
func (c *Connect) Name() string { return "connect " + c.edge.String() }

// Displaced returns the edge the connection replaced, if any.
func (c *Connect) Displaced() (domain.Edge, bool) {
	if c.displaced == nil {
		return domain.Edge{}, false
	}
	return c.displaced.edge, true
}

// Apply implements Command. A rejected connection leaves the graph unchanged.
func (c *Connect) Apply(g *domain.Graph) error {
	if err := c.checkPorts(g); err != nil {
		return err
	}
	if g.HasEdge(c.edge) {
		return zerr.With(domain.ErrEdgeAlreadyExists, "edge", c.edge.String())
	}

	if !c.captured {
		if prev, ok := g.FindIncomingEdge(c.edge.To, c.edge.ToPort); ok {
			c.displaced = &indexedEdge{edge: prev, index: g.EdgeIndex(prev)}
		}
		c.captured = true
	}

	t := begin(g)
	if c.displaced != nil {
		if err := t.removeEdge(c.displaced.edge); err != nil {
			return t.fail(err)
		}
	}
	if err := t.connect(c.edge); err != nil {
		return t.fail(err)
	}
	return nil
}

func (c *Connect) checkPorts(g *domain.Graph) error {
	endpoints := []struct {
		id   domain.NodeID
		port domain.InternedString
		dir  domain.PortDirection
	}{
		{c.edge.From, c.edge.FromPort, domain.PortOutput},
		{c.edge.To, c.edge.ToPort, domain.PortInput},
	}
	for _, ep := range endpoints {
		n, ok := g.Node(ep.id)
		if !ok {
			return zerr.With(domain.ErrNodeNotFound, "node_id", ep.id.String())
		}
		nt, err := c.catalog.Lookup(n.Type.String())
		if err != nil {
			return err
		}
		if _, ok := nt.Port(ep.port, ep.dir); !ok {
			err := zerr.With(domain.ErrUnknownPort, "node_id", ep.id.String())
			return zerr.With(zerr.With(err, "port", ep.port.String()), "direction", string(ep.dir))
		}
	}
	return nil
}

// Revert implements Command.
func (c *Connect) Revert(g *domain.Graph) error {
	t := begin(g)
	if err := t.removeEdge(c.edge); err != nil {
		return t.fail(err)
	}
	if c.displaced != nil {
		if err := t.insertEdge(*c.displaced); err != nil {
			return t.fail(err)
		}
	}
	return nil
}

// Disconnect removes an edge.
type Disconnect struct {
	edge     domain.Edge
	captured bool
	index    int
}

// NewDisconnect returns a command that removes e.
func NewDisconnect(e domain.Edge) *Disconnect {
	return &Disconnect{edge: e}
}

// Name implements Command.
func (c *Disconnect) Name() string { return "disconnect " + c.edge.String() }

// Apply implements Command.
func (c *Disconnect) Apply(g *domain.Graph) error {
	idx := g.EdgeIndex(c.edge)
	if err := g.RemoveEdge(c.edge); err != nil {
		return err
	}
	if !c.captured {
		c.index = idx
		c.captured = true
	}
	return nil
}

// Revert implements Command.
func (c *Disconnect) Revert(g *domain.Graph) error {
	return g.InsertEdge(c.index, c.edge)
}
