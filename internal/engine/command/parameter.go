package command

import (
	"go.trai.ch/darkroom/internal/core/domain"
	"go.trai.ch/darkroom/internal/core/ports"
	"go.trai.ch/zerr"
)

// SetParameter assigns a validated parameter value.
type SetParameter struct {
	id      domain.NodeID
	name    string
	value   domain.ParameterValue
	catalog ports.Catalog

	captured bool
	previous domain.ParameterValue
}

// NewSetParameter returns a command that sets the named parameter of a node.
func NewSetParameter(catalog ports.Catalog, id domain.NodeID, name string, v domain.ParameterValue) *SetParameter {
	return &SetParameter{id: id, name: name, value: v, catalog: catalog}
}

// Name implements Command.
func (c *SetParameter) Name() string {
	return "set " + c.id.String() + "." + c.name + " = " + c.value.String()
}

// Apply implements Command.
func (c *SetParameter) Apply(g *domain.Graph) error {
	n, ok := g.Node(c.id)
	if !ok {
		return zerr.With(domain.ErrNodeNotFound, "node_id", c.id.String())
	}
	nt, err := c.catalog.Lookup(n.Type.String())
	if err != nil {
		return err
	}
	def, ok := nt.Parameter(c.name)
	if !ok {
		return zerr.With(zerr.With(domain.ErrUnknownParameter, "parameter", c.name), "type", nt.Name.String())
	}
	if err := def.Validate(c.value); err != nil {
		return zerr.With(err, "node_id", c.id.String())
	}

	if !c.captured {
		c.previous = n.Parameters[c.name]
		c.captured = true
	}
	n.Parameters[c.name] = c.value
	return nil
}

// Revert implements Command. The previous value is restored without validation.
func (c *SetParameter) Revert(g *domain.Graph) error {
	n, ok := g.Node(c.id)
	if !ok {
		return zerr.With(domain.ErrNodeNotFound, "node_id", c.id.String())
	}
	n.Parameters[c.name] = c.previous
	return nil
}
