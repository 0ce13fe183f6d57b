package domain

import (
	"math"
	"slices"

	"go.trai.ch/zerr"
)

// PortDirection tells whether a port consumes or produces an image.
type PortDirection string

const (
	// PortInput is a port that receives at most one incoming edge.
	PortInput PortDirection = "input"
	// PortOutput is a port that may fan out to many edges.
	PortOutput PortDirection = "output"
)

// PortRole distinguishes image streams from masks.
type PortRole string

const (
	// RoleStandard is a regular image stream.
	RoleStandard PortRole = "standard"
	// RoleMask is a single-channel mask stream.
	RoleMask PortRole = "mask"
)

// PortDef declares one port of a node type.
type PortDef struct {
	Name      InternedString
	Direction PortDirection
	Role      PortRole
}

// ParameterDef declares a parameter of a node type and its constraints.
type ParameterDef struct {
	Name    string
	Kind    ParameterKind
	Default ParameterValue
	// Min and Max bound float and int parameters when HasRange is set.
	Min, Max float64
	HasRange bool
	// Values lists the members of an enum parameter.
	Values []string
}

// Validate checks kind, range and enum membership of v against the definition.
func (d *ParameterDef) Validate(v ParameterValue) error {
	if v.Kind != d.Kind {
		return zerr.With(zerr.With(ErrInvalidParameter, "parameter", d.Name), "reason",
			"expected "+string(d.Kind)+", got "+string(v.Kind))
	}

	switch v.Kind {
	case KindFloat:
		if math.IsNaN(v.Float) || math.IsInf(v.Float, 0) {
			return zerr.With(zerr.With(ErrInvalidParameter, "parameter", d.Name), "reason", "value is not finite")
		}
		if d.HasRange && (v.Float < d.Min || v.Float > d.Max) {
			return d.outOfRange(v)
		}
	case KindInt:
		if d.HasRange && (float64(v.Int) < d.Min || float64(v.Int) > d.Max) {
			return d.outOfRange(v)
		}
	case KindEnum:
		if !slices.Contains(d.Values, v.Enum) {
			return zerr.With(zerr.With(ErrInvalidParameter, "parameter", d.Name), "reason",
				"value "+v.Enum+" is not one of the declared values")
		}
	case KindBool, KindColor:
	default:
		return zerr.With(zerr.With(ErrInvalidParameter, "parameter", d.Name), "reason", "unknown kind")
	}
	return nil
}

func (d *ParameterDef) outOfRange(v ParameterValue) error {
	return zerr.With(zerr.With(ErrInvalidParameter, "parameter", d.Name), "reason",
		"value "+v.String()+" is out of range")
}

// NodeType is a catalog entry: the ports and parameters shared by all nodes of one type.
type NodeType struct {
	Name       InternedString
	Ports      []PortDef
	Parameters []ParameterDef
}

// Port returns the port with the given name and direction.
func (nt *NodeType) Port(name InternedString, dir PortDirection) (PortDef, bool) {
	for _, p := range nt.Ports {
		if p.Name == name && p.Direction == dir {
			return p, true
		}
	}
	return PortDef{}, false
}

// Parameter returns the definition of the named parameter.
func (nt *NodeType) Parameter(name string) (*ParameterDef, bool) {
	for i := range nt.Parameters {
		if nt.Parameters[i].Name == name {
			return &nt.Parameters[i], true
		}
	}
	return nil, false
}

// InputPorts returns the input ports in declaration order.
func (nt *NodeType) InputPorts() []PortDef {
	return nt.portsByDirection(PortInput)
}

// OutputPorts returns the output ports in declaration order.
func (nt *NodeType) OutputPorts() []PortDef {
	return nt.portsByDirection(PortOutput)
}

// PrimaryStream returns the first declared input and output ports.
// ok is false when the type declares no input or no output.
func (nt *NodeType) PrimaryStream() (in, out PortDef, ok bool) {
	ins, outs := nt.InputPorts(), nt.OutputPorts()
	if len(ins) == 0 || len(outs) == 0 {
		return PortDef{}, PortDef{}, false
	}
	return ins[0], outs[0], true
}

func (nt *NodeType) portsByDirection(dir PortDirection) []PortDef {
	var res []PortDef
	for _, p := range nt.Ports {
		if p.Direction == dir {
			res = append(res, p)
		}
	}
	return res
}
