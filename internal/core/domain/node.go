package domain

import (
	"fmt"
	"maps"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.trai.ch/zerr"
)

// NodeID identifies a node for its whole lifetime. It is compared by value.
type NodeID string

// NewNodeID returns a fresh random node identifier.
func NewNodeID() NodeID {
	return NodeID(uuid.NewString())
}

// String returns the identifier as a string.
func (id NodeID) String() string {
	return string(id)
}

// ParameterKind is the type tag of a ParameterValue.
type ParameterKind string

const (
	// KindFloat is a 64-bit floating point parameter.
	KindFloat ParameterKind = "float"
	// KindInt is a 64-bit integer parameter.
	KindInt ParameterKind = "int"
	// KindBool is a boolean parameter.
	KindBool ParameterKind = "bool"
	// KindEnum is a string parameter restricted to a declared set of values.
	KindEnum ParameterKind = "enum"
	// KindColor is an RGBA color parameter.
	KindColor ParameterKind = "color"
)

// Color is an 8-bit per channel RGBA color.
type Color struct {
	R, G, B, A uint8
}

// String formats the color as #rrggbbaa.
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// ParseColor parses #rrggbb or #rrggbbaa.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return Color{}, zerr.With(zerr.New("malformed color"), "value", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, zerr.With(zerr.Wrap(err, "malformed color"), "value", s)
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// ParameterValue is a tagged parameter value. Only the field matching Kind is meaningful.
type ParameterValue struct {
	Kind  ParameterKind
	Float float64
	Int   int64
	Bool  bool
	Enum  string
	Color Color
}

// FloatValue returns a float parameter value.
func FloatValue(v float64) ParameterValue { return ParameterValue{Kind: KindFloat, Float: v} }

// IntValue returns an integer parameter value.
func IntValue(v int64) ParameterValue { return ParameterValue{Kind: KindInt, Int: v} }

// BoolValue returns a boolean parameter value.
func BoolValue(v bool) ParameterValue { return ParameterValue{Kind: KindBool, Bool: v} }

// EnumValue returns an enum parameter value.
func EnumValue(v string) ParameterValue { return ParameterValue{Kind: KindEnum, Enum: v} }

// ColorValue returns a color parameter value.
func ColorValue(c Color) ParameterValue { return ParameterValue{Kind: KindColor, Color: c} }

// Canonical returns the canonical text form of the value, prefixed by its kind.
// Two values are equal if and only if their canonical forms are equal.
func (v ParameterValue) Canonical() string {
	return string(v.Kind) + ":" + v.String()
}

// String formats the value without its kind.
func (v ParameterValue) String() string {
	switch v.Kind {
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindEnum:
		return v.Enum
	case KindColor:
		return v.Color.String()
	default:
		return ""
	}
}

// Node is a processing step in the graph. Nodes are owned by the Graph and
// mutated only through editor commands.
type Node struct {
	ID         NodeID
	Type       InternedString
	Parameters map[string]ParameterValue
}

// NewNode creates a node of the given type with its parameters seeded from
// the type's defaults.
func NewNode(id NodeID, nt *NodeType) *Node {
	params := make(map[string]ParameterValue, len(nt.Parameters))
	for _, def := range nt.Parameters {
		params[def.Name] = def.Default
	}
	return &Node{
		ID:         id,
		Type:       nt.Name,
		Parameters: params,
	}
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	return &Node{
		ID:         n.ID,
		Type:       n.Type,
		Parameters: maps.Clone(n.Parameters),
	}
}

// Parameter returns the named parameter value.
func (n *Node) Parameter(name string) (ParameterValue, bool) {
	v, ok := n.Parameters[name]
	return v, ok
}
