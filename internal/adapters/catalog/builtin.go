// Package catalog provides the closed set of node types the engine can evaluate.
package catalog

import (
	"slices"
	"strings"

	"go.trai.ch/darkroom/internal/core/domain"
	"go.trai.ch/darkroom/internal/core/ports"
	"go.trai.ch/zerr"
)

// Builtin node type names.
const (
	TypeSolid     = "solid"
	TypeInput     = "input"
	TypeTransform = "transform"
	TypeHSL       = "hsl"
	TypeBlur      = "blur"
	TypeSharpen   = "sharpen"
	TypeBlend     = "blend"
	TypeOutput    = "output"
)

// Standard port names shared across the builtin types.
const (
	PortImage   = "image"
	PortBase    = "base"
	PortOverlay = "overlay"
	PortMask    = "mask"
)

var _ ports.Catalog = (*Builtin)(nil)

// Builtin is the immutable catalog of builtin node types.
type Builtin struct {
	types map[string]*domain.NodeType
}

// New returns the builtin catalog.
func New() *Builtin {
	c := &Builtin{types: make(map[string]*domain.NodeType)}
	for _, nt := range builtinTypes() {
		c.types[nt.Name.String()] = nt
	}
	return c
}

// Lookup returns the node type with the given name.
func (c *Builtin) Lookup(name string) (*domain.NodeType, error) {
	nt, ok := c.types[name]
	if !ok {
		return nil, zerr.With(domain.ErrUnknownNodeType, "type", name)
	}
	return nt, nil
}

// Types returns all builtin types sorted by name.
func (c *Builtin) Types() []*domain.NodeType {
	res := make([]*domain.NodeType, 0, len(c.types))
	for _, nt := range c.types {
		res = append(res, nt)
	}
	slices.SortFunc(res, func(a, b *domain.NodeType) int {
		return strings.Compare(a.Name.String(), b.Name.String())
	})
	return res
}

func in(name string) domain.PortDef {
	return domain.PortDef{Name: domain.NewInternedString(name), Direction: domain.PortInput, Role: domain.RoleStandard}
}

func mask(name string) domain.PortDef {
	return domain.PortDef{Name: domain.NewInternedString(name), Direction: domain.PortInput, Role: domain.RoleMask}
}

func out(name string) domain.PortDef {
	return domain.PortDef{Name: domain.NewInternedString(name), Direction: domain.PortOutput, Role: domain.RoleStandard}
}

func floatParam(name string, def, lo, hi float64) domain.ParameterDef {
	return domain.ParameterDef{Name: name, Kind: domain.KindFloat, Default: domain.FloatValue(def), Min: lo, Max: hi, HasRange: true}
}

func intParam(name string, def, lo, hi int64) domain.ParameterDef {
	return domain.ParameterDef{
		Name: name, Kind: domain.KindInt, Default: domain.IntValue(def),
		Min: float64(lo), Max: float64(hi), HasRange: true,
	}
}

func enumParam(name string, values ...string) domain.ParameterDef {
	return domain.ParameterDef{Name: name, Kind: domain.KindEnum, Default: domain.EnumValue(values[0]), Values: values}
}

func builtinTypes() []*domain.NodeType {
	named := func(name string, pds []domain.PortDef, params ...domain.ParameterDef) *domain.NodeType {
		return &domain.NodeType{Name: domain.NewInternedString(name), Ports: pds, Parameters: params}
	}

	return []*domain.NodeType{
		named(TypeSolid, []domain.PortDef{out(PortImage)},
			domain.ParameterDef{
				Name: "color", Kind: domain.KindColor,
				Default: domain.ColorValue(domain.Color{R: 0x80, G: 0x80, B: 0x80, A: 0xff}),
			},
			intParam("width", 64, 1, 4096),
			intParam("height", 64, 1, 4096),
		),
		named(TypeInput, []domain.PortDef{out(PortImage)}),
		named(TypeTransform, []domain.PortDef{in(PortImage), out(PortImage)},
			enumParam("flip", "none", "horizontal", "vertical"),
		),
		named(TypeHSL, []domain.PortDef{in(PortImage), out(PortImage)},
			floatParam("hue", 0, -180, 180),
			floatParam("saturation", 0, -1, 1),
			floatParam("lightness", 0, -1, 1),
		),
		named(TypeBlur, []domain.PortDef{in(PortImage), out(PortImage)},
			floatParam("radius", 1, 0, 64),
		),
		named(TypeSharpen, []domain.PortDef{in(PortImage), out(PortImage)},
			floatParam("amount", 1, 0, 5),
		),
		named(TypeBlend, []domain.PortDef{in(PortBase), in(PortOverlay), mask(PortMask), out(PortImage)},
			enumParam("mode", "normal", "multiply", "screen"),
			floatParam("opacity", 1, 0, 1),
			domain.ParameterDef{Name: "invert_mask", Kind: domain.KindBool, Default: domain.BoolValue(false)},
		),
		named(TypeOutput, []domain.PortDef{in(PortImage), out(PortImage)}),
	}
}
