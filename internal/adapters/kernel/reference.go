// Package kernel provides the reference pixel kernels for the builtin node types.
package kernel

import (
	"context"

	"github.com/disintegration/imaging"
	"go.trai.ch/darkroom/internal/adapters/catalog"
	"go.trai.ch/darkroom/internal/core/domain"
	"go.trai.ch/darkroom/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Kernel = (*Reference)(nil)

type kernelFunc func(node *domain.Node, in ports.KernelInputs) *domain.Image

// Reference implements ports.Kernel for every builtin node type.
// A node whose primary input is missing produces no image.
type Reference struct {
	kernels map[string]kernelFunc
}

// NewReference returns the reference kernel set.
func NewReference() *Reference {
	return &Reference{
		kernels: map[string]kernelFunc{
			catalog.TypeSolid:     solid,
			catalog.TypeInput:     input,
			catalog.TypeTransform: transform,
			catalog.TypeHSL:       hsl,
			catalog.TypeBlur:      blur,
			catalog.TypeSharpen:   sharpen,
			catalog.TypeBlend:     blend,
			catalog.TypeOutput:    passthrough,
		},
	}
}

// Evaluate runs the kernel registered for the node's type.
func (r *Reference) Evaluate(ctx context.Context, node *domain.Node, in ports.KernelInputs) (*domain.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fn, ok := r.kernels[node.Type.String()]
	if !ok {
		return nil, zerr.With(domain.ErrUnknownNodeType, "type", node.Type.String())
	}
	return fn(node, in), nil
}

func floatParam(node *domain.Node, name string) float64 {
	v, _ := node.Parameter(name)
	return v.Float
}

func solid(node *domain.Node, _ ports.KernelInputs) *domain.Image {
	w, _ := node.Parameter("width")
	h, _ := node.Parameter("height")
	c, _ := node.Parameter("color")

	img := domain.NewImage(int(w.Int), int(h.Int))
	for y := range img.Height {
		for x := range img.Width {
			img.Set(x, y, c.Color)
		}
	}
	return img
}

func input(_ *domain.Node, in ports.KernelInputs) *domain.Image {
	return in.External.Clone()
}

func passthrough(_ *domain.Node, in ports.KernelInputs) *domain.Image {
	return in.Port(catalog.PortImage).Clone()
}

func transform(node *domain.Node, in ports.KernelInputs) *domain.Image {
	src := in.Port(catalog.PortImage)
	if src == nil {
		return nil
	}
	flip, _ := node.Parameter("flip")
	switch flip.Enum {
	case "horizontal":
		return fromNRGBA(imaging.FlipH(toNRGBA(src)))
	case "vertical":
		return fromNRGBA(imaging.FlipV(toNRGBA(src)))
	default:
		return src.Clone()
	}
}

func blur(node *domain.Node, in ports.KernelInputs) *domain.Image {
	src := in.Port(catalog.PortImage)
	if src == nil {
		return nil
	}
	radius := floatParam(node, "radius")
	if radius <= 0 {
		return src.Clone()
	}
	return fromNRGBA(imaging.Blur(toNRGBA(src), radius))
}

func sharpen(node *domain.Node, in ports.KernelInputs) *domain.Image {
	src := in.Port(catalog.PortImage)
	if src == nil {
		return nil
	}
	amount := floatParam(node, "amount")
	if amount <= 0 {
		return src.Clone()
	}
	return fromNRGBA(imaging.Sharpen(toNRGBA(src), amount))
}

func hsl(node *domain.Node, in ports.KernelInputs) *domain.Image {
	src := in.Port(catalog.PortImage)
	if src == nil {
		return nil
	}

	out := rotateHue(src, floatParam(node, "hue"))
	if s := floatParam(node, "saturation"); s != 0 {
		out = fromNRGBA(imaging.AdjustSaturation(toNRGBA(out), s*100))
	}
	if l := floatParam(node, "lightness"); l != 0 {
		out = fromNRGBA(imaging.AdjustBrightness(toNRGBA(out), l*100))
	}
	return out
}
