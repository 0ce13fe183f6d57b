package kernel

import (
	"go.trai.ch/darkroom/internal/adapters/catalog"
	"go.trai.ch/darkroom/internal/core/domain"
	"go.trai.ch/darkroom/internal/core/ports"
)

// blend composites overlay onto base over base's extent. With only one of
// the two connected it passes that one through.
func blend(node *domain.Node, in ports.KernelInputs) *domain.Image {
	base := in.Port(catalog.PortBase)
	overlay := in.Port(catalog.PortOverlay)
	switch {
	case base == nil:
		return overlay.Clone()
	case overlay == nil:
		return base.Clone()
	}

	mode, _ := node.Parameter("mode")
	invert, _ := node.Parameter("invert_mask")
	opacity := floatParam(node, "opacity")
	mask := in.Port(catalog.PortMask)

	out := base.Clone()
	for y := range out.Height {
		for x := range out.Width {
			if x >= overlay.Width || y >= overlay.Height {
				continue
			}
			b := base.At(x, y)
			o := overlay.At(x, y)

			weight := opacity * float64(o.A) / 255
			if mask != nil {
				weight *= maskWeight(mask, x, y, invert.Bool)
			}

			out.Set(x, y, domain.Color{
				R: mix(b.R, blendChannel(mode.Enum, b.R, o.R), weight),
				G: mix(b.G, blendChannel(mode.Enum, b.G, o.G), weight),
				B: mix(b.B, blendChannel(mode.Enum, b.B, o.B), weight),
				A: b.A,
			})
		}
	}
	return out
}

// maskWeight reads the mask luminance at (x, y). Pixels outside the mask count as zero.
func maskWeight(mask *domain.Image, x, y int, invert bool) float64 {
	w := 0.0
	if x < mask.Width && y < mask.Height {
		c := mask.At(x, y)
		w = (float64(c.R) + float64(c.G) + float64(c.B)) / (3 * 255) * float64(c.A) / 255
	}
	if invert {
		return 1 - w
	}
	return w
}

func blendChannel(mode string, b, o uint8) uint8 {
	switch mode {
	case "multiply":
		return uint8(uint16(b) * uint16(o) / 255)
	case "screen":
		return 255 - uint8(uint16(255-b)*uint16(255-o)/255)
	default:
		return o
	}
}

func mix(a, b uint8, t float64) uint8 {
	v := float64(a) + (float64(b)-float64(a))*t
	return clamp8(v)
}

func clamp8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}
