package kernel

import (
	"image"
	"math"

	"go.trai.ch/darkroom/internal/core/domain"
)

// toNRGBA views img as an *image.NRGBA without copying.
func toNRGBA(img *domain.Image) *image.NRGBA {
	return &image.NRGBA{
		Pix:    img.Pix,
		Stride: img.Width * 4,
		Rect:   image.Rect(0, 0, img.Width, img.Height),
	}
}

// fromNRGBA copies an *image.NRGBA into a new domain image.
func fromNRGBA(src *image.NRGBA) *domain.Image {
	b := src.Bounds()
	img := domain.NewImage(b.Dx(), b.Dy())
	for y := range img.Height {
		row := src.Pix[y*src.Stride : y*src.Stride+img.Width*4]
		copy(img.Pix[img.Offset(0, y):], row)
	}
	return img
}

// rotateHue shifts the hue of every pixel by deg degrees.
func rotateHue(src *domain.Image, deg float64) *domain.Image {
	out := src.Clone()
	if math.Mod(deg, 360) == 0 {
		return out
	}
	for y := range out.Height {
		for x := range out.Width {
			c := out.At(x, y)
			h, s, l := rgbToHSL(c)
			h = math.Mod(h+deg/360+1, 1)
			r, g, b := hslToRGB(h, s, l)
			out.Set(x, y, domain.Color{R: r, G: g, B: b, A: c.A})
		}
	}
	return out
}

// rgbToHSL returns hue, saturation and lightness in [0, 1].
func rgbToHSL(c domain.Color) (h, s, l float64) {
	r, g, b := float64(c.R)/255, float64(c.G)/255, float64(c.B)/255
	hi := max(r, g, b)
	lo := min(r, g, b)
	l = (hi + lo) / 2
	if hi == lo {
		return 0, 0, l
	}

	d := hi - lo
	if l > 0.5 {
		s = d / (2 - hi - lo)
	} else {
		s = d / (hi + lo)
	}
	switch hi {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return h / 6, s, l
}

func hslToRGB(h, s, l float64) (r, g, b uint8) {
	if s == 0 {
		v := clamp8(l * 255)
		return v, v, v
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	return clamp8(hueToChannel(p, q, h+1.0/3) * 255),
		clamp8(hueToChannel(p, q, h) * 255),
		clamp8(hueToChannel(p, q, h-1.0/3) * 255)
}

func hueToChannel(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	default:
		return p
	}
}
