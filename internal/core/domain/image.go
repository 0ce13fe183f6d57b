package domain

import "slices"

// Image is a row-major, 8-bit RGBA pixel buffer.
type Image struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewImage allocates a transparent image of the given size.
func NewImage(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}
}

// Clone returns a deep copy of the image. Cloning nil returns nil.
func (img *Image) Clone() *Image {
	if img == nil {
		return nil
	}
	return &Image{
		Width:  img.Width,
		Height: img.Height,
		Pix:    slices.Clone(img.Pix),
	}
}

// Offset returns the index of the first byte of pixel (x, y).
func (img *Image) Offset(x, y int) int {
	return (y*img.Width + x) * 4
}

// At returns the color of pixel (x, y).
func (img *Image) At(x, y int) Color {
	i := img.Offset(x, y)
	p := img.Pix[i : i+4 : i+4]
	return Color{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// Set writes the color of pixel (x, y).
func (img *Image) Set(x, y int, c Color) {
	i := img.Offset(x, y)
	p := img.Pix[i : i+4 : i+4]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}

// Frame is a published preview. An empty frame signals that the render
// target produced no image.
type Frame struct {
	Generation uint64
	Width      int
	Height     int
	Pix        []uint8
	Empty      bool
}

// NewFrame converts a render result into a frame. A nil image yields the empty sentinel.
func NewFrame(generation uint64, img *Image) Frame {
	if img == nil {
		return EmptyFrame(generation)
	}
	return Frame{
		Generation: generation,
		Width:      img.Width,
		Height:     img.Height,
		Pix:        slices.Clone(img.Pix),
	}
}

// EmptyFrame returns the sentinel published when the target produced no image.
func EmptyFrame(generation uint64) Frame {
	return Frame{Generation: generation, Empty: true}
}
