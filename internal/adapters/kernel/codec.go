package kernel

import (
	"github.com/disintegration/imaging"
	"go.trai.ch/darkroom/internal/core/domain"
	"go.trai.ch/darkroom/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ImageCodec = (*Codec)(nil)

// Codec implements ports.ImageCodec for the formats imaging supports.
type Codec struct{}

// NewCodec creates a new Codec.
func NewCodec() *Codec {
	return &Codec{}
}

// Decode reads the image file at path.
func (c *Codec) Decode(path string) (*domain.Image, error) {
	src, err := imaging.Open(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to decode image"), "path", path)
	}
	return fromNRGBA(imaging.Clone(src)), nil
}

// Encode writes img to path in the format implied by its extension.
func (c *Codec) Encode(path string, img *domain.Image) error {
	if img == nil {
		return zerr.With(zerr.New("no image to encode"), "path", path)
	}
	if err := imaging.Save(toNRGBA(img), path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to encode image"), "path", path)
	}
	return nil
}
