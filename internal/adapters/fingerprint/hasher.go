// Package fingerprint computes the content digests used as cache keys.
package fingerprint

import (
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/darkroom/internal/core/domain"
	"go.trai.ch/darkroom/internal/core/ports"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher implements ports.Hasher with xxhash.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// Fingerprint digests the node definition and its upstream references.
// Parameters are hashed in name order; upstream references are hashed in the
// order given, which the compiler sorts by destination port.
func (h *Hasher) Fingerprint(
	node *domain.Node,
	upstream []domain.UpstreamRef,
	external domain.Fingerprint,
) domain.Fingerprint {
	hasher := xxhash.New()

	writeField(hasher, node.Type.String())
	writeSeparator(hasher)

	h.hashParameters(node.Parameters, hasher)

	for _, ref := range upstream {
		writeField(hasher, ref.ToPort.String())
		writeField(hasher, ref.Fingerprint.String())
		writeField(hasher, ref.FromPort.String())
	}
	writeSeparator(hasher)

	if external != "" {
		writeField(hasher, external.String())
	}

	return format(hasher.Sum64())
}

// ImageDigest digests an image's dimensions and pixels.
func (h *Hasher) ImageDigest(img *domain.Image) domain.Fingerprint {
	if img == nil {
		return ""
	}
	hasher := xxhash.New()
	var dims [16]byte
	binary.LittleEndian.PutUint64(dims[:8], uint64(img.Width))  //nolint:gosec // dimensions are non-negative
	binary.LittleEndian.PutUint64(dims[8:], uint64(img.Height)) //nolint:gosec // dimensions are non-negative
	_, _ = hasher.Write(dims[:])
	_, _ = hasher.Write(img.Pix)
	return format(hasher.Sum64())
}

// hashParameters hashes parameters in a deterministic order.
func (h *Hasher) hashParameters(params map[string]domain.ParameterValue, hasher *xxhash.Digest) {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		writeField(hasher, k)
		writeField(hasher, params[k].Canonical())
	}
	writeSeparator(hasher)
}

// writeField writes a length-prefixed string so adjacent fields cannot collide.
func writeField(hasher *xxhash.Digest, s string) {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], uint64(len(s)))
	_, _ = hasher.Write(buf[:n])
	_, _ = hasher.WriteString(s)
}

func writeSeparator(hasher *xxhash.Digest) {
	_, _ = hasher.Write([]byte{0})
}

func format(sum uint64) domain.Fingerprint {
	return domain.Fingerprint(fmt.Sprintf("%016x", sum))
}
