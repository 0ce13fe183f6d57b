package kernel

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/darkroom/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the kernel Graft node.
	NodeID graft.ID = "adapter.kernel"
	// CodecNodeID is the unique identifier for the image codec Graft node.
	CodecNodeID graft.ID = "adapter.image_codec"
)

func init() {
	graft.Register(graft.Node[ports.Kernel]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Kernel, error) {
			return NewReference(), nil
		},
	})

	graft.Register(graft.Node[ports.ImageCodec]{
		ID:        CodecNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ImageCodec, error) {
			return NewCodec(), nil
		},
	})
}
