package ports

import "go.trai.ch/darkroom/internal/core/domain"

// Hasher computes node fingerprints.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// Fingerprint digests the node type, its parameters, the ordered upstream
	// references and an optional external salt into a stable fingerprint.
	Fingerprint(node *domain.Node, upstream []domain.UpstreamRef, external domain.Fingerprint) domain.Fingerprint
	// ImageDigest digests the dimensions and pixels of an image.
	ImageDigest(img *domain.Image) domain.Fingerprint
}
