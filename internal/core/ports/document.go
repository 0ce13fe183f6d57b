package ports

import "go.trai.ch/darkroom/internal/core/domain"

// DocumentStore reads and writes graph documents.
//
//go:generate go run go.uber.org/mock/mockgen -source=document.go -destination=mocks/mock_document.go -package=mocks
type DocumentStore interface {
	// Load reads the document at path. Nodes are validated against the catalog.
	Load(path string) (*domain.GraphDocument, error)
	// Save writes doc to path.
	Save(path string, doc *domain.GraphDocument) error
}

// ImageCodec reads and writes image files.
type ImageCodec interface {
	// Decode reads the image file at path.
	Decode(path string) (*domain.Image, error)
	// Encode writes img to path. The format follows the file extension.
	Encode(path string, img *domain.Image) error
}
