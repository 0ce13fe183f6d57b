// Package ports defines the core interfaces for the application.
package ports

import "go.trai.ch/darkroom/internal/core/domain"

// Catalog resolves node type names to their declarations.
//
//go:generate go run go.uber.org/mock/mockgen -source=catalog.go -destination=mocks/mock_catalog.go -package=mocks
type Catalog interface {
	// Lookup returns the node type with the given name.
	// It returns domain.ErrUnknownNodeType if the name is not registered.
	Lookup(name string) (*domain.NodeType, error)
	// Types returns all registered node types sorted by name.
	Types() []*domain.NodeType
}
