package domain

import "go.trai.ch/zerr"

var (
	// ErrNodeAlreadyExists is returned when adding a node whose id is already present in the graph.
	ErrNodeAlreadyExists = zerr.New("node already exists")

	// ErrNodeNotFound is returned when a requested node is not present in the graph.
	ErrNodeNotFound = zerr.New("node not found")

	// ErrMissingEndpoint is returned when an edge references a node that is not in the graph.
	ErrMissingEndpoint = zerr.New("edge endpoint missing")

	// ErrEdgeNotFound is returned when removing an edge that is not in the graph.
	ErrEdgeNotFound = zerr.New("edge not found")

	// ErrEdgeAlreadyExists is returned when inserting an edge that is already in the graph.
	ErrEdgeAlreadyExists = zerr.New("edge already exists")

	// ErrDanglingEdges is returned when removing a node that still has incident edges.
	ErrDanglingEdges = zerr.New("node still has incident edges")

	// ErrUnknownNodeType is returned when a node type name is not part of the catalog.
	ErrUnknownNodeType = zerr.New("unknown node type")

	// ErrUnknownPort is returned when an edge names a port the node type does not declare.
	ErrUnknownPort = zerr.New("unknown port")

	// ErrUnknownParameter is returned when a parameter name is not declared by the node type.
	ErrUnknownParameter = zerr.New("unknown parameter")

	// ErrInvalidParameter is returned when a parameter value has the wrong kind or is out of range.
	ErrInvalidParameter = zerr.New("invalid parameter value")

	// ErrCycleDetected is returned when an edge would close a cycle in the node graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrInvariantViolation is returned when an internal invariant is broken.
	// It signals a programming defect rather than a user error.
	ErrInvariantViolation = zerr.New("invariant violation")

	// ErrKernelFailed is returned when a node kernel fails during evaluation.
	ErrKernelFailed = zerr.New("node evaluation failed")

	// ErrInvalidDocument is returned when a graph document cannot be loaded.
	ErrInvalidDocument = zerr.New("invalid graph document")

	// ErrNoTarget is returned when a render is requested without a target node.
	ErrNoTarget = zerr.New("no render target")
)
