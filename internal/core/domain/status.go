package domain

// NodeStatus is the evaluation state of one plan node within a render.
type NodeStatus string

const (
	// NodeStatusPending indicates the node has not been reached yet.
	NodeStatusPending NodeStatus = "pending"
	// NodeStatusEvaluated indicates the kernel ran and produced an image.
	NodeStatusEvaluated NodeStatus = "evaluated"
	// NodeStatusCached indicates the result came from the result cache.
	NodeStatusCached NodeStatus = "cached"
	// NodeStatusEmpty indicates the kernel ran and produced no image.
	NodeStatusEmpty NodeStatus = "empty"
	// NodeStatusFailed indicates the kernel returned an error.
	NodeStatusFailed NodeStatus = "failed"
)
