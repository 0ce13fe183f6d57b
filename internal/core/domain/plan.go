package domain

// Fingerprint is a content digest of a node's type, parameters and upstream fingerprints.
type Fingerprint string

// String returns the fingerprint as a string.
func (f Fingerprint) String() string {
	return string(f)
}

// UpstreamRef is one fingerprint input contributed by an incoming edge.
type UpstreamRef struct {
	ToPort      InternedString
	FromPort    InternedString
	Fingerprint Fingerprint
}

// GraphExecutionPlan is the compiled evaluation plan for one render target.
// It is rebuilt for every render request.
type GraphExecutionPlan struct {
	Target       NodeID
	Order        []NodeID
	Fingerprints map[NodeID]Fingerprint
}

// Quality labels the resolution tier of a cached result.
type Quality string

// QualityPreview is the only tier evaluated by the engine today.
const QualityPreview Quality = "preview"

// CacheKey addresses one cached node result. Entries match only on exact equality.
type CacheKey struct {
	Node        NodeID
	Fingerprint Fingerprint
	Level       int
	X, Y        int
	Quality     Quality
}

// PreviewKey is the cache key for the single preview tile of a node.
func PreviewKey(node NodeID, fp Fingerprint, quality Quality) CacheKey {
	return CacheKey{Node: node, Fingerprint: fp, Quality: quality}
}
