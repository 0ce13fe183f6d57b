package domain

import "cmp"

// Edge connects an output port of one node to an input port of another.
// Edges have no identity of their own and compare by value.
type Edge struct {
	From     NodeID
	FromPort InternedString
	To       NodeID
	ToPort   InternedString
}

// NewEdge builds an edge from plain port names.
func NewEdge(from NodeID, fromPort string, to NodeID, toPort string) Edge {
	return Edge{
		From:     from,
		FromPort: NewInternedString(fromPort),
		To:       to,
		ToPort:   NewInternedString(toPort),
	}
}

// String formats the edge as from.port -> to.port.
func (e Edge) String() string {
	return e.From.String() + "." + e.FromPort.String() + " -> " + e.To.String() + "." + e.ToPort.String()
}

// CompareIncoming orders incoming edges by destination port, source node and source port.
func CompareIncoming(a, b Edge) int {
	return cmp.Or(
		cmp.Compare(a.ToPort.String(), b.ToPort.String()),
		cmp.Compare(a.From, b.From),
		cmp.Compare(a.FromPort.String(), b.FromPort.String()),
	)
}
