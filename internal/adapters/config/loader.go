// Package config loads and saves graph documents as YAML.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.trai.ch/darkroom/internal/core/domain"
	"go.trai.ch/darkroom/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.DocumentStore = (*Loader)(nil)

// Loader implements ports.DocumentStore for YAML files.
type Loader struct {
	catalog  ports.Catalog
	validate *validator.Validate
}

// NewLoader creates a Loader that checks node types and parameters against catalog.
func NewLoader(catalog ports.Catalog) *Loader {
	return &Loader{
		catalog:  catalog,
		validate: validator.New(),
	}
}

// Load reads the document at path.
func (l *Loader) Load(path string) (*domain.GraphDocument, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read document"), "path", path)
	}
	doc, err := l.Decode(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return doc, nil
}

// Save writes doc to path, creating the parent directory if needed.
func (l *Loader) Save(path string, doc *domain.GraphDocument) error {
	data, err := l.Encode(doc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create document directory"), "path", path)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write document"), "path", path)
	}
	return nil
}

// Decode parses and validates a YAML document.
func (l *Loader) Decode(data []byte) (*domain.GraphDocument, error) {
	var raw Document
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, zerr.Wrap(err, "failed to parse document")
	}
	if err := l.validate.Struct(&raw); err != nil {
		return nil, zerr.Wrap(err, domain.ErrInvalidDocument.Error())
	}

	doc := &domain.GraphDocument{
		InputNode:  domain.NodeID(raw.Input),
		OutputNode: domain.NodeID(raw.Output),
		Nodes:      make([]*domain.Node, 0, len(raw.Nodes)),
		Edges:      make([]domain.Edge, 0, len(raw.Edges)),
	}

	types := make(map[domain.NodeID]*domain.NodeType, len(raw.Nodes))
	for _, dto := range raw.Nodes {
		node, nt, err := l.decodeNode(dto)
		if err != nil {
			return nil, zerr.With(err, "node_id", dto.ID)
		}
		types[node.ID] = nt
		doc.Nodes = append(doc.Nodes, node)
	}

	fed := make(map[string]bool, len(raw.Edges))
	for _, dto := range raw.Edges {
		edge, err := decodeEdge(dto, types)
		if err != nil {
			return nil, zerr.With(err, "edge", dto.From+" -> "+dto.To)
		}
		input := edge.To.String() + "." + edge.ToPort.String()
		if fed[input] {
			return nil, zerr.With(zerr.New("input port has more than one incoming edge"), "port", input)
		}
		fed[input] = true
		doc.Edges = append(doc.Edges, edge)
	}

	return doc, nil
}

func (l *Loader) decodeNode(dto NodeDTO) (*domain.Node, *domain.NodeType, error) {
	nt, err := l.catalog.Lookup(dto.Type)
	if err != nil {
		return nil, nil, err
	}

	node := domain.NewNode(domain.NodeID(dto.ID), nt)
	for name, raw := range dto.Params {
		def, ok := nt.Parameter(name)
		if !ok {
			return nil, nil, zerr.With(domain.ErrUnknownParameter, "parameter", name)
		}
		v, err := decodeValue(def.Kind, &raw)
		if err != nil {
			return nil, nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidParameter.Error()), "parameter", name)
		}
		if err := def.Validate(v); err != nil {
			return nil, nil, err
		}
		node.Parameters[name] = v
	}
	return node, nt, nil
}

func decodeValue(kind domain.ParameterKind, raw *yaml.Node) (domain.ParameterValue, error) {
	switch kind {
	case domain.KindFloat:
		var f float64
		err := raw.Decode(&f)
		return domain.FloatValue(f), err
	case domain.KindInt:
		var i int64
		err := raw.Decode(&i)
		return domain.IntValue(i), err
	case domain.KindBool:
		var b bool
		err := raw.Decode(&b)
		return domain.BoolValue(b), err
	case domain.KindEnum:
		var s string
		err := raw.Decode(&s)
		return domain.EnumValue(s), err
	case domain.KindColor:
		var s string
		if err := raw.Decode(&s); err != nil {
			return domain.ParameterValue{}, err
		}
		c, err := domain.ParseColor(s)
		return domain.ColorValue(c), err
	default:
		return domain.ParameterValue{}, zerr.With(zerr.New("unsupported parameter kind"), "kind", string(kind))
	}
}

func decodeEdge(dto EdgeDTO, types map[domain.NodeID]*domain.NodeType) (domain.Edge, error) {
	from, fromPort := splitEndpoint(dto.From)
	to, toPort := splitEndpoint(dto.To)
	edge := domain.NewEdge(from, fromPort, to, toPort)

	fromType, ok := types[from]
	if !ok {
		return domain.Edge{}, zerr.With(domain.ErrMissingEndpoint, "node_id", from.String())
	}
	toType, ok := types[to]
	if !ok {
		return domain.Edge{}, zerr.With(domain.ErrMissingEndpoint, "node_id", to.String())
	}
	if _, ok := fromType.Port(edge.FromPort, domain.PortOutput); !ok {
		return domain.Edge{}, zerr.With(domain.ErrUnknownPort, "port", dto.From)
	}
	if _, ok := toType.Port(edge.ToPort, domain.PortInput); !ok {
		return domain.Edge{}, zerr.With(domain.ErrUnknownPort, "port", dto.To)
	}
	return edge, nil
}

// splitEndpoint splits "node.port" at the last dot.
func splitEndpoint(s string) (domain.NodeID, string) {
	i := strings.LastIndex(s, ".")
	return domain.NodeID(s[:i]), s[i+1:]
}

// Encode renders doc as YAML.
func (l *Loader) Encode(doc *domain.GraphDocument) ([]byte, error) {
	raw := Document{
		Version: CurrentVersion,
		Input:   doc.InputNode.String(),
		Output:  doc.OutputNode.String(),
		Nodes:   make([]NodeDTO, 0, len(doc.Nodes)),
		Edges:   make([]EdgeDTO, 0, len(doc.Edges)),
	}

	for _, n := range doc.Nodes {
		dto := NodeDTO{ID: n.ID.String(), Type: n.Type.String()}
		if len(n.Parameters) > 0 {
			dto.Params = make(map[string]yaml.Node, len(n.Parameters))
		}
		for name, v := range n.Parameters {
			var node yaml.Node
			if err := node.Encode(encodeValue(v)); err != nil {
				return nil, zerr.With(zerr.Wrap(err, "failed to encode parameter"), "parameter", name)
			}
			dto.Params[name] = node
		}
		raw.Nodes = append(raw.Nodes, dto)
	}

	for _, e := range doc.Edges {
		raw.Edges = append(raw.Edges, EdgeDTO{
			From: e.From.String() + "." + e.FromPort.String(),
			To:   e.To.String() + "." + e.ToPort.String(),
		})
	}

	data, err := yaml.Marshal(&raw)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to marshal document")
	}
	return data, nil
}

func encodeValue(v domain.ParameterValue) any {
	switch v.Kind {
	case domain.KindFloat:
		return v.Float
	case domain.KindInt:
		return v.Int
	case domain.KindBool:
		return v.Bool
	default:
		return v.String()
	}
}
