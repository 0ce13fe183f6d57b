package config

import "gopkg.in/yaml.v3"

// Document is the on-disk shape of a graph document.
type Document struct {
	Version string    `yaml:"version" validate:"omitempty,oneof=1"`
	Input   string    `yaml:"input,omitempty"`
	Output  string    `yaml:"output,omitempty"`
	Nodes   []NodeDTO `yaml:"nodes" validate:"dive"`
	Edges   []EdgeDTO `yaml:"edges,omitempty" validate:"dive"`
}

// NodeDTO is one node entry. Params are decoded per the declared parameter kind.
type NodeDTO struct {
	ID     string               `yaml:"id" validate:"required"`
	Type   string               `yaml:"type" validate:"required"`
	Params map[string]yaml.Node `yaml:"params,omitempty"`
}

// EdgeDTO connects "node.port" to "node.port".
type EdgeDTO struct {
	From string `yaml:"from" validate:"required,contains=."`
	To   string `yaml:"to" validate:"required,contains=."`
}

// CurrentVersion is written on save.
const CurrentVersion = "1"
