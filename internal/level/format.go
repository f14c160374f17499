package level

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/causality/internal/universe"
)

// Level is the decoded YAML level definition.
type Level struct {
	Name   string                 `yaml:"name" json:"name"`
	Start  Start                  `yaml:"start" json:"start"`
	Worlds map[string]UniverseDef `yaml:"universes" json:"universes"`
	Nodes  []NodeDef              `yaml:"nodes" json:"nodes"`
	Edges  []EdgeDef              `yaml:"edges,omitempty" json:"edges,omitempty"`
	Spawns []SpawnDef             `yaml:"spawns,omitempty" json:"spawns,omitempty"`
}

// Start is the player's initial universe and tile.
type Start struct {
	Universe string       `yaml:"universe" json:"universe"`
	Pos      universe.Pos `yaml:"pos" json:"pos"`
}

// UniverseDef is one universe's static geometry, '#' solid and '.' open.
type UniverseDef struct {
	Geometry []string `yaml:"geometry" json:"geometry"`
}

// NodeDef declares one causal node.
type NodeDef struct {
	ID        string `yaml:"id" json:"id"`
	Entity    string `yaml:"entity,omitempty" json:"entity,omitempty"`
	Universe  string `yaml:"universe" json:"universe"`
	State     string `yaml:"state" json:"state"`
	Exists    *bool  `yaml:"exists,omitempty" json:"exists,omitempty"`
	Condition bool   `yaml:"condition,omitempty" json:"condition,omitempty"`
}

// EdgeDef declares one effect edge.
type EdgeDef struct {
	Source    string            `yaml:"source" json:"source"`
	Target    string            `yaml:"target" json:"target"`
	Operator  string            `yaml:"operator" json:"operator"`
	Universes []string          `yaml:"universes,omitempty" json:"universes,omitempty"`
	Increment float64           `yaml:"increment,omitempty" json:"increment,omitempty"`
	Metadata  map[string]string `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// SpawnDef places one entity in one universe.
type SpawnDef struct {
	Entity      string       `yaml:"entity" json:"entity"`
	Universe    string       `yaml:"universe" json:"universe"`
	Pos         universe.Pos `yaml:"pos" json:"pos"`
	Persistence string       `yaml:"persistence" json:"persistence"`
	Node        string       `yaml:"node,omitempty" json:"node,omitempty"`
}

// Parse decodes a level definition. Unknown keys are rejected so a typo'd
// field fails loudly instead of silently defaulting.
func Parse(data []byte) (*Level, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var l Level
	if err := dec.Decode(&l); err != nil {
		return nil, fmt.Errorf("decoding level: %w", err)
	}
	return &l, nil
}

// Read decodes a level definition from r.
func Read(r io.Reader) (*Level, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading level: %w", err)
	}
	return Parse(data)
}

// Load decodes a level definition from a file.
func Load(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading level %s: %w", path, err)
	}
	return Parse(data)
}

// nodeExists resolves the tri-state exists flag, defaulting to true.
func (n NodeDef) nodeExists() bool {
	if n.Exists == nil {
		return true
	}
	return *n.Exists
}
