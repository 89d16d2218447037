// Package formats provides pluggable level file format parsers.
package formats

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAMLLevel represents the YAML structure for a level file.
type YAMLLevel struct {
	ID       string            `yaml:"id"`
	Name     string            `yaml:"name"`
	Metadata map[string]string `yaml:"metadata,omitempty"`
	Rows     []YAMLRow         `yaml:"rows"`
}

// YAMLRow is one board row, written in flow style ([1, 0, 2]).
type YAMLRow []int

// MarshalYAML keeps rows on a single line so files stay readable as a grid.
func (r YAMLRow) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range r {
		node.Content = append(node.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!int",
			Value: fmt.Sprintf("%d", v),
		})
	}
	return node, nil
}

// Level represents a parsed level ready for validation.
type Level struct {
	ID       string
	Name     string
	Rows     [][]int
	Metadata map[string]string
}

// ParseYAML parses a YAML level file.
func ParseYAML(data []byte) (Level, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	rows := make([][]int, len(yl.Rows))
	for i, r := range yl.Rows {
		rows[i] = []int(r)
	}

	return Level{
		ID:       yl.ID,
		Name:     yl.Name,
		Rows:     rows,
		Metadata: yl.Metadata,
	}, nil
}

// EncodeYAML serializes a level in the native YAML format.
func EncodeYAML(l Level) ([]byte, error) {
	yl := YAMLLevel{
		ID:       l.ID,
		Name:     l.Name,
		Metadata: l.Metadata,
		Rows:     make([]YAMLRow, len(l.Rows)),
	}
	for i, r := range l.Rows {
		yl.Rows[i] = YAMLRow(r)
	}

	data, err := yaml.Marshal(&yl)
	if err != nil {
		return nil, fmt.Errorf("yaml marshal: %w", err)
	}
	return data, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml", ".json"}
}
