package formats

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// jsonLevel is the object form of a JSON level file.
type jsonLevel struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Rows     [][]int           `json:"rows"`
}

// ParseJSON parses a JSON level file. Both the legacy bare array of rows
// (levels.json) and an object with id/name/rows are accepted. The caller
// fills in the ID for bare arrays.
func ParseJSON(data []byte) (Level, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var rows [][]int
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return Level{}, fmt.Errorf("json unmarshal: %w", err)
		}
		return Level{Rows: rows}, nil
	}

	var jl jsonLevel
	if err := json.Unmarshal(trimmed, &jl); err != nil {
		return Level{}, fmt.Errorf("json unmarshal: %w", err)
	}
	return Level{
		ID:       jl.ID,
		Name:     jl.Name,
		Rows:     jl.Rows,
		Metadata: jl.Metadata,
	}, nil
}
