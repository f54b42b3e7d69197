package analysis

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed state_schema.json
var stateSchema string

// State is the serializable form of a Cache: the per-hash job history plus
// the active pointer. Used to move analysis sessions between runs.
type State struct {
	ActiveID string              `json:"active_id,omitempty"`
	Jobs     map[string]Analysis `json:"jobs"`
}

// StateError describes why an imported state document was rejected.
type StateError struct {
	Problems []string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("invalid analysis state: %s", strings.Join(e.Problems, "; "))
}

// ExportState serializes the cache as indented JSON.
func ExportState(c *Cache) ([]byte, error) {
	state := State{
		ActiveID: c.ActiveID(),
		Jobs:     c.Jobs(),
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analysis state: %w", err)
	}
	return data, nil
}

// ImportState validates data against the state schema and replaces the
// cache contents with it. On any validation failure the cache is left
// untouched and a *StateError is returned.
func ImportState(c *Cache, data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(stateSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return &StateError{Problems: []string{err.Error()}}
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return &StateError{Problems: problems}
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return &StateError{Problems: []string{err.Error()}}
	}

	c.Reset(false)
	for hash, a := range state.Jobs {
		// The map key is authoritative only when it agrees with the
		// entry; mismatched entries are skipped rather than imported
		// under the wrong identity.
		if a.Hash != hash {
			continue
		}
		c.Put(a)
	}
	if _, ok := c.Get(state.ActiveID); ok {
		c.SetActive(state.ActiveID)
	}
	return nil
}
