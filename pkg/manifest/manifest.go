// Package manifest defines the viewer manifest written next to index.html.
// The manifest is the loader runtime's index: it names every externalized
// blob, its reconstruction strategy, and the chunk files that hold it.
package manifest

import (
	"encoding/json"
	"fmt"
	"time"
)

// Reconstruction strategies and chunk formats recorded in the manifest and
// interpreted by the client-side loader.
const (
	StrategyArraySlices = "array_slices"
	StrategyTextConcat  = "text_concat"

	FormatJSONArray = "json_array"
	FormatTextPiece = "json_text_piece"
)

// ChunkEntry describes one on-disk fragment of a blob.
type ChunkEntry struct {
	Path   string `json:"path"`
	Bytes  int    `json:"bytes"`
	Items  int    `json:"items,omitempty"`
	Format string `json:"format"`
}

// BlobEntry describes one externalized payload: its chunks plus the shape
// metadata needed to regenerate the original in-page effect.
type BlobEntry struct {
	Key             string       `json:"key"`
	Detector        string       `json:"detector"`
	PayloadBytes    int          `json:"payload_bytes"`
	Strategy        string       `json:"strategy"`
	Chunks          []ChunkEntry `json:"chunks"`
	ScriptID        string       `json:"script_id,omitempty"`
	AssignmentStyle string       `json:"assignment_style,omitempty"`
	VariableName    string       `json:"variable_name,omitempty"`
	DeclKind        string       `json:"decl_kind,omitempty"`
}

// Manifest is the full manifest.json document for one viewer.
type Manifest struct {
	Version        int         `json:"version"`
	GeneratedAtUTC string      `json:"generated_at_utc"`
	Slug           string      `json:"slug"`
	ChunkTargetMB  float64     `json:"chunk_target_mb"`
	Blobs          []BlobEntry `json:"blobs"`
}

// New returns an empty version-1 manifest stamped with the current UTC time.
func New(slug string, chunkTargetMB float64) *Manifest {
	return &Manifest{
		Version:        1,
		GeneratedAtUTC: time.Now().UTC().Format(time.RFC3339),
		Slug:           slug,
		ChunkTargetMB:  chunkTargetMB,
		Blobs:          []BlobEntry{},
	}
}

// Marshal renders the manifest as indented JSON. Field order is fixed by
// the struct, so two runs over the same input differ only in the timestamp.
func (m *Manifest) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error marshalling manifest: %w", err)
	}
	return data, nil
}
