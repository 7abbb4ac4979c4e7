// Package catalog maintains the datasets index consumed by the public site
// and the thumbnail generator: one entry per published viewer, with display
// metadata extracted from the source document.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Entry is one published viewer in the datasets index.
type Entry struct {
	Slug         string `json:"slug"`
	Title        string `json:"title,omitempty"`
	Excerpt      string `json:"excerpt,omitempty"`
	Language     string `json:"language,omitempty"`
	R2Path       string `json:"r2_path"`
	PayloadBytes int64  `json:"payload_bytes,omitempty"`
	Thumb        string `json:"thumb,omitempty"`
	UpdatedAt    string `json:"updated_at"`
}

// Index is the full datasets.json document.
type Index struct {
	Datasets []Entry `json:"datasets"`
}

// Load reads an index file. A missing file yields an empty index so the
// first run can bootstrap it.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Index{}, nil
		}
		return nil, fmt.Errorf("error reading catalog %s: %w", path, err)
	}

	var ix Index
	if err := json.Unmarshal(data, &ix); err != nil {
		return nil, fmt.Errorf("error parsing catalog %s: %w", path, err)
	}
	return &ix, nil
}

// Save writes the index as indented JSON, fully replacing the previous file.
func Save(path string, ix *Index) error {
	data, err := json.MarshalIndent(ix, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshalling catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error saving catalog %s: %w", path, err)
	}
	return nil
}

// Upsert replaces the entry with the same slug or appends a new one,
// stamping UpdatedAt.
func (ix *Index) Upsert(e Entry) {
	e.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	for i, existing := range ix.Datasets {
		if existing.Slug == e.Slug {
			// Keep a previously recorded thumbnail unless the caller set one.
			if e.Thumb == "" {
				e.Thumb = existing.Thumb
			}
			ix.Datasets[i] = e
			return
		}
	}
	ix.Datasets = append(ix.Datasets, e)
}

// Find returns the entry for a slug, or nil.
func (ix *Index) Find(slug string) *Entry {
	for i := range ix.Datasets {
		if ix.Datasets[i].Slug == slug {
			return &ix.Datasets[i]
		}
	}
	return nil
}
