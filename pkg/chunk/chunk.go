// Package chunk splits decoded JSON payloads into byte-budgeted fragments.
// Two strategies exist: array slicing for top-level arrays (each fragment is
// itself a valid JSON array, reconstruction is list concatenation) and text
// splitting for every other value type (fragments are raw pieces of the
// compact serialization, reconstruction is join-then-parse).
package chunk

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ArrayFragment is one self-contained JSON array piece.
type ArrayFragment struct {
	JSON  string
	Items int
}

// Compact returns the compact serialization of a raw JSON value: no
// extraneous whitespace, keys in original order, non-ASCII bytes untouched.
func Compact(raw json.RawMessage) (string, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return "", fmt.Errorf("failed to compact JSON value: %w", err)
	}
	return buf.String(), nil
}

// SplitArray greedily packs the elements of a JSON array into fragments at
// or below targetBytes. The byte accounting matches the emitted text
// exactly: two bracket bytes, one comma per separator, compact elements. A
// single element larger than the whole budget still gets its own fragment;
// the budget is a target, not a hard cap per item. An empty array yields one
// fragment holding an empty array.
func SplitArray(raw json.RawMessage, targetBytes int) ([]ArrayFragment, error) {
	if targetBytes <= 0 {
		return nil, fmt.Errorf("chunk target must be greater than zero, got %d", targetBytes)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("value is not a JSON array: %w", err)
	}
	if len(items) == 0 {
		return []ArrayFragment{{JSON: "[]", Items: 0}}, nil
	}

	var fragments []ArrayFragment
	var current []string
	currentBytes := 2 // []

	flush := func() {
		fragments = append(fragments, ArrayFragment{
			JSON:  "[" + strings.Join(current, ",") + "]",
			Items: len(current),
		})
	}

	for _, item := range items {
		itemJSON, err := Compact(item)
		if err != nil {
			return nil, err
		}

		extraComma := 0
		if len(current) > 0 {
			extraComma = 1
		}
		projected := currentBytes + extraComma + len(itemJSON)

		if len(current) > 0 && projected > targetBytes {
			flush()
			current = []string{itemJSON}
			currentBytes = 2 + len(itemJSON)
			continue
		}

		currentBytes += extraComma + len(itemJSON)
		current = append(current, itemJSON)
	}
	if len(current) > 0 {
		flush()
	}

	return fragments, nil
}

// SplitText cuts text into contiguous pieces of at most maxBytes, backing a
// cut point off any UTF-8 continuation byte so no multi-byte code point is
// split. If backing off would collapse a piece to nothing, the original
// boundary is forced to guarantee progress.
func SplitText(text string, maxBytes int) ([]string, error) {
	if maxBytes <= 0 {
		return nil, fmt.Errorf("chunk target must be greater than zero, got %d", maxBytes)
	}

	payload := []byte(text)
	total := len(payload)
	if total == 0 {
		return []string{""}, nil
	}

	var parts []string
	idx := 0
	for idx < total {
		end := idx + maxBytes
		if end > total {
			end = total
		}
		for end < total && payload[end]&0xC0 == 0x80 {
			end--
		}
		if end <= idx {
			end = idx + maxBytes
			if end > total {
				end = total
			}
		}
		parts = append(parts, string(payload[idx:end]))
		idx = end
	}

	return parts, nil
}
