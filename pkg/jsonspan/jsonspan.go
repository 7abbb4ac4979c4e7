// Package jsonspan decodes a single JSON value embedded at a known offset
// inside a larger text body, without assuming anything about the surrounding
// syntax. It is the raw_decode half of the scanner: the scanner finds an
// anchor, jsonspan decides where the value ends.
package jsonspan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeError reports that the text at a detected anchor is not a
// structurally valid JSON value. Scanners recover from it by dropping the
// candidate and resuming; it is never fatal.
type DecodeError struct {
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid JSON value at offset %d: %v", e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DecodeValueAt returns the minimal valid JSON value starting at offset and
// the exclusive end offset of that value. The raw bytes are returned
// unmodified, so object key order and number formatting survive exactly.
// Whatever follows the value (a semicolon, whitespace, more script text) is
// neither required nor consumed.
func DecodeValueAt(text string, offset int) (json.RawMessage, int, error) {
	if offset < 0 || offset >= len(text) {
		return nil, 0, &DecodeError{Offset: offset, Err: fmt.Errorf("offset out of range (text is %d bytes)", len(text))}
	}

	dec := json.NewDecoder(strings.NewReader(text[offset:]))
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, 0, &DecodeError{Offset: offset, Err: err}
	}

	// InputOffset sits exactly past the decoded value; trailing bytes are
	// untouched.
	return raw, offset + int(dec.InputOffset()), nil
}

// IsArray reports whether a raw JSON value is an array. Leading whitespace
// is tolerated so trimmed and untrimmed spans behave the same.
func IsArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}
