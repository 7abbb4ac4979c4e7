package jsonspan

import (
	"errors"
	"testing"
)

func TestDecodeValueAt(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		offset  int
		wantRaw string
		wantEnd int
	}{
		{
			name:    "object with trailing semicolon",
			text:    `{"a": 1};`,
			offset:  0,
			wantRaw: `{"a": 1}`,
			wantEnd: 8,
		},
		{
			name:    "array at inner offset",
			text:    `const DATA = [1,2,3]; more();`,
			offset:  13,
			wantRaw: `[1,2,3]`,
			wantEnd: 20,
		},
		{
			name:    "braces inside string literals do not terminate",
			text:    `{"t": "a}b{c", "u": "]["}extra`,
			offset:  0,
			wantRaw: `{"t": "a}b{c", "u": "]["}`,
			wantEnd: 25,
		},
		{
			name:    "escaped quotes and backslashes",
			text:    `{"s": "he said \"}\" \\"} tail`,
			offset:  0,
			wantRaw: `{"s": "he said \"}\" \\"}`,
			wantEnd: 25,
		},
		{
			name:    "deep nesting",
			text:    `[[[[[[{"x":[1]}]]]]]]  `,
			offset:  0,
			wantRaw: `[[[[[[{"x":[1]}]]]]]]`,
			wantEnd: 21,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, end, err := DecodeValueAt(tt.text, tt.offset)
			if err != nil {
				t.Fatalf("DecodeValueAt() failed: %v", err)
			}
			if string(raw) != tt.wantRaw {
				t.Errorf("raw = %q, want %q", string(raw), tt.wantRaw)
			}
			if end != tt.wantEnd {
				t.Errorf("end = %d, want %d", end, tt.wantEnd)
			}
		})
	}
}

func TestDecodeValueAt_Errors(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		offset int
	}{
		{name: "unterminated object", text: `{"a": 1`, offset: 0},
		{name: "unterminated array", text: `[1, 2, `, offset: 0},
		{name: "invalid escape", text: `{"a": "\q"}`, offset: 0},
		{name: "bare garbage", text: `{]`, offset: 0},
		{name: "offset past end", text: `{}`, offset: 10},
		{name: "negative offset", text: `{}`, offset: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeValueAt(tt.text, tt.offset)
			if err == nil {
				t.Fatalf("DecodeValueAt() expected error, got nil")
			}
			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Errorf("error type = %T, want *DecodeError", err)
			}
		})
	}
}

func TestIsArray(t *testing.T) {
	if !IsArray([]byte("[1,2]")) {
		t.Errorf("IsArray([1,2]) = false, want true")
	}
	if !IsArray([]byte("  \n[]")) {
		t.Errorf("IsArray with leading whitespace = false, want true")
	}
	if IsArray([]byte(`{"a":1}`)) {
		t.Errorf("IsArray(object) = true, want false")
	}
	if IsArray([]byte("")) {
		t.Errorf("IsArray(empty) = true, want false")
	}
}
