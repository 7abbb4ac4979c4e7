package patch

import "testing"

func TestApply(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		spans []Span
		want  string
	}{
		{
			name: "single replacement",
			text: "hello world",
			spans: []Span{
				{Start: 6, End: 11, Text: "there"},
			},
			want: "hello there",
		},
		{
			name: "multiple spans applied regardless of input order",
			text: "aaa bbb ccc",
			spans: []Span{
				{Start: 0, End: 3, Text: "X"},
				{Start: 8, End: 11, Text: "Z"},
				{Start: 4, End: 7, Text: "Y"},
			},
			want: "X Y Z",
		},
		{
			name: "replacement longer than original keeps earlier offsets valid",
			text: "abc",
			spans: []Span{
				{Start: 0, End: 1, Text: "AAAA"},
				{Start: 2, End: 3, Text: "CCCC"},
			},
			want: "AAAAbCCCC",
		},
		{
			name: "adjacent spans are not overlapping",
			text: "abcdef",
			spans: []Span{
				{Start: 0, End: 3, Text: "X"},
				{Start: 3, End: 6, Text: "Y"},
			},
			want: "XY",
		},
		{
			name: "empty replacement deletes span",
			text: "keep-drop-keep",
			spans: []Span{
				{Start: 4, End: 10, Text: "-"},
			},
			want: "keep-keep",
		},
		{
			name:  "no spans returns text unchanged",
			text:  "unchanged",
			spans: nil,
			want:  "unchanged",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(tt.text, tt.spans)
			if err != nil {
				t.Fatalf("Apply() failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Apply() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApply_Errors(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		spans []Span
	}{
		{
			name: "overlapping spans",
			text: "abcdef",
			spans: []Span{
				{Start: 0, End: 4, Text: "X"},
				{Start: 3, End: 6, Text: "Y"},
			},
		},
		{
			name: "end before start",
			text: "abc",
			spans: []Span{
				{Start: 2, End: 1, Text: "X"},
			},
		},
		{
			name: "end past text",
			text: "abc",
			spans: []Span{
				{Start: 0, End: 4, Text: "X"},
			},
		},
		{
			name: "negative start",
			text: "abc",
			spans: []Span{
				{Start: -1, End: 2, Text: "X"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Apply(tt.text, tt.spans); err == nil {
				t.Fatalf("Apply() expected error, got nil")
			}
		})
	}
}
