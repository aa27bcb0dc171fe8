package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSuggestions(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		status ParseStatus
		want   []string
	}{
		{
			name:   "bare array",
			input:  `["a","b"]`,
			status: ParseOK,
			want:   []string{"a", "b"},
		},
		{
			name:   "array wrapped in prose",
			input:  `Sure! Here are your goals: ["a","b"] Good luck.`,
			status: ParseOK,
			want:   []string{"a", "b"},
		},
		{
			name:   "markdown code fence",
			input:  "```json\n[\"Research 2 biotech companies\"]\n```",
			status: ParseOK,
			want:   []string{"Research 2 biotech companies"},
		},
		{
			name:   "brackets inside strings",
			input:  `Goals: ["Read [chapter 1]", "Write \"notes\" ]"] trailing ]`,
			status: ParseOK,
			want:   []string{"Read [chapter 1]", `Write "notes" ]`},
		},
		{
			name:   "non string and blank entries dropped",
			input:  `[1, "  ", "keep", null, {"x":1}, " trim me "]`,
			status: ParseOK,
			want:   []string{"keep", "trim me"},
		},
		{
			name:   "empty array",
			input:  `[]`,
			status: ParseOK,
			want:   []string{},
		},
		{
			name:   "no array at all",
			input:  "I cannot help with that.",
			status: ParseMalformed,
		},
		{
			name:   "object instead of array",
			input:  `{"goals":["a"]}`,
			status: ParseMalformed,
		},
		{
			name:   "unbalanced array",
			input:  `Here: ["a", "b"`,
			status: ParseMalformed,
		},
		{
			name:   "first balanced substring is not json",
			input:  `See [1] then ["a"]`,
			status: ParseOK,
			want:   []string{},
		},
		{
			name:   "empty response",
			input:  "",
			status: ParseMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSuggestions(tt.input)
			assert.Equal(t, tt.status, got.Status)
			if tt.status == ParseOK {
				assert.Equal(t, tt.want, got.Suggestions)
			} else {
				assert.Empty(t, got.Suggestions)
			}
		})
	}
}

func TestExtractBalanced(t *testing.T) {
	sub, ok := ExtractBalanced(`text {"a": {"b": "}"}} more`, '{', '}')
	assert.True(t, ok)
	assert.Equal(t, `{"a": {"b": "}"}}`, sub)

	_, ok = ExtractBalanced("nothing here", '[', ']')
	assert.False(t, ok)
}
