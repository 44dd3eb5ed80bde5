package textfilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanReplacesFilteredWords(t *testing.T) {
	f := New()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple replacement",
			input:    "What the hell happened to the bread?",
			expected: "What the heck happened to the bread?",
		},
		{
			name:     "uppercase preserved",
			input:    "DAMN that oven!",
			expected: "DANG that oven!",
		},
		{
			name:     "title case preserved",
			input:    "Damn right.",
			expected: "Dang right.",
		},
		{
			name:     "word boundary respected",
			input:    "He passed the hello test and the class.",
			expected: "He passed the hello test and the class.",
		},
		{
			name:     "multiple words",
			input:    "damn this crap",
			expected: "dang this rubbish",
		},
		{
			name:     "clean text untouched",
			input:    "Fresh bread goes best with morning tea.",
			expected: "Fresh bread goes best with morning tea.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, f.Clean(tt.input))
		})
	}
}

func TestCleanCollapsesBlankLines(t *testing.T) {
	f := New()
	input := "First line.\n\n\n\nSecond line."
	assert.Equal(t, "First line.\n\nSecond line.", f.Clean(input))
}

func TestCleanTrimsWhitespace(t *testing.T) {
	f := New()
	assert.Equal(t, "Hello there.", f.Clean("  Hello there.  \n"))
}

func TestContainsFiltered(t *testing.T) {
	f := New()
	assert.True(t, f.ContainsFiltered("what the hell"))
	assert.False(t, f.ContainsFiltered("a perfectly pleasant sentence"))
	assert.False(t, f.ContainsFiltered("hello shellfish"), "substrings should not match")
}
