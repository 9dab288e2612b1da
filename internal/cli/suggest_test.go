package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"quid/internal/model"
)

func TestSuggestCategory(t *testing.T) {
	categories := []model.Category{
		{ID: 1, Name: "Food"},
		{ID: 2, Name: "Transport"},
		{ID: 3, Name: "Entertainment"},
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "one-letter typo",
			input:    "Fodo",
			expected: "Food",
		},
		{
			name:     "wrong case still suggests",
			input:    "transport",
			expected: "Transport",
		},
		{
			name:     "longer name with typo",
			input:    "Entertainmet",
			expected: "Entertainment",
		},
		{
			name:     "nothing close enough",
			input:    "Rent",
			expected: "",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "whitespace only",
			input:    "   ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SuggestCategory(tt.input, categories))
		})
	}
}

func TestSuggestCategory_NoCategories(t *testing.T) {
	assert.Equal(t, "", SuggestCategory("Food", nil))
}
