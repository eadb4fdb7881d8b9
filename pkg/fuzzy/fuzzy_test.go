package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"python", "python", 0},
		{"Python", "python", 0},
		{"pyhton", "python", 2},
		{"javscript", "javascript", 1},
		{"kitten", "sitting", 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevenshteinDistance(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}

func TestClosest(t *testing.T) {
	candidates := []string{"python", "javascript", "typescript", "go", "rust"}

	got, ok := Closest("javscript", candidates, Threshold("javscript"))
	assert.True(t, ok)
	assert.Equal(t, "javascript", got)

	got, ok = Closest("pyton", candidates, Threshold("pyton"))
	assert.True(t, ok)
	assert.Equal(t, "python", got)

	_, ok = Closest("cobol", candidates, Threshold("cobol"))
	assert.False(t, ok)

	_, ok = Closest("x", nil, 1)
	assert.False(t, ok)
}
