package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringSimilarity(t *testing.T) {
	tests := []struct {
		name string
		s1   string
		s2   string
		want float64
	}{
		{"identical", "jon", "jon", 1.0},
		{"empty query", "", "jon", 0.0},
		{"empty name", "jon", "", 0.0},
		{"one edit of four", "jon", "john", 0.75},
		{"disjoint", "jon", "alice", 0.0},
		{"unicode handled by runes", "héllo", "hello", 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, stringSimilarity(tt.s1, tt.s2), 1e-9)
		})
	}
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, levenshteinDistance("kitten", "kitten"))
	assert.Equal(t, 3, levenshteinDistance("kitten", "sitting"))
	assert.Equal(t, 1, levenshteinDistance("jon", "john"))
	assert.Equal(t, 5, levenshteinDistance("", "jelly"))
}
