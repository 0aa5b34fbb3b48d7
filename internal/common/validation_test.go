package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInRange(t *testing.T) {
	tests := []struct {
		name     string
		v        int
		expected bool
	}{
		{"below", 1, false},
		{"lower bound", 2, true},
		{"inside", 5, true},
		{"upper bound", 8, true},
		{"above", 9, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, InRange(tt.v, 2, 8))
		})
	}
}

func TestOneOf(t *testing.T) {
	assert.True(t, OneOf("POK", "base", "pok"))
	assert.True(t, OneOf("console", "console", "json"))
	assert.False(t, OneOf("xml", "console", "json"))
	assert.False(t, OneOf("anything"))
}
