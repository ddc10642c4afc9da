package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashStrings(t *testing.T) {
	assert.Equal(t, HashStrings("a", "b"), HashStrings("a", "b"))
	assert.NotEqual(t, HashStrings("a", "b"), HashStrings("b", "a"))
	// The separator keeps adjacent inputs from collapsing into each other.
	assert.NotEqual(t, HashStrings("ab", "c"), HashStrings("a", "bc"))
	assert.Len(t, HashStrings("x"), 32)
}
