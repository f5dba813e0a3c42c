package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducesUniqueURLSafeTokens(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok, err := New()
		require.NoError(t, err)
		assert.NotContains(t, tok, "+")
		assert.NotContains(t, tok, "/")
		assert.NotContains(t, tok, "=")
		assert.False(t, seen[tok], "duplicate token generated")
		seen[tok] = true
	}
}

func TestNewNRejectsNonPositiveLength(t *testing.T) {
	_, err := NewN(0)
	assert.Error(t, err)

	_, err = NewN(-5)
	assert.Error(t, err)
}
