package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	h := NewBcryptHasher(4)

	digest, err := h.Hash("abc123")
	require.NoError(t, err)
	require.NotEmpty(t, digest)
	assert.NotEqual(t, "abc123", digest, "digest must not be the plaintext")

	assert.True(t, h.Verify("abc123", digest))
	assert.False(t, h.Verify("abc124", digest))
	assert.False(t, h.Verify("", digest))
}

func TestHashIsSalted(t *testing.T) {
	h := NewBcryptHasher(4)

	first, err := h.Hash("fido")
	require.NoError(t, err)
	second, err := h.Hash("fido")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify("fido", first))
	assert.True(t, h.Verify("fido", second))
}

func TestOutOfRangeCostFallsBack(t *testing.T) {
	h := NewBcryptHasher(99)

	digest, err := h.Hash("abc123")
	require.NoError(t, err)
	assert.True(t, h.Verify("abc123", digest))
}
