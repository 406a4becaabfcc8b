package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash(t *testing.T) {
	assert.Equal(t, EmptyStringSHA256, Hash(nil))
	assert.Equal(t, EmptyStringSHA256, Hash([]byte("")))
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", Hash([]byte("abc")))
}

// RFC 4231 style vector, widely published for HMAC-SHA256
func TestHexHmacSHA256(t *testing.T) {
	sig, err := HexHmacSHA256([]byte("key"), "The quick brown fox jumps over the lazy dog")
	require.NoError(t, err)
	assert.Equal(t, "f7bc83f430538424b13298e6aa6fb143ef4d59a14946175997479dbc2d1a3cd8", sig)

	raw, err := HmacSHA256([]byte("key"), "The quick brown fox jumps over the lazy dog")
	require.NoError(t, err)
	assert.Len(t, raw, 32)
}
