package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_EmptySecret(t *testing.T) {
	v, err := New("")
	assert.Error(t, err)
	assert.Nil(t, v)
}

func TestEncrypt_Format(t *testing.T) {
	v, err := New("test-secret")
	require.NoError(t, err)

	out, err := v.Encrypt("123-45-6789")
	require.NoError(t, err)

	// ivHex is exactly 32 hex chars (16 byte IV), then a colon, then the body
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{32}:[0-9a-f]+$`), out)
	assert.NotContains(t, out, "123-45-6789")
}

func TestEncrypt_FreshIVPerCall(t *testing.T) {
	v, err := New("test-secret")
	require.NoError(t, err)

	first, err := v.Encrypt("same value")
	require.NoError(t, err)
	second, err := v.Encrypt("same value")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestEncrypt_RoundTripWithDerivedKey(t *testing.T) {
	secret := "round-trip-secret"
	v, err := New(secret)
	require.NoError(t, err)

	plaintext := "987-65-4321"
	out, err := v.Encrypt(plaintext)
	require.NoError(t, err)

	parts := strings.SplitN(out, ":", 2)
	require.Len(t, parts, 2)

	iv, err := hex.DecodeString(parts[0])
	require.NoError(t, err)
	body, err := hex.DecodeString(parts[1])
	require.NoError(t, err)

	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	require.NoError(t, err)

	decrypted := make([]byte, len(body))
	cipher.NewCTR(block, iv).XORKeyStream(decrypted, body)

	assert.Equal(t, plaintext, string(decrypted))
}
