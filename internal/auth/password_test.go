package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, "secret1", hash)
	assert.True(t, CheckPasswordHash(hash, "secret1"))
	assert.False(t, CheckPasswordHash(hash, "wrong"))
}

func TestCheckPasswordHashEmptyHash(t *testing.T) {
	// OAuth-only accounts carry an empty hash and must never validate.
	assert.False(t, CheckPasswordHash("", ""))
	assert.False(t, CheckPasswordHash("", "anything"))
}

func TestFingerprintToken(t *testing.T) {
	fp := FingerprintToken("some-raw-token")

	assert.NotEqual(t, "some-raw-token", fp)
	assert.Len(t, fp, 64)
	assert.True(t, CheckTokenFingerprint("some-raw-token", fp))
	assert.False(t, CheckTokenFingerprint("other-token", fp))
}
