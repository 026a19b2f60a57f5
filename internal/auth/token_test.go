package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIssuer() *TokenIssuer {
	return NewTokenIssuer("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestIssueAndVerify(t *testing.T) {
	issuer := testIssuer()

	pair, err := issuer.Issue(42, "a@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	access, err := issuer.Verify(pair.AccessToken, AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(42), access.UserID)
	assert.Equal(t, "a@x.com", access.Email)
	assert.Equal(t, "42", access.Subject)

	refresh, err := issuer.Verify(pair.RefreshToken, RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, int64(42), refresh.UserID)
}

func TestVerifyRejectsWrongKind(t *testing.T) {
	issuer := testIssuer()

	pair, err := issuer.Issue(1, "a@x.com")
	require.NoError(t, err)

	_, err = issuer.Verify(pair.AccessToken, RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Verify(pair.RefreshToken, AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("access-secret", "refresh-secret", -time.Minute, -time.Minute)

	pair, err := issuer.Issue(1, "a@x.com")
	require.NoError(t, err)

	_, err = issuer.Verify(pair.AccessToken, AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Verify(pair.RefreshToken, RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	issuer := testIssuer()
	other := NewTokenIssuer("different", "different", 15*time.Minute, 7*24*time.Hour)

	pair, err := other.Issue(1, "a@x.com")
	require.NoError(t, err)

	_, err = issuer.Verify(pair.AccessToken, AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	issuer := testIssuer()

	for _, tokenStr := range []string{"", "garbage", "a.b.c"} {
		_, err := issuer.Verify(tokenStr, AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestIssueNeverRepeats(t *testing.T) {
	issuer := testIssuer()

	first, err := issuer.Issue(7, "a@x.com")
	require.NoError(t, err)

	second, err := issuer.Issue(7, "a@x.com")
	require.NoError(t, err)

	assert.NotEqual(t, first.AccessToken, second.AccessToken)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
}
