package oauth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateToken(t *testing.T) {
	first, err := StateToken()
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := StateToken()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestParseProfileGoogle(t *testing.T) {
	raw := []byte(`{"id":"g-123","email":"a@x.com","name":"Alice"}`)

	profile, err := parseProfile(ProviderGoogle, raw)
	require.NoError(t, err)
	assert.Equal(t, "g-123", profile.ProviderID)
	assert.Equal(t, "a@x.com", profile.Email)
	assert.Equal(t, "Alice", profile.DisplayName)
	assert.Equal(t, raw, profile.Raw)

	_, err = parseProfile(ProviderGoogle, []byte(`{"name":"no id"}`))
	assert.Error(t, err)
}

func TestParseProfileGitHub(t *testing.T) {
	profile, err := parseProfile(ProviderGitHub, []byte(`{"id":77,"email":"b@x.com","login":"bob"}`))
	require.NoError(t, err)
	assert.Equal(t, "77", profile.ProviderID)
	assert.Equal(t, "bob", profile.DisplayName)

	profile, err = parseProfile(ProviderGitHub, []byte(`{"id":77,"email":"b@x.com","login":"bob","name":"Bob B"}`))
	require.NoError(t, err)
	assert.Equal(t, "Bob B", profile.DisplayName)
}

func TestAuthURLUnknownProvider(t *testing.T) {
	m := NewManager("http://localhost:8080", "", "", "", "")

	_, err := m.AuthURL(Provider("gitlab"), "state")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}
