package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret-at-least-16", time.Hour)

	token, err := issuer.Issue(Identity{UserID: 42, Email: "ada@example.com"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	id, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id.UserID)
	assert.Equal(t, "ada@example.com", id.Email)
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("test-secret-at-least-16", time.Hour)
	other := NewTokenIssuer("another-secret-entirely", time.Hour)

	token, err := issuer.Issue(Identity{UserID: 1, Email: "a@b.c"})
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenExpired(t *testing.T) {
	issuer := &TokenIssuer{secret: []byte("test-secret-at-least-16"), ttl: -time.Hour}

	token, err := issuer.Issue(Identity{UserID: 1, Email: "a@b.c"})
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret-at-least-16", time.Hour)

	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		_, err := issuer.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tok)
	}
}
