package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndValidateToken(t *testing.T) {
	verifier := NewTokenVerifierWithSecret("test-secret", time.Hour)

	token, err := verifier.IssueToken("jane")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	editor, ok := verifier.ValidateToken("Bearer " + token)
	assert.True(t, ok)
	assert.Equal(t, "jane", editor)

	// Works without the Bearer prefix too.
	editor, ok = verifier.ValidateToken(token)
	assert.True(t, ok)
	assert.Equal(t, "jane", editor)
}

func TestValidateTokenRejectsBadInput(t *testing.T) {
	verifier := NewTokenVerifierWithSecret("test-secret", time.Hour)

	t.Run("empty header", func(t *testing.T) {
		_, ok := verifier.ValidateToken("")
		assert.False(t, ok)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, ok := verifier.ValidateToken("Bearer not-a-jwt")
		assert.False(t, ok)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenVerifierWithSecret("other-secret", time.Hour)
		token, err := other.IssueToken("jane")
		require.NoError(t, err)

		_, ok := verifier.ValidateToken("Bearer " + token)
		assert.False(t, ok)
	})

	t.Run("expired token", func(t *testing.T) {
		shortLived := NewTokenVerifierWithSecret("test-secret", -time.Minute)
		token, err := shortLived.IssueToken("jane")
		require.NoError(t, err)

		_, ok := verifier.ValidateToken("Bearer " + token)
		assert.False(t, ok)
	})
}

func TestIssueTokenRequiresEditor(t *testing.T) {
	verifier := NewTokenVerifierWithSecret("test-secret", time.Hour)

	_, err := verifier.IssueToken("")
	assert.Error(t, err)
}
