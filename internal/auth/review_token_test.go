package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewTokenRoundTrip(t *testing.T) {
	tm := NewReviewTokenManager("test-secret", 30)

	token, expiresAt, err := tm.Sign("ticket-123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expiresAt, 5*time.Second)

	assert.NoError(t, tm.Verify(token, "ticket-123"))
}

func TestReviewTokenWrongTicket(t *testing.T) {
	tm := NewReviewTokenManager("test-secret", 30)

	token, _, err := tm.Sign("ticket-123")
	require.NoError(t, err)

	err = tm.Verify(token, "ticket-456")
	assert.ErrorIs(t, err, ErrTicketMismatch)
}

func TestReviewTokenWrongSecret(t *testing.T) {
	issuer := NewReviewTokenManager("secret-a", 30)
	verifier := NewReviewTokenManager("secret-b", 30)

	token, _, err := issuer.Sign("ticket-123")
	require.NoError(t, err)

	assert.Error(t, verifier.Verify(token, "ticket-123"))
}

func TestReviewTokenGarbage(t *testing.T) {
	tm := NewReviewTokenManager("test-secret", 30)
	assert.Error(t, tm.Verify("not-a-token", "ticket-123"))
}

func TestReviewTokenTTLDefault(t *testing.T) {
	tm := NewReviewTokenManager("test-secret", 0)
	_, expiresAt, err := tm.Sign("t")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)
}
