package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", 10*time.Minute)

	token, err := issuer.IssueResetToken(42)
	require.NoError(t, err)

	id, err := issuer.VerifyResetToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestTokenIssuer_Rejects(t *testing.T) {
	issuer := NewTokenIssuer("secret", 10*time.Minute)
	valid, err := issuer.IssueResetToken(1)
	require.NoError(t, err)

	otherKey, err := NewTokenIssuer("other", 10*time.Minute).IssueResetToken(1)
	require.NoError(t, err)

	wrongPurpose, err := jwt.NewWithClaims(jwt.SigningMethodHS256, ResetClaims{
		Purpose: "session",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, ResetClaims{
		Purpose:          resetPasswordPurpose,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "1"},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := map[string]string{
		"garbage":       "not-a-token",
		"wrong key":     otherKey,
		"wrong purpose": wrongPurpose,
		"no expiry":     noExpiry,
		"tampered":      valid + "x",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := issuer.VerifyResetToken(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestTokenIssuer_Expiry(t *testing.T) {
	issuer := NewTokenIssuer("secret", 10*time.Minute)
	issued := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return issued }

	token, err := issuer.IssueResetToken(7)
	require.NoError(t, err)

	issuer.now = func() time.Time { return issued.Add(9 * time.Minute) }
	_, err = issuer.VerifyResetToken(token)
	assert.NoError(t, err)

	issuer.now = func() time.Time { return issued.Add(11 * time.Minute) }
	_, err = issuer.VerifyResetToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
