package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_IssueAndValidate(t *testing.T) {
	svc := NewTokenService("s3cret", time.Hour)

	token, expiresAt, err := svc.Issue("dashboard")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "dashboard", claims.Subject)
}

func TestTokenService_Expired(t *testing.T) {
	svc := NewTokenService("s3cret", time.Minute)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := svc.Issue("dashboard")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenService_RejectsForeignTokens(t *testing.T) {
	svc := NewTokenService("s3cret", time.Hour)

	other, _, err := NewTokenService("other", time.Hour).Issue("dashboard")
	require.NoError(t, err)
	_, err = svc.Validate(other)
	assert.ErrorIs(t, err, ErrInvalidToken)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "x"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.Validate(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Validate("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_IssueRequiresSubject(t *testing.T) {
	_, _, err := NewTokenService("s3cret", time.Hour).Issue("")
	assert.Error(t, err)
}
