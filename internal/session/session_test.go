// internal/session/session_test.go
package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenloop/market-client/internal/models"
)

func signedToken(t *testing.T, userID, username string, expires time.Time) string {
	t.Helper()

	c := claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestNewParsesClaims(t *testing.T) {
	token := signedToken(t, "user-7", "martina", time.Now().Add(time.Hour))

	s := New(token)
	assert.Equal(t, token, s.Token())
	assert.Equal(t, "user-7", s.UserID())
	assert.Equal(t, "martina", s.Username())
	assert.NoError(t, s.Valid())
}

func TestNewToleratesOpaqueToken(t *testing.T) {
	s := New("not-a-jwt")

	// The raw token is still usable; the server decides whether to
	// accept it.
	assert.Equal(t, "not-a-jwt", s.Token())
	assert.Empty(t, s.UserID())
	assert.NoError(t, s.Valid())
}

func TestValidReportsExpiry(t *testing.T) {
	s := New(signedToken(t, "user-7", "martina", time.Now().Add(-time.Minute)))

	assert.ErrorIs(t, s.Valid(), ErrExpired)
}

func TestOwns(t *testing.T) {
	s := New(signedToken(t, "user-7", "martina", time.Now().Add(time.Hour)))

	assert.True(t, s.Owns(models.Product{Seller: models.Seller{ID: "user-7"}}))
	assert.False(t, s.Owns(models.Product{Seller: models.Seller{ID: "user-8"}}))

	// A session without parsed identity owns nothing.
	assert.False(t, New("not-a-jwt").Owns(models.Product{Seller: models.Seller{ID: ""}}))
}
