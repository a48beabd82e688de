// internal/session/session.go
package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/greenloop/market-client/internal/models"
)

var ErrExpired = errors.New("session token is expired")

type claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Session is the explicitly injected credential for the gateway. It
// carries the raw bearer token and the identity claims parsed out of
// it. The token is issued and signed server-side; the client only
// inspects claims, it does not verify the signature.
type Session struct {
	token    string
	userID   string
	username string
	expires  *time.Time
}

// New parses the bearer token's claims. A token that does not parse as
// a JWT still yields a usable session with an unknown identity, since
// the server remains the authority on whether the token is accepted.
func New(token string) *Session {
	s := &Session{token: token}

	parser := jwt.NewParser()
	var c claims
	if _, _, err := parser.ParseUnverified(token, &c); err != nil {
		return s
	}

	s.userID = c.Subject
	s.username = c.Username
	if c.ExpiresAt != nil {
		t := c.ExpiresAt.Time
		s.expires = &t
	}

	return s
}

func (s *Session) Token() string { return s.token }

func (s *Session) UserID() string { return s.userID }

func (s *Session) Username() string { return s.username }

// Valid reports ErrExpired when the token carries an expiry in the
// past. Tokens without parseable claims pass; the server decides.
func (s *Session) Valid() error {
	if s.expires != nil && s.expires.Before(time.Now()) {
		return ErrExpired
	}
	return nil
}

// Owns reports whether the session user is the product's seller.
func (s *Session) Owns(p models.Product) bool {
	return s.userID != "" && p.Seller.ID == s.userID
}
