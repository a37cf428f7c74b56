// Package session implements the signed, stateless browser session: an
// HMAC-signed compact token carried in an HTTP-only cookie. There is no
// server-side session store; verification needs only the signing key.
package session

import (
	"strings"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// Lifetime of an issued session, fixed from issuance. There is no
// revocation list: invalidation is cookie deletion or key rotation.
const Lifetime = 7 * 24 * time.Hour

// Roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Session is the decoded session record. Immutable once issued; a new login
// issues a new Session, it never patches the old one.
type Session struct {
	UserID      string
	Email       string
	Role        string // "user" | "admin"
	DisplayName string
	Grade       string
	ExpiresAt   time.Time
}

// IsAdmin reports whether the session carries the admin role.
func (s *Session) IsAdmin() bool { return s != nil && s.Role == RoleAdmin }

type sessionClaims struct {
	Email       string `json:"email"`
	Role        string `json:"role"`
	DisplayName string `json:"name,omitempty"`
	Grade       string `json:"grade,omitempty"`
	jwtv5.RegisteredClaims
}

// Codec signs and verifies session tokens with a process-wide symmetric key.
// The key is read-only at runtime and safe to share across handlers.
type Codec struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewCodec creates a codec for the given signing key. An empty key must be
// rejected at startup by config validation, not here.
func NewCodec(key string) *Codec {
	return &Codec{key: []byte(key), ttl: Lifetime, now: time.Now}
}

// WithTTL overrides the default session lifetime, typically from config.
// Non-positive values keep the default.
func (c *Codec) WithTTL(d time.Duration) *Codec {
	if d > 0 {
		c.ttl = d
	}
	return c
}

// Issue serializes and signs the session, stamping ExpiresAt at now+7d.
// The returned token is the only thing that persists.
func (c *Codec) Issue(s Session) (string, time.Time, error) {
	now := c.now().UTC()
	exp := now.Add(c.ttl)

	role := s.Role
	if role == "" {
		role = RoleUser
	}

	claims := sessionClaims{
		Email:       s.Email,
		Role:        role,
		DisplayName: s.DisplayName,
		Grade:       s.Grade,
		RegisteredClaims: jwtv5.RegisteredClaims{
			Subject:   s.UserID,
			IssuedAt:  jwtv5.NewNumericDate(now),
			NotBefore: jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(exp),
		},
	}

	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	signed, err := tk.SignedString(c.key)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify checks signature and expiry. On ANY failure (malformed, tampered,
// wrong algorithm, expired) it returns nil: callers treat nil as "no
// session" and never see an error. No field is read before the signature
// validates; golang-jwt verifies before exposing claims.
func (c *Codec) Verify(token string) *Session {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}

	var claims sessionClaims
	tk, err := jwtv5.ParseWithClaims(token, &claims, func(t *jwtv5.Token) (any, error) {
		return c.key, nil
	}, jwtv5.WithValidMethods([]string{"HS256"}), jwtv5.WithTimeFunc(c.now))
	if err != nil || !tk.Valid {
		return nil
	}
	if claims.ExpiresAt == nil || claims.Subject == "" {
		return nil
	}

	return &Session{
		UserID:      claims.Subject,
		Email:       claims.Email,
		Role:        claims.Role,
		DisplayName: claims.DisplayName,
		Grade:       claims.Grade,
		ExpiresAt:   claims.ExpiresAt.Time,
	}
}
