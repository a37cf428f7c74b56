// Package pkce generates the per-attempt material for the OAuth 2.0
// authorization-code flow with PKCE (RFC 7636, S256 method).
package pkce

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

const (
	verifierBytes = 32 // 43 chars once base64url-encoded
	stateBytes    = 16
)

// Challenge is the material for a single login attempt. It lives only on the
// initiating client; the server keeps no copy.
type Challenge struct {
	State         string
	CodeVerifier  string
	CodeChallenge string
}

// NewChallenge generates a fresh verifier/challenge/state triple from the
// OS CSPRNG. There is no weak-PRNG fallback: if the random source fails the
// call fails.
func NewChallenge() (*Challenge, error) {
	verifier, err := randomURLSafe(verifierBytes)
	if err != nil {
		return nil, fmt.Errorf("pkce: random source unavailable: %w", err)
	}
	state, err := randomURLSafe(stateBytes)
	if err != nil {
		return nil, fmt.Errorf("pkce: random source unavailable: %w", err)
	}
	return &Challenge{
		State:         state,
		CodeVerifier:  verifier,
		CodeChallenge: ChallengeS256(verifier),
	}, nil
}

// ChallengeS256 derives the code_challenge for a verifier:
// base64url(sha256(ascii(verifier))), no padding.
func ChallengeS256(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func randomURLSafe(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
