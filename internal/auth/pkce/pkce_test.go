package pkce

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"testing"
)

func TestNewChallenge_VerifierShape(t *testing.T) {
	for i := 0; i < 50; i++ {
		ch, err := NewChallenge()
		if err != nil {
			t.Fatalf("NewChallenge err: %v", err)
		}
		if n := len(ch.CodeVerifier); n < 43 || n > 128 {
			t.Fatalf("verifier length %d outside [43,128]", n)
		}
		if strings.ContainsAny(ch.CodeVerifier, "+/=") {
			t.Fatalf("verifier not URL-safe: %q", ch.CodeVerifier)
		}
		if strings.ContainsAny(ch.CodeChallenge, "+/=") {
			t.Fatalf("challenge not URL-safe: %q", ch.CodeChallenge)
		}
		if ch.State == "" {
			t.Fatal("empty state")
		}
	}
}

func TestChallengeS256_Deterministic(t *testing.T) {
	verifier := "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
	sum := sha256.Sum256([]byte(verifier))
	want := base64.RawURLEncoding.EncodeToString(sum[:])

	if got := ChallengeS256(verifier); got != want {
		t.Fatalf("challenge mismatch: got %q want %q", got, want)
	}
	if got := ChallengeS256(verifier); got != ChallengeS256(verifier) {
		t.Fatal("challenge not deterministic")
	}
}

func TestNewChallenge_Unique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		ch, err := NewChallenge()
		if err != nil {
			t.Fatal(err)
		}
		if seen[ch.State] || seen[ch.CodeVerifier] {
			t.Fatal("random collision across attempts")
		}
		seen[ch.State] = true
		seen[ch.CodeVerifier] = true
	}
}
