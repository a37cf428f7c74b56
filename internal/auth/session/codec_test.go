package session

import (
	"strings"
	"testing"
	"time"
)

func testCodec(key string, now time.Time) *Codec {
	c := NewCodec(key)
	c.now = func() time.Time { return now }
	return c
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := testCodec("super-secret-key", now)

	in := Session{
		UserID:      "u1",
		Email:       "a@b.com",
		Role:        RoleUser,
		DisplayName: "Ada",
		Grade:       "plus",
	}
	token, exp, err := c.Issue(in)
	if err != nil {
		t.Fatalf("Issue err: %v", err)
	}
	if want := now.Add(Lifetime); !exp.Equal(want) {
		t.Fatalf("expiresAt = %v, want %v", exp, want)
	}

	got := c.Verify(token)
	if got == nil {
		t.Fatal("Verify returned nil for a fresh token")
	}
	if got.UserID != in.UserID || got.Email != in.Email || got.Role != in.Role ||
		got.DisplayName != in.DisplayName || got.Grade != in.Grade {
		t.Fatalf("payload mismatch: %+v", got)
	}
	if !got.ExpiresAt.Equal(exp) {
		t.Fatalf("ExpiresAt = %v, want %v", got.ExpiresAt, exp)
	}
}

func TestVerify_Expired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := testCodec("super-secret-key", now)

	token, _, err := c.Issue(Session{UserID: "u1", Email: "a@b.com"})
	if err != nil {
		t.Fatal(err)
	}

	// Just before expiry: valid.
	c.now = func() time.Time { return now.Add(Lifetime - time.Minute) }
	if c.Verify(token) == nil {
		t.Fatal("token rejected before expiry")
	}

	// At expiry: nil, never an error.
	c.now = func() time.Time { return now.Add(Lifetime + time.Minute) }
	if c.Verify(token) != nil {
		t.Fatal("expired token accepted")
	}
}

func TestVerify_TamperAnyByte(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := testCodec("super-secret-key", now)

	token, _, err := c.Issue(Session{UserID: "u1", Email: "a@b.com", Grade: "plus"})
	if err != nil {
		t.Fatal(err)
	}

	// Flip one character at several positions across header, payload and
	// signature; every variant must verify to nil.
	for _, i := range []int{0, len(token) / 3, len(token) / 2, len(token) - 2} {
		b := []byte(token)
		if b[i] == 'A' {
			b[i] = 'B'
		} else {
			b[i] = 'A'
		}
		if c.Verify(string(b)) != nil {
			t.Fatalf("tampered token at %d accepted", i)
		}
	}
}

func TestVerify_WrongKeyAndGarbage(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := testCodec("key-one", now)
	token, _, err := c.Issue(Session{UserID: "u1"})
	if err != nil {
		t.Fatal(err)
	}

	other := testCodec("key-two", now)
	if other.Verify(token) != nil {
		t.Fatal("token signed with another key accepted")
	}

	for _, bad := range []string{"", "not-a-token", "a.b", "a.b.c.d", strings.Repeat("x", 500)} {
		if c.Verify(bad) != nil {
			t.Fatalf("garbage %q accepted", bad)
		}
	}
}

func TestVerify_DefaultsRoleUser(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := testCodec("k", now)
	token, _, err := c.Issue(Session{UserID: "u1"})
	if err != nil {
		t.Fatal(err)
	}
	got := c.Verify(token)
	if got == nil || got.Role != RoleUser {
		t.Fatalf("expected role %q, got %+v", RoleUser, got)
	}
	if got.IsAdmin() {
		t.Fatal("plain user reported as admin")
	}
}

func TestWithTTL_OverridesLifetime(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := testCodec("super-secret-key", now).WithTTL(time.Hour)

	_, exp, err := c.Issue(Session{UserID: "u1", Email: "a@b.c"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if want := now.Add(time.Hour); !exp.Equal(want) {
		t.Fatalf("exp = %v, want %v", exp, want)
	}

	// Valores no positivos conservan el default de 7 días.
	c = testCodec("super-secret-key", now).WithTTL(0)
	_, exp, err = c.Issue(Session{UserID: "u1", Email: "a@b.c"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if want := now.Add(Lifetime); !exp.Equal(want) {
		t.Fatalf("exp = %v, want %v", exp, want)
	}
}
