package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCookieStore_PersistLoadClear(t *testing.T) {
	cs := &CookieStore{Name: "session", SameSite: "lax", Secure: true}

	rec := httptest.NewRecorder()
	exp := time.Now().Add(Lifetime)
	cs.Persist(rec, "tok123", exp)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != "session" || c.Value != "tok123" {
		t.Fatalf("unexpected cookie %+v", c)
	}
	if !c.HttpOnly || !c.Secure || c.SameSite != http.SameSiteLaxMode || c.Path != "/" {
		t.Fatalf("missing security attributes: %+v", c)
	}
	if c.Expires.Unix() != exp.UTC().Unix() {
		t.Fatalf("Expires = %v, want %v", c.Expires, exp)
	}

	// Load round-trips through a request.
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(c)
	got, ok := cs.Load(req)
	if !ok || got != "tok123" {
		t.Fatalf("Load = %q, %v", got, ok)
	}

	// Absence is not an error.
	if _, ok := cs.Load(httptest.NewRequest("GET", "/", nil)); ok {
		t.Fatal("Load reported a cookie on a bare request")
	}

	// Clear expires immediately.
	rec2 := httptest.NewRecorder()
	cs.Clear(rec2)
	del := rec2.Result().Cookies()[0]
	if del.MaxAge != -1 || !del.Expires.Before(time.Now()) {
		t.Fatalf("deletion cookie not expired: %+v", del)
	}
}
