package video

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

func testSigningKey(t *testing.T) (string, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	pemBytes := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	return base64.StdEncoding.EncodeToString(pemBytes), key
}

func TestCloudflarePlaybackToken(t *testing.T) {
	encoded, key := testSigningKey(t)

	cf, err := NewCloudflare(encoded, "kid-1")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cf.now = func() time.Time { return now }

	pb, err := cf.Playback(context.Background(), "video-uid-42")
	if err != nil {
		t.Fatalf("playback: %v", err)
	}
	if pb.Provider != "cloudflare" || pb.Token == "" {
		t.Fatalf("incomplete playback: %+v", pb)
	}
	if !strings.HasPrefix(pb.URL, "https://iframe.videodelivery.net/") {
		t.Fatalf("url = %q", pb.URL)
	}
	if got, want := pb.ExpiresAt, now.Add(time.Hour); !got.Equal(want) {
		t.Fatalf("expires %v, want %v", got, want)
	}

	parsed, err := jwtv5.Parse(pb.Token, func(tok *jwtv5.Token) (any, error) {
		return &key.PublicKey, nil
	}, jwtv5.WithValidMethods([]string{"RS256"}), jwtv5.WithTimeFunc(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	claims := parsed.Claims.(jwtv5.MapClaims)
	if claims["sub"] != "video-uid-42" {
		t.Fatalf("sub = %v", claims["sub"])
	}
	if parsed.Header["kid"] != "kid-1" {
		t.Fatalf("header kid = %v", parsed.Header["kid"])
	}
}

func TestNewCloudflareRejectsGarbageKey(t *testing.T) {
	if _, err := NewCloudflare("not-base64!!", "kid"); err == nil {
		t.Fatal("want error for bad base64")
	}
	garbage := base64.StdEncoding.EncodeToString([]byte("not a pem"))
	if _, err := NewCloudflare(garbage, "kid"); err == nil {
		t.Fatal("want error for non-PEM key")
	}
}

func TestVimeoPlayback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("url"); got != "https://vimeo.com/987654" {
			t.Errorf("oembed url param = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"title":"Lección 1","html":"<iframe></iframe>"}`))
	}))
	defer srv.Close()

	v := NewVimeo(srv.URL)

	pb, err := v.Playback(context.Background(), "987654")
	if err != nil {
		t.Fatalf("playback: %v", err)
	}
	if pb.URL != "https://player.vimeo.com/video/987654" {
		t.Fatalf("url = %q", pb.URL)
	}
	if pb.Token != "" {
		t.Fatal("vimeo playback must not carry a token")
	}
}

func TestVimeoPlaybackUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	v := NewVimeo(srv.URL)

	if _, err := v.Playback(context.Background(), "missing"); err == nil {
		t.Fatal("want error on non-200")
	}
}

func TestRegistryUnknownProvider(t *testing.T) {
	r := Registry{}
	if _, err := r.Playback(context.Background(), "youtube", "x"); !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("want ErrUnknownProvider, got %v", err)
	}
}
