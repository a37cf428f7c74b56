// Package flow orchestrates the browser login: attempt start, provider
// callback, session issuance. The server keeps no per-attempt state; the
// state and PKCE verifier ride back on the client, and the only server-side
// memory is a short-lived one-shot latch per authorization code.
package flow

import (
	"time"

	"github.com/dropDatabas3/kurso/internal/auth/provider"
	"github.com/dropDatabas3/kurso/internal/auth/session"
	"github.com/dropDatabas3/kurso/internal/cache"
	"github.com/dropDatabas3/kurso/internal/store"
	"golang.org/x/sync/singleflight"
)

// Deps contains dependencies for the login service.
type Deps struct {
	Provider provider.Exchanger
	Sessions *session.Codec
	Users    store.Users
	Cache    cache.Cache

	// CodeTTL bounds the one-shot code latch. Defaults to 10 minutes,
	// matching the lifetime providers give authorization codes.
	CodeTTL time.Duration
}

// Service runs the login flow end to end.
type Service struct {
	provider provider.Exchanger
	sessions *session.Codec
	users    store.Users
	cache    cache.Cache
	codeTTL  time.Duration

	group singleflight.Group
}

func New(d Deps) *Service {
	ttl := d.CodeTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Service{
		provider: d.Provider,
		sessions: d.Sessions,
		users:    d.Users,
		cache:    d.Cache,
		codeTTL:  ttl,
	}
}
