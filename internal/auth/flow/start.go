package flow

import (
	"context"
	"time"

	"github.com/dropDatabas3/kurso/internal/auth/pkce"
	"github.com/dropDatabas3/kurso/internal/observability/logger"
)

// AttemptTTL bounds a single login attempt. The state and verifier cookies
// expire after this; a callback arriving later finds no attempt in progress.
const AttemptTTL = 10 * time.Minute

// StartResult carries everything the HTTP layer needs to launch an attempt:
// the URL to redirect the browser to, plus the state and verifier that must
// round-trip on the client (HttpOnly cookies, never exposed to scripts).
type StartResult struct {
	RedirectURL  string
	State        string
	CodeVerifier string
	TTL          time.Duration
}

// Start generates fresh attempt material and builds the provider
// authorization URL. Nothing is stored server-side.
func (s *Service) Start(ctx context.Context) (*StartResult, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("flow.start"))

	ch, err := pkce.NewChallenge()
	if err != nil {
		log.Error("challenge generation failed", logger.Err(err))
		return nil, err
	}

	return &StartResult{
		RedirectURL:  s.provider.AuthURL(ch.State, ch.CodeChallenge),
		State:        ch.State,
		CodeVerifier: ch.CodeVerifier,
		TTL:          AttemptTTL,
	}, nil
}
