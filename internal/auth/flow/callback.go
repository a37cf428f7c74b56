package flow

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/dropDatabas3/kurso/internal/auth/provider"
	"github.com/dropDatabas3/kurso/internal/auth/session"
	"github.com/dropDatabas3/kurso/internal/observability/logger"
	"github.com/dropDatabas3/kurso/internal/store"
	"github.com/dropDatabas3/kurso/internal/util"
)

// CallbackRequest is what the provider redirect plus the attempt cookies
// give us. State/Code/ProviderError come from the query string;
// CookieState/CodeVerifier from the cookies set at Start.
type CallbackRequest struct {
	State         string
	Code          string
	ProviderError string

	CookieState  string
	CodeVerifier string
}

// CallbackResult is a freshly issued session.
type CallbackResult struct {
	Token     string
	ExpiresAt time.Time
	Session   session.Session
}

// Callback validates the redirect, redeems the code exactly once, and mints
// a session. Validation order matters: attempt presence, then state, then
// code, so an attacker probing with stolen parameters learns nothing about
// which check failed first.
func (s *Service) Callback(ctx context.Context, req CallbackRequest) (*CallbackResult, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("flow.callback"))

	if req.ProviderError != "" {
		log.Warn("provider returned error", logger.String("code", req.ProviderError))
		return nil, fmt.Errorf("%w: %s", ErrProviderDenied, req.ProviderError)
	}
	if req.CookieState == "" || req.CodeVerifier == "" {
		return nil, ErrMissingAttempt
	}
	if req.State == "" || subtle.ConstantTimeCompare([]byte(req.State), []byte(req.CookieState)) != 1 {
		log.Warn("state mismatch")
		return nil, ErrStateMismatch
	}
	if req.Code == "" {
		return nil, ErrMissingCode
	}

	return s.Exchange(ctx, req.Code, req.CodeVerifier)
}

// Exchange redeems a code and mints a session, skipping the state check.
// The browser callback validates state first; SPA clients that kept the
// state on their side call this directly via the token endpoint, where the
// PKCE verifier already ties the code to the initiating client.
func (s *Service) Exchange(ctx context.Context, code, verifier string) (*CallbackResult, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("flow.callback"))

	id, err := s.redeem(ctx, code, verifier)
	if err != nil {
		return nil, err
	}

	sess := session.Session{
		UserID:      id.ExternalID,
		Email:       id.Email,
		Role:        session.RoleUser,
		DisplayName: id.DisplayName,
		Grade:       id.Grade,
	}

	// Sync the local user record. A store failure here must not block the
	// login: the session carries everything entitlement needs.
	if u, err := s.users.UpsertUserByExternalID(ctx, store.User{
		ExternalID:  id.ExternalID,
		Email:       id.Email,
		DisplayName: id.DisplayName,
		Role:        session.RoleUser,
		Grade:       id.Grade,
	}); err != nil {
		log.Error("user sync failed, continuing with provider identity", logger.Err(err))
	} else {
		sess.UserID = u.ID
		sess.Role = u.Role
	}

	token, exp, err := s.sessions.Issue(sess)
	if err != nil {
		log.Error("session issuance failed", logger.Err(err))
		return nil, err
	}
	sess.ExpiresAt = exp

	log.Info("login completed",
		logger.UserID(sess.UserID),
		logger.Email(util.MaskEmail(sess.Email)),
		logger.Grade(sess.Grade),
	)
	return &CallbackResult{Token: token, ExpiresAt: exp, Session: sess}, nil
}

// redeem exchanges the code and fetches the identity, at most once per code.
// Concurrent duplicate callbacks collapse onto one exchange via singleflight;
// a replay after the first completes hits the spent latch and is rejected
// without touching the provider.
func (s *Service) redeem(ctx context.Context, code, verifier string) (*provider.Identity, error) {
	sum := sha256.Sum256([]byte(code))
	key := "login:code:" + hex.EncodeToString(sum[:])

	v, err, _ := s.group.Do(key, func() (any, error) {
		if !s.cache.Add(key, []byte{1}, s.codeTTL) {
			return nil, ErrReplayed
		}
		tok, err := s.provider.ExchangeCode(ctx, code, verifier)
		if err != nil {
			// Let the client retry the whole flow with a fresh code; this
			// one stays burned either way.
			return nil, err
		}
		return s.provider.FetchIdentity(ctx, tok.AccessToken)
	})
	if err != nil {
		return nil, err
	}
	return v.(*provider.Identity), nil
}
