package flow

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dropDatabas3/kurso/internal/auth/entitle"
	"github.com/dropDatabas3/kurso/internal/auth/provider"
	"github.com/dropDatabas3/kurso/internal/auth/session"
	cachemem "github.com/dropDatabas3/kurso/internal/cache/memory"
	"github.com/dropDatabas3/kurso/internal/store"
	storemem "github.com/dropDatabas3/kurso/internal/store/memory"
)

type fakeExchanger struct {
	exchanges atomic.Int64
	fetches   atomic.Int64

	exchangeErr error
	identity    provider.Identity
}

func (f *fakeExchanger) AuthURL(state, codeChallenge string) string {
	return "https://idp.example.com/authorize?state=" + state + "&code_challenge=" + codeChallenge
}

func (f *fakeExchanger) ExchangeCode(ctx context.Context, code, verifier string) (*provider.TokenResponse, error) {
	f.exchanges.Add(1)
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return &provider.TokenResponse{AccessToken: "at-" + code}, nil
}

func (f *fakeExchanger) FetchIdentity(ctx context.Context, accessToken string) (*provider.Identity, error) {
	f.fetches.Add(1)
	id := f.identity
	return &id, nil
}

type failingUsers struct{}

func (failingUsers) UpsertUserByExternalID(ctx context.Context, u store.User) (store.User, error) {
	return store.User{}, errors.New("db down")
}
func (failingUsers) GetUser(ctx context.Context, id string) (store.User, error) {
	return store.User{}, store.ErrNotFound
}

func newService(t *testing.T, ex provider.Exchanger, users store.Users) *Service {
	t.Helper()
	if users == nil {
		users = storemem.New()
	}
	return New(Deps{
		Provider: ex,
		Sessions: session.NewCodec("test-signing-key"),
		Users:    users,
		Cache:    cachemem.New(time.Minute),
	})
}

func TestStartFreshMaterialPerAttempt(t *testing.T) {
	svc := newService(t, &fakeExchanger{}, nil)

	a, err := svc.Start(context.Background())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	b, err := svc.Start(context.Background())
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if a.State == b.State || a.CodeVerifier == b.CodeVerifier {
		t.Fatal("attempts must not share state or verifier")
	}
	if a.RedirectURL == "" || a.TTL <= 0 {
		t.Fatalf("incomplete start result: %+v", a)
	}
}

func TestCallbackPaidSubscriberGetsEntitledSession(t *testing.T) {
	ex := &fakeExchanger{identity: provider.Identity{
		ExternalID:  "pat-1",
		Email:       "ana@example.com",
		DisplayName: "Ana",
		Grade:       "plus",
		Active:      true,
	}}
	svc := newService(t, ex, nil)

	res, err := svc.Callback(context.Background(), CallbackRequest{
		State:        "st1",
		CookieState:  "st1",
		Code:         "code-1",
		CodeVerifier: "ver-1",
	})
	if err != nil {
		t.Fatalf("callback: %v", err)
	}
	if res.Token == "" {
		t.Fatal("expected a session token")
	}
	if res.Session.Grade != "plus" {
		t.Fatalf("grade = %q", res.Session.Grade)
	}

	// A paid grade unlocks gated lessons.
	if d := entitle.CanAccess(res.Session.Grade, false); !d.Allowed {
		t.Fatalf("plus subscriber must have access: %+v", d)
	}

	// The round-tripped token decodes back to the same session.
	got := session.NewCodec("test-signing-key").Verify(res.Token)
	if got == nil || got.Email != "ana@example.com" || got.Grade != "plus" {
		t.Fatalf("verify: %+v", got)
	}
}

func TestCallbackInactiveSubscriberIsFree(t *testing.T) {
	ex := &fakeExchanger{identity: provider.Identity{
		ExternalID: "pat-2",
		Email:      "leo@example.com",
		Grade:      provider.GradeFree,
		Active:     false,
	}}
	svc := newService(t, ex, nil)

	res, err := svc.Callback(context.Background(), CallbackRequest{
		State:        "st2",
		CookieState:  "st2",
		Code:         "code-2",
		CodeVerifier: "ver-2",
	})
	if err != nil {
		t.Fatalf("callback: %v", err)
	}

	d := entitle.CanAccess(res.Session.Grade, false)
	if d.Allowed {
		t.Fatal("free grade must be denied")
	}
	if d.Reason != entitle.ReasonUpgradeRequired {
		t.Fatalf("reason = %q", d.Reason)
	}
}

func TestCallbackValidation(t *testing.T) {
	cases := []struct {
		name string
		req  CallbackRequest
		want error
	}{
		{"provider error param", CallbackRequest{ProviderError: "access_denied", CookieState: "s", CodeVerifier: "v"}, ErrProviderDenied},
		{"no attempt cookies", CallbackRequest{State: "s", Code: "c"}, ErrMissingAttempt},
		{"verifier cookie missing", CallbackRequest{State: "s", CookieState: "s", Code: "c"}, ErrMissingAttempt},
		{"state mismatch", CallbackRequest{State: "evil", CookieState: "s", CodeVerifier: "v", Code: "c"}, ErrStateMismatch},
		{"empty state", CallbackRequest{CookieState: "s", CodeVerifier: "v", Code: "c"}, ErrStateMismatch},
		{"missing code", CallbackRequest{State: "s", CookieState: "s", CodeVerifier: "v"}, ErrMissingCode},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ex := &fakeExchanger{}
			svc := newService(t, ex, nil)

			_, err := svc.Callback(context.Background(), tc.req)
			if !errors.Is(err, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, err)
			}
			if n := ex.exchanges.Load(); n != 0 {
				t.Fatalf("validation failure must not reach the provider (exchanges=%d)", n)
			}
		})
	}
}

func TestCallbackReplayedCodeRejected(t *testing.T) {
	ex := &fakeExchanger{identity: provider.Identity{ExternalID: "x", Email: "x@example.com", Grade: "plus", Active: true}}
	svc := newService(t, ex, nil)

	req := CallbackRequest{State: "s", CookieState: "s", Code: "code-once", CodeVerifier: "v"}

	if _, err := svc.Callback(context.Background(), req); err != nil {
		t.Fatalf("first callback: %v", err)
	}
	if _, err := svc.Callback(context.Background(), req); !errors.Is(err, ErrReplayed) {
		t.Fatalf("want ErrReplayed, got %v", err)
	}
	if n := ex.exchanges.Load(); n != 1 {
		t.Fatalf("replay must not re-exchange (exchanges=%d)", n)
	}
}

func TestCallbackConcurrentDuplicatesSingleExchange(t *testing.T) {
	ex := &fakeExchanger{identity: provider.Identity{ExternalID: "x", Email: "x@example.com", Grade: "plus", Active: true}}
	svc := newService(t, ex, nil)

	req := CallbackRequest{State: "s", CookieState: "s", Code: "code-dup", CodeVerifier: "v"}

	const n = 16
	var wg sync.WaitGroup
	oks := make(chan bool, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Callback(context.Background(), req)
			oks <- err == nil
		}()
	}
	wg.Wait()
	close(oks)

	if got := ex.exchanges.Load(); got != 1 {
		t.Fatalf("code must be exchanged exactly once, got %d", got)
	}
	any := false
	for ok := range oks {
		any = any || ok
	}
	if !any {
		t.Fatal("at least one duplicate must complete the login")
	}
}

func TestCallbackUserSyncFailureDoesNotBlockLogin(t *testing.T) {
	ex := &fakeExchanger{identity: provider.Identity{
		ExternalID: "pat-9", Email: "z@example.com", Grade: "plus", Active: true,
	}}
	svc := newService(t, ex, failingUsers{})

	res, err := svc.Callback(context.Background(), CallbackRequest{
		State: "s", CookieState: "s", Code: "c9", CodeVerifier: "v",
	})
	if err != nil {
		t.Fatalf("login must survive a store outage: %v", err)
	}
	if res.Session.UserID != "pat-9" {
		t.Fatalf("fallback user id = %q", res.Session.UserID)
	}
}

func TestCallbackExchangeFailurePropagates(t *testing.T) {
	upErr := &provider.UpstreamError{Status: 400, Code: "invalid_grant"}
	ex := &fakeExchanger{exchangeErr: upErr}
	svc := newService(t, ex, nil)

	_, err := svc.Callback(context.Background(), CallbackRequest{
		State: "s", CookieState: "s", Code: "bad", CodeVerifier: "v",
	})
	var ue *provider.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("want UpstreamError, got %v", err)
	}
}
