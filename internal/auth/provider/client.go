// Package provider drives the authorization-code exchange and user-info
// retrieval against the external identity provider, normalizing its
// heterogeneous response shapes into one canonical Identity.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Exchanger is the surface the login orchestrator depends on.
type Exchanger interface {
	AuthURL(state, codeChallenge string) string
	ExchangeCode(ctx context.Context, code, verifier string) (*TokenResponse, error)
	FetchIdentity(ctx context.Context, accessToken string) (*Identity, error)
}

// TokenResponse is the provider's token-endpoint response.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// UpstreamError: non-2xx from the provider, carrying its error description
// when present. Distinct from ErrIdentityIncomplete.
type UpstreamError struct {
	Status      int
	Code        string
	Description string
}

func (e *UpstreamError) Error() string {
	if e.Code != "" || e.Description != "" {
		return fmt.Sprintf("provider: http %d: %s %s", e.Status, e.Code, e.Description)
	}
	return fmt.Sprintf("provider: http %d", e.Status)
}

// Client talks to one identity provider. The client secret stays on this
// side; the browser only ever sees the authorize redirect.
type Client struct {
	Name         string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthorizeURL string
	TokenURL     string
	UserInfoURL  string
	Scopes       []string

	http *http.Client
}

// Config for New.
type Config struct {
	Name         string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthorizeURL string
	TokenURL     string
	UserInfoURL  string
	Scopes       []string
	Timeout      time.Duration
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		Name:         cfg.Name,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		AuthorizeURL: cfg.AuthorizeURL,
		TokenURL:     cfg.TokenURL,
		UserInfoURL:  cfg.UserInfoURL,
		Scopes:       cfg.Scopes,
		http:         &http.Client{Timeout: timeout},
	}
}

// AuthURL builds the authorization redirect with the PKCE S256 challenge.
func (c *Client) AuthURL(state, codeChallenge string) string {
	u, err := url.Parse(c.AuthorizeURL)
	if err != nil {
		return ""
	}
	q := u.Query()
	q.Set("response_type", "code")
	q.Set("client_id", c.ClientID)
	q.Set("redirect_uri", c.RedirectURL)
	q.Set("scope", strings.Join(c.Scopes, " "))
	q.Set("state", state)
	q.Set("code_challenge", codeChallenge)
	q.Set("code_challenge_method", "S256")
	u.RawQuery = q.Encode()
	return u.String()
}

// ExchangeCode trades code+verifier for an access token. Never retried:
// authorization codes are single-use, so a retry after a slow-but-successful
// first attempt would fail and must surface as a terminal error.
func (c *Client) ExchangeCode(ctx context.Context, code, verifier string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("code_verifier", verifier)
	form.Set("client_id", c.ClientID)
	form.Set("client_secret", c.ClientSecret)
	form.Set("redirect_uri", c.RedirectURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, upstreamError(resp)
	}

	var tr TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("provider: decoding token response: %w", err)
	}
	if tr.AccessToken == "" {
		return nil, &UpstreamError{Status: resp.StatusCode, Description: "no access_token in response"}
	}
	return &tr, nil
}

// FetchIdentity gets and normalizes the user-info payload. The GET is
// idempotent, so a transport failure or 5xx is retried exactly once.
func (c *Client) FetchIdentity(ctx context.Context, accessToken string) (*Identity, error) {
	raw, err := c.userInfo(ctx, accessToken)
	if err != nil {
		if ue, ok := err.(*UpstreamError); ok && ue.Status < 500 {
			return nil, err // 4xx won't get better on retry
		}
		raw, err = c.userInfo(ctx, accessToken)
		if err != nil {
			return nil, err
		}
	}
	return NormalizeIdentity(raw)
}

func (c *Client) userInfo(ctx context.Context, accessToken string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.UserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, upstreamError(resp)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 1<<20))
}

func upstreamError(resp *http.Response) error {
	var b struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&b)
	return &UpstreamError{Status: resp.StatusCode, Code: b.Error, Description: b.ErrorDescription}
}
