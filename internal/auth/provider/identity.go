package provider

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// GradeFree is the sentinel grade for viewers without an active paid
// subscription. Any inactive subscription normalizes to it, whatever stale
// plan field the provider still reports.
const GradeFree = "free"

// Identity is the canonical identity derived from the provider's user-info
// payload. Transient: it is folded into a Session right after login.
type Identity struct {
	ExternalID  string
	Email       string
	DisplayName string
	Grade       string
	Active      bool
}

// ErrIdentityIncomplete marks a payload that decoded but lacks the required
// fields (external id, email), or matches no known shape. Distinct from
// transport failure so the orchestrator can show a different message.
var ErrIdentityIncomplete = errors.New("provider: identity payload incomplete")

// The provider has shipped (at least) two shapes for the same semantic
// fields. Each known shape gets its own struct and mapping; an unmatched
// shape is an explicit error, never silently-defaulted fields.

// flatPayload: {"sub": "...", "email": "...", "name": "...",
// "grade": "...", "subscription_active": true}
type flatPayload struct {
	Sub    string `json:"sub"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Grade  string `json:"grade"`
	Active *bool  `json:"subscription_active"`
}

func (p *flatPayload) matches() bool { return p.Sub != "" }

func (p *flatPayload) identity() *Identity {
	active := p.Active == nil || *p.Active
	return &Identity{
		ExternalID:  p.Sub,
		Email:       p.Email,
		DisplayName: p.Name,
		Grade:       deriveGrade(p.Grade, active),
		Active:      active,
	}
}

// nestedPayload: {"user": {"uuid": "...", "email": "...",
// "display_name": "..."}, "subscription": {"plan": "...", "status": "active"}}
type nestedPayload struct {
	User struct {
		UUID        string `json:"uuid"`
		Email       string `json:"email"`
		DisplayName string `json:"display_name"`
	} `json:"user"`
	Subscription struct {
		Plan   string `json:"plan"`
		Status string `json:"status"`
	} `json:"subscription"`
}

func (p *nestedPayload) matches() bool { return p.User.UUID != "" }

func (p *nestedPayload) identity() *Identity {
	active := strings.EqualFold(p.Subscription.Status, "active")
	return &Identity{
		ExternalID:  p.User.UUID,
		Email:       p.User.Email,
		DisplayName: p.User.DisplayName,
		Grade:       deriveGrade(p.Subscription.Plan, active),
		Active:      active,
	}
}

// deriveGrade: active subscription keeps its case-folded plan identifier;
// anything else is the free sentinel, stale plan fields included.
func deriveGrade(plan string, active bool) string {
	plan = strings.ToLower(strings.TrimSpace(plan))
	if !active || plan == "" {
		return GradeFree
	}
	return plan
}

// NormalizeIdentity maps a raw user-info payload onto the canonical
// Identity. Shapes are probed in order; the first match wins. Missing
// required fields after mapping yield ErrIdentityIncomplete.
func NormalizeIdentity(raw []byte) (*Identity, error) {
	var flat flatPayload
	if err := json.Unmarshal(raw, &flat); err == nil && flat.matches() {
		return requireComplete(flat.identity())
	}

	var nested nestedPayload
	if err := json.Unmarshal(raw, &nested); err == nil && nested.matches() {
		return requireComplete(nested.identity())
	}

	return nil, fmt.Errorf("%w: unrecognized payload shape", ErrIdentityIncomplete)
}

func requireComplete(id *Identity) (*Identity, error) {
	if id.ExternalID == "" {
		return nil, fmt.Errorf("%w: missing external id", ErrIdentityIncomplete)
	}
	if id.Email == "" {
		return nil, fmt.Errorf("%w: missing email", ErrIdentityIncomplete)
	}
	return id, nil
}
