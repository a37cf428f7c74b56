// Package entitle decides whether a viewer may access a piece of content.
// Pure functions only: no I/O, no clocks, no transport types.
package entitle

import "strings"

// GradeFree is the sentinel grade for viewers without an active paid
// subscription.
const GradeFree = "free"

// ReasonUpgradeRequired is the fixed user-facing reason attached to every
// denial. Operator detail belongs in logs, not here.
const ReasonUpgradeRequired = "This lesson requires an active paid subscription."

// Decision is the allow/deny outcome. Not persisted.
type Decision struct {
	Allowed bool
	Reason  string
}

// CanAccess applies the canonical entitlement rule:
//
//   - free-preview content is always allowed, whatever the grade or auth
//     state;
//   - otherwise the viewer needs a grade that is non-empty and not the
//     "free" sentinel (case-insensitive).
//
// Unrecognized paid grades intentionally pass: the provider owns the tier
// vocabulary and new tiers must not lock out paying subscribers.
func CanAccess(grade string, freePreview bool) Decision {
	if freePreview {
		return Decision{Allowed: true}
	}
	g := strings.ToLower(strings.TrimSpace(grade))
	if g == "" || g == GradeFree {
		return Decision{Allowed: false, Reason: ReasonUpgradeRequired}
	}
	return Decision{Allowed: true}
}
