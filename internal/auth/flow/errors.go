package flow

import "errors"

// Sentinel errors. The HTTP layer maps these onto the public error taxonomy;
// services wrap them with fmt.Errorf("%w: %v", ...) to preserve matching.
var (
	// ErrStateMismatch: the state echoed by the provider does not match the
	// one this client started with. Treated as CSRF, never retried.
	ErrStateMismatch = errors.New("flow: state mismatch")

	// ErrMissingCode: the callback arrived without an authorization code.
	ErrMissingCode = errors.New("flow: missing authorization code")

	// ErrMissingAttempt: no login attempt is in progress for this client
	// (state or verifier cookie absent or expired).
	ErrMissingAttempt = errors.New("flow: no login attempt in progress")

	// ErrReplayed: this authorization code was already consumed. Codes are
	// single-use; a second callback with the same code is rejected without
	// contacting the provider.
	ErrReplayed = errors.New("flow: authorization code already used")

	// ErrProviderDenied: the provider redirected back with an error param
	// (user cancelled the consent screen, access denied, etc.).
	ErrProviderDenied = errors.New("flow: provider denied authorization")
)
