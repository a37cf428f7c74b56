// Package video mints playback descriptors for lesson videos. Each hosting
// provider has its own way of authorizing playback: Cloudflare Stream wants
// a short-lived signed token, Vimeo resolves through oEmbed.
package video

import (
	"context"
	"errors"
	"time"
)

// ErrUnknownProvider: the lesson references a video host we have no minter for.
var ErrUnknownProvider = errors.New("video: unknown provider")

// Playback is what the frontend needs to render the player. Token is only
// set for providers that gate playback server-side; URL is always set.
type Playback struct {
	Provider  string    `json:"provider"`
	URL       string    `json:"url"`
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Minter authorizes playback of one video reference.
type Minter interface {
	Playback(ctx context.Context, ref string) (*Playback, error)
}

// Registry routes a lesson's provider name to its minter.
type Registry map[string]Minter

func (r Registry) Playback(ctx context.Context, providerName, ref string) (*Playback, error) {
	m, ok := r[providerName]
	if !ok {
		return nil, ErrUnknownProvider
	}
	return m.Playback(ctx, ref)
}
