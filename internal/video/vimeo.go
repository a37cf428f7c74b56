package video

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const vimeoOEmbedURL = "https://vimeo.com/api/oembed.json"

// Vimeo resolves playback through the public oEmbed endpoint. There is no
// token to mint: access control lives in the video's embed settings, so we
// only confirm the reference resolves and hand back the player URL.
type Vimeo struct {
	base string
	http *http.Client
}

// NewVimeo builds the resolver. oembedURL overrides the public endpoint
// when non-empty (self-hosted proxies, tests).
func NewVimeo(oembedURL string) *Vimeo {
	if oembedURL == "" {
		oembedURL = vimeoOEmbedURL
	}
	return &Vimeo{
		base: oembedURL,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

type oembedResponse struct {
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnail_url"`
	HTML         string `json:"html"`
}

func (v *Vimeo) Playback(ctx context.Context, ref string) (*Playback, error) {
	q := url.Values{}
	q.Set("url", "https://vimeo.com/"+ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.base+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := v.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("video: vimeo oembed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("video: vimeo oembed status %d", resp.StatusCode)
	}

	var body oembedResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return nil, fmt.Errorf("video: vimeo oembed decode: %w", err)
	}

	return &Playback{
		Provider: "vimeo",
		URL:      "https://player.vimeo.com/video/" + ref,
	}, nil
}
