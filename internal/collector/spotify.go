package collector

import (
	"context"
	"net/http"
	"strconv"

	"github.com/digicollect/server/internal/models"
)

// SpotifyAdapter collects track metadata from open.spotify.com pages. Track
// length comes from the music:duration OpenGraph property when present.
type SpotifyAdapter struct {
	client    *http.Client
	userAgent string
}

// NewSpotifyAdapter creates a new SpotifyAdapter
func NewSpotifyAdapter(client *http.Client, userAgent string) *SpotifyAdapter {
	return &SpotifyAdapter{client: client, userAgent: userAgent}
}

func (a *SpotifyAdapter) Platform() string { return "spotify" }

func (a *SpotifyAdapter) Fetch(ctx context.Context, url string) (RawPayload, error) {
	_, meta, err := fetchPage(ctx, a.client, a.userAgent, url)
	if err != nil {
		return nil, err
	}

	duration := 0.0
	if meta.MusicDuration != "" {
		if secs, err := strconv.ParseFloat(meta.MusicDuration, 64); err == nil && secs > 0 {
			duration = secs
		}
	}

	return RawPayload{
		fieldKind:        string(models.KindMusic),
		fieldTitle:       meta.Title,
		fieldDescription: meta.Description,
		fieldThumbnail:   meta.Image,
		fieldDuration:    duration,
	}, nil
}
