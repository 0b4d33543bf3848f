package collector

import (
	"context"
	"net/http"
	"regexp"
	"strconv"

	"github.com/digicollect/server/internal/models"
)

// YouTubeAdapter collects video metadata from youtube.com / youtu.be pages
type YouTubeAdapter struct {
	client    *http.Client
	userAgent string
}

// NewYouTubeAdapter creates a new YouTubeAdapter
func NewYouTubeAdapter(client *http.Client, userAgent string) *YouTubeAdapter {
	return &YouTubeAdapter{client: client, userAgent: userAgent}
}

func (a *YouTubeAdapter) Platform() string { return "youtube" }

// lengthSecondsRe finds the duration embedded in the watch page's player
// config; og: tags on YouTube carry no duration.
var lengthSecondsRe = regexp.MustCompile(`"lengthSeconds"\s*:\s*"(\d+)"`)

func (a *YouTubeAdapter) Fetch(ctx context.Context, url string) (RawPayload, error) {
	raw, meta, err := fetchPage(ctx, a.client, a.userAgent, url)
	if err != nil {
		return nil, err
	}

	duration := 0.0
	if m := lengthSecondsRe.FindSubmatch(raw); m != nil {
		if secs, err := strconv.Atoi(string(m[1])); err == nil {
			duration = float64(secs)
		}
	}

	return RawPayload{
		fieldKind:        string(models.KindVideo),
		fieldTitle:       meta.Title,
		fieldDescription: meta.Description,
		fieldThumbnail:   meta.Image,
		fieldDuration:    duration,
	}, nil
}
