package collector

import (
	"context"
	"net/http"

	"github.com/digicollect/server/internal/models"
)

// TwitterAdapter collects post metadata from twitter.com / x.com pages.
// Posts are treated as text items; the og:description carries the post body.
type TwitterAdapter struct {
	client    *http.Client
	userAgent string
}

// NewTwitterAdapter creates a new TwitterAdapter
func NewTwitterAdapter(client *http.Client, userAgent string) *TwitterAdapter {
	return &TwitterAdapter{client: client, userAgent: userAgent}
}

func (a *TwitterAdapter) Platform() string { return "twitter" }

func (a *TwitterAdapter) Fetch(ctx context.Context, url string) (RawPayload, error) {
	_, meta, err := fetchPage(ctx, a.client, a.userAgent, url)
	if err != nil {
		return nil, err
	}

	return RawPayload{
		fieldKind:        string(models.KindText),
		fieldTitle:       meta.Title,
		fieldDescription: meta.Description,
		fieldThumbnail:   meta.Image,
		fieldBody:        meta.Description,
	}, nil
}
