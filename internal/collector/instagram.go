package collector

import (
	"context"
	"net/http"
	"strings"

	"github.com/digicollect/server/internal/models"
)

// InstagramAdapter collects post metadata from instagram.com pages. The
// og:type distinguishes video posts from image posts.
type InstagramAdapter struct {
	client    *http.Client
	userAgent string
}

// NewInstagramAdapter creates a new InstagramAdapter
func NewInstagramAdapter(client *http.Client, userAgent string) *InstagramAdapter {
	return &InstagramAdapter{client: client, userAgent: userAgent}
}

func (a *InstagramAdapter) Platform() string { return "instagram" }

func (a *InstagramAdapter) Fetch(ctx context.Context, url string) (RawPayload, error) {
	_, meta, err := fetchPage(ctx, a.client, a.userAgent, url)
	if err != nil {
		return nil, err
	}

	kind := models.KindImage
	if strings.Contains(meta.OGType, "video") {
		kind = models.KindVideo
	}

	return RawPayload{
		fieldKind:        string(kind),
		fieldTitle:       meta.Title,
		fieldDescription: meta.Description,
		fieldThumbnail:   meta.Image,
	}, nil
}
