package collector

import (
	"context"
	"net/http"

	"github.com/digicollect/server/internal/models"
)

// PinterestAdapter collects pin metadata from pinterest.com pages
type PinterestAdapter struct {
	client    *http.Client
	userAgent string
}

// NewPinterestAdapter creates a new PinterestAdapter
func NewPinterestAdapter(client *http.Client, userAgent string) *PinterestAdapter {
	return &PinterestAdapter{client: client, userAgent: userAgent}
}

func (a *PinterestAdapter) Platform() string { return "pinterest" }

func (a *PinterestAdapter) Fetch(ctx context.Context, url string) (RawPayload, error) {
	_, meta, err := fetchPage(ctx, a.client, a.userAgent, url)
	if err != nil {
		return nil, err
	}

	return RawPayload{
		fieldKind:        string(models.KindImage),
		fieldTitle:       meta.Title,
		fieldDescription: meta.Description,
		fieldThumbnail:   meta.Image,
	}, nil
}
