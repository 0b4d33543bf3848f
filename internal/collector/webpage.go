package collector

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"

	"github.com/digicollect/server/internal/models"
)

// WebpageAdapter is the fallback for domains with no dedicated adapter. It
// treats the page as a text item: head metadata for title/description and a
// readability pass over the document for the article body.
type WebpageAdapter struct {
	client    *http.Client
	userAgent string
}

// NewWebpageAdapter creates a new WebpageAdapter
func NewWebpageAdapter(client *http.Client, userAgent string) *WebpageAdapter {
	return &WebpageAdapter{client: client, userAgent: userAgent}
}

func (a *WebpageAdapter) Platform() string { return "webpage" }

func (a *WebpageAdapter) Fetch(ctx context.Context, pageURL string) (RawPayload, error) {
	raw, meta, err := fetchPage(ctx, a.client, a.userAgent, pageURL)
	if err != nil {
		return nil, err
	}

	parsed, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}

	body := ""
	thumbnail := meta.Image
	if article, err := readability.FromReader(bytes.NewReader(raw), parsed); err == nil {
		body = strings.TrimSpace(article.TextContent)
		if thumbnail == "" {
			thumbnail = article.Image
		}
		if meta.Title == "" {
			meta.Title = article.Title
		}
		if meta.Description == "" {
			meta.Description = article.Excerpt
		}
	}

	return RawPayload{
		fieldKind:        string(models.KindText),
		fieldTitle:       meta.Title,
		fieldDescription: meta.Description,
		fieldThumbnail:   thumbnail,
		fieldBody:        body,
	}, nil
}
