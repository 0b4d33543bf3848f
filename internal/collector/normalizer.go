package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/digicollect/server/internal/models"
	"github.com/digicollect/server/internal/observability"
)

// Options configures the normalizer's outbound fetching
type Options struct {
	// FetchTimeout bounds each adapter fetch. Required; fetches never hang.
	FetchTimeout time.Duration

	// MaxConcurrentFetches bounds simultaneous outbound connections.
	MaxConcurrentFetches int

	UserAgent string
}

// DefaultOptions returns sane fetching defaults
func DefaultOptions() Options {
	return Options{
		FetchTimeout:         15 * time.Second,
		MaxConcurrentFetches: 8,
		UserAgent:            "Mozilla/5.0 (compatible; DigiCollect/1.0)",
	}
}

// Normalizer dispatches a URL to the matching platform adapter and maps the
// raw payload into the canonical CollectibleItem schema. It is a pure
// request/response mapping: no retries, no caching, no state.
type Normalizer struct {
	adapters map[string]PlatformAdapter
	fallback PlatformAdapter
	pool     *FetchPool
	timeout  time.Duration
}

// NewNormalizer builds the normalizer with the standard adapter registry
func NewNormalizer(opts Options) *Normalizer {
	client := &http.Client{Timeout: opts.FetchTimeout}

	youtube := NewYouTubeAdapter(client, opts.UserAgent)
	twitter := NewTwitterAdapter(client, opts.UserAgent)
	instagram := NewInstagramAdapter(client, opts.UserAgent)
	spotify := NewSpotifyAdapter(client, opts.UserAgent)
	pinterest := NewPinterestAdapter(client, opts.UserAgent)

	return &Normalizer{
		adapters: map[string]PlatformAdapter{
			"youtube.com":      youtube,
			"youtu.be":         youtube,
			"twitter.com":      twitter,
			"x.com":            twitter,
			"instagram.com":    instagram,
			"open.spotify.com": spotify,
			"pinterest.com":    pinterest,
		},
		fallback: NewWebpageAdapter(client, opts.UserAgent),
		pool:     NewFetchPool(opts.MaxConcurrentFetches, 0),
		timeout:  opts.FetchTimeout,
	}
}

// Close releases the fetch pool
func (n *Normalizer) Close() {
	n.pool.Close()
}

// AdapterFor returns the adapter handling a registrable domain
func (n *Normalizer) AdapterFor(domain string) PlatformAdapter {
	if adapter, ok := n.adapters[strings.TrimPrefix(domain, "www.")]; ok {
		return adapter
	}
	return n.fallback
}

// PlatformFor reports which platform would handle a URL without fetching it
func (n *Normalizer) PlatformFor(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return "unknown"
	}
	return n.AdapterFor(parsed.Hostname()).Platform()
}

// Normalize resolves a URL into a canonical item. Adapter failures come back
// as *FetchError with the cause preserved; absent fields become zero values,
// never fabricated ones.
func (n *Normalizer) Normalize(ctx context.Context, rawURL string) (*models.CollectibleItem, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return nil, &FetchError{Platform: "normalizer", URL: rawURL, Cause: fmt.Errorf("invalid URL")}
	}

	adapter := n.AdapterFor(parsed.Hostname())
	log := observability.WithContext(ctx).WithField("platform", adapter.Platform())
	log.Debugf("normalizing %s", rawURL)

	fetchCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	payload, err := n.pool.Do(fetchCtx, func(ctx context.Context) (RawPayload, error) {
		return adapter.Fetch(ctx, rawURL)
	})
	if err != nil {
		ferr := &FetchError{
			Platform: adapter.Platform(),
			URL:      rawURL,
			Timeout:  isTimeout(err),
			Cause:    err,
		}
		log.Warnf("fetch failed: %v", ferr)
		return nil, ferr
	}

	item, err := mapPayload(rawURL, payload)
	if err != nil {
		return nil, &FetchError{Platform: adapter.Platform(), URL: rawURL, Cause: err}
	}

	log.Infof("normalized %s as %s", rawURL, item.Kind)
	return item, nil
}

// mapPayload applies the adapter field table, copying only fields that
// belong to the reported kind so one adapter's fields never leak into a
// different kind's item.
func mapPayload(sourceURL string, payload RawPayload) (*models.CollectibleItem, error) {
	kind := models.ContentKind(stringField(payload, fieldKind))
	if !models.IsValidKind(string(kind)) {
		return nil, fmt.Errorf("payload reported unknown kind %q", kind)
	}

	item := &models.CollectibleItem{
		Kind:         kind,
		SourceURL:    sourceURL,
		Title:        stringField(payload, fieldTitle),
		Description:  stringField(payload, fieldDescription),
		ThumbnailURL: stringField(payload, fieldThumbnail),
	}

	switch {
	case kind.IsTimed():
		if d := floatField(payload, fieldDuration); d > 0 {
			item.DurationSeconds = d
		}
	case kind == models.KindImage:
		item.Dims = models.Dimensions{
			Width:  clampNonNegative(intField(payload, fieldWidth)),
			Height: clampNonNegative(intField(payload, fieldHeight)),
		}
	case kind == models.KindText:
		item.Body = stringField(payload, fieldBody)
	}

	return item, nil
}

func clampNonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
