package collector

import (
	"context"
	"fmt"
)

// RawPayload is the untyped field bag a platform adapter returns. The
// normalizer owns the mapping into the canonical item; adapters only report
// what the platform exposed.
type RawPayload map[string]any

// PlatformAdapter fetches platform-native fields for a URL
type PlatformAdapter interface {
	// Platform returns the adapter identifier (youtube, twitter, ...)
	Platform() string
	// Fetch retrieves the raw payload for a URL. The context carries the
	// caller's timeout and cancellation.
	Fetch(ctx context.Context, url string) (RawPayload, error)
}

// FetchError wraps an adapter failure: network error, timeout, parse error
// or a payload missing required fields. The cause is preserved for logging.
type FetchError struct {
	Platform string
	URL      string
	Timeout  bool
	Cause    error
}

func (e *FetchError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%s fetch timed out for %s", e.Platform, e.URL)
	}
	return fmt.Sprintf("%s fetch failed for %s: %v", e.Platform, e.URL, e.Cause)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// Payload field keys shared by all adapters
const (
	fieldKind        = "kind"
	fieldTitle       = "title"
	fieldDescription = "description"
	fieldThumbnail   = "thumbnail"
	fieldDuration    = "duration"
	fieldWidth       = "width"
	fieldHeight      = "height"
	fieldBody        = "body"
)

func stringField(p RawPayload, key string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return ""
}

func floatField(p RawPayload, key string) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func intField(p RawPayload, key string) int {
	switch v := p[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}
