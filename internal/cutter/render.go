package cutter

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/digicollect/server/internal/models"
	"github.com/digicollect/server/internal/observability"
)

// Renderer produces the actual bytes for a clip: a trimmed media file or a
// cropped image. Implementations call external tools or services; failures
// are transient by default and retried by RetryingRenderer.
type Renderer interface {
	RenderClip(ctx context.Context, sourceRef string, clip models.ClipResult) (string, error)
}

// RenderError wraps a render worker failure
type RenderError struct {
	Stage string
	Cause error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render failed during %s: %v", e.Stage, e.Cause)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// ClipRenderer routes a clip to the worker matching its spec variant. Text
// clips need no rendering; the extractor already computed the excerpt.
type ClipRenderer struct {
	media Renderer
	image Renderer
}

// NewClipRenderer creates a ClipRenderer over the given workers
func NewClipRenderer(media, image Renderer) *ClipRenderer {
	return &ClipRenderer{media: media, image: image}
}

// RenderClip dispatches to the right worker. For text specs it returns an
// empty ref and no error.
func (r *ClipRenderer) RenderClip(ctx context.Context, sourceRef string, clip models.ClipResult) (string, error) {
	switch clip.Spec.SpecKind() {
	case models.SpecTimeRange:
		return r.media.RenderClip(ctx, sourceRef, clip)
	case models.SpecCropRect:
		return r.image.RenderClip(ctx, sourceRef, clip)
	case models.SpecTextSpan:
		return "", nil
	}
	return "", &RenderError{Stage: "dispatch", Cause: fmt.Errorf("no worker for spec kind %q", clip.Spec.SpecKind())}
}

// RetryingRenderer retries a wrapped renderer with exponential backoff,
// capped at a fixed number of attempts before the failure surfaces.
type RetryingRenderer struct {
	inner       Renderer
	maxAttempts uint
}

// NewRetryingRenderer wraps a renderer with bounded retries. attempts <= 0
// defaults to 3.
func NewRetryingRenderer(inner Renderer, attempts int) *RetryingRenderer {
	if attempts <= 0 {
		attempts = 3
	}
	return &RetryingRenderer{inner: inner, maxAttempts: uint(attempts)}
}

func (r *RetryingRenderer) RenderClip(ctx context.Context, sourceRef string, clip models.ClipResult) (string, error) {
	attempt := 0
	ref, err := backoff.Retry(ctx, func() (string, error) {
		attempt++
		ref, err := r.inner.RenderClip(ctx, sourceRef, clip)
		if err != nil && attempt < int(r.maxAttempts) {
			observability.WithContext(ctx).Warnf("render attempt %d failed, retrying: %v", attempt, err)
		}
		return ref, err
	},
		backoff.WithBackOff(newRenderBackOff()),
		backoff.WithMaxTries(r.maxAttempts),
	)
	if err != nil {
		return "", err
	}
	return ref, nil
}

func newRenderBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	return b
}
