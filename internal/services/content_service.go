package services

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/trace"

	"github.com/digicollect/server/internal/collector"
	"github.com/digicollect/server/internal/cutter"
	"github.com/digicollect/server/internal/models"
	"github.com/digicollect/server/internal/observability"
	"github.com/digicollect/server/internal/repository"
)

// ErrCutSpecRequired is returned when a clip request carries zero or more
// than one cut variant
var ErrCutSpecRequired = cutter.ValidationError{
	Code:    "spec_required",
	Message: "exactly one cut variant must be provided",
}

// ContentService runs the clip pipeline: resolve a URL into a canonical
// item, validate and apply the cut, render the clip, then store the result.
// A render failure aborts the pipeline before any store mutation.
type ContentService struct {
	normalizer  *collector.Normalizer
	extractor   *cutter.Extractor
	renderer    cutter.Renderer
	collections repository.CollectionWriter
	metrics     *observability.BusinessMetrics
}

// NewContentService creates a new ContentService. renderer may be nil when
// no render backend is configured; clips are then stored without a rendered
// artifact. metrics may be nil when telemetry is disabled.
func NewContentService(
	normalizer *collector.Normalizer,
	extractor *cutter.Extractor,
	renderer cutter.Renderer,
	collections repository.CollectionWriter,
	metrics *observability.BusinessMetrics,
) *ContentService {
	return &ContentService{
		normalizer:  normalizer,
		extractor:   extractor,
		renderer:    renderer,
		collections: collections,
		metrics:     metrics,
	}
}

// Normalize resolves a URL into a canonical item without storing anything
func (s *ContentService) Normalize(ctx context.Context, rawURL string) (*models.CollectibleItem, error) {
	ctx, span := observability.StartSpan(ctx, "content.normalize",
		trace.WithAttributes(observability.Platform(s.normalizer.PlatformFor(rawURL))))
	defer span.End()

	item, err := s.normalizer.Normalize(ctx, rawURL)
	if err != nil {
		observability.RecordError(span, err)
	} else {
		observability.SetSuccess(span)
	}

	if s.metrics != nil {
		platform := "unknown"
		var ferr *collector.FetchError
		if errors.As(err, &ferr) {
			platform = ferr.Platform
		} else if err == nil {
			platform = s.normalizer.PlatformFor(rawURL)
		}
		s.metrics.RecordNormalization(ctx, platform, err == nil)
	}
	return item, err
}

// SaveClip fetches the URL, applies the requested cut and adds the clipped
// item to the collection. The store transaction runs last, so a failed
// fetch, cut or render leaves the collection untouched.
func (s *ContentService) SaveClip(ctx context.Context, userID string, req *models.SaveClipRequest) (*models.CollectionItem, error) {
	spec := req.Spec()
	if spec == nil {
		return nil, ErrCutSpecRequired
	}

	ctx, span := observability.StartSpan(ctx, "content.save_clip",
		trace.WithAttributes(
			observability.CollectionID(req.CollectionID),
			observability.UserID(userID),
		))
	defer span.End()

	item, err := s.normalizer.Normalize(ctx, req.URL)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	clip, err := s.extractor.Extract(*item, spec)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	renderedRef := ""
	if s.renderer != nil {
		renderedRef, err = s.renderer.RenderClip(ctx, item.SourceURL, *clip)
		if s.metrics != nil {
			s.metrics.RecordRenderAttempt(ctx, string(spec.SpecKind()), err == nil)
		}
		if err != nil {
			observability.RecordError(span, err)
			return nil, fmt.Errorf("failed to render clip: %w", err)
		}
	}

	saved, err := s.collections.AddItem(ctx, req.CollectionID, userID, *clip, renderedRef, req.Note)
	if err != nil {
		if s.metrics != nil && errors.Is(err, models.ErrQuotaExceeded) {
			s.metrics.RecordQuotaRejection(ctx, "add_item")
		}
		observability.RecordError(span, err)
		return nil, err
	}
	observability.SetSuccess(span)
	if s.metrics != nil {
		s.metrics.RecordClipSave(ctx, string(saved.Kind), string(spec.SpecKind()))
	}

	observability.WithContext(ctx).WithFields(map[string]interface{}{
		"collection_id": saved.CollectionID,
		"item_id":       saved.ID,
		"kind":          string(saved.Kind),
		"spec":          string(clip.Spec.SpecKind()),
	}).Info("clip saved")
	return saved, nil
}
