package cutter

import (
	"github.com/digicollect/server/internal/models"
)

// ValidationError reports a rejected cut spec. Validation failures are not
// retryable; the caller must correct the input.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

var (
	ErrKindMismatch   = ValidationError{"kind_mismatch", "cut spec variant does not match the item kind"}
	ErrNegativeBounds = ValidationError{"negative_bounds", "cut spec bounds must not be negative"}
	ErrOutOfOrder     = ValidationError{"out_of_order", "cut spec bounds are empty or reversed"}
	ErrOutOfRange     = ValidationError{"out_of_range", "cut spec lies outside the item's extent"}
)

// Extractor derives a bounded sub-artifact description from a canonical
// item. It validates and clamps; it never touches bytes. Media trimming and
// image cropping are delegated to a Renderer, text extraction happens here
// since a substring needs no external tool.
type Extractor struct{}

// NewExtractor creates a new Extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract validates spec against item and returns the normalized clip.
// Bounds overlapping a known extent are clamped into it; bounds entirely
// outside it are rejected. Reversed bounds are rejected rather than swapped
// so caller bugs surface instead of being hidden.
func (e *Extractor) Extract(item models.CollectibleItem, spec models.CutSpec) (*models.ClipResult, error) {
	if spec == nil {
		return nil, ErrKindMismatch
	}
	if !spec.AppliesTo(item.Kind) {
		return nil, ErrKindMismatch
	}

	switch s := spec.(type) {
	case models.TimeRange:
		return extractTimeRange(item, s)
	case models.CropRect:
		return extractCropRect(item, s)
	case models.TextSpan:
		return extractTextSpan(item, s)
	}
	return nil, ErrKindMismatch
}

func extractTimeRange(item models.CollectibleItem, s models.TimeRange) (*models.ClipResult, error) {
	if s.Start < 0 || s.End < 0 {
		return nil, ErrNegativeBounds
	}
	if s.Start >= s.End {
		return nil, ErrOutOfOrder
	}

	// Duration 0 means unknown length: nothing to clamp against, the
	// caller-provided bounds stand.
	if item.DurationSeconds > 0 {
		s.Start = clampFloat(s.Start, item.DurationSeconds)
		s.End = clampFloat(s.End, item.DurationSeconds)
		if s.Start >= s.End {
			return nil, ErrOutOfRange
		}
	}

	return &models.ClipResult{
		Item:         item,
		Spec:         s,
		LengthOrSize: s.End - s.Start,
	}, nil
}

func extractCropRect(item models.CollectibleItem, s models.CropRect) (*models.ClipResult, error) {
	if s.X < 0 || s.Y < 0 || s.Width < 0 || s.Height < 0 {
		return nil, ErrNegativeBounds
	}
	if s.Width == 0 || s.Height == 0 {
		return nil, ErrOutOfOrder
	}

	if item.Dims.Known() {
		s.X = clampInt(s.X, item.Dims.Width)
		s.Y = clampInt(s.Y, item.Dims.Height)
		s.Width = clampInt(s.Width, item.Dims.Width-s.X)
		s.Height = clampInt(s.Height, item.Dims.Height-s.Y)
		if s.Width == 0 || s.Height == 0 {
			return nil, ErrOutOfRange
		}
	}

	return &models.ClipResult{
		Item:         item,
		Spec:         s,
		LengthOrSize: float64(s.Width * s.Height),
	}, nil
}

func extractTextSpan(item models.CollectibleItem, s models.TextSpan) (*models.ClipResult, error) {
	if s.StartIndex < 0 || s.EndIndex < 0 {
		return nil, ErrNegativeBounds
	}
	if s.StartIndex >= s.EndIndex {
		return nil, ErrOutOfOrder
	}

	// Text extent is always known: the body itself. Indices address runes
	// so a clip never splits a multi-byte character.
	runes := []rune(item.Body)
	extent := len(runes)
	s.StartIndex = clampInt(s.StartIndex, extent)
	s.EndIndex = clampInt(s.EndIndex, extent)
	if s.StartIndex >= s.EndIndex {
		return nil, ErrOutOfRange
	}

	return &models.ClipResult{
		Item:         item,
		Spec:         s,
		LengthOrSize: float64(s.EndIndex - s.StartIndex),
		Excerpt:      string(runes[s.StartIndex:s.EndIndex]),
	}, nil
}

func clampFloat(v, max float64) float64 {
	if v > max {
		return max
	}
	return v
}

func clampInt(v, max int) int {
	if v > max {
		return max
	}
	return v
}
