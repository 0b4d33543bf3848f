package cutter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digicollect/server/internal/models"
)

func videoItem(duration float64) models.CollectibleItem {
	return models.CollectibleItem{
		Kind:            models.KindVideo,
		SourceURL:       "https://youtube.com/watch?v=abc",
		Title:           "Test Video",
		DurationSeconds: duration,
	}
}

func imageItem(w, h int) models.CollectibleItem {
	return models.CollectibleItem{
		Kind:      models.KindImage,
		SourceURL: "https://pinterest.com/pin/1",
		Dims:      models.Dimensions{Width: w, Height: h},
	}
}

func textItem(body string) models.CollectibleItem {
	return models.CollectibleItem{
		Kind:      models.KindText,
		SourceURL: "https://example.com/article",
		Body:      body,
	}
}

func TestExtractor_TimeRange(t *testing.T) {
	e := NewExtractor()

	t.Run("valid range within duration", func(t *testing.T) {
		clip, err := e.Extract(videoItem(120), models.TimeRange{Start: 10, End: 30})
		require.NoError(t, err)

		spec := clip.Spec.(models.TimeRange)
		assert.Equal(t, 10.0, spec.Start)
		assert.Equal(t, 30.0, spec.End)
		assert.Equal(t, 20.0, clip.LengthOrSize)
	})

	t.Run("end clamped to duration", func(t *testing.T) {
		clip, err := e.Extract(videoItem(120), models.TimeRange{Start: 100, End: 150})
		require.NoError(t, err)

		spec := clip.Spec.(models.TimeRange)
		assert.Equal(t, 100.0, spec.Start)
		assert.Equal(t, 120.0, spec.End)
		assert.Equal(t, 20.0, clip.LengthOrSize)
	})

	t.Run("range entirely past the end is rejected", func(t *testing.T) {
		_, err := e.Extract(videoItem(120), models.TimeRange{Start: 130, End: 150})
		assert.ErrorIs(t, err, ErrOutOfRange)
	})

	t.Run("negative start is rejected", func(t *testing.T) {
		_, err := e.Extract(videoItem(120), models.TimeRange{Start: -5, End: 30})
		assert.ErrorIs(t, err, ErrNegativeBounds)
	})

	t.Run("reversed bounds are rejected not swapped", func(t *testing.T) {
		_, err := e.Extract(videoItem(120), models.TimeRange{Start: 30, End: 10})
		assert.ErrorIs(t, err, ErrOutOfOrder)
	})

	t.Run("empty range is rejected", func(t *testing.T) {
		_, err := e.Extract(videoItem(120), models.TimeRange{Start: 10, End: 10})
		assert.ErrorIs(t, err, ErrOutOfOrder)
	})

	t.Run("unknown duration leaves bounds unclamped", func(t *testing.T) {
		clip, err := e.Extract(videoItem(0), models.TimeRange{Start: 100, End: 900})
		require.NoError(t, err)
		assert.Equal(t, 800.0, clip.LengthOrSize)
	})

	t.Run("applies to audio music and podcast too", func(t *testing.T) {
		for _, kind := range []models.ContentKind{models.KindAudio, models.KindMusic, models.KindPodcast} {
			item := videoItem(60)
			item.Kind = kind
			_, err := e.Extract(item, models.TimeRange{Start: 0, End: 10})
			assert.NoError(t, err, string(kind))
		}
	})

	t.Run("extract is idempotent on its own output", func(t *testing.T) {
		clip, err := e.Extract(videoItem(120), models.TimeRange{Start: 100, End: 150})
		require.NoError(t, err)

		again, err := e.Extract(clip.Item, clip.Spec)
		require.NoError(t, err)
		assert.Equal(t, clip.Spec, again.Spec)
		assert.Equal(t, clip.LengthOrSize, again.LengthOrSize)
	})
}

func TestExtractor_CropRect(t *testing.T) {
	e := NewExtractor()

	t.Run("valid crop within bounds", func(t *testing.T) {
		clip, err := e.Extract(imageItem(800, 600), models.CropRect{X: 100, Y: 100, Width: 200, Height: 150})
		require.NoError(t, err)

		spec := clip.Spec.(models.CropRect)
		assert.Equal(t, 200, spec.Width)
		assert.Equal(t, 150, spec.Height)
		assert.Equal(t, float64(200*150), clip.LengthOrSize)
	})

	t.Run("overflowing crop clamped into image", func(t *testing.T) {
		clip, err := e.Extract(imageItem(800, 600), models.CropRect{X: 700, Y: 500, Width: 300, Height: 300})
		require.NoError(t, err)

		spec := clip.Spec.(models.CropRect)
		assert.Equal(t, 100, spec.Width)
		assert.Equal(t, 100, spec.Height)
	})

	t.Run("crop starting past the image is rejected", func(t *testing.T) {
		_, err := e.Extract(imageItem(800, 600), models.CropRect{X: 800, Y: 0, Width: 100, Height: 100})
		assert.ErrorIs(t, err, ErrOutOfRange)
	})

	t.Run("zero area crop is rejected", func(t *testing.T) {
		_, err := e.Extract(imageItem(800, 600), models.CropRect{X: 0, Y: 0, Width: 0, Height: 100})
		assert.ErrorIs(t, err, ErrOutOfOrder)
	})

	t.Run("negative origin is rejected", func(t *testing.T) {
		_, err := e.Extract(imageItem(800, 600), models.CropRect{X: -10, Y: 0, Width: 100, Height: 100})
		assert.ErrorIs(t, err, ErrNegativeBounds)
	})

	t.Run("unknown dimensions leave bounds unclamped", func(t *testing.T) {
		clip, err := e.Extract(imageItem(0, 0), models.CropRect{X: 0, Y: 0, Width: 5000, Height: 5000})
		require.NoError(t, err)
		assert.Equal(t, float64(5000*5000), clip.LengthOrSize)
	})
}

func TestExtractor_TextSpan(t *testing.T) {
	e := NewExtractor()

	t.Run("excerpt is the selected substring", func(t *testing.T) {
		clip, err := e.Extract(textItem("hello wonderful world"), models.TextSpan{StartIndex: 6, EndIndex: 15})
		require.NoError(t, err)

		assert.Equal(t, "wonderful", clip.Excerpt)
		assert.Equal(t, 9.0, clip.LengthOrSize)
	})

	t.Run("indices address runes not bytes", func(t *testing.T) {
		clip, err := e.Extract(textItem("héllo wörld"), models.TextSpan{StartIndex: 0, EndIndex: 5})
		require.NoError(t, err)

		assert.Equal(t, "héllo", clip.Excerpt)
		assert.Equal(t, 5.0, clip.LengthOrSize)
	})

	t.Run("end clamped to body length", func(t *testing.T) {
		clip, err := e.Extract(textItem("short"), models.TextSpan{StartIndex: 0, EndIndex: 100})
		require.NoError(t, err)

		assert.Equal(t, "short", clip.Excerpt)
	})

	t.Run("span past the body is rejected", func(t *testing.T) {
		_, err := e.Extract(textItem("short"), models.TextSpan{StartIndex: 10, EndIndex: 20})
		assert.ErrorIs(t, err, ErrOutOfRange)
	})

	t.Run("reversed span is rejected", func(t *testing.T) {
		_, err := e.Extract(textItem("short"), models.TextSpan{StartIndex: 3, EndIndex: 1})
		assert.ErrorIs(t, err, ErrOutOfOrder)
	})
}

func TestExtractor_KindMismatch(t *testing.T) {
	e := NewExtractor()

	tests := []struct {
		name string
		item models.CollectibleItem
		spec models.CutSpec
	}{
		{"time range on image", imageItem(800, 600), models.TimeRange{Start: 0, End: 10}},
		{"time range on text", textItem("body"), models.TimeRange{Start: 0, End: 10}},
		{"crop rect on video", videoItem(60), models.CropRect{X: 0, Y: 0, Width: 10, Height: 10}},
		{"text span on music", models.CollectibleItem{Kind: models.KindMusic}, models.TextSpan{StartIndex: 0, EndIndex: 5}},
		{"nil spec", videoItem(60), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Extract(tt.item, tt.spec)
			assert.ErrorIs(t, err, ErrKindMismatch)
		})
	}
}
