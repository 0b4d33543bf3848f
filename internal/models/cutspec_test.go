package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCutSpec_EncodeDecode(t *testing.T) {
	specs := []CutSpec{
		TimeRange{Start: 12.5, End: 40},
		CropRect{X: 10, Y: 20, Width: 300, Height: 200},
		TextSpan{StartIndex: 0, EndIndex: 42},
	}

	for _, spec := range specs {
		t.Run(string(spec.SpecKind()), func(t *testing.T) {
			encoded, err := EncodeCutSpec(spec)
			require.NoError(t, err)

			decoded, err := DecodeCutSpec(encoded)
			require.NoError(t, err)
			assert.Equal(t, spec, decoded)
		})
	}
}

func TestDecodeCutSpec_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown kind", `{"kind":"laser_cut"}`},
		{"time range missing end", `{"kind":"time_range","start":5}`},
		{"crop rect missing height", `{"kind":"crop_rect","x":0,"y":0,"width":10}`},
		{"text span missing bounds", `{"kind":"text_span"}`},
		{"not json", `{{{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCutSpec(tt.data)
			assert.Error(t, err)
		})
	}
}

func TestCutSpec_AppliesTo(t *testing.T) {
	t.Run("time range covers every timed kind", func(t *testing.T) {
		for _, kind := range []ContentKind{KindVideo, KindAudio, KindMusic, KindPodcast} {
			assert.True(t, TimeRange{}.AppliesTo(kind), string(kind))
		}
		assert.False(t, TimeRange{}.AppliesTo(KindImage))
		assert.False(t, TimeRange{}.AppliesTo(KindText))
	})

	t.Run("crop rect is image only", func(t *testing.T) {
		assert.True(t, CropRect{}.AppliesTo(KindImage))
		assert.False(t, CropRect{}.AppliesTo(KindVideo))
	})

	t.Run("text span is text only", func(t *testing.T) {
		assert.True(t, TextSpan{}.AppliesTo(KindText))
		assert.False(t, TextSpan{}.AppliesTo(KindMusic))
	})
}
