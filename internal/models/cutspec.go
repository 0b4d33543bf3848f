package models

import (
	"encoding/json"
	"fmt"
)

// SpecKind identifies a CutSpec variant
type SpecKind string

const (
	SpecTimeRange SpecKind = "time_range"
	SpecCropRect  SpecKind = "crop_rect"
	SpecTextSpan  SpecKind = "text_span"
)

// CutSpec describes the sub-range of an item a user wants to keep.
// Exactly one variant applies per content kind class: TimeRange for timed
// media, CropRect for images, TextSpan for text.
type CutSpec interface {
	SpecKind() SpecKind
	// AppliesTo reports whether this variant matches the item kind's class.
	AppliesTo(kind ContentKind) bool
}

// TimeRange selects [Start, End) seconds of a timed media item
type TimeRange struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func (TimeRange) SpecKind() SpecKind { return SpecTimeRange }

func (TimeRange) AppliesTo(kind ContentKind) bool { return kind.IsTimed() }

// CropRect selects a pixel rectangle of an image item
type CropRect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (CropRect) SpecKind() SpecKind { return SpecCropRect }

func (CropRect) AppliesTo(kind ContentKind) bool { return kind == KindImage }

// TextSpan selects the rune range [StartIndex, EndIndex) of a text item's body
type TextSpan struct {
	StartIndex int `json:"startIndex"`
	EndIndex   int `json:"endIndex"`
}

func (TextSpan) SpecKind() SpecKind { return SpecTextSpan }

func (TextSpan) AppliesTo(kind ContentKind) bool { return kind == KindText }

// cutSpecEnvelope is the persisted JSON form of a CutSpec (cut_spec column)
type cutSpecEnvelope struct {
	Kind       SpecKind `json:"kind"`
	Start      *float64 `json:"start,omitempty"`
	End        *float64 `json:"end,omitempty"`
	X          *int     `json:"x,omitempty"`
	Y          *int     `json:"y,omitempty"`
	Width      *int     `json:"width,omitempty"`
	Height     *int     `json:"height,omitempty"`
	StartIndex *int     `json:"startIndex,omitempty"`
	EndIndex   *int     `json:"endIndex,omitempty"`
}

// EncodeCutSpec serializes a CutSpec for storage
func EncodeCutSpec(spec CutSpec) (string, error) {
	env := cutSpecEnvelope{Kind: spec.SpecKind()}
	switch s := spec.(type) {
	case TimeRange:
		env.Start, env.End = &s.Start, &s.End
	case CropRect:
		env.X, env.Y, env.Width, env.Height = &s.X, &s.Y, &s.Width, &s.Height
	case TextSpan:
		env.StartIndex, env.EndIndex = &s.StartIndex, &s.EndIndex
	default:
		return "", fmt.Errorf("unknown cut spec variant %T", spec)
	}
	data, err := json.Marshal(env)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeCutSpec deserializes a stored CutSpec
func DecodeCutSpec(data string) (CutSpec, error) {
	var env cutSpecEnvelope
	if err := json.Unmarshal([]byte(data), &env); err != nil {
		return nil, err
	}

	switch env.Kind {
	case SpecTimeRange:
		if env.Start == nil || env.End == nil {
			return nil, fmt.Errorf("time range spec missing bounds")
		}
		return TimeRange{Start: *env.Start, End: *env.End}, nil
	case SpecCropRect:
		if env.X == nil || env.Y == nil || env.Width == nil || env.Height == nil {
			return nil, fmt.Errorf("crop rect spec missing bounds")
		}
		return CropRect{X: *env.X, Y: *env.Y, Width: *env.Width, Height: *env.Height}, nil
	case SpecTextSpan:
		if env.StartIndex == nil || env.EndIndex == nil {
			return nil, fmt.Errorf("text span spec missing bounds")
		}
		return TextSpan{StartIndex: *env.StartIndex, EndIndex: *env.EndIndex}, nil
	}
	return nil, fmt.Errorf("unknown cut spec kind %q", env.Kind)
}

// ClipResult is the validated, normalized output of clip extraction: the
// item it was cut from, the clamped spec, and the derived size of the cut
// (seconds for time ranges, pixel area for crops, runes for text spans).
type ClipResult struct {
	Item         CollectibleItem `json:"item"`
	Spec         CutSpec         `json:"spec"`
	LengthOrSize float64         `json:"lengthOrSize"`

	// Excerpt holds the extracted substring for text items, where extraction
	// and rendering coincide. Empty for every other kind.
	Excerpt string `json:"excerpt,omitempty"`
}
