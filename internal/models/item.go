package models

// ContentKind classifies a collectible item by the kind of media it references
type ContentKind string

const (
	KindVideo   ContentKind = "video"
	KindAudio   ContentKind = "audio"
	KindImage   ContentKind = "image"
	KindText    ContentKind = "text"
	KindMusic   ContentKind = "music"
	KindPodcast ContentKind = "podcast"
)

// IsValidKind checks if a content kind value is valid
func IsValidKind(k string) bool {
	switch ContentKind(k) {
	case KindVideo, KindAudio, KindImage, KindText, KindMusic, KindPodcast:
		return true
	}
	return false
}

// IsTimed reports whether the kind carries a duration (video, audio, music, podcast)
func (k ContentKind) IsTimed() bool {
	switch k {
	case KindVideo, KindAudio, KindMusic, KindPodcast:
		return true
	}
	return false
}

// Dimensions holds pixel dimensions for image items. Zero means unknown.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Known reports whether both dimensions were resolved
func (d Dimensions) Known() bool {
	return d.Width > 0 && d.Height > 0
}

// CollectibleItem is the canonical, platform-agnostic representation of
// fetched content. Fields that do not apply to the item's kind are always
// zero: an image never carries a duration, a video never carries a body.
type CollectibleItem struct {
	Kind         ContentKind `json:"kind"`
	SourceURL    string      `json:"sourceUrl"`
	Title        string      `json:"title,omitempty"`
	Description  string      `json:"description,omitempty"`
	ThumbnailURL string      `json:"thumbnailUrl,omitempty"`

	// DurationSeconds is set only for timed kinds; 0 means unknown length.
	DurationSeconds float64 `json:"durationSeconds,omitempty"`

	// Body is set only for text items.
	Body string `json:"body,omitempty"`

	// Dims is set only for image items; zero means unknown.
	Dims Dimensions `json:"dimensions,omitempty"`
}

// Item errors
type ItemError struct {
	Message string
}

func (e ItemError) Error() string {
	return e.Message
}

var (
	ErrItemInvalidKind = ItemError{"invalid content kind"}
	ErrItemEmptyURL    = ItemError{"source URL is required"}
)
