package models

import (
	"time"

	"github.com/google/uuid"
)

// CollectionItem is a clipped piece of content stored in a collection
type CollectionItem struct {
	ID           string      `json:"id"`
	CollectionID string      `json:"collectionId"`
	OwnerID      string      `json:"ownerId"`
	Kind         ContentKind `json:"kind"`
	SourceURL    string      `json:"sourceUrl"`
	Title        string      `json:"title,omitempty"`
	Description  string      `json:"description,omitempty"`
	ThumbnailURL string      `json:"thumbnailUrl,omitempty"`
	Note         string      `json:"note,omitempty"`

	// CutSpec is the normalized spec from clip extraction, stored as JSON.
	CutSpec string `json:"cutSpec"`

	// Excerpt is the extracted text for text clips, empty otherwise.
	Excerpt string `json:"excerpt,omitempty"`

	// RenderedRef points at the rendered sub-artifact for media and image
	// clips, as returned by the render worker.
	RenderedRef string `json:"renderedRef,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// NewCollectionItem builds an item row from a clip result
func NewCollectionItem(collectionID, ownerID string, clip ClipResult, renderedRef, note string) (*CollectionItem, error) {
	if clip.Item.SourceURL == "" {
		return nil, ErrItemEmptyURL
	}
	if !IsValidKind(string(clip.Item.Kind)) {
		return nil, ErrItemInvalidKind
	}

	specJSON, err := EncodeCutSpec(clip.Spec)
	if err != nil {
		return nil, err
	}

	return &CollectionItem{
		ID:           uuid.New().String(),
		CollectionID: collectionID,
		OwnerID:      ownerID,
		Kind:         clip.Item.Kind,
		SourceURL:    clip.Item.SourceURL,
		Title:        clip.Item.Title,
		Description:  clip.Item.Description,
		ThumbnailURL: clip.Item.ThumbnailURL,
		Note:         note,
		CutSpec:      specJSON,
		Excerpt:      clip.Excerpt,
		RenderedRef:  renderedRef,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// Follow is a (follower, collection) relation row. Its creation and removal
// are the only mutators of Collection.FollowersCount, always in the same
// transaction.
type Follow struct {
	CollectionID string    `json:"collectionId"`
	FollowerID   string    `json:"followerId"`
	FollowedAt   time.Time `json:"followedAt"`
}
