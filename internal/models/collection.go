package models

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CollectionVisibility represents access levels for a collection
type CollectionVisibility string

const (
	VisibilityPrivate  CollectionVisibility = "private"  // Only owner can see
	VisibilityPublic   CollectionVisibility = "public"   // Anyone can see and follow
	VisibilityUnlisted CollectionVisibility = "unlisted" // Anyone with the share token
)

// IsValidVisibility checks if a visibility value is valid
func IsValidVisibility(v string) bool {
	switch CollectionVisibility(v) {
	case VisibilityPrivate, VisibilityPublic, VisibilityUnlisted:
		return true
	}
	return false
}

// Collection is a user-owned set of clipped items. Ownership never
// transfers; only the owner mutates name, description, visibility or items.
type Collection struct {
	ID          string               `json:"id"`
	OwnerID     string               `json:"ownerId"`
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	Category    string               `json:"category"`
	Subcategory *string              `json:"subcategory,omitempty"`
	Visibility  CollectionVisibility `json:"visibility"`

	// ShareToken is set once when the collection first becomes unlisted and
	// is stable thereafter, so old share links keep working if visibility
	// returns to unlisted later.
	ShareToken *string `json:"shareToken,omitempty"`

	// ItemCount is the current number of items; decremented on removal.
	ItemCount int `json:"itemCount"`

	// TotalItemsAdded counts every item ever added and never decreases.
	// Quota enforcement reads this counter, not ItemCount.
	TotalItemsAdded int `json:"totalItemsAdded"`

	FollowersCount int `json:"followersCount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Computed, not stored
	IsOwner bool `json:"isOwner,omitempty"`
}

// NewCollection creates a collection with a generated ID
func NewCollection(ownerID, name, description, category string, subcategory *string, visibility CollectionVisibility) (*Collection, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrCollectionOwnerRequired
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrCollectionNameRequired
	}
	if !IsValidCategory(category) {
		return nil, ErrCollectionInvalidCategory
	}
	if !IsValidVisibility(string(visibility)) {
		return nil, ErrCollectionInvalidVisibility
	}

	now := time.Now().UTC()
	c := &Collection{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Category:    category,
		Subcategory: subcategory,
		Visibility:  visibility,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if visibility == VisibilityUnlisted {
		token, err := GenerateShareToken()
		if err != nil {
			return nil, err
		}
		c.ShareToken = &token
	}
	return c, nil
}

// GenerateShareToken creates a secure random token for unlisted sharing
func GenerateShareToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate share token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// SetVisibility updates visibility. The share token is minted only on the
// first transition to unlisted and never rotated afterwards.
func (c *Collection) SetVisibility(visibility CollectionVisibility) error {
	c.Visibility = visibility
	c.UpdatedAt = time.Now().UTC()

	if visibility == VisibilityUnlisted && c.ShareToken == nil {
		token, err := GenerateShareToken()
		if err != nil {
			return err
		}
		c.ShareToken = &token
	}
	return nil
}

// CanView checks whether a user can view this collection. Unlisted access
// via share token is resolved at the service level.
func (c *Collection) CanView(userID string) bool {
	if c.OwnerID == userID {
		return true
	}
	return c.Visibility == VisibilityPublic
}

// Followable reports whether follow requests are accepted
func (c *Collection) Followable() bool {
	return c.Visibility != VisibilityPrivate
}

// Collection errors
type CollectionError struct {
	Message string
}

func (e CollectionError) Error() string {
	return e.Message
}

var (
	ErrCollectionNotFound          = CollectionError{"collection not found"}
	ErrCollectionAccessDenied      = CollectionError{"access denied"}
	ErrCollectionNameRequired      = CollectionError{"collection name is required"}
	ErrCollectionOwnerRequired     = CollectionError{"owner ID is required"}
	ErrCollectionInvalidCategory   = CollectionError{"invalid collection category"}
	ErrCollectionInvalidVisibility = CollectionError{"invalid collection visibility"}
	ErrNotOwner                    = CollectionError{"only the collection owner may do this"}
	ErrQuotaExceeded               = CollectionError{"plan quota exceeded"}
	ErrItemNotFound                = CollectionError{"collection item not found"}
	ErrAlreadyFollowing            = CollectionError{"already following this collection"}
	ErrNotFollowing                = CollectionError{"not following this collection"}
	ErrNotFollowable               = CollectionError{"private collections cannot be followed"}
)
