package repository

import (
	"context"

	"github.com/digicollect/server/internal/models"
)

// TierResolver answers which subscription tier a user is on. The billing
// component owns tier changes; this core only reads the current value.
type TierResolver interface {
	TierOf(ctx context.Context, userID string) (models.Tier, error)
}

// UserRepo defines the interface for user persistence operations
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByAPIKeyHash(ctx context.Context, hash string) (*models.User, error)
	Add(ctx context.Context, user *models.User) error
	SetTier(ctx context.Context, id string, tier models.Tier) error
}

// CollectionReader defines the read side of collection persistence
type CollectionReader interface {
	GetByID(ctx context.Context, id string) (*models.Collection, error)
	GetByShareToken(ctx context.Context, token string) (*models.Collection, error)
	GetForOwner(ctx context.Context, ownerID string) ([]*models.Collection, error)
	GetFollowedBy(ctx context.Context, userID string) ([]*models.Collection, error)
	GetItems(ctx context.Context, collectionID string) ([]*models.CollectionItem, error)
	GetTrending(ctx context.Context, limit int) ([]*models.Collection, error)
	Search(ctx context.Context, query, category string, limit int) ([]*models.Collection, error)
	IsFollowing(ctx context.Context, collectionID, followerID string) (bool, error)
}

// CollectionWriter defines the transactional mutations of the collection
// store. Every operation is atomic: a failed precondition rolls the whole
// transaction back and leaves counters untouched.
type CollectionWriter interface {
	CreateCollection(ctx context.Context, ownerID string, req *models.CreateCollectionRequest) (*models.Collection, error)
	UpdateCollection(ctx context.Context, collectionID, userID string, req *models.UpdateCollectionRequest) (*models.Collection, error)
	SetVisibility(ctx context.Context, collectionID, userID string, visibility models.CollectionVisibility) (*models.Collection, error)
	DeleteCollection(ctx context.Context, collectionID, userID string) error
	AddItem(ctx context.Context, collectionID, userID string, clip models.ClipResult, renderedRef, note string) (*models.CollectionItem, error)
	RemoveItem(ctx context.Context, collectionID, itemID, userID string) error
	FollowCollection(ctx context.Context, collectionID, followerID string) error
	UnfollowCollection(ctx context.Context, collectionID, followerID string) error
}

// CollectionRepo is the full collection store contract
type CollectionRepo interface {
	CollectionReader
	CollectionWriter
}
