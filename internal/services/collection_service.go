package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/digicollect/server/internal/models"
	"github.com/digicollect/server/internal/observability"
	"github.com/digicollect/server/internal/repository"
)

// CollectionService handles collection business logic: access control,
// listing and the follow workflow. Quota enforcement and counter updates
// live inside the store's transactions; this layer never re-checks them.
type CollectionService struct {
	collections repository.CollectionRepo
	metrics     *observability.BusinessMetrics
}

// NewCollectionService creates a new CollectionService. metrics may be nil
// when telemetry is disabled.
func NewCollectionService(collections repository.CollectionRepo, metrics *observability.BusinessMetrics) *CollectionService {
	return &CollectionService{collections: collections, metrics: metrics}
}

// CreateCollection creates a new collection for the user
func (s *CollectionService) CreateCollection(ctx context.Context, userID string, req *models.CreateCollectionRequest) (*models.Collection, error) {
	req.Name = strings.TrimSpace(req.Name)

	collection, err := s.collections.CreateCollection(ctx, userID, req)
	if err != nil {
		if s.metrics != nil && errors.Is(err, models.ErrQuotaExceeded) {
			s.metrics.RecordQuotaRejection(ctx, "create_collection")
		}
		return nil, err
	}
	return collection, nil
}

// GetCollection retrieves a collection by ID with access control. A private
// collection is reported as not found to non-owners so its existence does
// not leak.
func (s *CollectionService) GetCollection(ctx context.Context, collectionID, userID string) (*models.Collection, error) {
	collection, err := s.collections.GetByID(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	if collection.Visibility == models.VisibilityUnlisted && collection.OwnerID != userID {
		return nil, models.ErrCollectionNotFound
	}
	if !collection.CanView(userID) {
		return nil, models.ErrCollectionNotFound
	}

	collection.IsOwner = collection.OwnerID == userID
	return collection, nil
}

// GetCollectionByShareToken resolves an unlisted share link. Tokens keep
// resolving only while the collection is public or unlisted.
func (s *CollectionService) GetCollectionByShareToken(ctx context.Context, token string) (*models.Collection, error) {
	if token == "" {
		return nil, models.ErrCollectionNotFound
	}

	collection, err := s.collections.GetByShareToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if collection.Visibility == models.VisibilityPrivate {
		return nil, models.ErrCollectionNotFound
	}

	return collection, nil
}

// ListCollections returns collections owned by and followed by the user
func (s *CollectionService) ListCollections(ctx context.Context, userID string) (*models.CollectionListResponse, error) {
	owned, err := s.collections.GetForOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get owned collections: %w", err)
	}

	followed, err := s.collections.GetFollowedBy(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get followed collections: %w", err)
	}

	ownedSummaries := make([]*models.CollectionSummary, 0, len(owned))
	for _, c := range owned {
		c.IsOwner = true
		ownedSummaries = append(ownedSummaries, toSummary(c))
	}

	followedSummaries := make([]*models.CollectionSummary, 0, len(followed))
	for _, c := range followed {
		followedSummaries = append(followedSummaries, toSummary(c))
	}

	return &models.CollectionListResponse{
		Owned:    ownedSummaries,
		Followed: followedSummaries,
	}, nil
}

// UpdateCollection updates a collection's metadata
func (s *CollectionService) UpdateCollection(ctx context.Context, collectionID, userID string, req *models.UpdateCollectionRequest) (*models.Collection, error) {
	return s.collections.UpdateCollection(ctx, collectionID, userID, req)
}

// UpdateVisibility changes collection visibility
func (s *CollectionService) UpdateVisibility(ctx context.Context, collectionID, userID, visibility string) (*models.Collection, error) {
	return s.collections.SetVisibility(ctx, collectionID, userID, models.CollectionVisibility(visibility))
}

// DeleteCollection deletes a collection with its items and follow records
func (s *CollectionService) DeleteCollection(ctx context.Context, collectionID, userID string) error {
	return s.collections.DeleteCollection(ctx, collectionID, userID)
}

// GetItems returns the items of a collection the user may view. Share token
// access for unlisted collections goes through GetItemsByShareToken.
func (s *CollectionService) GetItems(ctx context.Context, collectionID, userID string) ([]*models.CollectionItem, error) {
	if _, err := s.GetCollection(ctx, collectionID, userID); err != nil {
		return nil, err
	}
	return s.collections.GetItems(ctx, collectionID)
}

// GetItemsByShareToken returns the items behind an unlisted share link
func (s *CollectionService) GetItemsByShareToken(ctx context.Context, token string) (*models.Collection, []*models.CollectionItem, error) {
	collection, err := s.GetCollectionByShareToken(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	items, err := s.collections.GetItems(ctx, collection.ID)
	if err != nil {
		return nil, nil, err
	}
	return collection, items, nil
}

// RemoveItem removes an item from a collection the user owns
func (s *CollectionService) RemoveItem(ctx context.Context, collectionID, itemID, userID string) error {
	return s.collections.RemoveItem(ctx, collectionID, itemID, userID)
}

// Follow subscribes the user to a public or unlisted collection. Owners do
// not follow their own collections.
func (s *CollectionService) Follow(ctx context.Context, collectionID, userID string) error {
	collection, err := s.collections.GetByID(ctx, collectionID)
	if err != nil {
		return err
	}
	if collection.OwnerID == userID {
		return models.ErrNotFollowable
	}

	if err := s.collections.FollowCollection(ctx, collectionID, userID); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.RecordFollowChange(ctx, 1)
	}
	return nil
}

// Unfollow removes the user's follow
func (s *CollectionService) Unfollow(ctx context.Context, collectionID, userID string) error {
	if err := s.collections.UnfollowCollection(ctx, collectionID, userID); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.RecordFollowChange(ctx, -1)
	}
	return nil
}

// GetTrending returns public collections ranked by follower count
func (s *CollectionService) GetTrending(ctx context.Context, limit int) ([]*models.CollectionSummary, error) {
	collections, err := s.collections.GetTrending(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get trending collections: %w", err)
	}
	return toSummaries(collections), nil
}

// Search finds public collections by name and optional category
func (s *CollectionService) Search(ctx context.Context, query, category string, limit int) ([]*models.CollectionSummary, error) {
	query = strings.TrimSpace(query)
	if category != "" && !models.IsValidCategory(category) {
		return nil, models.ErrCollectionInvalidCategory
	}

	collections, err := s.collections.Search(ctx, query, category, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search collections: %w", err)
	}
	return toSummaries(collections), nil
}

func toSummary(c *models.Collection) *models.CollectionSummary {
	return &models.CollectionSummary{
		ID:             c.ID,
		Name:           c.Name,
		Category:       c.Category,
		Visibility:     c.Visibility,
		ItemCount:      c.ItemCount,
		FollowersCount: c.FollowersCount,
		IsOwner:        c.IsOwner,
		CreatedAt:      c.CreatedAt.Format(time.RFC3339),
	}
}

func toSummaries(collections []*models.Collection) []*models.CollectionSummary {
	summaries := make([]*models.CollectionSummary, 0, len(collections))
	for _, c := range collections {
		summaries = append(summaries, toSummary(c))
	}
	return summaries
}
