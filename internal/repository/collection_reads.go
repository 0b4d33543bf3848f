package repository

import (
	"context"
	"strings"

	"github.com/digicollect/server/internal/models"
)

// GetByID returns the collection or ErrCollectionNotFound
func (s *CollectionStore) GetByID(ctx context.Context, collectionID string) (*models.Collection, error) {
	query := `SELECT ` + collectionColumns + ` FROM collections WHERE id = $1`
	return scanCollection(s.db.QueryRowContext(ctx, query, collectionID))
}

// GetByShareToken resolves an unlisted share link
func (s *CollectionStore) GetByShareToken(ctx context.Context, token string) (*models.Collection, error) {
	query := `SELECT ` + collectionColumns + ` FROM collections WHERE share_token = $1`
	return scanCollection(s.db.QueryRowContext(ctx, query, token))
}

// GetForOwner returns all collections owned by userID, newest first
func (s *CollectionStore) GetForOwner(ctx context.Context, userID string) ([]*models.Collection, error) {
	query := `SELECT ` + collectionColumns + ` FROM collections WHERE owner_id = $1 ORDER BY created_at DESC`
	return s.queryCollections(ctx, query, userID)
}

// GetFollowedBy returns the public collections userID follows. Follows on
// collections that have since gone private are filtered out here rather
// than deleted, so they reappear if the collection goes public again.
func (s *CollectionStore) GetFollowedBy(ctx context.Context, userID string) ([]*models.Collection, error) {
	query := `SELECT ` + collectionColumns + ` FROM collections c
		 JOIN collection_followers f ON f.collection_id = c.id
		 WHERE f.follower_id = $1 AND c.visibility = 'public'
		 ORDER BY f.followed_at DESC`
	return s.queryCollections(ctx, query, userID)
}

// GetItems returns the items of a collection, newest first. Access control
// lives in the service layer; the store returns rows unconditionally.
func (s *CollectionStore) GetItems(ctx context.Context, collectionID string) ([]*models.CollectionItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, collection_id, owner_id, kind, source_url, title, description,
		 thumbnail_url, note, cut_spec, excerpt, rendered_ref, created_at
		 FROM collection_items WHERE collection_id = $1 ORDER BY created_at DESC`,
		collectionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.CollectionItem
	for rows.Next() {
		var it models.CollectionItem
		err := rows.Scan(
			&it.ID, &it.CollectionID, &it.OwnerID, &it.Kind, &it.SourceURL, &it.Title,
			&it.Description, &it.ThumbnailURL, &it.Note, &it.CutSpec, &it.Excerpt,
			&it.RenderedRef, &it.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// GetTrending lists public collections ordered by follower count
func (s *CollectionStore) GetTrending(ctx context.Context, limit int) ([]*models.Collection, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := `SELECT ` + collectionColumns + ` FROM collections
		 WHERE visibility = 'public'
		 ORDER BY followers_count DESC, created_at DESC LIMIT $1`
	return s.queryCollections(ctx, query, limit)
}

// Search finds public collections by name substring and optional category
func (s *CollectionStore) Search(ctx context.Context, term, category string, limit int) ([]*models.Collection, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	// LOWER on both sides keeps the match case-insensitive on either
	// driver; plain LIKE is case-sensitive on PostgreSQL.
	pattern := "%" + strings.ToLower(term) + "%"
	if category != "" {
		query := `SELECT ` + collectionColumns + ` FROM collections
			 WHERE visibility = 'public' AND LOWER(name) LIKE $1 AND category = $2
			 ORDER BY followers_count DESC LIMIT $3`
		return s.queryCollections(ctx, query, pattern, category, limit)
	}
	query := `SELECT ` + collectionColumns + ` FROM collections
		 WHERE visibility = 'public' AND LOWER(name) LIKE $1
		 ORDER BY followers_count DESC LIMIT $2`
	return s.queryCollections(ctx, query, pattern, limit)
}

// IsFollowing reports whether a follow row exists regardless of visibility
func (s *CollectionStore) IsFollowing(ctx context.Context, collectionID, userID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM collection_followers WHERE collection_id = $1 AND follower_id = $2)`,
		collectionID, userID,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (s *CollectionStore) queryCollections(ctx context.Context, query string, args ...interface{}) ([]*models.Collection, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var collections []*models.Collection
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return collections, nil
}
