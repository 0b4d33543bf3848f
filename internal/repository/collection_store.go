package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/digicollect/server/internal/models"
)

// CollectionStore owns collection, item and follower rows and is the only
// writer of their counters. Every mutation runs in a single transaction
// scoped to one collection row, so quota checks and counter updates cannot
// race: the row is locked (FOR UPDATE on PostgreSQL, immediate transaction
// on SQLite) before any check-then-act sequence.
type CollectionStore struct {
	db       *sql.DB
	postgres bool
	tiers    TierResolver
}

// NewCollectionStore creates a CollectionStore. postgres selects the row
// locking strategy for the underlying driver.
func NewCollectionStore(db *sql.DB, postgres bool, tiers TierResolver) *CollectionStore {
	return &CollectionStore{db: db, postgres: postgres, tiers: tiers}
}

func (s *CollectionStore) lockSuffix() string {
	if s.postgres {
		return " FOR UPDATE"
	}
	return ""
}

const collectionColumns = `id, owner_id, name, description, category, subcategory, visibility,
		  share_token, item_count, total_items_added, followers_count, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCollection(row rowScanner) (*models.Collection, error) {
	var c models.Collection
	err := row.Scan(
		&c.ID, &c.OwnerID, &c.Name, &c.Description, &c.Category, &c.Subcategory,
		&c.Visibility, &c.ShareToken, &c.ItemCount, &c.TotalItemsAdded,
		&c.FollowersCount, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, models.ErrCollectionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// getForUpdate loads a collection inside tx, locking its row so concurrent
// writers on the same collection serialize
func (s *CollectionStore) getForUpdate(ctx context.Context, tx *sql.Tx, id string) (*models.Collection, error) {
	query := `SELECT ` + collectionColumns + ` FROM collections WHERE id = $1` + s.lockSuffix()
	return scanCollection(tx.QueryRowContext(ctx, query, id))
}

// CreateCollection creates a collection for ownerID, enforcing the tier's
// collection quota inside the transaction
func (s *CollectionStore) CreateCollection(ctx context.Context, ownerID string, req *models.CreateCollectionRequest) (*models.Collection, error) {
	visibility := models.CollectionVisibility(req.Visibility)
	if req.Visibility == "" {
		visibility = models.VisibilityPrivate
	}

	collection, err := models.NewCollection(ownerID, req.Name, req.Description, req.Category, req.Subcategory, visibility)
	if err != nil {
		return nil, err
	}

	tier, err := s.tiers.TierOf(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	limits := models.LimitsFor(tier)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Lock the owner row so two concurrent creates by the same user cannot
	// both pass the quota count. The locking clause needs a FROM-list
	// relation, so select the row itself rather than an EXISTS.
	var lockedID string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM users WHERE id = $1`+s.lockSuffix(), ownerID,
	).Scan(&lockedID)
	if err == sql.ErrNoRows {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	var count int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM collections WHERE owner_id = $1`, ownerID,
	).Scan(&count); err != nil {
		return nil, err
	}
	if !limits.AllowsCollections(count) {
		return nil, models.ErrQuotaExceeded
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO collections (id, owner_id, name, description, category, subcategory,
		 visibility, share_token, item_count, total_items_added, followers_count, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, 0, 0, $9, $10)`,
		collection.ID, collection.OwnerID, collection.Name, collection.Description,
		collection.Category, collection.Subcategory, collection.Visibility,
		collection.ShareToken, collection.CreatedAt, collection.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert collection: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	collection.IsOwner = true
	return collection, nil
}

// UpdateCollection mutates name/description/category; owner only
func (s *CollectionStore) UpdateCollection(ctx context.Context, collectionID, userID string, req *models.UpdateCollectionRequest) (*models.Collection, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	collection, err := s.getForUpdate(ctx, tx, collectionID)
	if err != nil {
		return nil, err
	}
	if collection.OwnerID != userID {
		return nil, models.ErrNotOwner
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, models.ErrCollectionNameRequired
		}
		collection.Name = name
	}
	if req.Description != nil {
		collection.Description = strings.TrimSpace(*req.Description)
	}
	if req.Category != nil {
		if !models.IsValidCategory(*req.Category) {
			return nil, models.ErrCollectionInvalidCategory
		}
		collection.Category = *req.Category
	}
	if req.Subcategory != nil {
		collection.Subcategory = req.Subcategory
	}
	collection.UpdatedAt = time.Now().UTC()

	_, err = tx.ExecContext(ctx,
		`UPDATE collections SET name = $1, description = $2, category = $3, subcategory = $4, updated_at = $5
		 WHERE id = $6`,
		collection.Name, collection.Description, collection.Category,
		collection.Subcategory, collection.UpdatedAt, collection.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update collection: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	collection.IsOwner = true
	return collection, nil
}

// SetVisibility changes visibility; owner only. The share token is minted
// on the first transition to unlisted and kept stable from then on, so old
// share links keep working when visibility returns to unlisted. Existing
// follow rows survive a transition to private: they become inert rather
// than being force-removed, and the followers count is left untouched.
func (s *CollectionStore) SetVisibility(ctx context.Context, collectionID, userID string, visibility models.CollectionVisibility) (*models.Collection, error) {
	if !models.IsValidVisibility(string(visibility)) {
		return nil, models.ErrCollectionInvalidVisibility
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	collection, err := s.getForUpdate(ctx, tx, collectionID)
	if err != nil {
		return nil, err
	}
	if collection.OwnerID != userID {
		return nil, models.ErrNotOwner
	}

	if err := collection.SetVisibility(visibility); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE collections SET visibility = $1, share_token = $2, updated_at = $3 WHERE id = $4`,
		collection.Visibility, collection.ShareToken, collection.UpdatedAt, collection.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update visibility: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	collection.IsOwner = true
	return collection, nil
}

// DeleteCollection removes a collection with its items and followers
func (s *CollectionStore) DeleteCollection(ctx context.Context, collectionID, userID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	collection, err := s.getForUpdate(ctx, tx, collectionID)
	if err != nil {
		return err
	}
	if collection.OwnerID != userID {
		return models.ErrNotOwner
	}

	// Cascade explicitly; not every deployment runs with FK enforcement on.
	if _, err := tx.ExecContext(ctx, `DELETE FROM collection_items WHERE collection_id = $1`, collectionID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM collection_followers WHERE collection_id = $1`, collectionID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM collections WHERE id = $1`, collectionID); err != nil {
		return err
	}

	return tx.Commit()
}

// AddItem inserts a clipped item and bumps both counters in the same
// transaction. The quota precondition reads the lifetime counter, so
// removing items never reopens headroom.
func (s *CollectionStore) AddItem(ctx context.Context, collectionID, userID string, clip models.ClipResult, renderedRef, note string) (*models.CollectionItem, error) {
	item, err := models.NewCollectionItem(collectionID, userID, clip, renderedRef, note)
	if err != nil {
		return nil, err
	}

	tier, err := s.tiers.TierOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	limits := models.LimitsFor(tier)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	collection, err := s.getForUpdate(ctx, tx, collectionID)
	if err != nil {
		return nil, err
	}
	if collection.OwnerID != userID {
		return nil, models.ErrNotOwner
	}
	if collection.TotalItemsAdded >= limits.MaxItemsPerCollection {
		return nil, models.ErrQuotaExceeded
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO collection_items (id, collection_id, owner_id, kind, source_url, title,
		 description, thumbnail_url, note, cut_spec, excerpt, rendered_ref, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		item.ID, item.CollectionID, item.OwnerID, item.Kind, item.SourceURL, item.Title,
		item.Description, item.ThumbnailURL, item.Note, item.CutSpec, item.Excerpt,
		item.RenderedRef, item.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert item: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE collections SET item_count = item_count + 1, total_items_added = total_items_added + 1,
		 updated_at = $1 WHERE id = $2`,
		time.Now().UTC(), collectionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update counters: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveItem deletes an item and decrements item_count only; the lifetime
// counter is deliberately left alone
func (s *CollectionStore) RemoveItem(ctx context.Context, collectionID, itemID, userID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	collection, err := s.getForUpdate(ctx, tx, collectionID)
	if err != nil {
		return err
	}
	if collection.OwnerID != userID {
		return models.ErrNotOwner
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM collection_items WHERE id = $1 AND collection_id = $2`,
		itemID, collectionID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrItemNotFound
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE collections SET item_count = item_count - 1, updated_at = $1 WHERE id = $2`,
		time.Now().UTC(), collectionID,
	)
	if err != nil {
		return fmt.Errorf("failed to update counters: %w", err)
	}

	return tx.Commit()
}

// FollowCollection records a follow and bumps followers_count atomically.
// Private collections cannot be followed.
func (s *CollectionStore) FollowCollection(ctx context.Context, collectionID, followerID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	collection, err := s.getForUpdate(ctx, tx, collectionID)
	if err != nil {
		return err
	}
	if !collection.Followable() {
		return models.ErrNotFollowable
	}

	var exists bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM collection_followers WHERE collection_id = $1 AND follower_id = $2)`,
		collectionID, followerID,
	).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return models.ErrAlreadyFollowing
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO collection_followers (collection_id, follower_id, followed_at) VALUES ($1, $2, $3)`,
		collectionID, followerID, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert follow: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE collections SET followers_count = followers_count + 1 WHERE id = $1`,
		collectionID,
	)
	if err != nil {
		return fmt.Errorf("failed to update followers count: %w", err)
	}

	return tx.Commit()
}

// UnfollowCollection removes a follow and decrements followers_count in the
// same transaction
func (s *CollectionStore) UnfollowCollection(ctx context.Context, collectionID, followerID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := s.getForUpdate(ctx, tx, collectionID); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM collection_followers WHERE collection_id = $1 AND follower_id = $2`,
		collectionID, followerID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrNotFollowing
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE collections SET followers_count = followers_count - 1 WHERE id = $1`,
		collectionID,
	)
	if err != nil {
		return fmt.Errorf("failed to update followers count: %w", err)
	}

	return tx.Commit()
}
