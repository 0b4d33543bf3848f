package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/digicollect/server/internal/models"
)

// UserRepository handles user persistence. It also satisfies TierResolver
// so the collection store can read tiers without a second component.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, display_name, password_hash, api_key_hash, tier, created_at`

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.APIKeyHash, &u.Tier, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID returns the user or ErrUserNotFound
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetByEmail returns the user with the given email or ErrUserNotFound
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// GetByAPIKeyHash resolves an API key hash to its user
func (r *UserRepository) GetByAPIKeyHash(ctx context.Context, hash string) (*models.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE api_key_hash = $1`, hash))
}

// Add inserts a new user, rejecting duplicate emails
func (r *UserRepository) Add(ctx context.Context, user *models.User) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, user.Email,
	).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return models.ErrEmailTaken
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO users (id, email, display_name, password_hash, api_key_hash, tier, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.Email, user.DisplayName, user.PasswordHash, user.APIKeyHash,
		user.Tier, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return tx.Commit()
}

// SetTier changes a user's subscription tier
func (r *UserRepository) SetTier(ctx context.Context, id string, tier models.Tier) error {
	if !models.IsValidTier(string(tier)) {
		return models.ErrInvalidTier
	}
	res, err := r.db.ExecContext(ctx, `UPDATE users SET tier = $1 WHERE id = $2`, tier, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

// TierOf implements TierResolver
func (r *UserRepository) TierOf(ctx context.Context, userID string) (models.Tier, error) {
	var tier models.Tier
	err := r.db.QueryRowContext(ctx, `SELECT tier FROM users WHERE id = $1`, userID).Scan(&tier)
	if err == sql.ErrNoRows {
		return "", models.ErrUserNotFound
	}
	if err != nil {
		return "", err
	}
	return tier, nil
}
