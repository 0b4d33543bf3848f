package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digicollect/server/internal/models"
)

func newTestUserRepo(t *testing.T) *UserRepository {
	t.Helper()

	db, err := NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewUserRepository(db)
}

func TestUserRepository_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("round trips a user", func(t *testing.T) {
		repo := newTestUserRepo(t)

		user, err := models.NewUser("a@example.com", "Alice", "password123")
		require.NoError(t, err)
		require.NoError(t, repo.Add(ctx, user))

		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "a@example.com", got.Email)
		assert.Equal(t, models.TierFree, got.Tier)
		assert.Empty(t, got.APIKey)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		repo := newTestUserRepo(t)

		first, err := models.NewUser("a@example.com", "Alice", "password123")
		require.NoError(t, err)
		require.NoError(t, repo.Add(ctx, first))

		second, err := models.NewUser("a@example.com", "Imposter", "password123")
		require.NoError(t, err)
		err = repo.Add(ctx, second)
		assert.ErrorIs(t, err, models.ErrEmailTaken)
	})
}

func TestUserRepository_APIKeyLookup(t *testing.T) {
	ctx := context.Background()
	repo := newTestUserRepo(t)

	user, err := models.NewUser("a@example.com", "Alice", "password123")
	require.NoError(t, err)
	apiKey := user.APIKey
	require.NoError(t, repo.Add(ctx, user))

	t.Run("resolves the hashed key", func(t *testing.T) {
		got, err := repo.GetByAPIKeyHash(ctx, models.HashAPIKey(apiKey))
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("unknown hash reports not found", func(t *testing.T) {
		_, err := repo.GetByAPIKeyHash(ctx, models.HashAPIKey("dc_bogus"))
		assert.ErrorIs(t, err, models.ErrUserNotFound)
	})
}

func TestUserRepository_SetTier(t *testing.T) {
	ctx := context.Background()
	repo := newTestUserRepo(t)

	user, err := models.NewUser("a@example.com", "Alice", "password123")
	require.NoError(t, err)
	require.NoError(t, repo.Add(ctx, user))

	t.Run("updates the tier", func(t *testing.T) {
		require.NoError(t, repo.SetTier(ctx, user.ID, models.TierPro))

		tier, err := repo.TierOf(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, models.TierPro, tier)
	})

	t.Run("rejects unknown tiers", func(t *testing.T) {
		err := repo.SetTier(ctx, user.ID, "platinum")
		assert.ErrorIs(t, err, models.ErrInvalidTier)
	})

	t.Run("rejects unknown users", func(t *testing.T) {
		err := repo.SetTier(ctx, "missing", models.TierPro)
		assert.ErrorIs(t, err, models.ErrUserNotFound)
	})
}
