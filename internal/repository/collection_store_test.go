package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digicollect/server/internal/models"
)

func newTestStore(t *testing.T) (*CollectionStore, *UserRepository) {
	t.Helper()

	db, err := NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	users := NewUserRepository(db)
	return NewCollectionStore(db, false, users), users
}

func addTestUser(t *testing.T, users *UserRepository, email string, tier models.Tier) *models.User {
	t.Helper()

	user, err := models.NewUser(email, "Test User", "password123")
	require.NoError(t, err)
	require.NoError(t, users.Add(context.Background(), user))
	if tier != models.TierFree {
		require.NoError(t, users.SetTier(context.Background(), user.ID, tier))
	}
	return user
}

func createRequest(name string) *models.CreateCollectionRequest {
	return &models.CreateCollectionRequest{Name: name, Category: "music"}
}

func testClip(kind models.ContentKind) models.ClipResult {
	item := models.CollectibleItem{Kind: kind, SourceURL: "https://example.com/src", Title: "t"}
	switch kind {
	case models.KindText:
		item.Body = "some body text"
		return models.ClipResult{Item: item, Spec: models.TextSpan{StartIndex: 0, EndIndex: 4}, LengthOrSize: 4, Excerpt: "some"}
	case models.KindImage:
		return models.ClipResult{Item: item, Spec: models.CropRect{X: 0, Y: 0, Width: 10, Height: 10}, LengthOrSize: 100}
	default:
		return models.ClipResult{Item: item, Spec: models.TimeRange{Start: 0, End: 10}, LengthOrSize: 10}
	}
}

func TestCollectionStore_CreateCollection(t *testing.T) {
	ctx := context.Background()

	t.Run("creates with defaults", func(t *testing.T) {
		store, users := newTestStore(t)
		owner := addTestUser(t, users, "a@example.com", models.TierFree)

		c, err := store.CreateCollection(ctx, owner.ID, createRequest("Road Trip Songs"))
		require.NoError(t, err)

		assert.Equal(t, models.VisibilityPrivate, c.Visibility)
		assert.Nil(t, c.ShareToken)
		assert.Zero(t, c.ItemCount)
		assert.True(t, c.IsOwner)
	})

	t.Run("free tier caps at one collection", func(t *testing.T) {
		store, users := newTestStore(t)
		owner := addTestUser(t, users, "a@example.com", models.TierFree)

		_, err := store.CreateCollection(ctx, owner.ID, createRequest("First"))
		require.NoError(t, err)

		_, err = store.CreateCollection(ctx, owner.ID, createRequest("Second"))
		assert.ErrorIs(t, err, models.ErrQuotaExceeded)
	})

	t.Run("pro tier allows four collections", func(t *testing.T) {
		store, users := newTestStore(t)
		owner := addTestUser(t, users, "a@example.com", models.TierPro)

		for i := 0; i < 4; i++ {
			_, err := store.CreateCollection(ctx, owner.ID, createRequest(fmt.Sprintf("Collection %d", i)))
			require.NoError(t, err)
		}
		_, err := store.CreateCollection(ctx, owner.ID, createRequest("Fifth"))
		assert.ErrorIs(t, err, models.ErrQuotaExceeded)
	})

	t.Run("unlimited tier is uncapped", func(t *testing.T) {
		store, users := newTestStore(t)
		owner := addTestUser(t, users, "a@example.com", models.TierUnlimited)

		for i := 0; i < 10; i++ {
			_, err := store.CreateCollection(ctx, owner.ID, createRequest(fmt.Sprintf("Collection %d", i)))
			require.NoError(t, err)
		}
	})

	t.Run("unlisted collection gets a share token", func(t *testing.T) {
		store, users := newTestStore(t)
		owner := addTestUser(t, users, "a@example.com", models.TierFree)

		req := createRequest("Linked")
		req.Visibility = "unlisted"
		c, err := store.CreateCollection(ctx, owner.ID, req)
		require.NoError(t, err)
		require.NotNil(t, c.ShareToken)

		found, err := store.GetByShareToken(ctx, *c.ShareToken)
		require.NoError(t, err)
		assert.Equal(t, c.ID, found.ID)
	})

	t.Run("concurrent creates never exceed the quota", func(t *testing.T) {
		store, users := newTestStore(t)
		owner := addTestUser(t, users, "a@example.com", models.TierStarter)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				store.CreateCollection(ctx, owner.ID, createRequest(fmt.Sprintf("Race %d", i)))
			}(i)
		}
		wg.Wait()

		owned, err := store.GetForOwner(ctx, owner.ID)
		require.NoError(t, err)
		assert.Len(t, owned, 2)
	})

	t.Run("unknown owner is rejected", func(t *testing.T) {
		store, _ := newTestStore(t)
		_, err := store.CreateCollection(ctx, "missing", createRequest("X"))
		assert.ErrorIs(t, err, models.ErrUserNotFound)
	})

	t.Run("invalid category is rejected", func(t *testing.T) {
		store, users := newTestStore(t)
		owner := addTestUser(t, users, "a@example.com", models.TierFree)

		_, err := store.CreateCollection(ctx, owner.ID, &models.CreateCollectionRequest{Name: "X", Category: "horoscopes"})
		assert.ErrorIs(t, err, models.ErrCollectionInvalidCategory)
	})
}

func TestCollectionStore_AddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("increments both counters", func(t *testing.T) {
		store, users := newTestStore(t)
		owner := addTestUser(t, users, "a@example.com", models.TierFree)
		c, err := store.CreateCollection(ctx, owner.ID, createRequest("Clips"))
		require.NoError(t, err)

		item, err := store.AddItem(ctx, c.ID, owner.ID, testClip(models.KindText), "", "a note")
		require.NoError(t, err)
		assert.Equal(t, "a note", item.Note)
		assert.Equal(t, "some", item.Excerpt)

		got, err := store.GetByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.ItemCount)
		assert.Equal(t, 1, got.TotalItemsAdded)
	})

	t.Run("only the owner adds items", func(t *testing.T) {
		store, users := newTestStore(t)
		owner := addTestUser(t, users, "a@example.com", models.TierFree)
		other := addTestUser(t, users, "b@example.com", models.TierFree)
		c, err := store.CreateCollection(ctx, owner.ID, createRequest("Clips"))
		require.NoError(t, err)

		_, err = store.AddItem(ctx, c.ID, other.ID, testClip(models.KindText), "", "")
		assert.ErrorIs(t, err, models.ErrNotOwner)
	})

	t.Run("lifetime quota counts removed items", func(t *testing.T) {
		store, users := newTestStore(t)
		owner := addTestUser(t, users, "a@example.com", models.TierFree)
		c, err := store.CreateCollection(ctx, owner.ID, createRequest("Clips"))
		require.NoError(t, err)

		// Free tier allows 20 lifetime items per collection.
		var lastItem *models.CollectionItem
		for i := 0; i < 20; i++ {
			lastItem, err = store.AddItem(ctx, c.ID, owner.ID, testClip(models.KindText), "", "")
			require.NoError(t, err)
		}

		_, err = store.AddItem(ctx, c.ID, owner.ID, testClip(models.KindText), "", "")
		assert.ErrorIs(t, err, models.ErrQuotaExceeded)

		// Removing an item lowers the live count but reopens no headroom.
		require.NoError(t, store.RemoveItem(ctx, c.ID, lastItem.ID, owner.ID))

		got, err := store.GetByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, 19, got.ItemCount)
		assert.Equal(t, 20, got.TotalItemsAdded)

		_, err = store.AddItem(ctx, c.ID, owner.ID, testClip(models.KindText), "", "")
		assert.ErrorIs(t, err, models.ErrQuotaExceeded)
	})

	t.Run("missing item removal reports not found", func(t *testing.T) {
		store, users := newTestStore(t)
		owner := addTestUser(t, users, "a@example.com", models.TierFree)
		c, err := store.CreateCollection(ctx, owner.ID, createRequest("Clips"))
		require.NoError(t, err)

		err = store.RemoveItem(ctx, c.ID, "missing", owner.ID)
		assert.ErrorIs(t, err, models.ErrItemNotFound)
	})

	t.Run("stored cut spec round trips", func(t *testing.T) {
		store, users := newTestStore(t)
		owner := addTestUser(t, users, "a@example.com", models.TierFree)
		c, err := store.CreateCollection(ctx, owner.ID, createRequest("Clips"))
		require.NoError(t, err)

		clip := testClip(models.KindVideo)
		_, err = store.AddItem(ctx, c.ID, owner.ID, clip, "clip.mp4", "")
		require.NoError(t, err)

		items, err := store.GetItems(ctx, c.ID)
		require.NoError(t, err)
		require.Len(t, items, 1)

		spec, err := models.DecodeCutSpec(items[0].CutSpec)
		require.NoError(t, err)
		assert.Equal(t, clip.Spec, spec)
		assert.Equal(t, "clip.mp4", items[0].RenderedRef)
	})

	t.Run("concurrent adds never exceed the quota", func(t *testing.T) {
		store, users := newTestStore(t)
		owner := addTestUser(t, users, "a@example.com", models.TierFree)
		c, err := store.CreateCollection(ctx, owner.ID, createRequest("Clips"))
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := 0; i < 30; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				store.AddItem(ctx, c.ID, owner.ID, testClip(models.KindText), "", "")
			}()
		}
		wg.Wait()

		got, err := store.GetByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, 20, got.TotalItemsAdded)
		assert.Equal(t, 20, got.ItemCount)

		items, err := store.GetItems(ctx, c.ID)
		require.NoError(t, err)
		assert.Len(t, items, 20)
	})
}

func TestCollectionStore_Visibility(t *testing.T) {
	ctx := context.Background()

	t.Run("share token survives visibility round trip", func(t *testing.T) {
		store, users := newTestStore(t)
		owner := addTestUser(t, users, "a@example.com", models.TierFree)
		c, err := store.CreateCollection(ctx, owner.ID, createRequest("Clips"))
		require.NoError(t, err)

		unlisted, err := store.SetVisibility(ctx, c.ID, owner.ID, models.VisibilityUnlisted)
		require.NoError(t, err)
		require.NotNil(t, unlisted.ShareToken)
		token := *unlisted.ShareToken

		_, err = store.SetVisibility(ctx, c.ID, owner.ID, models.VisibilityPrivate)
		require.NoError(t, err)

		again, err := store.SetVisibility(ctx, c.ID, owner.ID, models.VisibilityUnlisted)
		require.NoError(t, err)
		require.NotNil(t, again.ShareToken)
		assert.Equal(t, token, *again.ShareToken)
	})

	t.Run("non-owner cannot change visibility", func(t *testing.T) {
		store, users := newTestStore(t)
		owner := addTestUser(t, users, "a@example.com", models.TierFree)
		other := addTestUser(t, users, "b@example.com", models.TierFree)
		c, err := store.CreateCollection(ctx, owner.ID, createRequest("Clips"))
		require.NoError(t, err)

		_, err = store.SetVisibility(ctx, c.ID, other.ID, models.VisibilityPublic)
		assert.ErrorIs(t, err, models.ErrNotOwner)
	})
}

func TestCollectionStore_Follows(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*CollectionStore, *models.Collection, *models.User, *models.User) {
		store, users := newTestStore(t)
		owner := addTestUser(t, users, "owner@example.com", models.TierFree)
		follower := addTestUser(t, users, "fan@example.com", models.TierFree)

		req := createRequest("Public Picks")
		req.Visibility = "public"
		c, err := store.CreateCollection(ctx, owner.ID, req)
		require.NoError(t, err)
		return store, c, owner, follower
	}

	t.Run("follow and unfollow keep the counter exact", func(t *testing.T) {
		store, c, _, follower := setup(t)

		require.NoError(t, store.FollowCollection(ctx, c.ID, follower.ID))

		got, err := store.GetByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.FollowersCount)

		following, err := store.IsFollowing(ctx, c.ID, follower.ID)
		require.NoError(t, err)
		assert.True(t, following)

		require.NoError(t, store.UnfollowCollection(ctx, c.ID, follower.ID))

		got, err = store.GetByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.FollowersCount)
	})

	t.Run("double follow is rejected without drift", func(t *testing.T) {
		store, c, _, follower := setup(t)

		require.NoError(t, store.FollowCollection(ctx, c.ID, follower.ID))
		err := store.FollowCollection(ctx, c.ID, follower.ID)
		assert.ErrorIs(t, err, models.ErrAlreadyFollowing)

		got, err := store.GetByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.FollowersCount)
	})

	t.Run("unfollow without follow is rejected", func(t *testing.T) {
		store, c, _, follower := setup(t)

		err := store.UnfollowCollection(ctx, c.ID, follower.ID)
		assert.ErrorIs(t, err, models.ErrNotFollowing)
	})

	t.Run("private collections cannot be followed", func(t *testing.T) {
		store, c, owner, follower := setup(t)

		_, err := store.SetVisibility(ctx, c.ID, owner.ID, models.VisibilityPrivate)
		require.NoError(t, err)

		err = store.FollowCollection(ctx, c.ID, follower.ID)
		assert.ErrorIs(t, err, models.ErrNotFollowable)
	})

	t.Run("going private keeps follow rows and counter", func(t *testing.T) {
		store, c, owner, follower := setup(t)

		require.NoError(t, store.FollowCollection(ctx, c.ID, follower.ID))

		_, err := store.SetVisibility(ctx, c.ID, owner.ID, models.VisibilityPrivate)
		require.NoError(t, err)

		got, err := store.GetByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.FollowersCount)

		// The follow row is inert while private and filtered from listings.
		followed, err := store.GetFollowedBy(ctx, follower.ID)
		require.NoError(t, err)
		assert.Empty(t, followed)

		// Going public again revives it with no extra bookkeeping.
		_, err = store.SetVisibility(ctx, c.ID, owner.ID, models.VisibilityPublic)
		require.NoError(t, err)

		followed, err = store.GetFollowedBy(ctx, follower.ID)
		require.NoError(t, err)
		require.Len(t, followed, 1)
		assert.Equal(t, c.ID, followed[0].ID)
	})
}

func TestCollectionStore_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	store, users := newTestStore(t)
	owner := addTestUser(t, users, "a@example.com", models.TierFree)
	follower := addTestUser(t, users, "b@example.com", models.TierFree)

	req := createRequest("Doomed")
	req.Visibility = "public"
	c, err := store.CreateCollection(ctx, owner.ID, req)
	require.NoError(t, err)

	_, err = store.AddItem(ctx, c.ID, owner.ID, testClip(models.KindText), "", "")
	require.NoError(t, err)
	require.NoError(t, store.FollowCollection(ctx, c.ID, follower.ID))

	require.NoError(t, store.DeleteCollection(ctx, c.ID, owner.ID))

	_, err = store.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, models.ErrCollectionNotFound)

	items, err := store.GetItems(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	following, err := store.IsFollowing(ctx, c.ID, follower.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestCollectionStore_Browse(t *testing.T) {
	ctx := context.Background()
	store, users := newTestStore(t)
	owner := addTestUser(t, users, "a@example.com", models.TierUnlimited)
	fan := addTestUser(t, users, "b@example.com", models.TierFree)

	mkPublic := func(name, category string) *models.Collection {
		req := &models.CreateCollectionRequest{Name: name, Category: category, Visibility: "public"}
		c, err := store.CreateCollection(ctx, owner.ID, req)
		require.NoError(t, err)
		return c
	}

	popular := mkPublic("Guitar Solos", "music")
	mkPublic("Guitar Lessons", "education")
	mkPublic("Cat Pictures", "animals")

	privReq := createRequest("Hidden Guitar Stash")
	_, err := store.CreateCollection(ctx, owner.ID, privReq)
	require.NoError(t, err)

	require.NoError(t, store.FollowCollection(ctx, popular.ID, fan.ID))

	t.Run("trending orders by followers and hides private", func(t *testing.T) {
		trending, err := store.GetTrending(ctx, 10)
		require.NoError(t, err)
		require.Len(t, trending, 3)
		assert.Equal(t, popular.ID, trending[0].ID)
	})

	t.Run("search matches name substring", func(t *testing.T) {
		found, err := store.Search(ctx, "guitar", "", 10)
		require.NoError(t, err)
		assert.Len(t, found, 2)
	})

	t.Run("search ignores case in both term and name", func(t *testing.T) {
		found, err := store.Search(ctx, "GUITAR", "", 10)
		require.NoError(t, err)
		assert.Len(t, found, 2)

		found, err = store.Search(ctx, "cat pict", "", 10)
		require.NoError(t, err)
		assert.Len(t, found, 1)
	})

	t.Run("search filters by category", func(t *testing.T) {
		found, err := store.Search(ctx, "guitar", "music", 10)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, popular.ID, found[0].ID)
	})

	t.Run("private collections never surface in search", func(t *testing.T) {
		found, err := store.Search(ctx, "hidden", "", 10)
		require.NoError(t, err)
		assert.Empty(t, found)
	})
}
