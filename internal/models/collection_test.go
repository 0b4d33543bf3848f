package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCollection(t *testing.T) {
	t.Run("valid private collection", func(t *testing.T) {
		c, err := NewCollection("owner-1", "  Road Trip  ", "desc", "music", nil, VisibilityPrivate)
		require.NoError(t, err)

		assert.Equal(t, "Road Trip", c.Name)
		assert.Equal(t, VisibilityPrivate, c.Visibility)
		assert.Nil(t, c.ShareToken)
		assert.NotEmpty(t, c.ID)
	})

	t.Run("unlisted collection mints a token at creation", func(t *testing.T) {
		c, err := NewCollection("owner-1", "Linked", "", "music", nil, VisibilityUnlisted)
		require.NoError(t, err)
		require.NotNil(t, c.ShareToken)
		assert.Len(t, *c.ShareToken, 64)
	})

	tests := []struct {
		name       string
		ownerID    string
		collName   string
		category   string
		visibility CollectionVisibility
		wantErr    error
	}{
		{"missing owner", "", "X", "music", VisibilityPrivate, ErrCollectionOwnerRequired},
		{"blank name", "owner-1", "   ", "music", VisibilityPrivate, ErrCollectionNameRequired},
		{"bad category", "owner-1", "X", "horoscopes", VisibilityPrivate, ErrCollectionInvalidCategory},
		{"bad visibility", "owner-1", "X", "music", "friends-only", ErrCollectionInvalidVisibility},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCollection(tt.ownerID, tt.collName, "", tt.category, nil, tt.visibility)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCollection_SetVisibility(t *testing.T) {
	t.Run("token minted once and kept stable", func(t *testing.T) {
		c, err := NewCollection("owner-1", "X", "", "music", nil, VisibilityPrivate)
		require.NoError(t, err)

		require.NoError(t, c.SetVisibility(VisibilityUnlisted))
		require.NotNil(t, c.ShareToken)
		token := *c.ShareToken

		require.NoError(t, c.SetVisibility(VisibilityPrivate))
		require.NoError(t, c.SetVisibility(VisibilityUnlisted))
		assert.Equal(t, token, *c.ShareToken)
	})
}

func TestCollection_Access(t *testing.T) {
	c, err := NewCollection("owner-1", "X", "", "music", nil, VisibilityPrivate)
	require.NoError(t, err)

	t.Run("private is owner only", func(t *testing.T) {
		assert.True(t, c.CanView("owner-1"))
		assert.False(t, c.CanView("stranger"))
		assert.False(t, c.Followable())
	})

	t.Run("public is viewable and followable", func(t *testing.T) {
		require.NoError(t, c.SetVisibility(VisibilityPublic))
		assert.True(t, c.CanView("stranger"))
		assert.True(t, c.Followable())
	})

	t.Run("unlisted is followable but not plainly viewable", func(t *testing.T) {
		require.NoError(t, c.SetVisibility(VisibilityUnlisted))
		assert.False(t, c.CanView("stranger"))
		assert.True(t, c.Followable())
	})
}
