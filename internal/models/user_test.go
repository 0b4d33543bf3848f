package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates a free tier user with an API key", func(t *testing.T) {
		user, err := NewUser("  Alice@Example.COM ", " Alice ", "password123")
		require.NoError(t, err)

		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, "Alice", user.DisplayName)
		assert.Equal(t, TierFree, user.Tier)
		assert.True(t, strings.HasPrefix(user.APIKey, "dc_"))
		assert.Equal(t, HashAPIKey(user.APIKey), user.APIKeyHash)
		assert.NotEqual(t, "password123", user.PasswordHash)
	})

	t.Run("verifies the password", func(t *testing.T) {
		user, err := NewUser("a@example.com", "Alice", "password123")
		require.NoError(t, err)

		assert.True(t, user.CheckPassword("password123"))
		assert.False(t, user.CheckPassword("wrong"))
	})

	tests := []struct {
		name        string
		email       string
		displayName string
		password    string
		wantErr     error
	}{
		{"empty email", "", "Alice", "password123", ErrEmptyEmail},
		{"empty display name", "a@example.com", "  ", "password123", ErrEmptyDisplayName},
		{"short password", "a@example.com", "Alice", "1234567", ErrPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(tt.email, tt.displayName, tt.password)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
