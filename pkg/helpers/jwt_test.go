package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJWTManager(t *testing.T) {
	t.Parallel()
	m := NewJWTManager("secret-key-secret-key", "api", "api-clients", time.Hour)

	t.Run("roundtrip preserves identity claims", func(t *testing.T) {
		token, exp, err := m.Generate("user-1", "ada@example.com", "Ada Lovelace", []string{"User"})
		require.NoError(t, err)
		require.True(t, exp.After(time.Now()))

		claims, err := m.Parse(token)
		require.NoError(t, err)
		require.Equal(t, "user-1", claims.Subject)
		require.Equal(t, "ada@example.com", claims.Email)
		require.Equal(t, "Ada Lovelace", claims.FullName)
		require.Equal(t, []string{"User"}, claims.Roles)
		require.NotEmpty(t, claims.ID)
	})

	t.Run("each token gets a unique jti", func(t *testing.T) {
		t1, _, err := m.Generate("user-1", "a@b.c", "A", nil)
		require.NoError(t, err)
		t2, _, err := m.Generate("user-1", "a@b.c", "A", nil)
		require.NoError(t, err)

		c1, err := m.Parse(t1)
		require.NoError(t, err)
		c2, err := m.Parse(t2)
		require.NoError(t, err)
		require.NotEqual(t, c1.ID, c2.ID)
	})

	t.Run("rejects a tampered signature", func(t *testing.T) {
		other := NewJWTManager("a-different-secret-key", "api", "api-clients", time.Hour)
		token, _, err := other.Generate("user-1", "a@b.c", "A", nil)
		require.NoError(t, err)

		_, err = m.Parse(token)
		require.Error(t, err)
	})

	t.Run("rejects a foreign issuer", func(t *testing.T) {
		other := NewJWTManager("secret-key-secret-key", "someone-else", "api-clients", time.Hour)
		token, _, err := other.Generate("user-1", "a@b.c", "A", nil)
		require.NoError(t, err)

		_, err = m.Parse(token)
		require.Error(t, err)
	})

	t.Run("rejects a foreign audience", func(t *testing.T) {
		other := NewJWTManager("secret-key-secret-key", "api", "other-clients", time.Hour)
		token, _, err := other.Generate("user-1", "a@b.c", "A", nil)
		require.NoError(t, err)

		_, err = m.Parse(token)
		require.Error(t, err)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		expired := NewJWTManager("secret-key-secret-key", "api", "api-clients", -time.Minute)
		token, _, err := expired.Generate("user-1", "a@b.c", "A", nil)
		require.NoError(t, err)

		_, err = m.Parse(token)
		require.Error(t, err)
	})
}

func TestPasswordHashing(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("Sup3r$ecret")
	require.NoError(t, err)
	require.NotEqual(t, "Sup3r$ecret", hash)
	require.True(t, CheckPassword(hash, "Sup3r$ecret"))
	require.False(t, CheckPassword(hash, "sup3r$ecret"))
}

func TestActorContext(t *testing.T) {
	t.Parallel()

	ctx := WithActor(t.Context(), "user-9")
	require.Equal(t, "user-9", ActorFrom(ctx))
	require.Empty(t, ActorFrom(t.Context()))
}
