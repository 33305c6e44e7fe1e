package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuer(t *testing.T) {
	userID := uuid.New()

	t.Run("Should round trip subject", func(t *testing.T) {
		iss, err := NewIssuer("secret", "perfume-inventory", time.Hour)
		require.NoError(t, err)

		raw, expiresAt, err := iss.Issue(userID, "a@b.c")
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

		got, err := iss.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, userID, got)
	})

	t.Run("Should reject expired token", func(t *testing.T) {
		iss, err := NewIssuer("secret", "perfume-inventory", time.Minute)
		require.NoError(t, err)
		iss.now = func() time.Time { return time.Now().Add(-time.Hour) }

		raw, _, err := iss.Issue(userID, "a@b.c")
		require.NoError(t, err)

		iss.now = time.Now
		_, err = iss.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Should reject token signed with another secret", func(t *testing.T) {
		a, err := NewIssuer("secret-a", "perfume-inventory", time.Hour)
		require.NoError(t, err)
		b, err := NewIssuer("secret-b", "perfume-inventory", time.Hour)
		require.NoError(t, err)

		raw, _, err := a.Issue(userID, "a@b.c")
		require.NoError(t, err)

		_, err = b.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Should reject empty secret", func(t *testing.T) {
		_, err := NewIssuer("", "perfume-inventory", time.Hour)
		assert.Error(t, err)
	})
}
