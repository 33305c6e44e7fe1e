package zerror_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/perfume-inventory/pkg/zerror"
)

func TestZError(t *testing.T) {
	notFound := zerror.NewNotFound("STORE_NOT_FOUND", "store not found")

	t.Run("Should match predefined error through wrapping", func(t *testing.T) {
		err := fmt.Errorf("reconcile: %w", notFound.WrapParent(errors.New("no rows")))

		assert.ErrorIs(t, err, notFound)

		zErr, ok := zerror.From(err)
		require.True(t, ok)
		assert.Equal(t, zerror.StatusNotFound, zErr.Status())
		assert.Equal(t, "STORE_NOT_FOUND", zErr.Code())
	})

	t.Run("Should unwrap to parent", func(t *testing.T) {
		parent := errors.New("boom")
		err := notFound.WrapParent(parent)

		assert.ErrorIs(t, err, parent)
		assert.Equal(t, "STORE_NOT_FOUND: store not found: boom", err.Error())
	})

	t.Run("Should not match a different code", func(t *testing.T) {
		other := zerror.NewNotFound("PRODUCT_NOT_FOUND", "product not found")
		assert.NotErrorIs(t, other, notFound)
	})

	t.Run("Should keep code when overriding message", func(t *testing.T) {
		err := notFound.WithMsg("store 42 not found")
		assert.Equal(t, "store 42 not found", err.Msg())
		assert.ErrorIs(t, err, notFound)
	})

	t.Run("Should ignore nil parent", func(t *testing.T) {
		assert.Nil(t, notFound.WrapParent(nil).Parent())
		assert.Equal(t, "NOT_FOUND", zerror.StatusNotFound.String())
	})

	t.Run("Should not find a ZError in a plain error", func(t *testing.T) {
		_, ok := zerror.From(errors.New("plain"))
		assert.False(t, ok)
	})
}
