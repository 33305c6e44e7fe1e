package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/perfume-inventory/internal/actor"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/apperr"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/model"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/service"
	"github.com/tuanvumaihuynh/perfume-inventory/pkg/validator"
)

func TestStoreService(t *testing.T) {
	mem := newMemory()
	svc := service.NewStoreService(discardLogger, validator.MustNewDefaultValidator(), storeRepo{s: mem})

	owner := actor.NewContext(context.Background(), uuid.New())
	other := actor.NewContext(context.Background(), uuid.New())

	first, err := svc.CreateStore(owner, service.CreateStoreParams{Name: " Downtown "})
	require.NoError(t, err)
	assert.Equal(t, "Downtown", first.Name)

	_, err = svc.CreateStore(owner, service.CreateStoreParams{Name: "Airport"})
	require.NoError(t, err)

	_, err = svc.CreateStore(owner, service.CreateStoreParams{Name: "  "})
	require.ErrorIs(t, err, apperr.ValidationErr)

	stores, err := svc.ListStores(owner)
	require.NoError(t, err)
	require.Len(t, stores, 2)
	assert.Equal(t, "Downtown", stores[0].Name)

	stores, err = svc.ListStores(other)
	require.NoError(t, err)
	assert.Empty(t, stores)

	mem.inventory = append(mem.inventory, model.Inventory{StoreID: first.ID, Quantity: 1})

	require.ErrorIs(t, svc.DeleteStore(other, first.ID), apperr.StoreNotFoundErr)
	require.NoError(t, svc.DeleteStore(owner, first.ID))
	assert.Empty(t, mem.inventory, "records of a deleted store are removed")

	_, err = svc.ListStores(context.Background())
	require.ErrorIs(t, err, apperr.UnauthorizedErr)
}
