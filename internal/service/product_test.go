package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/perfume-inventory/internal/actor"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/apperr"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/catalog"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/model"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/service"
	"github.com/tuanvumaihuynh/perfume-inventory/pkg/validator"
)

func newProductService(mem *memory) service.ProductService {
	return service.NewProductService(discardLogger, validator.MustNewDefaultValidator(), productRepo{s: mem}, storeRepo{s: mem})
}

func TestSuggestProducts(t *testing.T) {
	mem := newMemory()
	for i := range 7 {
		mem.products = append(mem.products, model.Product{ID: uuid.New(), Name: fmt.Sprintf("Chanel %d", i)})
	}
	mem.products = append(mem.products, model.Product{ID: uuid.New(), Name: "Sauvage"})
	svc := newProductService(mem)
	ctx := actor.NewContext(context.Background(), uuid.New())

	t.Run("Should skip the lookup for short queries", func(t *testing.T) {
		for _, q := range []string{"", "c", " c ", "é"} {
			got, err := svc.SuggestProducts(ctx, q)
			require.NoError(t, err)
			assert.Empty(t, got)
		}
		assert.Zero(t, mem.suggestCalls)
	})

	t.Run("Should cap matches at five", func(t *testing.T) {
		got, err := svc.SuggestProducts(ctx, "CH")
		require.NoError(t, err)
		assert.Len(t, got, service.SuggestionLimit)
		for _, p := range got {
			assert.Contains(t, p.Name, "Chanel")
		}
	})

	t.Run("Should match substrings ignoring case", func(t *testing.T) {
		got, err := svc.SuggestProducts(ctx, "uvA")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Sauvage", got[0].Name)
	})
}

func TestListCatalog(t *testing.T) {
	mem := newMemory()
	userID := uuid.New()
	storeID := uuid.New()
	mem.stores = append(mem.stores, model.Store{ID: storeID, UserID: userID})

	a := model.Product{ID: uuid.New(), Name: "A", Category: model.CategoryMale}
	b := model.Product{ID: uuid.New(), Name: "B", Category: model.CategoryUnisex}
	c := model.Product{ID: uuid.New(), Name: "C", Category: model.CategoryFemale}
	mem.products = append(mem.products, a, b, c)
	mem.inventory = append(mem.inventory, model.Inventory{ProductID: b.ID, StoreID: storeID, Quantity: 9})

	svc := newProductService(mem)
	ctx := actor.NewContext(context.Background(), userID)

	t.Run("Should list the male page newest first", func(t *testing.T) {
		items, err := svc.ListCatalog(ctx, catalog.Query{Page: catalog.PageMale})
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "B", items[0].Name)
		assert.Equal(t, "A", items[1].Name)
	})

	t.Run("Should report per store quantities", func(t *testing.T) {
		items, err := svc.ListCatalog(ctx, catalog.Query{Page: catalog.PageFemale, StoreID: &storeID})
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "C", items[0].Name)
		assert.Zero(t, *items[0].StoreQuantity)
		assert.Equal(t, int64(9), *items[1].StoreQuantity)
	})

	t.Run("Should reject a store the user does not own", func(t *testing.T) {
		foreign := uuid.New()
		_, err := svc.ListCatalog(ctx, catalog.Query{StoreID: &foreign})
		require.ErrorIs(t, err, apperr.StoreNotFoundErr)
	})
}

func TestUpdateAndDeleteProduct(t *testing.T) {
	mem := newMemory()
	first := model.Product{ID: uuid.New(), Name: "Sauvage", Category: model.CategoryMale}
	second := model.Product{ID: uuid.New(), Name: "Aventus", Category: model.CategoryUnisex}
	mem.products = append(mem.products, first, second)
	svc := newProductService(mem)
	ctx := actor.NewContext(context.Background(), uuid.New())

	t.Run("Should update attributes", func(t *testing.T) {
		got, err := svc.UpdateProduct(ctx, second.ID, service.UpdateProductParams{
			Name: " Aventus Cologne ", Brand: "Creed", Price: 300,
		})
		require.NoError(t, err)
		assert.Equal(t, "Aventus Cologne", got.Name)
		assert.Equal(t, model.CategoryUnisex, got.Category, "an omitted category keeps the stored one")

		got, err = svc.UpdateProduct(ctx, second.ID, service.UpdateProductParams{
			Name: "Aventus Cologne", Category: model.CategoryFemale,
		})
		require.NoError(t, err)
		assert.Equal(t, model.CategoryFemale, got.Category)

		_, err = svc.UpdateProduct(ctx, second.ID, service.UpdateProductParams{
			Name: "Aventus Cologne", Category: "Kids",
		})
		require.ErrorIs(t, err, apperr.ValidationErr)
	})

	t.Run("Should keep names unique", func(t *testing.T) {
		_, err := svc.UpdateProduct(ctx, second.ID, service.UpdateProductParams{Name: "SAUVAGE"})
		require.ErrorIs(t, err, apperr.ProductNameTakenErr)
	})

	t.Run("Should report missing products", func(t *testing.T) {
		_, err := svc.GetProduct(ctx, uuid.New())
		require.ErrorIs(t, err, apperr.ProductNotFoundErr)
	})

	t.Run("Should delete products", func(t *testing.T) {
		require.NoError(t, svc.DeleteProduct(ctx, first.ID))
		require.ErrorIs(t, svc.DeleteProduct(ctx, first.ID), apperr.ProductNotFoundErr)
	})
}
