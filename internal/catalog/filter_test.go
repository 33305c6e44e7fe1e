package catalog_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/perfume-inventory/internal/catalog"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/model"
)

func stock(name, brand string, c model.Category, inv ...model.Inventory) model.ProductStock {
	return model.ProductStock{
		Product:   model.Product{ID: uuid.New(), Name: name, Brand: brand, Category: c},
		Inventory: inv,
	}
}

func names(items []catalog.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

func TestFilterPages(t *testing.T) {
	products := []model.ProductStock{
		stock("A", "", model.CategoryMale),
		stock("B", "", model.CategoryUnisex),
		stock("C", "", model.CategoryFemale),
	}

	tests := []struct {
		page catalog.Page
		want []string
	}{
		{catalog.PageMale, []string{"A", "B"}},
		{catalog.PageFemale, []string{"B", "C"}},
		{catalog.PageHome, []string{"A", "B", "C"}},
		{catalog.PageUnisex, []string{"B"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.page), func(t *testing.T) {
			assert.Equal(t, tt.want, names(catalog.Filter(products, catalog.Query{Page: tt.page})))
		})
	}
}

func TestFilterText(t *testing.T) {
	products := []model.ProductStock{
		stock("Sauvage", "Dior", model.CategoryMale),
		stock("J'adore", "DIOR", model.CategoryFemale),
		stock("Aventus", "Creed", model.CategoryMale),
		stock("Straße", "Nishane", model.CategoryUnisex),
	}

	t.Run("Should match name or brand ignoring case", func(t *testing.T) {
		got := catalog.Filter(products, catalog.Query{Page: catalog.PageHome, Text: "dIoR"})
		assert.Equal(t, []string{"Sauvage", "J'adore"}, names(got))

		got = catalog.Filter(products, catalog.Query{Page: catalog.PageHome, Text: "vent"})
		assert.Equal(t, []string{"Aventus"}, names(got))
	})

	t.Run("Should combine text and page", func(t *testing.T) {
		got := catalog.Filter(products, catalog.Query{Page: catalog.PageMale, Text: "dior"})
		assert.Equal(t, []string{"Sauvage"}, names(got))
	})

	t.Run("Should fold unicode case", func(t *testing.T) {
		got := catalog.Filter(products, catalog.Query{Text: "STRASSE"})
		assert.Equal(t, []string{"Straße"}, names(got))
	})

	t.Run("Should match everything on blank text", func(t *testing.T) {
		assert.Len(t, catalog.Filter(products, catalog.Query{Text: "  "}), 4)
	})
}

func TestFilterQuantities(t *testing.T) {
	storeA, storeB := uuid.New(), uuid.New()
	products := []model.ProductStock{
		stock("Stocked", "", model.CategoryMale,
			model.Inventory{StoreID: storeA, Quantity: 4},
			model.Inventory{StoreID: storeB, Quantity: 6},
		),
		stock("Empty", "", model.CategoryMale),
	}

	t.Run("Should report zero for a store without a record", func(t *testing.T) {
		got := catalog.Filter(products, catalog.Query{StoreID: &storeB})
		require.Len(t, got, 2)
		require.NotNil(t, got[0].StoreQuantity)
		assert.Equal(t, int64(6), *got[0].StoreQuantity)
		require.NotNil(t, got[1].StoreQuantity)
		assert.Zero(t, *got[1].StoreQuantity)
	})

	t.Run("Should give totals and breakdown without a store", func(t *testing.T) {
		got := catalog.Filter(products, catalog.Query{})
		require.Len(t, got, 2)
		assert.Nil(t, got[0].StoreQuantity)
		assert.Equal(t, int64(10), got[0].TotalQuantity)
		assert.Len(t, got[0].Stocks, 2)
		assert.NotNil(t, got[1].Stocks)
		assert.Empty(t, got[1].Stocks)
	})
}

func TestParsePage(t *testing.T) {
	p, err := catalog.ParsePage("")
	require.NoError(t, err)
	assert.Equal(t, catalog.PageHome, p)

	p, err = catalog.ParsePage("Female")
	require.NoError(t, err)
	assert.Equal(t, catalog.PageFemale, p)

	_, err = catalog.ParsePage("kids")
	assert.Error(t, err)
}
