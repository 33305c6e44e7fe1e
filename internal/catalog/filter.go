// Package catalog narrows the product list shown to a user. Filtering keeps
// the input order and only drops what does not match.
package catalog

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/tuanvumaihuynh/perfume-inventory/internal/model"
)

// Page is the category tab the catalog is viewed through.
type Page string

const (
	PageHome   Page = "home"
	PageMale   Page = "male"
	PageFemale Page = "female"
	PageUnisex Page = "unisex"
)

// ParsePage accepts a page name in any case. Empty means PageHome.
func ParsePage(s string) (Page, error) {
	switch p := Page(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PageHome, nil
	case PageHome, PageMale, PageFemale, PageUnisex:
		return p, nil
	default:
		return "", fmt.Errorf("unknown catalog page: %q", s)
	}
}

// Includes reports whether products of category c are listed on the page.
// The gendered pages also list unisex products.
func (p Page) Includes(c model.Category) bool {
	switch p {
	case PageMale:
		return c == model.CategoryMale || c == model.CategoryUnisex
	case PageFemale:
		return c == model.CategoryFemale || c == model.CategoryUnisex
	case PageUnisex:
		return c == model.CategoryUnisex
	default:
		return true
	}
}

// Query is the view state of one catalog request.
type Query struct {
	Page    Page
	Text    string
	StoreID *uuid.UUID
}

// Item is a product as listed in the catalog.
type Item struct {
	model.Product
	// StoreQuantity is set only when the query selects a store; a store
	// without a record holds zero.
	StoreQuantity *int64            `json:"store_quantity,omitempty"`
	TotalQuantity int64             `json:"total_quantity"`
	Stocks        []model.Inventory `json:"stocks"`
}

// Filter returns the products matching both the page and the text of q, in
// their original order.
func Filter(products []model.ProductStock, q Query) []Item {
	folder := cases.Fold()
	text := folder.String(strings.TrimSpace(q.Text))

	items := make([]Item, 0, len(products))
	for _, p := range products {
		if !q.Page.Includes(p.Category) {
			continue
		}
		if text != "" &&
			!strings.Contains(folder.String(p.Name), text) &&
			!strings.Contains(folder.String(p.Brand), text) {
			continue
		}

		item := Item{
			Product:       p.Product,
			TotalQuantity: p.TotalQuantity(),
			Stocks:        p.Inventory,
		}
		if item.Stocks == nil {
			item.Stocks = []model.Inventory{}
		}
		if q.StoreID != nil {
			qty := p.QuantityAt(*q.StoreID)
			item.StoreQuantity = &qty
		}

		items = append(items, item)
	}

	return items
}
