package model

import (
	"github.com/google/uuid"
)

// Submission is one "add stock" request: the product attributes to match or
// create, and the quantity to add at a store. Values are immutable; the
// With* methods return modified copies.
type Submission struct {
	Name        string    `validate:"notblank,max=200"`
	Brand       string    `validate:"max=200"`
	Price       int64     `validate:"gte=0"`
	Category    Category  `validate:"enum"`
	Description *string   `validate:"omitempty,max=2000"`
	ImageURL    *string   `validate:"omitempty,url"`
	StoreID     uuid.UUID `validate:"required"`
	Quantity    int64     `validate:"gte=0"`
}

// Normalized trims the name and applies the default category.
func (s Submission) Normalized() Submission {
	s.Name = NormalizeName(s.Name)
	if s.Category == "" {
		s.Category = DefaultCategory
	}
	return s
}

// WithSuggestion fills the product attributes from an existing product while
// keeping the pending store and quantity, which are always per submission.
func (s Submission) WithSuggestion(p Product) Submission {
	s.Name = p.Name
	s.Brand = p.Brand
	s.Price = p.Price
	s.Category = p.Category
	s.Description = cloneString(p.Description)
	s.ImageURL = cloneString(p.ImageURL)
	return s
}

// Product builds the product row created when no existing product matches.
func (s Submission) Product(id, owner uuid.UUID) Product {
	return Product{
		ID:          id,
		UserID:      owner,
		Name:        s.Name,
		Brand:       s.Brand,
		Price:       s.Price,
		Category:    s.Category,
		Description: cloneString(s.Description),
		ImageURL:    cloneString(s.ImageURL),
	}
}

// Outcome tells which writes a reconciliation performed.
type Outcome string

const (
	// OutcomeProductCreated: the submission created the product.
	OutcomeProductCreated Outcome = "product_created"
	// OutcomeInventoryCreated: an existing product stocked at a new store.
	OutcomeInventoryCreated Outcome = "inventory_created"
	// OutcomeInventoryUpdated: quantity added to an existing record.
	OutcomeInventoryUpdated Outcome = "inventory_updated"
)

// Message is the user facing confirmation for the outcome.
func (o Outcome) Message() string {
	switch o {
	case OutcomeProductCreated:
		return "New product added with its first stock."
	case OutcomeInventoryCreated:
		return "Product found, stock added to this store."
	case OutcomeInventoryUpdated:
		return "Stock accumulated onto the existing record."
	default:
		return ""
	}
}

// Reconciliation is the result of applying a Submission.
type Reconciliation struct {
	Product   Product   `json:"product"`
	Inventory Inventory `json:"inventory"`
	Outcome   Outcome   `json:"outcome"`
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
