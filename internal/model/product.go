package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category is the audience a perfume is marketed to.
type Category string

const (
	CategoryMale   Category = "Male"
	CategoryFemale Category = "Female"
	CategoryUnisex Category = "Unisex"
)

// DefaultCategory is used when a submission leaves the category empty.
const DefaultCategory = CategoryMale

func (c Category) Validate() error {
	switch c {
	case CategoryMale, CategoryFemale, CategoryUnisex:
		return nil
	default:
		return fmt.Errorf("unknown category: %q", string(c))
	}
}

type Product struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand"`
	Price       int64     `json:"price"`
	Category    Category  `json:"category"`
	Description *string   `json:"description,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NormalizeName trims the surrounding whitespace of a product name. Lookups
// additionally compare the result case-insensitively.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}
