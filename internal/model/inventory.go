package model

import (
	"time"

	"github.com/google/uuid"
)

// Inventory is the quantity of one product held at one store. There is at
// most one record per (ProductID, StoreID).
type Inventory struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	StoreID   uuid.UUID `json:"store_id"`
	Quantity  int64     `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductStock is a product together with all of its inventory records.
type ProductStock struct {
	Product
	Inventory []Inventory `json:"inventory"`
}

// QuantityAt returns the quantity held at storeID. A missing record means
// zero stock.
func (p ProductStock) QuantityAt(storeID uuid.UUID) int64 {
	for _, inv := range p.Inventory {
		if inv.StoreID == storeID {
			return inv.Quantity
		}
	}
	return 0
}

// TotalQuantity sums the quantity across every store.
func (p ProductStock) TotalQuantity() int64 {
	var total int64
	for _, inv := range p.Inventory {
		total += inv.Quantity
	}
	return total
}
