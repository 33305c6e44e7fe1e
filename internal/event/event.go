package event

import (
	"time"

	"github.com/google/uuid"
)

const (
	TopicProductCreated   = "product.created"
	TopicInventoryChanged = "inventory.changed"
)

type ProductCreatedEvent struct {
	ProductID uuid.UUID `json:"product_id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Brand     string    `json:"brand"`
	Price     int64     `json:"price"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// InventoryChangedEvent is emitted for every inventory write. Delta is the
// signed change applied; Quantity is the resulting stock.
type InventoryChangedEvent struct {
	InventoryID uuid.UUID `json:"inventory_id"`
	ProductID   uuid.UUID `json:"product_id"`
	StoreID     uuid.UUID `json:"store_id"`
	UserID      uuid.UUID `json:"user_id"`
	Delta       int64     `json:"delta"`
	Quantity    int64     `json:"quantity"`
	Reason      string    `json:"reason"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Reasons carried by InventoryChangedEvent.
const (
	ReasonProductCreated   = "product_created"
	ReasonInventoryCreated = "inventory_created"
	ReasonInventoryUpdated = "inventory_updated"
	ReasonQuantitySet      = "quantity_set"
)
