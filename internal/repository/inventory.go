package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/perfume-inventory/internal/model"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/storage/db"
)

const inventoryColumns = `id, product_id, store_id, quantity, created_at, updated_at`

type InventoryRepository interface {
	WithDB(db db.DB) InventoryRepository
	// Accumulate adds inv.Quantity to the record for (ProductID, StoreID),
	// creating it when missing. It reports whether a new record was inserted.
	Accumulate(ctx context.Context, inv model.Inventory) (model.Inventory, bool, error)
	// SetQuantity overwrites the quantity of the record, creating it when
	// missing, and returns the quantity it replaced. Callers run it inside a
	// transaction so the row lock covers the read of the old value.
	SetQuantity(ctx context.Context, inv model.Inventory) (model.Inventory, int64, error)
	GetInventory(ctx context.Context, productID, storeID uuid.UUID) (model.Inventory, error)
}

type inventoryRepository struct {
	db db.DB
}

func NewInventoryRepository(db db.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r inventoryRepository) WithDB(db db.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

type inventoryRow struct {
	ID        uuid.UUID `db:"id"`
	ProductID uuid.UUID `db:"product_id"`
	StoreID   uuid.UUID `db:"store_id"`
	Quantity  int64     `db:"quantity"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (i inventoryRow) toModel() model.Inventory {
	return model.Inventory{
		ID:        i.ID,
		ProductID: i.ProductID,
		StoreID:   i.StoreID,
		Quantity:  i.Quantity,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

func inventoryArgs(inv model.Inventory) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":         inv.ID,
		"product_id": inv.ProductID,
		"store_id":   inv.StoreID,
		"quantity":   inv.Quantity,
		"created_at": inv.CreatedAt,
		"updated_at": inv.UpdatedAt,
	}
}

func (r inventoryRepository) Accumulate(ctx context.Context, inv model.Inventory) (model.Inventory, bool, error) {
	var (
		row      inventoryRow
		inserted bool
	)

	// xmax is zero only for a freshly inserted tuple.
	err := r.db.QueryRow(ctx, `
		INSERT INTO inventory (`+inventoryColumns+`)
		VALUES (@id, @product_id, @store_id, @quantity, @created_at, @updated_at)
		ON CONFLICT (product_id, store_id) DO UPDATE
		SET quantity   = inventory.quantity + EXCLUDED.quantity,
			updated_at = EXCLUDED.updated_at
		RETURNING `+inventoryColumns+`, (xmax = 0) AS inserted
	`, inventoryArgs(inv)).Scan(
		&row.ID, &row.ProductID, &row.StoreID, &row.Quantity, &row.CreatedAt, &row.UpdatedAt, &inserted,
	)
	if err != nil {
		return model.Inventory{}, false, fmt.Errorf("upsert inventory: %w", err)
	}

	return row.toModel(), inserted, nil
}

func (r inventoryRepository) SetQuantity(ctx context.Context, inv model.Inventory) (model.Inventory, int64, error) {
	// A missing record starts at zero so there is always a row to lock.
	if _, err := r.db.Exec(ctx, `
		INSERT INTO inventory (`+inventoryColumns+`)
		VALUES (@id, @product_id, @store_id, 0, @created_at, @updated_at)
		ON CONFLICT (product_id, store_id) DO NOTHING
	`, inventoryArgs(inv)); err != nil {
		return model.Inventory{}, 0, fmt.Errorf("ensure inventory: %w", err)
	}

	var (
		row      inventoryRow
		previous int64
	)
	err := r.db.QueryRow(ctx, `
		WITH locked AS (
			SELECT id, quantity
			FROM inventory
			WHERE product_id = @product_id AND store_id = @store_id
			FOR UPDATE
		)
		UPDATE inventory i
		SET quantity   = @quantity,
			updated_at = @updated_at
		FROM locked
		WHERE i.id = locked.id
		RETURNING i.id, i.product_id, i.store_id, i.quantity, i.created_at, i.updated_at, locked.quantity
	`, inventoryArgs(inv)).Scan(
		&row.ID, &row.ProductID, &row.StoreID, &row.Quantity, &row.CreatedAt, &row.UpdatedAt, &previous,
	)
	if err != nil {
		return model.Inventory{}, 0, fmt.Errorf("set inventory quantity: %w", err)
	}

	return row.toModel(), previous, nil
}

func (r inventoryRepository) GetInventory(ctx context.Context, productID, storeID uuid.UUID) (model.Inventory, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+inventoryColumns+`
		FROM inventory
		WHERE product_id = @product_id AND store_id = @store_id
	`, pgx.NamedArgs{"product_id": productID, "store_id": storeID})
	if err != nil {
		return model.Inventory{}, fmt.Errorf("query inventory: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[inventoryRow])
	if db.IsNoRows(err) {
		return model.Inventory{}, fmt.Errorf("query inventory: %w", ErrNotFound)
	}
	if err != nil {
		return model.Inventory{}, fmt.Errorf("collect inventory: %w", err)
	}

	return row.toModel(), nil
}
