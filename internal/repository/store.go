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

type StoreRepository interface {
	WithDB(db db.DB) StoreRepository
	CreateStore(ctx context.Context, store model.Store) error
	// GetOwnedStore returns the store only when it belongs to ownerID.
	GetOwnedStore(ctx context.Context, id, ownerID uuid.UUID) (model.Store, error)
	ListStoresByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Store, error)
	DeleteOwnedStore(ctx context.Context, id, ownerID uuid.UUID) error
}

type storeRepository struct {
	db db.DB
}

func NewStoreRepository(db db.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r storeRepository) WithDB(db db.DB) StoreRepository {
	return &storeRepository{db: db}
}

type storeRow struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

func (s storeRow) toModel() model.Store {
	return model.Store{
		ID:        s.ID,
		UserID:    s.UserID,
		Name:      s.Name,
		CreatedAt: s.CreatedAt,
	}
}

func (r storeRepository) CreateStore(ctx context.Context, store model.Store) error {
	if _, err := r.db.Exec(ctx, `
		INSERT INTO stores (id, user_id, name, created_at)
		VALUES (@id, @user_id, @name, @created_at)
	`, pgx.NamedArgs{
		"id":         store.ID,
		"user_id":    store.UserID,
		"name":       store.Name,
		"created_at": store.CreatedAt,
	}); err != nil {
		return fmt.Errorf("insert store: %w", err)
	}

	return nil
}

func (r storeRepository) GetOwnedStore(ctx context.Context, id, ownerID uuid.UUID) (model.Store, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, name, created_at
		FROM stores
		WHERE id = @id AND user_id = @owner_id
	`, pgx.NamedArgs{"id": id, "owner_id": ownerID})
	if err != nil {
		return model.Store{}, fmt.Errorf("query store: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[storeRow])
	if db.IsNoRows(err) {
		return model.Store{}, fmt.Errorf("query store: %w", ErrNotFound)
	}
	if err != nil {
		return model.Store{}, fmt.Errorf("collect store: %w", err)
	}

	return row.toModel(), nil
}

func (r storeRepository) ListStoresByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Store, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, name, created_at
		FROM stores
		WHERE user_id = @owner_id
		ORDER BY created_at, id
	`, pgx.NamedArgs{"owner_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("query stores: %w", err)
	}

	stores, err := pgx.CollectRows(rows, pgx.RowToStructByName[storeRow])
	if err != nil {
		return nil, fmt.Errorf("collect stores: %w", err)
	}

	out := make([]model.Store, 0, len(stores))
	for _, s := range stores {
		out = append(out, s.toModel())
	}

	return out, nil
}

func (r storeRepository) DeleteOwnedStore(ctx context.Context, id, ownerID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM stores WHERE id = @id AND user_id = @owner_id`,
		pgx.NamedArgs{"id": id, "owner_id": ownerID})
	if err != nil {
		return fmt.Errorf("delete store: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete store: %w", ErrNotFound)
	}

	return nil
}
