package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/perfume-inventory/internal/model"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/storage/db"
)

const productNameIndex = "products_name_key"

const productColumns = `id, user_id, name, brand, price, category, description, image_url, created_at, updated_at`

type ProductRepository interface {
	WithDB(db db.DB) ProductRepository
	// CreateIfAbsent inserts product unless another product already has the
	// same name ignoring case. It reports whether the row was inserted.
	CreateIfAbsent(ctx context.Context, product model.Product) (bool, error)
	GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error)
	FindByName(ctx context.Context, name string) (model.Product, error)
	SuggestByName(ctx context.Context, query string, limit int) ([]model.Product, error)
	UpdateProduct(ctx context.Context, product model.Product) (model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	// ListWithInventory returns every product newest first, each carrying
	// the inventory records held at stores owned by ownerID.
	ListWithInventory(ctx context.Context, ownerID uuid.UUID) ([]model.ProductStock, error)
}

type productRepository struct {
	db db.DB
}

func NewProductRepository(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r productRepository) WithDB(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

type productRow struct {
	ID          uuid.UUID `db:"id"`
	UserID      uuid.UUID `db:"user_id"`
	Name        string    `db:"name"`
	Brand       string    `db:"brand"`
	Price       int64     `db:"price"`
	Category    string    `db:"category"`
	Description *string   `db:"description"`
	ImageURL    *string   `db:"image_url"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (p productRow) toModel() model.Product {
	return model.Product{
		ID:          p.ID,
		UserID:      p.UserID,
		Name:        p.Name,
		Brand:       p.Brand,
		Price:       p.Price,
		Category:    model.Category(p.Category),
		Description: p.Description,
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func productArgs(product model.Product) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":          product.ID,
		"user_id":     product.UserID,
		"name":        product.Name,
		"brand":       product.Brand,
		"price":       product.Price,
		"category":    string(product.Category),
		"description": product.Description,
		"image_url":   product.ImageURL,
		"created_at":  product.CreatedAt,
		"updated_at":  product.UpdatedAt,
	}
}

func (r productRepository) CreateIfAbsent(ctx context.Context, product model.Product) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES (@id, @user_id, @name, @brand, @price, @category, @description, @image_url, @created_at, @updated_at)
		ON CONFLICT ((LOWER(name))) DO NOTHING
	`, productArgs(product))
	if err != nil {
		return false, fmt.Errorf("insert product: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

func (r productRepository) GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	return r.queryOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = @id`, pgx.NamedArgs{"id": id})
}

func (r productRepository) FindByName(ctx context.Context, name string) (model.Product, error) {
	return r.queryOne(ctx, `SELECT `+productColumns+` FROM products WHERE LOWER(name) = LOWER(@name)`,
		pgx.NamedArgs{"name": name})
}

func (r productRepository) SuggestByName(ctx context.Context, query string, limit int) ([]model.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE name ILIKE @pattern ESCAPE '\'
		ORDER BY LOWER(name), id
		LIMIT @limit
	`, pgx.NamedArgs{
		"pattern": "%" + escapeLike(query) + "%",
		"limit":   limit,
	})
	if err != nil {
		return nil, fmt.Errorf("query product suggestions: %w", err)
	}

	products, err := pgx.CollectRows(rows, pgx.RowToStructByName[productRow])
	if err != nil {
		return nil, fmt.Errorf("collect product suggestions: %w", err)
	}

	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		out = append(out, p.toModel())
	}

	return out, nil
}

func (r productRepository) UpdateProduct(ctx context.Context, product model.Product) (model.Product, error) {
	updated, err := r.queryOne(ctx, `
		UPDATE products
		SET name        = @name,
			brand       = @brand,
			price       = @price,
			category    = @category,
			description = @description,
			image_url   = @image_url,
			updated_at  = @updated_at
		WHERE id = @id
		RETURNING `+productColumns, productArgs(product))
	if db.IsUniqueViolation(err, productNameIndex) {
		return model.Product{}, fmt.Errorf("update product: %w", ErrConflict)
	}

	return updated, err
}

func (r productRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete product: %w", ErrNotFound)
	}

	return nil
}

func (r productRepository) ListWithInventory(ctx context.Context, ownerID uuid.UUID) ([]model.ProductStock, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}

	products, err := pgx.CollectRows(rows, pgx.RowToStructByName[productRow])
	if err != nil {
		return nil, fmt.Errorf("collect products: %w", err)
	}

	rows, err = r.db.Query(ctx, `
		SELECT i.id, i.product_id, i.store_id, i.quantity, i.created_at, i.updated_at
		FROM inventory i
		JOIN stores s ON s.id = i.store_id
		WHERE s.user_id = @owner_id
		ORDER BY s.created_at, s.id
	`, pgx.NamedArgs{"owner_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("query inventory: %w", err)
	}

	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[inventoryRow])
	if err != nil {
		return nil, fmt.Errorf("collect inventory: %w", err)
	}

	byProduct := make(map[uuid.UUID][]model.Inventory, len(products))
	for _, rec := range records {
		byProduct[rec.ProductID] = append(byProduct[rec.ProductID], rec.toModel())
	}

	out := make([]model.ProductStock, 0, len(products))
	for _, p := range products {
		out = append(out, model.ProductStock{
			Product:   p.toModel(),
			Inventory: byProduct[p.ID],
		})
	}

	return out, nil
}

func (r productRepository) queryOne(ctx context.Context, sql string, args pgx.NamedArgs) (model.Product, error) {
	rows, err := r.db.Query(ctx, sql, args)
	if err != nil {
		return model.Product{}, fmt.Errorf("query product: %w", err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[productRow])
	if db.IsNoRows(err) {
		return model.Product{}, fmt.Errorf("query product: %w", ErrNotFound)
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("collect product: %w", err)
	}

	return p.toModel(), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes query match literally inside a LIKE pattern.
func escapeLike(query string) string {
	return likeEscaper.Replace(query)
}
