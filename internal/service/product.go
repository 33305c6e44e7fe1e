package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/perfume-inventory/internal/apperr"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/catalog"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/model"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/repository"
	"github.com/tuanvumaihuynh/perfume-inventory/pkg/validator"
)

const (
	// SuggestionMinQueryLen is the shortest query, in characters, that is
	// looked up.
	SuggestionMinQueryLen = 2
	// SuggestionLimit caps the number of suggestions returned.
	SuggestionLimit = 5
)

type UpdateProductParams struct {
	Name        string         `validate:"notblank,max=200"`
	Brand       string         `validate:"max=200"`
	Price       int64          `validate:"gte=0"`
	// Category keeps the stored value when empty.
	Category    model.Category `validate:"omitempty,enum"`
	Description *string        `validate:"omitempty,max=2000"`
	ImageURL    *string        `validate:"omitempty,url"`
}

type ProductService interface {
	GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, params UpdateProductParams) (model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	// SuggestProducts returns up to SuggestionLimit products whose name
	// contains query, ignoring case. Queries shorter than
	// SuggestionMinQueryLen return nothing without a lookup.
	SuggestProducts(ctx context.Context, query string) ([]model.Product, error)
	// ListCatalog lists products newest first, narrowed by q. Stock figures
	// only cover the acting user's stores.
	ListCatalog(ctx context.Context, q catalog.Query) ([]catalog.Item, error)
}

type productService struct {
	logger      *slog.Logger
	validator   validator.Validator
	productRepo repository.ProductRepository
	storeRepo   repository.StoreRepository
}

func NewProductService(
	logger *slog.Logger,
	validator validator.Validator,
	productRepo repository.ProductRepository,
	storeRepo repository.StoreRepository,
) ProductService {
	return &productService{
		logger:      logger.With(slog.String("service", "product")),
		validator:   validator,
		productRepo: productRepo,
		storeRepo:   storeRepo,
	}
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	if _, err := actingUser(ctx); err != nil {
		return model.Product{}, err
	}

	product, err := s.productRepo.GetProduct(ctx, id)
	if err != nil {
		return model.Product{}, productErr("get product", err)
	}

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, params UpdateProductParams) (model.Product, error) {
	if _, err := actingUser(ctx); err != nil {
		return model.Product{}, err
	}

	params.Name = model.NormalizeName(params.Name)
	if err := validate(s.validator, params); err != nil {
		return model.Product{}, err
	}

	product, err := s.productRepo.GetProduct(ctx, id)
	if err != nil {
		return model.Product{}, productErr("get product", err)
	}

	product.Name = params.Name
	product.Brand = params.Brand
	product.Price = params.Price
	if params.Category != "" {
		product.Category = params.Category
	}
	product.Description = params.Description
	product.ImageURL = params.ImageURL
	product.UpdatedAt = time.Now()

	updated, err := s.productRepo.UpdateProduct(ctx, product)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return model.Product{}, apperr.ProductNameTakenErr
		}
		return model.Product{}, productErr("update product", err)
	}

	return updated, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := actingUser(ctx); err != nil {
		return err
	}

	if err := s.productRepo.DeleteProduct(ctx, id); err != nil {
		return productErr("delete product", err)
	}

	s.logger.InfoContext(ctx, "product deleted", slog.String("product_id", id.String()))
	return nil
}

func (s *productService) SuggestProducts(ctx context.Context, query string) ([]model.Product, error) {
	if _, err := actingUser(ctx); err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < SuggestionMinQueryLen {
		return []model.Product{}, nil
	}

	products, err := s.productRepo.SuggestByName(ctx, query, SuggestionLimit)
	if err != nil {
		return nil, fmt.Errorf("product repository suggest by name: %w", err)
	}

	return products, nil
}

func (s *productService) ListCatalog(ctx context.Context, q catalog.Query) ([]catalog.Item, error) {
	userID, err := actingUser(ctx)
	if err != nil {
		return nil, err
	}

	if q.StoreID != nil {
		if _, err := s.storeRepo.GetOwnedStore(ctx, *q.StoreID, userID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperr.StoreNotFoundErr
			}
			return nil, fmt.Errorf("store repository get owned store: %w", err)
		}
	}

	stocks, err := s.productRepo.ListWithInventory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("product repository list with inventory: %w", err)
	}

	return catalog.Filter(stocks, q), nil
}

func productErr(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.ProductNotFoundErr
	}
	return fmt.Errorf("product repository %s: %w", op, err)
}
