package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/perfume-inventory/internal/apperr"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/model"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/repository"
	"github.com/tuanvumaihuynh/perfume-inventory/pkg/validator"
)

type CreateStoreParams struct {
	Name string `validate:"notblank,max=100"`
}

type StoreService interface {
	CreateStore(ctx context.Context, params CreateStoreParams) (model.Store, error)
	// ListStores returns the acting user's stores in creation order.
	ListStores(ctx context.Context) ([]model.Store, error)
	// DeleteStore removes a store together with its inventory records.
	DeleteStore(ctx context.Context, id uuid.UUID) error
}

type storeService struct {
	logger    *slog.Logger
	validator validator.Validator
	storeRepo repository.StoreRepository
}

func NewStoreService(
	logger *slog.Logger,
	validator validator.Validator,
	storeRepo repository.StoreRepository,
) StoreService {
	return &storeService{
		logger:    logger.With(slog.String("service", "store")),
		validator: validator,
		storeRepo: storeRepo,
	}
}

func (s *storeService) CreateStore(ctx context.Context, params CreateStoreParams) (model.Store, error) {
	userID, err := actingUser(ctx)
	if err != nil {
		return model.Store{}, err
	}

	params.Name = strings.TrimSpace(params.Name)
	if err := validate(s.validator, params); err != nil {
		return model.Store{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.Store{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	store := model.Store{
		ID:        id,
		UserID:    userID,
		Name:      params.Name,
		CreatedAt: time.Now(),
	}

	if err := s.storeRepo.CreateStore(ctx, store); err != nil {
		return model.Store{}, fmt.Errorf("store repository create store: %w", err)
	}

	return store, nil
}

func (s *storeService) ListStores(ctx context.Context) ([]model.Store, error) {
	userID, err := actingUser(ctx)
	if err != nil {
		return nil, err
	}

	stores, err := s.storeRepo.ListStoresByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("store repository list stores by owner: %w", err)
	}

	return stores, nil
}

func (s *storeService) DeleteStore(ctx context.Context, id uuid.UUID) error {
	userID, err := actingUser(ctx)
	if err != nil {
		return err
	}

	if err := s.storeRepo.DeleteOwnedStore(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.StoreNotFoundErr
		}
		return fmt.Errorf("store repository delete owned store: %w", err)
	}

	s.logger.InfoContext(ctx, "store deleted", slog.String("store_id", id.String()))
	return nil
}
