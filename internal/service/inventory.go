package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/perfume-inventory/internal/apperr"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/event"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/metric"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/model"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/repository"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/storage/db"
	"github.com/tuanvumaihuynh/perfume-inventory/pkg/validator"
)

const outcomeError = "error"

type SetQuantityParams struct {
	ProductID uuid.UUID `validate:"required"`
	StoreID   uuid.UUID `validate:"required"`
	Quantity  int64     `validate:"gte=0"`
}

type InventoryService interface {
	// Reconcile applies a stock submission: the product is matched by name
	// or created, then the quantity is added to its record at the store.
	// The two writes commit separately; a failed inventory write leaves a
	// newly created product in place.
	Reconcile(ctx context.Context, sub model.Submission) (model.Reconciliation, error)
	// SetQuantity overwrites the stock of a product at a store.
	SetQuantity(ctx context.Context, params SetQuantityParams) (model.Inventory, error)
}

type inventoryService struct {
	logger        *slog.Logger
	db            db.DB
	validator     validator.Validator
	metrics       *metric.Metrics
	productRepo   repository.ProductRepository
	storeRepo     repository.StoreRepository
	inventoryRepo repository.InventoryRepository
	outboxMsgRepo repository.OutboxMsgRepository
}

func NewInventoryService(
	logger *slog.Logger,
	db db.DB,
	validator validator.Validator,
	metrics *metric.Metrics,
	productRepo repository.ProductRepository,
	storeRepo repository.StoreRepository,
	inventoryRepo repository.InventoryRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
) InventoryService {
	return &inventoryService{
		logger:        logger.With(slog.String("service", "inventory")),
		db:            db,
		validator:     validator,
		metrics:       metrics,
		productRepo:   productRepo,
		storeRepo:     storeRepo,
		inventoryRepo: inventoryRepo,
		outboxMsgRepo: outboxMsgRepo,
	}
}

func (s *inventoryService) Reconcile(ctx context.Context, sub model.Submission) (model.Reconciliation, error) {
	res, err := s.reconcile(ctx, sub)
	if err != nil {
		s.metrics.ObserveReconciliation(outcomeError)
		return model.Reconciliation{}, err
	}

	s.metrics.ObserveReconciliation(string(res.Outcome))
	s.logger.InfoContext(ctx, "stock submission reconciled",
		slog.String("product_id", res.Product.ID.String()),
		slog.String("store_id", res.Inventory.StoreID.String()),
		slog.String("outcome", string(res.Outcome)),
		slog.Int64("quantity", res.Inventory.Quantity),
	)

	return res, nil
}

func (s *inventoryService) reconcile(ctx context.Context, sub model.Submission) (model.Reconciliation, error) {
	userID, err := actingUser(ctx)
	if err != nil {
		return model.Reconciliation{}, err
	}

	sub = sub.Normalized()
	if err := validate(s.validator, sub); err != nil {
		return model.Reconciliation{}, err
	}

	if err := s.ensureStore(ctx, sub.StoreID, userID); err != nil {
		return model.Reconciliation{}, err
	}

	product, productCreated, err := s.resolveProduct(ctx, sub, userID)
	if err != nil {
		return model.Reconciliation{}, err
	}

	// From here on a failure leaves the product row committed. Resubmitting
	// the same name finds it instead of creating another one.
	inv, inserted, err := s.accumulate(ctx, product, sub, userID, productCreated)
	if err != nil {
		return model.Reconciliation{}, err
	}

	// A concurrent submission may stock the new product first, so creation
	// alone decides product_created.
	outcome := model.OutcomeInventoryUpdated
	switch {
	case productCreated:
		outcome = model.OutcomeProductCreated
	case inserted:
		outcome = model.OutcomeInventoryCreated
	}

	return model.Reconciliation{
		Product:   product,
		Inventory: inv,
		Outcome:   outcome,
	}, nil
}

func (s *inventoryService) ensureStore(ctx context.Context, storeID, userID uuid.UUID) error {
	if _, err := s.storeRepo.GetOwnedStore(ctx, storeID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.StoreNotFoundErr
		}
		return fmt.Errorf("store repository get owned store: %w", err)
	}
	return nil
}

// resolveProduct finds the product named like sub or creates it. A product
// created concurrently under the same name wins and is returned instead.
func (s *inventoryService) resolveProduct(ctx context.Context, sub model.Submission, userID uuid.UUID) (model.Product, bool, error) {
	existing, err := s.productRepo.FindByName(ctx, sub.Name)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return model.Product{}, false, fmt.Errorf("product repository find by name: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.Product{}, false, fmt.Errorf("generate uuid v7: %w", err)
	}

	now := time.Now()
	product := sub.Product(id, userID)
	product.CreatedAt = now
	product.UpdatedAt = now

	msg, err := outboxMsg(ctx, event.TopicProductCreated, product.ID, event.ProductCreatedEvent{
		ProductID: product.ID,
		UserID:    userID,
		Name:      product.Name,
		Brand:     product.Brand,
		Price:     product.Price,
		Category:  string(product.Category),
		CreatedAt: now,
	})
	if err != nil {
		return model.Product{}, false, err
	}

	var created bool
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		created, err = s.productRepo.WithDB(db).CreateIfAbsent(ctx, product)
		if err != nil {
			return fmt.Errorf("product repository create if absent: %w", err)
		}
		if !created {
			return nil
		}

		if err := s.outboxMsgRepo.WithDB(db).CreateOutboxMsg(ctx, msg); err != nil {
			return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
		}

		return nil
	}); err != nil {
		return model.Product{}, false, fmt.Errorf("db with tx: %w", err)
	}

	if created {
		return product, true, nil
	}

	existing, err = s.productRepo.FindByName(ctx, sub.Name)
	if err != nil {
		return model.Product{}, false, fmt.Errorf("product repository find by name after conflict: %w", err)
	}

	return existing, false, nil
}

func (s *inventoryService) accumulate(
	ctx context.Context,
	product model.Product,
	sub model.Submission,
	userID uuid.UUID,
	productCreated bool,
) (model.Inventory, bool, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return model.Inventory{}, false, fmt.Errorf("generate uuid v7: %w", err)
	}

	now := time.Now()
	var (
		inv      model.Inventory
		inserted bool
	)

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		inv, inserted, err = s.inventoryRepo.WithDB(db).Accumulate(ctx, model.Inventory{
			ID:        id,
			ProductID: product.ID,
			StoreID:   sub.StoreID,
			Quantity:  sub.Quantity,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("inventory repository accumulate: %w", err)
		}

		reason := event.ReasonInventoryUpdated
		switch {
		case productCreated:
			reason = event.ReasonProductCreated
		case inserted:
			reason = event.ReasonInventoryCreated
		}

		msg, err := outboxMsg(ctx, event.TopicInventoryChanged, product.ID, event.InventoryChangedEvent{
			InventoryID: inv.ID,
			ProductID:   inv.ProductID,
			StoreID:     inv.StoreID,
			UserID:      userID,
			Delta:       sub.Quantity,
			Quantity:    inv.Quantity,
			Reason:      reason,
			OccurredAt:  now,
		})
		if err != nil {
			return err
		}

		if err := s.outboxMsgRepo.WithDB(db).CreateOutboxMsg(ctx, msg); err != nil {
			return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
		}

		return nil
	}); err != nil {
		return model.Inventory{}, false, fmt.Errorf("db with tx: %w", err)
	}

	return inv, inserted, nil
}

func (s *inventoryService) SetQuantity(ctx context.Context, params SetQuantityParams) (model.Inventory, error) {
	userID, err := actingUser(ctx)
	if err != nil {
		return model.Inventory{}, err
	}

	if err := validate(s.validator, params); err != nil {
		return model.Inventory{}, err
	}

	if err := s.ensureStore(ctx, params.StoreID, userID); err != nil {
		return model.Inventory{}, err
	}

	if _, err := s.productRepo.GetProduct(ctx, params.ProductID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Inventory{}, apperr.ProductNotFoundErr
		}
		return model.Inventory{}, fmt.Errorf("product repository get product: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.Inventory{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	now := time.Now()
	var inv model.Inventory
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		var previous int64
		var err error
		inv, previous, err = s.inventoryRepo.WithDB(db).SetQuantity(ctx, model.Inventory{
			ID:        id,
			ProductID: params.ProductID,
			StoreID:   params.StoreID,
			Quantity:  params.Quantity,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("inventory repository set quantity: %w", err)
		}

		msg, err := outboxMsg(ctx, event.TopicInventoryChanged, inv.ProductID, event.InventoryChangedEvent{
			InventoryID: inv.ID,
			ProductID:   inv.ProductID,
			StoreID:     inv.StoreID,
			UserID:      userID,
			Delta:       inv.Quantity - previous,
			Quantity:    inv.Quantity,
			Reason:      event.ReasonQuantitySet,
			OccurredAt:  now,
		})
		if err != nil {
			return err
		}

		if err := s.outboxMsgRepo.WithDB(db).CreateOutboxMsg(ctx, msg); err != nil {
			return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
		}

		return nil
	}); err != nil {
		return model.Inventory{}, fmt.Errorf("db with tx: %w", err)
	}

	return inv, nil
}
