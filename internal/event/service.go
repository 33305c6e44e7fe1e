package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tuanvumaihuynh/perfume-inventory/internal/storage/mq"
)

// Service consumes the domain events relayed from the outbox.
type Service struct {
	logger     *slog.Logger
	mqConsumer mq.Consumer
}

func New(
	logger *slog.Logger,
	mqConsumer mq.Consumer,
) *Service {
	return &Service{
		logger:     logger.With(slog.String("service", "event")),
		mqConsumer: mqConsumer,
	}
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	if err := s.mqConsumer.RegisterHandler(TopicProductCreated, jsonHandler(s.HandleProductCreated)); err != nil {
		return nil, fmt.Errorf("register %s handler: %w", TopicProductCreated, err)
	}

	if err := s.mqConsumer.RegisterHandler(TopicInventoryChanged, jsonHandler(s.HandleInventoryChanged)); err != nil {
		return nil, fmt.Errorf("register %s handler: %w", TopicInventoryChanged, err)
	}

	mqCleanup, err := s.mqConsumer.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run mq consumer: %w", err)
	}

	return CleanupFunc(mqCleanup), nil
}

func (s *Service) HandleProductCreated(ctx context.Context, ev ProductCreatedEvent) error {
	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", ev.ProductID.String()),
		slog.String("name", ev.Name),
		slog.String("brand", ev.Brand),
	)
	return nil
}

func (s *Service) HandleInventoryChanged(ctx context.Context, ev InventoryChangedEvent) error {
	attrs := []any{
		slog.String("product_id", ev.ProductID.String()),
		slog.String("store_id", ev.StoreID.String()),
		slog.Int64("delta", ev.Delta),
		slog.Int64("quantity", ev.Quantity),
		slog.String("reason", ev.Reason),
	}

	if ev.Quantity == 0 {
		s.logger.WarnContext(ctx, "product out of stock at store", attrs...)
		return nil
	}

	s.logger.InfoContext(ctx, "inventory changed", attrs...)
	return nil
}

func jsonHandler[T any](fn func(context.Context, T) error) mq.HandlerFunc {
	return func(ctx context.Context, topic string, payload []byte) error {
		var ev T
		if err := json.Unmarshal(payload, &ev); err != nil {
			return fmt.Errorf("unmarshal %s event: %w", topic, err)
		}

		if err := fn(ctx, ev); err != nil {
			return fmt.Errorf("handle %s event: %w", topic, err)
		}

		return nil
	}
}
