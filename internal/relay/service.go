package relay

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tuanvumaihuynh/perfume-inventory/internal/config"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/repository"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/storage/db"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/storage/mq"
	"github.com/tuanvumaihuynh/perfume-inventory/pkg/outbox"
	"github.com/tuanvumaihuynh/perfume-inventory/pkg/ptr"
)

// Service moves committed outbox messages to the broker. Each batch is
// locked, produced and marked inside one transaction, so several relays can
// run side by side.
type Service struct {
	cfg           config.Relay
	logger        *slog.Logger
	db            db.DB
	outboxMsgRepo repository.OutboxMsgRepository
	mqProducer    mq.Producer

	stopChan chan struct{}
	stopOnce sync.Once
}

func NewService(
	cfg config.Relay,
	logger *slog.Logger,
	db db.DB,
	outboxMsgRepo repository.OutboxMsgRepository,
	mqProducer mq.Producer,
) *Service {
	return &Service{
		cfg:           cfg,
		logger:        logger.With(slog.String("service", "relay")),
		db:            db,
		outboxMsgRepo: outboxMsgRepo,
		mqProducer:    mqProducer,
		stopChan:      make(chan struct{}),
	}
}

type CleanupFunc func()

// Run relays in the background. The cleanup waits for the batch in flight
// up to the configured shutdown timeout, then cancels it.
func (s *Service) Run(ctx context.Context) CleanupFunc {
	ctx, cancel := context.WithCancel(ctx)

	stoppedChan := make(chan struct{})
	go func() {
		defer close(stoppedChan)
		s.run(ctx)
	}()

	return func() {
		s.stopOnce.Do(func() { close(s.stopChan) })
		select {
		case <-stoppedChan:
		case <-time.After(s.cfg.ShutdownTimeout):
			s.logger.WarnContext(ctx, "relay did not stop in time, cancelling in-flight batch")
			cancel()
			<-stoppedChan
		}
		cancel()
	}
}

func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			if _, err := s.RelayBatch(ctx); err != nil {
				s.logger.ErrorContext(ctx, "error relaying outbox msgs", slog.Any("error", err))
			}
		}
	}
}

// RelayBatch produces one batch of pending messages and returns how many
// were picked up. Messages that fail to produce are marked with their error
// and not retried.
func (s *Service) RelayBatch(ctx context.Context) (int, error) {
	var relayed int

	err := s.db.WithTx(ctx, func(db db.DB) error {
		outboxMsgs, err := s.outboxMsgRepo.
			WithDB(db).
			//nolint:gosec
			ListUnprocessedOutboxMsgs(ctx, int32(s.cfg.BatchSize))
		if err != nil {
			return fmt.Errorf("list unprocessed outbox msgs: %w", err)
		}

		if len(outboxMsgs) == 0 {
			return nil
		}

		s.logger.DebugContext(ctx, "relaying outbox msgs", slog.Int("count", len(outboxMsgs)))

		results := make([]repository.OutboxMsgResult, len(outboxMsgs))
		var wg sync.WaitGroup
		for i, msg := range outboxMsgs {
			wg.Go(func() {
				results[i] = s.produce(ctx, msg)
			})
		}
		wg.Wait()

		if err := s.outboxMsgRepo.
			WithDB(db).
			MarkOutboxMsgsProcessed(ctx, results); err != nil {
			return fmt.Errorf("mark outbox msgs processed: %w", err)
		}

		relayed = len(outboxMsgs)
		return nil
	})
	if err != nil {
		return 0, err
	}

	return relayed, nil
}

func (s *Service) produce(ctx context.Context, msg repository.OutboxMsg) repository.OutboxMsgResult {
	msgCtx := outbox.ContextFromHeaders(ctx, msg.Headers)

	err := s.mqProducer.Produce(msgCtx, mq.ProduceMsg{
		Topic:        msg.Topic,
		Headers:      msg.Headers,
		Payload:      msg.Payload,
		PartitionKey: msg.PartitionKey,
	})
	if err != nil {
		s.logger.ErrorContext(msgCtx, "error producing message",
			slog.String("outbox_msg_id", msg.ID.String()),
			slog.String("topic", msg.Topic),
			slog.Any("error", err),
		)
		return repository.OutboxMsgResult{ID: msg.ID, Error: ptr.New(err.Error())}
	}

	return repository.OutboxMsgResult{ID: msg.ID}
}
