package relay_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/perfume-inventory/internal/config"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/relay"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/repository"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/storage/db"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/storage/mq"
	"github.com/tuanvumaihuynh/perfume-inventory/pkg/correlationid"
)

type fakeDB struct {
	db.DB
}

func (f fakeDB) WithTx(_ context.Context, fn func(db.DB) error) error {
	return fn(f)
}

type fakeOutboxRepo struct {
	repository.OutboxMsgRepository

	mu      sync.Mutex
	pending []repository.OutboxMsg
	marked  []repository.OutboxMsgResult
}

func (r *fakeOutboxRepo) WithDB(db.DB) repository.OutboxMsgRepository { return r }

func (r *fakeOutboxRepo) ListUnprocessedOutboxMsgs(_ context.Context, batchSize int32) ([]repository.OutboxMsg, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := min(int(batchSize), len(r.pending))
	return append([]repository.OutboxMsg(nil), r.pending[:n]...), nil
}

func (r *fakeOutboxRepo) MarkOutboxMsgsProcessed(_ context.Context, results []repository.OutboxMsgResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.marked = append(r.marked, results...)
	done := make(map[uuid.UUID]bool, len(results))
	for _, res := range results {
		done[res.ID] = true
	}
	kept := r.pending[:0]
	for _, m := range r.pending {
		if !done[m.ID] {
			kept = append(kept, m)
		}
	}
	r.pending = kept
	return nil
}

type fakeProducer struct {
	mu           sync.Mutex
	produced     []mq.ProduceMsg
	correlations []string
	failTopic    string
}

func (p *fakeProducer) Produce(ctx context.Context, msg mq.ProduceMsg) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if msg.Topic == p.failTopic {
		return errors.New("broker unavailable")
	}
	p.produced = append(p.produced, msg)
	if id, ok := correlationid.FromContext(ctx); ok {
		p.correlations = append(p.correlations, id)
	}
	return nil
}

func newMsg(topic string) repository.OutboxMsg {
	return repository.OutboxMsg{
		ID:      uuid.New(),
		Topic:   topic,
		Headers: map[string]string{correlationid.Header: "corr-" + topic},
		Payload: []byte(`{}`),
	}
}

func TestRelayBatch(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("Should produce pending messages and mark them", func(t *testing.T) {
		repo := &fakeOutboxRepo{pending: []repository.OutboxMsg{newMsg("product.created"), newMsg("inventory.changed")}}
		producer := &fakeProducer{}
		svc := relay.NewService(config.Relay{BatchSize: 10, Interval: time.Hour}, logger, fakeDB{}, repo, producer)

		n, err := svc.RelayBatch(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Len(t, producer.produced, 2)
		assert.ElementsMatch(t, []string{"corr-product.created", "corr-inventory.changed"}, producer.correlations)
		require.Len(t, repo.marked, 2)
		for _, m := range repo.marked {
			assert.Nil(t, m.Error)
		}
	})

	t.Run("Should record produce failures", func(t *testing.T) {
		failing := newMsg("inventory.changed")
		repo := &fakeOutboxRepo{pending: []repository.OutboxMsg{failing}}
		producer := &fakeProducer{failTopic: "inventory.changed"}
		svc := relay.NewService(config.Relay{BatchSize: 10, Interval: time.Hour}, logger, fakeDB{}, repo, producer)

		_, err := svc.RelayBatch(context.Background())
		require.NoError(t, err)
		require.Len(t, repo.marked, 1)
		assert.Equal(t, failing.ID, repo.marked[0].ID)
		require.NotNil(t, repo.marked[0].Error)
		assert.Contains(t, *repo.marked[0].Error, "broker unavailable")
	})

	t.Run("Should respect the batch size", func(t *testing.T) {
		repo := &fakeOutboxRepo{pending: []repository.OutboxMsg{newMsg("a"), newMsg("b"), newMsg("c")}}
		svc := relay.NewService(config.Relay{BatchSize: 2, Interval: time.Hour}, logger, fakeDB{}, repo, &fakeProducer{})

		n, err := svc.RelayBatch(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Len(t, repo.pending, 1)
	})
}

func TestRunDrainsOnTicks(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := &fakeOutboxRepo{pending: []repository.OutboxMsg{newMsg("product.created")}}
	svc := relay.NewService(config.Relay{
		BatchSize: 10, Interval: 10 * time.Millisecond, ShutdownTimeout: time.Second,
	}, logger, fakeDB{}, repo, &fakeProducer{})

	cleanup := svc.Run(context.Background())
	defer cleanup()

	assert.Eventually(t, func() bool {
		repo.mu.Lock()
		defer repo.mu.Unlock()
		return len(repo.pending) == 0
	}, time.Second, 10*time.Millisecond)
}
