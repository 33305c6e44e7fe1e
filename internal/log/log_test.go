package log_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/perfume-inventory/internal/actor"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/config"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/log"
	"github.com/tuanvumaihuynh/perfume-inventory/pkg/correlationid"
)

func TestNewEnrichesRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, config.Log{Format: config.LogFormatJSON, Level: slog.LevelInfo})

	userID := uuid.New()
	ctx := correlationid.NewContext(context.Background(), "corr-42")
	ctx = actor.NewContext(ctx, userID)

	logger.InfoContext(ctx, "stock submitted", slog.Int("quantity", 5))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "stock submitted", rec["msg"])
	assert.Equal(t, "corr-42", rec["correlation_id"])
	assert.Equal(t, userID.String(), rec["user_id"])
	assert.NotContains(t, rec, "trace_id")
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, config.Log{Format: config.LogFormatText, Level: slog.LevelWarn})

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}
