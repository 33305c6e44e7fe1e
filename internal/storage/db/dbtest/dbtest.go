// Package dbtest opens a migrated Postgres database for integration tests.
package dbtest

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/perfume-inventory/internal/storage/db"
)

// EnvDSN names the variable holding the test database connection string.
const EnvDSN = "TEST_POSTGRES_DSN"

// New connects to the database in TEST_POSTGRES_DSN, applies migrations and
// empties every table. The test is skipped when the variable is unset.
func New(t *testing.T) *db.Client {
	t.Helper()

	dsn := os.Getenv(EnvDSN)
	if dsn == "" {
		t.Skipf("%s not set, skipping postgres integration test", EnvDSN)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.Migrate(ctx, pool))

	_, err = pool.Exec(ctx, `TRUNCATE outbox_messages, inventory, products, stores, users CASCADE`)
	require.NoError(t, err)

	return db.NewClient(pool)
}
