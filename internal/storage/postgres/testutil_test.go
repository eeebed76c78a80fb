package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Plenty-DeFi/plenty-analytics-indexer/internal/storage/migrations"
)

// setupTestDB creates a PostgreSQL container for testing and applies migrations.
// Returns a cleanup function that must be called after tests complete.
func setupTestDB(t *testing.T) (*Pool, func()) {
	t.Helper()

	ctx := context.Background()

	container, err := pgcontainer.Run(ctx, "postgres:15-alpine",
		pgcontainer.WithDatabase("testdb"),
		pgcontainer.WithUsername("test"),
		pgcontainer.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	pool, err := NewPool(ctx, dsn)
	require.NoError(t, err, "failed to create pool")

	err = migrations.RunPostgresMigrations(ctx, pool)
	require.NoError(t, err, "failed to run migrations")

	cleanup := func() {
		pool.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return pool, cleanup
}

// insertPool seeds a pool membership row.
func insertPool(t *testing.T, ctx context.Context, pool *Pool, address, token1, token2 string) {
	t.Helper()

	_, err := pool.Exec(ctx,
		`INSERT INTO pools (pool, token_1, token_2) VALUES ($1, $2, $3)`,
		address, token1, token2)
	require.NoError(t, err)
}

// insertHourly seeds a token_aggregate_hour row.
func insertHourly(t *testing.T, ctx context.Context, pool *Pool, token string, ts int64, open, high, low, closePrice, volume, fees string) {
	t.Helper()

	_, err := pool.Exec(ctx,
		`INSERT INTO token_aggregate_hour (token, ts, open_price, high_price, low_price, close_price, volume_value, fees_value)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		token, ts, open, high, low, closePrice, volume, fees)
	require.NoError(t, err)
}

// insertDaily seeds a token_aggregate_day row.
func insertDaily(t *testing.T, ctx context.Context, pool *Pool, token string, ts int64, volume, fees string) {
	t.Helper()

	_, err := pool.Exec(ctx,
		`INSERT INTO token_aggregate_day (token, ts, volume_value, fees_value) VALUES ($1, $2, $3, $4)`,
		token, ts, volume, fees)
	require.NoError(t, err)
}

// insertSnapshot seeds a pool_aggregate_hour row.
func insertSnapshot(t *testing.T, ctx context.Context, pool *Pool, address string, ts int64, locked1, locked2 string) {
	t.Helper()

	_, err := pool.Exec(ctx,
		`INSERT INTO pool_aggregate_hour (pool, ts, token_1_locked_value, token_2_locked_value) VALUES ($1, $2, $3, $4)`,
		address, ts, locked1, locked2)
	require.NoError(t, err)
}

// insertTransaction seeds a transactions row.
func insertTransaction(t *testing.T, ctx context.Context, pool *Pool, ts int64, hash, address, account, txType string) {
	t.Helper()

	_, err := pool.Exec(ctx,
		`INSERT INTO transactions (ts, hash, pool, account, type, token_1_amount, token_2_amount, value)
		 VALUES ($1, $2, $3, $4, $5, 1, 2, 3)`,
		ts, hash, address, account, txType)
	require.NoError(t, err)
}
