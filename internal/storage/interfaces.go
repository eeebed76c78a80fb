package storage

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Plenty-DeFi/plenty-analytics-indexer/internal/domain"
)

// AnalyticsStore exposes the read-only query shapes the metrics engine needs
// against the hourly/daily rollup tables and the pool snapshot join.
//
// Map-returning queries are never lossy: an absent key means "no data for
// that token", not zero. Default substitution belongs to the assembler.
type AnalyticsStore interface {
	// WindowTotals sums hourly aggregates with start <= ts < end, grouped
	// by token.
	WindowTotals(ctx context.Context, start, end int64) (map[string]domain.WindowTotals, error)

	// ClosePrices returns, per token, the close price of the hourly
	// aggregate row with the maximum ts at or before the given ts.
	ClosePrices(ctx context.Context, ts int64) (map[string]string, error)

	// LockedValueBySlot returns, per token occupying the given pool slot,
	// the sum across pools of the most-recent-before-ts snapshot's locked
	// value for that slot. Pools with no snapshot at or before ts
	// contribute nothing.
	LockedValueBySlot(ctx context.Context, ts int64, slot domain.PoolSlot) (map[string]decimal.Decimal, error)

	// TokenLockedValue is LockedValueBySlot restricted to pools holding
	// the given token in the given slot. Zero when no pool qualifies.
	TokenLockedValue(ctx context.Context, ts int64, token string, slot domain.PoolSlot) (decimal.Decimal, error)

	// HourlyCandles returns the token's hourly OHLC rows with
	// start <= ts <= end, ordered by ts ASC. Sparse: missing hours are
	// simply absent.
	HourlyCandles(ctx context.Context, token string, start, end int64) ([]domain.HourlyCandle, error)

	// DailyAggregates returns the token's daily rollup rows with
	// start <= ts <= end, ordered by ts ASC.
	DailyAggregates(ctx context.Context, token string, start, end int64) ([]domain.DailyAggregate, error)
}

// TransactionStore exposes the single-query ledger lookups served by the
// transactions endpoint. All results are ordered by ts ASC and capped by
// limit.
type TransactionStore interface {
	// ByPool returns transactions involving the given pool.
	ByPool(ctx context.Context, pool string, limit int) ([]domain.Transaction, error)

	// ByToken returns transactions of every pool containing the given
	// token in either slot.
	ByToken(ctx context.Context, token string, limit int) ([]domain.Transaction, error)

	// ByAccount returns an account's swap or liquidity transactions.
	// swaps selects both swap directions; otherwise add_liquidity rows.
	ByAccount(ctx context.Context, account string, swaps bool, limit int) ([]domain.Transaction, error)

	// Latest returns the first recorded transactions with no filter applied.
	Latest(ctx context.Context, limit int) ([]domain.Transaction, error)
}
