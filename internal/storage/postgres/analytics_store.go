package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Plenty-DeFi/plenty-analytics-indexer/internal/domain"
	"github.com/Plenty-DeFi/plenty-analytics-indexer/internal/observability"
	"github.com/Plenty-DeFi/plenty-analytics-indexer/internal/storage"
)

// AnalyticsStore implements storage.AnalyticsStore using PostgreSQL.
type AnalyticsStore struct {
	pool *Pool
}

// NewAnalyticsStore creates a new AnalyticsStore.
func NewAnalyticsStore(pool *Pool) *AnalyticsStore {
	return &AnalyticsStore{pool: pool}
}

// Compile-time interface check.
var _ storage.AnalyticsStore = (*AnalyticsStore)(nil)

// lockedValueColumn maps a pool slot to its snapshot column. Column names
// cannot be bind parameters; the slot is a closed enum so this stays safe.
func lockedValueColumn(slot domain.PoolSlot) (member, locked string, err error) {
	switch slot {
	case domain.SlotTokenOne:
		return "token_1", "token_1_locked_value", nil
	case domain.SlotTokenTwo:
		return "token_2", "token_2_locked_value", nil
	default:
		return "", "", fmt.Errorf("%w: pool slot %d", storage.ErrInvalidInput, slot)
	}
}

// WindowTotals sums hourly aggregates with start <= ts < end, grouped by token.
func (s *AnalyticsStore) WindowTotals(ctx context.Context, start, end int64) (map[string]domain.WindowTotals, error) {
	defer observability.TimeQuery("window_totals")()

	query := `
		SELECT token, SUM(volume_value)::text, SUM(fees_value)::text
		FROM token_aggregate_hour
		WHERE ts >= $1 AND ts < $2
		GROUP BY token
	`

	rows, err := s.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("query window totals: %w", err)
	}
	defer rows.Close()

	result := make(map[string]domain.WindowTotals)
	for rows.Next() {
		var token, volume, fees string
		if err := rows.Scan(&token, &volume, &fees); err != nil {
			return nil, fmt.Errorf("scan window totals row: %w", err)
		}
		totals, err := parseTotals(volume, fees)
		if err != nil {
			return nil, fmt.Errorf("window totals for %s: %w", token, err)
		}
		result[token] = totals
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate window totals rows: %w", err)
	}

	return result, nil
}

// ClosePrices returns the close price of each token's latest hourly row at
// or before ts.
func (s *AnalyticsStore) ClosePrices(ctx context.Context, ts int64) (map[string]string, error) {
	defer observability.TimeQuery("close_prices")()

	query := `
		SELECT t.token, t.close_price::text
		FROM (
			SELECT token, MAX(ts) AS mts
			FROM token_aggregate_hour
			WHERE ts <= $1
			GROUP BY token
		) r
		JOIN token_aggregate_hour t ON t.token = r.token AND t.ts = r.mts
	`

	rows, err := s.pool.Query(ctx, query, ts)
	if err != nil {
		return nil, fmt.Errorf("query close prices: %w", err)
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var token, closePrice string
		if err := rows.Scan(&token, &closePrice); err != nil {
			return nil, fmt.Errorf("scan close price row: %w", err)
		}
		result[token] = closePrice
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate close price rows: %w", err)
	}

	return result, nil
}

// LockedValueBySlot sums the most-recent-before-ts snapshot per pool,
// grouped by the token occupying the given slot.
func (s *AnalyticsStore) LockedValueBySlot(ctx context.Context, ts int64, slot domain.PoolSlot) (map[string]decimal.Decimal, error) {
	defer observability.TimeQuery("locked_value_by_slot")()

	member, locked, err := lockedValueColumn(slot)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT p.%s, SUM(t.%s)::text
		FROM (
			SELECT pool, MAX(ts) AS mts
			FROM pool_aggregate_hour
			WHERE ts <= $1
			GROUP BY pool
		) r
		JOIN pools p ON p.pool = r.pool
		JOIN pool_aggregate_hour t ON t.pool = r.pool AND t.ts = r.mts
		GROUP BY p.%s
	`, member, locked, member)

	rows, err := s.pool.Query(ctx, query, ts)
	if err != nil {
		return nil, fmt.Errorf("query locked value by slot: %w", err)
	}
	defer rows.Close()

	result := make(map[string]decimal.Decimal)
	for rows.Next() {
		var token, sum string
		if err := rows.Scan(&token, &sum); err != nil {
			return nil, fmt.Errorf("scan locked value row: %w", err)
		}
		d, err := decimal.NewFromString(sum)
		if err != nil {
			return nil, fmt.Errorf("parse locked value for %s: %w", token, err)
		}
		result[token] = d
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate locked value rows: %w", err)
	}

	return result, nil
}

// TokenLockedValue sums the most-recent-before-ts snapshots of pools holding
// the token in the given slot.
func (s *AnalyticsStore) TokenLockedValue(ctx context.Context, ts int64, token string, slot domain.PoolSlot) (decimal.Decimal, error) {
	defer observability.TimeQuery("token_locked_value")()

	member, locked, err := lockedValueColumn(slot)
	if err != nil {
		return decimal.Zero, err
	}

	query := fmt.Sprintf(`
		SELECT COALESCE(SUM(t.%s), 0)::text
		FROM (
			SELECT pool, MAX(ts) AS mts
			FROM pool_aggregate_hour
			WHERE ts <= $1
			GROUP BY pool
		) r
		JOIN pools p ON p.pool = r.pool
		JOIN pool_aggregate_hour t ON t.pool = r.pool AND t.ts = r.mts
		WHERE p.%s = $2
	`, locked, member)

	var sum string
	if err := s.pool.QueryRow(ctx, query, ts, token).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("query token locked value: %w", err)
	}

	d, err := decimal.NewFromString(sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse token locked value: %w", err)
	}
	return d, nil
}

// HourlyCandles returns the token's OHLC rows with start <= ts <= end.
func (s *AnalyticsStore) HourlyCandles(ctx context.Context, token string, start, end int64) ([]domain.HourlyCandle, error) {
	defer observability.TimeQuery("hourly_candles")()

	query := `
		SELECT ts, open_price::text, high_price::text, low_price::text, close_price::text
		FROM token_aggregate_hour
		WHERE token = $1 AND ts >= $2 AND ts <= $3
		ORDER BY ts ASC
	`

	rows, err := s.pool.Query(ctx, query, token, start, end)
	if err != nil {
		return nil, fmt.Errorf("query hourly candles: %w", err)
	}
	defer rows.Close()

	var candles []domain.HourlyCandle
	for rows.Next() {
		var c domain.HourlyCandle
		if err := rows.Scan(&c.Ts, &c.Open, &c.High, &c.Low, &c.Close); err != nil {
			return nil, fmt.Errorf("scan hourly candle row: %w", err)
		}
		candles = append(candles, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hourly candle rows: %w", err)
	}

	return candles, nil
}

// DailyAggregates returns the token's daily rollup rows with start <= ts <= end.
func (s *AnalyticsStore) DailyAggregates(ctx context.Context, token string, start, end int64) ([]domain.DailyAggregate, error) {
	defer observability.TimeQuery("daily_aggregates")()

	query := `
		SELECT ts, volume_value::text, fees_value::text
		FROM token_aggregate_day
		WHERE token = $1 AND ts >= $2 AND ts <= $3
		ORDER BY ts ASC
	`

	rows, err := s.pool.Query(ctx, query, token, start, end)
	if err != nil {
		return nil, fmt.Errorf("query daily aggregates: %w", err)
	}
	defer rows.Close()

	var aggs []domain.DailyAggregate
	for rows.Next() {
		a := domain.DailyAggregate{Token: token}
		if err := rows.Scan(&a.Ts, &a.Volume, &a.Fees); err != nil {
			return nil, fmt.Errorf("scan daily aggregate row: %w", err)
		}
		aggs = append(aggs, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily aggregate rows: %w", err)
	}

	return aggs, nil
}

// parseTotals converts summed volume/fees strings into decimals.
func parseTotals(volume, fees string) (domain.WindowTotals, error) {
	v, err := decimal.NewFromString(volume)
	if err != nil {
		return domain.WindowTotals{}, fmt.Errorf("parse volume: %w", err)
	}
	f, err := decimal.NewFromString(fees)
	if err != nil {
		return domain.WindowTotals{}, fmt.Errorf("parse fees: %w", err)
	}
	return domain.WindowTotals{Volume: v, Fees: f}, nil
}
