// Package analytics implements the token metrics aggregation engine: it
// turns pre-aggregated hourly/daily rollups and pool locked-value snapshots
// into per-token price/volume/fees/TVL metrics with 24h changes and optional
// long-range history series.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/Plenty-DeFi/plenty-analytics-indexer/internal/cache"
	"github.com/Plenty-DeFi/plenty-analytics-indexer/internal/config"
	"github.com/Plenty-DeFi/plenty-analytics-indexer/internal/domain"
	"github.com/Plenty-DeFi/plenty-analytics-indexer/internal/observability"
	"github.com/Plenty-DeFi/plenty-analytics-indexer/internal/storage"
)

// ErrUnknownToken is returned when a requested token is not in the contracts
// reference data. It is a request validation failure, not an internal fault.
var ErrUnknownToken = errors.New("token does not exist")

// defaultHistoryConcurrency bounds the parallel per-day locked-value loop.
const defaultHistoryConcurrency = 8

// Engine computes per-token analytics from the rollup store.
type Engine struct {
	store     storage.AnalyticsStore
	cache     cache.Cache
	contracts *config.Contracts

	historyTTL         time.Duration
	historyConcurrency int
	now                func() time.Time
}

// Options configures an Engine.
type Options struct {
	Store     storage.AnalyticsStore
	Cache     cache.Cache
	Contracts *config.Contracts

	// HistoryTTL is the result cache TTL for per-day locked-value sums.
	HistoryTTL time.Duration

	// HistoryConcurrency bounds the parallel per-day loop; 0 selects the default.
	HistoryConcurrency int

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// NewEngine creates a metrics engine. The cache is injected at construction
// and lives for the process; it is advisory only.
func NewEngine(opts Options) *Engine {
	concurrency := opts.HistoryConcurrency
	if concurrency <= 0 {
		concurrency = defaultHistoryConcurrency
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Engine{
		store:              opts.Store,
		cache:              opts.Cache,
		contracts:          opts.Contracts,
		historyTTL:         opts.HistoryTTL,
		historyConcurrency: concurrency,
		now:                now,
	}
}

// requestData holds the joined results of the upfront window queries. All
// maps are keyed by token symbol; an absent key means no data.
type requestData struct {
	agg48H, agg24H, agg7D          map[string]domain.WindowTotals
	closeNow, close24H             map[string]string
	lockedNow1, lockedNow2         map[string]decimal.Decimal
	locked24H1, locked24H2         map[string]decimal.Decimal
}

// tokenHistory holds the long-range series of a single-token request.
type tokenHistory struct {
	price  []domain.CandlePoint
	volume []domain.SeriesPoint
	fees   []domain.SeriesPoint
	tvl    []domain.SeriesPoint
}

// TokenMetrics computes metrics for the given token, or for every known
// token when token is empty. History series are attached only when a single
// token was requested with historical detail.
//
// All failures are atomic: either the complete response is produced or an
// error is returned, never partial output.
func (e *Engine) TokenMetrics(ctx context.Context, token string, historical bool) ([]domain.TokenMetrics, error) {
	if token != "" && !e.contracts.HasToken(token) {
		return nil, ErrUnknownToken
	}

	w := WindowsAt(e.now())

	data, err := e.fetchWindowData(ctx, w)
	if err != nil {
		return nil, err
	}

	var history *tokenHistory
	if token != "" && historical {
		history, err = e.buildHistory(ctx, token, w)
		if err != nil {
			return nil, err
		}
	}

	symbols := []string{token}
	if token == "" {
		symbols = e.contracts.TokenSymbols()
	}

	result := make([]domain.TokenMetrics, 0, len(symbols))
	for _, symbol := range symbols {
		m, err := assembleToken(symbol, data, history)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}

	return result, nil
}

// fetchWindowData issues the nine upfront window/snapshot queries
// concurrently; they have no ordering dependency on each other, so request
// latency is bounded by the slowest one.
func (e *Engine) fetchWindowData(ctx context.Context, w Windows) (*requestData, error) {
	data := &requestData{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		data.agg48H, err = e.store.WindowTotals(gctx, w.Minus48H, w.Minus24H)
		return err
	})
	g.Go(func() (err error) {
		data.agg24H, err = e.store.WindowTotals(gctx, w.Minus24H, w.HourFloor)
		return err
	})
	g.Go(func() (err error) {
		data.agg7D, err = e.store.WindowTotals(gctx, w.Minus7D, w.HourFloor)
		return err
	})
	g.Go(func() (err error) {
		data.closeNow, err = e.store.ClosePrices(gctx, w.HourFloor)
		return err
	})
	g.Go(func() (err error) {
		data.close24H, err = e.store.ClosePrices(gctx, w.Minus24H)
		return err
	})
	g.Go(func() (err error) {
		data.lockedNow1, err = e.store.LockedValueBySlot(gctx, w.HourFloor, domain.SlotTokenOne)
		return err
	})
	g.Go(func() (err error) {
		data.lockedNow2, err = e.store.LockedValueBySlot(gctx, w.HourFloor, domain.SlotTokenTwo)
		return err
	})
	g.Go(func() (err error) {
		data.locked24H1, err = e.store.LockedValueBySlot(gctx, w.Minus24H, domain.SlotTokenOne)
		return err
	})
	g.Go(func() (err error) {
		data.locked24H2, err = e.store.LockedValueBySlot(gctx, w.Minus24H, domain.SlotTokenTwo)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch window aggregates: %w", err)
	}
	return data, nil
}

// buildHistory fetches and reconstructs the three long-range series for a
// single token. The three fetches are independent and run concurrently.
func (e *Engine) buildHistory(ctx context.Context, token string, w Windows) (*tokenHistory, error) {
	var (
		candles []domain.HourlyCandle
		daily   []domain.DailyAggregate
		tvl     []domain.SeriesPoint
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		candles, err = e.store.HourlyCandles(gctx, token, w.Minus7D, w.HourFloor)
		return err
	})
	g.Go(func() (err error) {
		daily, err = e.store.DailyAggregates(gctx, token, w.Minus1Y, w.HourFloor)
		return err
	})
	g.Go(func() (err error) {
		tvl, err = e.lockedValueHistory(gctx, token, w)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch history for %s: %w", token, err)
	}

	return &tokenHistory{
		price:  BuildCandleSeries(candles, w.Minus7D, w.HourFloor),
		volume: BuildVolumeSeries(daily),
		fees:   BuildFeesSeries(daily),
		tvl:    tvl,
	}, nil
}

// lockedValueHistory computes the one-year daily locked-value series. Days
// are independent, so the loop runs with bounded concurrency; results are
// re-ordered by day index afterwards. Days whose sum is not strictly
// positive are omitted, not zero-filled.
func (e *Engine) lockedValueHistory(ctx context.Context, token string, w Windows) ([]domain.SeriesPoint, error) {
	numDays := int((w.DayFloor-w.DayMinus1Y)/daySeconds) + 1
	sums := make([]decimal.Decimal, numDays)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.historyConcurrency)
	for idx := 0; idx < numDays; idx++ {
		day := w.DayMinus1Y + int64(idx)*daySeconds
		g.Go(func() (err error) {
			sums[idx], err = e.lockedValueAtCached(gctx, token, day)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("locked value history: %w", err)
	}

	var series []domain.SeriesPoint
	for idx, sum := range sums {
		if sum.IsPositive() {
			series = append(series, domain.SeriesPoint{
				Ts:    w.DayMinus1Y + int64(idx)*daySeconds,
				Value: sum.StringFixed(6),
			})
		}
	}
	return series, nil
}

// lockedValueAtCached returns the token's locked value at ts, consulting the
// result cache first. Misses compute live and write back with the configured
// TTL. Concurrent requests may race on the same key and both recompute; the
// result is identical either way.
func (e *Engine) lockedValueAtCached(ctx context.Context, token string, ts int64) (decimal.Decimal, error) {
	key := cache.LockedValueKey(ts, token)
	if v, ok := e.cache.Get(ctx, key); ok {
		observability.RecordCacheHit()
		return v, nil
	}
	observability.RecordCacheMiss()

	sum, err := e.lockedValueAt(ctx, token, ts)
	if err != nil {
		return decimal.Zero, err
	}

	e.cache.Put(ctx, key, sum, e.historyTTL)
	return sum, nil
}

// lockedValueAt sums the token's locked value across both pool slots at ts.
func (e *Engine) lockedValueAt(ctx context.Context, token string, ts int64) (decimal.Decimal, error) {
	v1, err := e.store.TokenLockedValue(ctx, ts, token, domain.SlotTokenOne)
	if err != nil {
		return decimal.Zero, fmt.Errorf("locked value slot 1 at %d: %w", ts, err)
	}
	v2, err := e.store.TokenLockedValue(ctx, ts, token, domain.SlotTokenTwo)
	if err != nil {
		return decimal.Zero, fmt.Errorf("locked value slot 2 at %d: %w", ts, err)
	}
	return v1.Add(v2), nil
}

// assembleToken merges the joined query results into one token's metrics.
// Absent map keys default to zero here, and only here.
func assembleToken(token string, data *requestData, history *tokenHistory) (domain.TokenMetrics, error) {
	priceNow, err := parsePrice(data.closeNow, token)
	if err != nil {
		return domain.TokenMetrics{}, fmt.Errorf("close price for %s: %w", token, err)
	}
	price24H, err := parsePrice(data.close24H, token)
	if err != nil {
		return domain.TokenMetrics{}, fmt.Errorf("24h close price for %s: %w", token, err)
	}

	priceValue, ok := data.closeNow[token]
	if !ok {
		priceValue = "0"
	}

	lockedNow := data.lockedNow1[token].Add(data.lockedNow2[token])
	locked24H := data.locked24H1[token].Add(data.locked24H2[token])

	agg48H := data.agg48H[token]
	agg24H := data.agg24H[token]
	agg7D := data.agg7D[token]

	m := domain.TokenMetrics{
		Token: token,
		Price: domain.PriceMetrics{
			Value:     priceValue,
			Change24H: PercentageChange(price24H, priceNow),
		},
		Volume: domain.VolumeMetrics{
			Value24H:  agg24H.Volume.String(),
			Change24H: PercentageChange(agg48H.Volume, agg24H.Volume),
			Value7D:   agg7D.Volume.String(),
		},
		Fees: domain.FeesMetrics{
			Value24H:  agg24H.Fees.String(),
			Change24H: PercentageChange(agg48H.Fees, agg24H.Fees),
			Value7D:   agg7D.Fees.String(),
		},
		TVL: domain.TVLMetrics{
			Value:     lockedNow.StringFixed(6),
			Change24H: PercentageChange(locked24H, lockedNow),
		},
	}

	if history != nil {
		m.Price.History = history.price
		m.Volume.History = history.volume
		m.Fees.History = history.fees
		m.TVL.History = history.tvl
	}

	return m, nil
}

// parsePrice parses a token's close price from a query result map. An absent
// key is zero; a malformed value is a computation error.
func parsePrice(prices map[string]string, token string) (decimal.Decimal, error) {
	raw, ok := prices[token]
	if !ok {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, err
	}
	return d, nil
}
