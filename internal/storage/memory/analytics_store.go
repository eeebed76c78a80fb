package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Plenty-DeFi/plenty-analytics-indexer/internal/domain"
	"github.com/Plenty-DeFi/plenty-analytics-indexer/internal/storage"
)

// AnalyticsStore is an in-memory implementation of storage.AnalyticsStore.
// Rows are seeded through the Add* methods; queries mirror the SQL shapes of
// the postgres implementation, including most-recent-before snapshot
// semantics and the pool membership join.
type AnalyticsStore struct {
	mu        sync.RWMutex
	pools     map[string]domain.Pool                    // keyed by pool address
	hourly    map[string]*domain.HourlyAggregate        // keyed by (token, ts)
	daily     map[string]*domain.DailyAggregate         // keyed by (token, ts)
	snapshots map[string]*domain.PoolLockedValueSnapshot // keyed by (pool, ts)
}

// NewAnalyticsStore creates a new in-memory analytics store.
func NewAnalyticsStore() *AnalyticsStore {
	return &AnalyticsStore{
		pools:     make(map[string]domain.Pool),
		hourly:    make(map[string]*domain.HourlyAggregate),
		daily:     make(map[string]*domain.DailyAggregate),
		snapshots: make(map[string]*domain.PoolLockedValueSnapshot),
	}
}

// Compile-time interface check.
var _ storage.AnalyticsStore = (*AnalyticsStore)(nil)

// rowKey generates a unique key for a (name, ts) row.
func rowKey(name string, ts int64) string {
	return fmt.Sprintf("%s|%d", name, ts)
}

// AddPool registers pool membership. Overwrites any previous entry.
func (s *AnalyticsStore) AddPool(p domain.Pool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pools[p.Address] = p
}

// AddHourlyAggregate seeds an hourly rollup row. Overwrites any previous entry.
func (s *AnalyticsStore) AddHourlyAggregate(a domain.HourlyAggregate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hourly[rowKey(a.Token, a.Ts)] = &a
}

// AddDailyAggregate seeds a daily rollup row. Overwrites any previous entry.
func (s *AnalyticsStore) AddDailyAggregate(a domain.DailyAggregate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.daily[rowKey(a.Token, a.Ts)] = &a
}

// AddSnapshot seeds a pool locked-value snapshot. Overwrites any previous entry.
func (s *AnalyticsStore) AddSnapshot(snap domain.PoolLockedValueSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[rowKey(snap.Pool, snap.Ts)] = &snap
}

// WindowTotals sums hourly aggregates with start <= ts < end, grouped by token.
func (s *AnalyticsStore) WindowTotals(_ context.Context, start, end int64) (map[string]domain.WindowTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]domain.WindowTotals)
	for _, a := range s.hourly {
		if a.Ts < start || a.Ts >= end {
			continue
		}
		totals := result[a.Token]
		totals.Volume = totals.Volume.Add(a.Volume)
		totals.Fees = totals.Fees.Add(a.Fees)
		result[a.Token] = totals
	}

	return result, nil
}

// ClosePrices returns each token's latest close price at or before ts.
func (s *AnalyticsStore) ClosePrices(_ context.Context, ts int64) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	latest := make(map[string]int64)
	result := make(map[string]string)
	for _, a := range s.hourly {
		if a.Ts > ts {
			continue
		}
		if prev, ok := latest[a.Token]; !ok || a.Ts > prev {
			latest[a.Token] = a.Ts
			result[a.Token] = a.Close
		}
	}

	return result, nil
}

// latestSnapshot returns the pool's snapshot with the maximum ts <= given ts,
// or nil when the pool has none. Caller must hold the read lock.
func (s *AnalyticsStore) latestSnapshot(pool string, ts int64) *domain.PoolLockedValueSnapshot {
	var best *domain.PoolLockedValueSnapshot
	for _, snap := range s.snapshots {
		if snap.Pool != pool || snap.Ts > ts {
			continue
		}
		if best == nil || snap.Ts > best.Ts {
			best = snap
		}
	}
	return best
}

// slotValues extracts the member symbol and locked value for a slot.
func slotValues(p domain.Pool, snap *domain.PoolLockedValueSnapshot, slot domain.PoolSlot) (string, decimal.Decimal, error) {
	switch slot {
	case domain.SlotTokenOne:
		return p.Token1, snap.Token1LockedValue, nil
	case domain.SlotTokenTwo:
		return p.Token2, snap.Token2LockedValue, nil
	default:
		return "", decimal.Zero, fmt.Errorf("%w: pool slot %d", storage.ErrInvalidInput, slot)
	}
}

// LockedValueBySlot sums most-recent-before snapshots per pool, grouped by
// the token in the given slot.
func (s *AnalyticsStore) LockedValueBySlot(_ context.Context, ts int64, slot domain.PoolSlot) (map[string]decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]decimal.Decimal)
	for addr, p := range s.pools {
		snap := s.latestSnapshot(addr, ts)
		if snap == nil {
			continue
		}
		token, value, err := slotValues(p, snap, slot)
		if err != nil {
			return nil, err
		}
		result[token] = result[token].Add(value)
	}

	return result, nil
}

// TokenLockedValue sums most-recent-before snapshots of pools holding the
// token in the given slot.
func (s *AnalyticsStore) TokenLockedValue(_ context.Context, ts int64, token string, slot domain.PoolSlot) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := decimal.Zero
	for addr, p := range s.pools {
		snap := s.latestSnapshot(addr, ts)
		if snap == nil {
			continue
		}
		member, value, err := slotValues(p, snap, slot)
		if err != nil {
			return decimal.Zero, err
		}
		if member == token {
			sum = sum.Add(value)
		}
	}

	return sum, nil
}

// HourlyCandles returns the token's OHLC rows with start <= ts <= end, ordered by ts ASC.
func (s *AnalyticsStore) HourlyCandles(_ context.Context, token string, start, end int64) ([]domain.HourlyCandle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var candles []domain.HourlyCandle
	for _, a := range s.hourly {
		if a.Token != token || a.Ts < start || a.Ts > end {
			continue
		}
		candles = append(candles, domain.HourlyCandle{
			Ts:    a.Ts,
			Open:  a.Open,
			High:  a.High,
			Low:   a.Low,
			Close: a.Close,
		})
	}

	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Ts < candles[j].Ts
	})

	return candles, nil
}

// DailyAggregates returns the token's daily rows with start <= ts <= end, ordered by ts ASC.
func (s *AnalyticsStore) DailyAggregates(_ context.Context, token string, start, end int64) ([]domain.DailyAggregate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var aggs []domain.DailyAggregate
	for _, a := range s.daily {
		if a.Token != token || a.Ts < start || a.Ts > end {
			continue
		}
		aggs = append(aggs, *a)
	}

	sort.Slice(aggs, func(i, j int) bool {
		return aggs[i].Ts < aggs[j].Ts
	})

	return aggs, nil
}
