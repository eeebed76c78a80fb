package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Plenty-DeFi/plenty-analytics-indexer/internal/domain"
)

func hourly(token string, ts int64, close, volume, fees string) domain.HourlyAggregate {
	return domain.HourlyAggregate{
		Token: token, Ts: ts,
		Open: close, High: close, Low: close, Close: close,
		Volume: decimal.RequireFromString(volume),
		Fees:   decimal.RequireFromString(fees),
	}
}

func TestAnalyticsStore_WindowTotals(t *testing.T) {
	s := NewAnalyticsStore()
	s.AddHourlyAggregate(hourly("X", 100, "1", "10", "0.1"))
	s.AddHourlyAggregate(hourly("X", 200, "1", "20", "0.2"))
	s.AddHourlyAggregate(hourly("X", 300, "1", "40", "0.4"))
	s.AddHourlyAggregate(hourly("Y", 200, "1", "5", "0.05"))

	// Start inclusive, end exclusive: ts 100 and 200 counted, 300 not.
	totals, err := s.WindowTotals(context.Background(), 100, 300)
	if err != nil {
		t.Fatalf("WindowTotals: %v", err)
	}

	if got := totals["X"].Volume; !got.Equal(decimal.RequireFromString("30")) {
		t.Errorf("X volume = %s, want 30", got)
	}
	if got := totals["X"].Fees; !got.Equal(decimal.RequireFromString("0.3")) {
		t.Errorf("X fees = %s, want 0.3", got)
	}
	if got := totals["Y"].Volume; !got.Equal(decimal.RequireFromString("5")) {
		t.Errorf("Y volume = %s, want 5", got)
	}
	if _, ok := totals["Z"]; ok {
		t.Error("unexpected entry for token with no rows")
	}
}

func TestAnalyticsStore_ClosePrices(t *testing.T) {
	s := NewAnalyticsStore()
	s.AddHourlyAggregate(hourly("X", 100, "1.10", "0", "0"))
	s.AddHourlyAggregate(hourly("X", 200, "1.20", "0", "0"))
	s.AddHourlyAggregate(hourly("X", 300, "1.30", "0", "0"))
	s.AddHourlyAggregate(hourly("Y", 400, "9.00", "0", "0"))

	prices, err := s.ClosePrices(context.Background(), 250)
	if err != nil {
		t.Fatalf("ClosePrices: %v", err)
	}

	// Latest row at or before the cutoff wins; trailing zeros pass through.
	if prices["X"] != "1.20" {
		t.Errorf("X close = %q, want 1.20", prices["X"])
	}
	if _, ok := prices["Y"]; ok {
		t.Error("Y has no row before the cutoff, must be absent")
	}
}

func TestAnalyticsStore_LockedValueBySlot(t *testing.T) {
	s := NewAnalyticsStore()
	s.AddPool(domain.Pool{Address: "P1", Token1: "X", Token2: "Y"})
	s.AddPool(domain.Pool{Address: "P2", Token1: "X", Token2: "Z"})

	s.AddSnapshot(domain.PoolLockedValueSnapshot{
		Pool: "P1", Ts: 100,
		Token1LockedValue: decimal.RequireFromString("5"),
		Token2LockedValue: decimal.RequireFromString("3"),
	})
	s.AddSnapshot(domain.PoolLockedValueSnapshot{
		Pool: "P1", Ts: 200,
		Token1LockedValue: decimal.RequireFromString("8"),
		Token2LockedValue: decimal.RequireFromString("4"),
	})
	s.AddSnapshot(domain.PoolLockedValueSnapshot{
		Pool: "P2", Ts: 150,
		Token1LockedValue: decimal.RequireFromString("2"),
		Token2LockedValue: decimal.RequireFromString("1"),
	})

	// At ts 150, P1's latest snapshot is the one at 100 and P2's at 150;
	// slot 1 groups both pools under X.
	got, err := s.LockedValueBySlot(context.Background(), 150, domain.SlotTokenOne)
	if err != nil {
		t.Fatalf("LockedValueBySlot: %v", err)
	}
	if !got["X"].Equal(decimal.RequireFromString("7")) {
		t.Errorf("X slot-1 value at 150 = %s, want 7", got["X"])
	}

	got, err = s.LockedValueBySlot(context.Background(), 250, domain.SlotTokenTwo)
	if err != nil {
		t.Fatalf("LockedValueBySlot: %v", err)
	}
	if !got["Y"].Equal(decimal.RequireFromString("4")) {
		t.Errorf("Y slot-2 value at 250 = %s, want 4", got["Y"])
	}
	if !got["Z"].Equal(decimal.RequireFromString("1")) {
		t.Errorf("Z slot-2 value at 250 = %s, want 1", got["Z"])
	}

	// Before any snapshot there is nothing to report.
	got, err = s.LockedValueBySlot(context.Background(), 50, domain.SlotTokenOne)
	if err != nil {
		t.Fatalf("LockedValueBySlot: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no values before first snapshot, got %v", got)
	}
}

func TestAnalyticsStore_TokenLockedValue(t *testing.T) {
	s := NewAnalyticsStore()
	s.AddPool(domain.Pool{Address: "P1", Token1: "X", Token2: "Y"})
	s.AddPool(domain.Pool{Address: "P2", Token1: "Z", Token2: "X"})

	s.AddSnapshot(domain.PoolLockedValueSnapshot{
		Pool: "P1", Ts: 100,
		Token1LockedValue: decimal.RequireFromString("5"),
		Token2LockedValue: decimal.RequireFromString("3"),
	})
	s.AddSnapshot(domain.PoolLockedValueSnapshot{
		Pool: "P2", Ts: 100,
		Token1LockedValue: decimal.RequireFromString("9"),
		Token2LockedValue: decimal.RequireFromString("6"),
	})

	// X sits in slot 1 of P1 only; P2 holds it in slot 2.
	v, err := s.TokenLockedValue(context.Background(), 100, "X", domain.SlotTokenOne)
	if err != nil {
		t.Fatalf("TokenLockedValue: %v", err)
	}
	if !v.Equal(decimal.RequireFromString("5")) {
		t.Errorf("slot-1 value = %s, want 5", v)
	}

	v, err = s.TokenLockedValue(context.Background(), 100, "X", domain.SlotTokenTwo)
	if err != nil {
		t.Fatalf("TokenLockedValue: %v", err)
	}
	if !v.Equal(decimal.RequireFromString("6")) {
		t.Errorf("slot-2 value = %s, want 6", v)
	}

	v, err = s.TokenLockedValue(context.Background(), 100, "ABSENT", domain.SlotTokenOne)
	if err != nil {
		t.Fatalf("TokenLockedValue: %v", err)
	}
	if !v.IsZero() {
		t.Errorf("absent token value = %s, want 0", v)
	}
}

func TestAnalyticsStore_HourlyCandles(t *testing.T) {
	s := NewAnalyticsStore()
	s.AddHourlyAggregate(hourly("X", 300, "3", "0", "0"))
	s.AddHourlyAggregate(hourly("X", 100, "1", "0", "0"))
	s.AddHourlyAggregate(hourly("X", 200, "2", "0", "0"))
	s.AddHourlyAggregate(hourly("Y", 150, "9", "0", "0"))

	candles, err := s.HourlyCandles(context.Background(), "X", 100, 200)
	if err != nil {
		t.Fatalf("HourlyCandles: %v", err)
	}
	if len(candles) != 2 {
		t.Fatalf("expected 2 candles, got %d", len(candles))
	}
	if candles[0].Ts != 100 || candles[1].Ts != 200 {
		t.Errorf("candles out of order: %+v", candles)
	}
}

func TestAnalyticsStore_DailyAggregates(t *testing.T) {
	s := NewAnalyticsStore()
	s.AddDailyAggregate(domain.DailyAggregate{Token: "X", Ts: 86400, Volume: "10", Fees: "0.1"})
	s.AddDailyAggregate(domain.DailyAggregate{Token: "X", Ts: 172800, Volume: "20", Fees: "0.2"})
	s.AddDailyAggregate(domain.DailyAggregate{Token: "Y", Ts: 86400, Volume: "99", Fees: "0.9"})

	aggs, err := s.DailyAggregates(context.Background(), "X", 0, 172800)
	if err != nil {
		t.Fatalf("DailyAggregates: %v", err)
	}
	if len(aggs) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(aggs))
	}
	if aggs[0].Volume != "10" || aggs[1].Volume != "20" {
		t.Errorf("rows = %+v", aggs)
	}
}
