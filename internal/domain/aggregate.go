package domain

import "github.com/shopspring/decimal"

// HourlyAggregate is a full token_aggregate_hour row: OHLC prices plus the
// volume and fee value traded in that hour. At most one row per token per
// hour; an absent hour means no trading activity.
//
// Prices are kept as canonical decimal strings exactly as stored (NUMERIC
// scale preserved), so "12.50" survives the round trip to the response.
type HourlyAggregate struct {
	Token  string
	Ts     int64 // hour start, unix seconds
	Open   string
	High   string
	Low    string
	Close  string
	Volume decimal.Decimal
	Fees   decimal.Decimal
}

// DailyAggregate is a token_aggregate_day row. Daily rollups carry no OHLC;
// they exist only for the one-year volume/fees series.
type DailyAggregate struct {
	Token  string
	Ts     int64 // day start, unix seconds
	Volume string
	Fees   string
}

// PoolLockedValueSnapshot is a pool_aggregate_hour row: the value locked in
// each of the pool's two members at a recorded timestamp. Snapshots are
// sparse; "locked value as of ts" means the row with the maximum recorded
// ts at or before the query ts, never interpolated.
type PoolLockedValueSnapshot struct {
	Pool              string
	Ts                int64
	Token1LockedValue decimal.Decimal
	Token2LockedValue decimal.Decimal
}

// WindowTotals are per-token sums of hourly aggregates over a half-open
// window [start, end).
type WindowTotals struct {
	Volume decimal.Decimal
	Fees   decimal.Decimal
}

// HourlyCandle is the OHLC projection of an hourly aggregate, used by the
// price history series.
type HourlyCandle struct {
	Ts    int64
	Open  string
	High  string
	Low   string
	Close string
}
