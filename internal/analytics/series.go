package analytics

import (
	"github.com/Plenty-DeFi/plenty-analytics-indexer/internal/domain"
)

// BuildCandleSeries reconstructs a continuous hourly OHLC series over
// [start, end] from sparse candles ordered by ts ASC. Hour boundaries with
// no candle are forward-filled with a flat candle at the previous close
// (no trades means the price is unchanged since the last trade); boundaries
// before the first known candle are omitted.
func BuildCandleSeries(candles []domain.HourlyCandle, start, end int64) []domain.CandlePoint {
	var series []domain.CandlePoint

	i := 0
	for t := start; t <= end; t += hourSeconds {
		// Skip rows behind the boundary walk; input is hour-aligned so this
		// only fires on malformed data.
		for i < len(candles) && candles[i].Ts < t {
			i++
		}

		switch {
		case i < len(candles) && candles[i].Ts == t:
			c := candles[i]
			series = append(series, domain.CandlePoint{Ts: t, Open: c.Open, High: c.High, Low: c.Low, Close: c.Close})
			i++
		case i > 0:
			prev := candles[i-1].Close
			series = append(series, domain.CandlePoint{Ts: t, Open: prev, High: prev, Low: prev, Close: prev})
		}
	}

	return series
}

// BuildVolumeSeries maps daily rollup rows to their volume values, one entry
// per row present. Days without a rollup stay absent; volume series are
// informational and need no gap-filling.
func BuildVolumeSeries(aggs []domain.DailyAggregate) []domain.SeriesPoint {
	var series []domain.SeriesPoint
	for _, a := range aggs {
		series = append(series, domain.SeriesPoint{Ts: a.Ts, Value: a.Volume})
	}
	return series
}

// BuildFeesSeries maps daily rollup rows to their fee values.
func BuildFeesSeries(aggs []domain.DailyAggregate) []domain.SeriesPoint {
	var series []domain.SeriesPoint
	for _, a := range aggs {
		series = append(series, domain.SeriesPoint{Ts: a.Ts, Value: a.Fees})
	}
	return series
}
