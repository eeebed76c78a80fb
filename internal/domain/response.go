package domain

// TokenMetrics is the per-token response: current values with 24h changes,
// plus optional history series. History fields are nil (and therefore absent
// from the JSON) unless a single token was requested with historical detail.
type TokenMetrics struct {
	Token  string        `json:"token"`
	Price  PriceMetrics  `json:"price"`
	Volume VolumeMetrics `json:"volume"`
	Fees   FeesMetrics   `json:"fees"`
	TVL    TVLMetrics    `json:"tvl"`
}

// PriceMetrics carries the latest hourly close and its 24h change.
type PriceMetrics struct {
	Value     string        `json:"value"`
	Change24H string        `json:"change24H"`
	History   []CandlePoint `json:"history,omitempty"`
}

// VolumeMetrics carries windowed volume sums.
type VolumeMetrics struct {
	Value24H  string        `json:"value24H"`
	Change24H string        `json:"change24H"`
	Value7D   string        `json:"value7D"`
	History   []SeriesPoint `json:"history,omitempty"`
}

// FeesMetrics mirrors VolumeMetrics for the fee sums.
type FeesMetrics struct {
	Value24H  string        `json:"value24H"`
	Change24H string        `json:"change24H"`
	Value7D   string        `json:"value7D"`
	History   []SeriesPoint `json:"history,omitempty"`
}

// TVLMetrics carries the total value locked across all pools containing the
// token, in both member slots.
type TVLMetrics struct {
	Value     string        `json:"value"`
	Change24H string        `json:"change24H"`
	History   []SeriesPoint `json:"history,omitempty"`
}

// CandlePoint is one hourly OHLC entry of a price history series.
type CandlePoint struct {
	Ts    int64  `json:"ts"`
	Open  string `json:"o"`
	High  string `json:"h"`
	Low   string `json:"l"`
	Close string `json:"c"`
}

// SeriesPoint is one timestamped value of a volume/fees/TVL history series.
type SeriesPoint struct {
	Ts    int64  `json:"ts"`
	Value string `json:"value"`
}
