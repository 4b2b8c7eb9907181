package types

import "time"

// Candle is a single OHLCV bar. Candles are immutable once produced by the
// data collaborator and are always ordered by timestamp within a symbol.
type Candle struct {
	Symbol    string
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	Timestamp time.Time
}

// Range returns the high-low span of the candle.
func (c Candle) Range() float64 {
	return c.High - c.Low
}

// Body returns the absolute open-close span of the candle.
func (c Candle) Body() float64 {
	body := c.Close - c.Open
	if body < 0 {
		body = -body
	}
	return body
}

// IsBullish reports whether the candle closed above its open.
func (c Candle) IsBullish() bool {
	return c.Close > c.Open
}

// IsBearish reports whether the candle closed below its open.
func (c Candle) IsBearish() bool {
	return c.Close < c.Open
}

// TradingDay is one session's worth of candles for a single symbol.
type TradingDay struct {
	Symbol  string
	Date    string // YYYY-MM-DD
	Candles []Candle
}

// Closes extracts the close series from a candle slice.
func Closes(candles []Candle) []float64 {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	return closes
}
