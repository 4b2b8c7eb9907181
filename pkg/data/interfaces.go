package data

import "github.com/ducminhle1904/strategy-sweep/pkg/types"

// Provider loads a symbol's candle series from some backing store. Candles
// must come back ordered by timestamp.
type Provider interface {
	Name() string
	Load(symbol string) ([]types.Candle, error)
}
