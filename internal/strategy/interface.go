package strategy

import (
	"github.com/ducminhle1904/strategy-sweep/internal/regime"
	"github.com/ducminhle1904/strategy-sweep/pkg/types"
)

// TradeProposal is an entry suggestion produced by a signal generator from a
// candle window. GeneratedAt is the index of the window's last candle within
// the day; the simulator only ever resolves the proposal against candles
// strictly after that index.
type TradeProposal struct {
	Side        types.Side
	Entry       float64
	Stop        float64
	Target      float64 // 0 means trail-only, no fixed target
	GeneratedAt int
}

// SignalGenerator maps a chronologically-bounded candle window and the
// current regime permissions to at most one trade proposal. Implementations
// must be pure with respect to the window: nothing beyond its last candle may
// influence the result.
type SignalGenerator interface {
	// Name identifies the strategy in configs, logs and reports.
	Name() string

	// WarmupCandles is the minimum window length below which the generator
	// returns no signal.
	WarmupCandles() int

	// GenerateSignal returns a proposal or nil. Never errors: degenerate
	// inputs (flat candles, zero ATR, short windows) simply produce no
	// signal.
	GenerateSignal(window []types.Candle, perm regime.Permission) *TradeProposal
}
