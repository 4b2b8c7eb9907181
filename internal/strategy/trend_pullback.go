package strategy

import (
	"github.com/ducminhle1904/strategy-sweep/internal/indicators"
	"github.com/ducminhle1904/strategy-sweep/internal/regime"
	"github.com/ducminhle1904/strategy-sweep/pkg/types"
)

// TrendPullbackParams configures the trend-pullback generator.
type TrendPullbackParams struct {
	EMAFast       int     `json:"ema_fast"`
	EMASlow       int     `json:"ema_slow"`
	ATRPeriod     int     `json:"atr_period"`
	TrendEpsilon  float64 `json:"trend_epsilon"`   // min relative EMA separation
	SwingLookback int     `json:"swing_lookback"`  // candles scanned for swing extremes
	PullbackATR   float64 `json:"pullback_atr"`    // min pullback depth in ATRs
	StopATR       float64 `json:"stop_atr"`        // stop distance beyond the opposite swing
	TrailOnly     bool    `json:"trail_only"`      // no fixed target, exit on trail
	MinEMASlope   float64 `json:"min_ema_slope"`   // trend gate, 0 disables
	MinTradeScore float64 `json:"min_trade_score"` // quality gate, 0 disables
}

// DefaultTrendPullbackParams returns the baseline parameter set.
func DefaultTrendPullbackParams() TrendPullbackParams {
	return TrendPullbackParams{
		EMAFast:       13,
		EMASlow:       34,
		ATRPeriod:     14,
		TrendEpsilon:  0,
		SwingLookback: 10,
		PullbackATR:   0.5,
		StopATR:       0.5,
		TrailOnly:     true,
		MinEMASlope:   0,
		MinTradeScore: 0.5,
	}
}

// TrendPullback buys dips in uptrends and sells rallies in downtrends. An
// entry needs an established EMA trend, a pullback of at least PullbackATR
// ATRs from the swing extreme, and a confirmation candle closing back in the
// trend direction.
type TrendPullback struct {
	params TrendPullbackParams
}

// NewTrendPullback creates a trend-pullback generator.
func NewTrendPullback(params TrendPullbackParams) *TrendPullback {
	return &TrendPullback{params: params}
}

func (t *TrendPullback) Name() string {
	return "trend_pullback"
}

func (t *TrendPullback) WarmupCandles() int {
	return t.params.EMASlow + t.params.SwingLookback
}

func (t *TrendPullback) GenerateSignal(window []types.Candle, perm regime.Permission) *TradeProposal {
	if len(window) < t.WarmupCandles() {
		return nil
	}

	closes := types.Closes(window)
	emaFast := indicators.EMA(closes, t.params.EMAFast)
	emaSlow := indicators.EMA(closes, t.params.EMASlow)
	atr := indicators.ATR(window, t.params.ATRPeriod)
	if atr <= 0 || emaSlow <= 0 {
		return nil
	}

	last := window[len(window)-1]
	lastClose := last.Close

	var side types.Side
	switch {
	case emaFast > emaSlow*(1+t.params.TrendEpsilon) && lastClose > emaSlow:
		side = types.Long
	case emaFast < emaSlow*(1-t.params.TrendEpsilon) && lastClose < emaSlow:
		side = types.Short
	default:
		return nil
	}

	if t.params.MinEMASlope > 0 && !TrendGate(closes, t.params.MinEMASlope) {
		return nil
	}

	swingHigh, swingLow := swingExtremes(window, t.params.SwingLookback)

	// Pullback depth: how far price has retreated from the swing extreme in
	// the trend direction.
	minDepth := t.params.PullbackATR * atr
	if side == types.Long {
		if swingHigh-lastClose < minDepth {
			return nil
		}
		if !last.IsBullish() {
			return nil
		}
	} else {
		if lastClose-swingLow < minDepth {
			return nil
		}
		if !last.IsBearish() {
			return nil
		}
	}

	if t.params.MinTradeScore > 0 && TradeQualityScore(window, t.params.EMAFast, t.params.EMASlow, t.params.SwingLookback) < t.params.MinTradeScore {
		return nil
	}

	proposal := &TradeProposal{Side: side, Entry: lastClose}
	if side == types.Long {
		proposal.Stop = swingLow - t.params.StopATR*atr
		if !t.params.TrailOnly {
			proposal.Target = swingHigh
		}
	} else {
		proposal.Stop = swingHigh + t.params.StopATR*atr
		if !t.params.TrailOnly {
			proposal.Target = swingLow
		}
	}

	if proposal.Stop == proposal.Entry {
		return nil
	}

	return proposal
}

// swingExtremes returns the highest high and lowest low of the last lookback
// candles.
func swingExtremes(window []types.Candle, lookback int) (high, low float64) {
	start := len(window) - lookback
	if start < 0 {
		start = 0
	}

	high = window[start].High
	low = window[start].Low
	for _, c := range window[start+1:] {
		if c.High > high {
			high = c.High
		}
		if c.Low < low {
			low = c.Low
		}
	}
	return high, low
}
