package regime

import (
	"math"

	"github.com/ducminhle1904/strategy-sweep/internal/indicators"
	"github.com/ducminhle1904/strategy-sweep/pkg/types"
)

const maxTrendShiftDays = 10

// Classifier tracks how many recent days showed a meaningful EMA separation
// and maps that count to a market regime. One instance per symbol per run;
// it is never shared across concurrent backtests.
type Classifier struct {
	cfg Config
	tsd int // trend-shift days, clamped to [0, maxTrendShiftDays]
}

// NewClassifier creates a classifier with the given parameters.
func NewClassifier(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// OnNewDay updates the trend-shift counter from one day of candles and
// returns the resulting regime. The EMA separation must exceed
// ATRMultiple*ATR to count as a trending day.
func (c *Classifier) OnNewDay(day []types.Candle) Type {
	closes := types.Closes(day)
	emaShort := indicators.EMA(closes, c.cfg.ShortEMAPeriod)
	emaLong := indicators.EMA(closes, c.cfg.LongEMAPeriod)
	atr := indicators.ATR(day, c.cfg.ATRPeriod)

	if atr > 0 && math.Abs(emaShort-emaLong) > c.cfg.ATRMultiple*atr {
		if c.tsd < maxTrendShiftDays {
			c.tsd++
		}
	} else if c.tsd > 0 {
		c.tsd--
	}

	return c.Current()
}

// Current returns the regime implied by the current trend-shift counter.
func (c *Classifier) Current() Type {
	switch {
	case c.tsd >= c.cfg.TrendingTSD:
		return Trending
	case c.tsd >= c.cfg.TransitionTSD:
		return Transition
	default:
		return Ranging
	}
}

// Permission returns the permission record for the current regime.
func (c *Classifier) Permission() Permission {
	return PermissionFor(c.Current())
}

// TrendShiftDays exposes the raw counter for run diagnostics.
func (c *Classifier) TrendShiftDays() int {
	return c.tsd
}
