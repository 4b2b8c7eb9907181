package sweep

import (
	"fmt"

	"github.com/ducminhle1904/strategy-sweep/internal/backtest"
	"github.com/ducminhle1904/strategy-sweep/internal/regime"
	"github.com/ducminhle1904/strategy-sweep/internal/risk"
	"github.com/ducminhle1904/strategy-sweep/internal/strategy"
)

// StrategyKind names the signal generator a config runs.
type StrategyKind string

const (
	KindMeanReversion StrategyKind = "mean_reversion"
	KindTrendPullback StrategyKind = "trend_pullback"
)

// Config is one fully specified grid point: strategy parameters plus the
// risk and engine settings the run executes under. Configs are values and
// safe to copy; a run never mutates its config.
type Config struct {
	Name string       `json:"name"`
	Kind StrategyKind `json:"kind"`

	MeanReversion strategy.MeanReversionParams `json:"mean_reversion"`
	TrendPullback strategy.TrendPullbackParams `json:"trend_pullback"`

	Regime regime.Config          `json:"regime"`
	Risk   risk.Config            `json:"risk"`
	Engine backtest.EngineOptions `json:"engine"`
}

// DefaultConfig returns a baseline config for the given strategy kind.
func DefaultConfig(kind StrategyKind) Config {
	return Config{
		Kind:          kind,
		MeanReversion: strategy.DefaultMeanReversionParams(),
		TrendPullback: strategy.DefaultTrendPullbackParams(),
		Regime:        regime.DefaultConfig(),
		Risk:          risk.DefaultConfig(),
		Engine:        backtest.DefaultEngineOptions(),
	}
}

// Generator builds the signal generator this config describes.
func (c Config) Generator() (strategy.SignalGenerator, error) {
	switch c.Kind {
	case KindMeanReversion:
		return strategy.NewMeanReversion(c.MeanReversion), nil
	case KindTrendPullback:
		return strategy.NewTrendPullback(c.TrendPullback), nil
	default:
		return nil, fmt.Errorf("unknown strategy kind %q", c.Kind)
	}
}

// Label is a compact human-readable identifier for reports. Name wins when
// set; otherwise the swept axes are spelled out.
func (c Config) Label() string {
	if c.Name != "" {
		return c.Name
	}
	switch c.Kind {
	case KindMeanReversion:
		p := c.MeanReversion
		return fmt.Sprintf("mr atr=%.2f wick=%.2f risk=%.4f maxtr=%d",
			p.ATRThreshold, p.WickThreshold, c.Risk.RiskPerTrade, c.Risk.MaxTradesPerDay)
	case KindTrendPullback:
		p := c.TrendPullback
		return fmt.Sprintf("tp ema=%d/%d pb=%.2f trail=%.2f risk=%.4f maxtr=%d",
			p.EMAFast, p.EMASlow, p.PullbackATR, c.Engine.TrailATRMult,
			c.Risk.RiskPerTrade, c.Risk.MaxTradesPerDay)
	}
	return string(c.Kind)
}
