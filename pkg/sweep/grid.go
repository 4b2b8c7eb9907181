package sweep

// GridSpec enumerates the parameter axes to sweep. An empty axis keeps the
// base config's value, so a spec with no axes expands to exactly the base.
// Axes that do not apply to the base config's strategy kind are ignored.
type GridSpec struct {
	// mean-reversion axes
	ATRThresholds  []float64 `json:"atr_thresholds"`
	WickThresholds []float64 `json:"wick_thresholds"`

	// trend-pullback axes
	EMAFasts     []int     `json:"ema_fasts"`
	EMASlows     []int     `json:"ema_slows"`
	PullbackATRs []float64 `json:"pullback_atrs"`
	TrailMults   []float64 `json:"trail_mults"`

	// shared risk axes
	RiskPerTrades   []float64 `json:"risk_per_trades"`
	MaxTradesPerDay []int     `json:"max_trades_per_day"`
}

// Expand builds the cartesian product of the spec's axes over the base
// config. Trend-pullback pairs with fast >= slow are skipped since the
// crossover is degenerate. Order is deterministic for a given spec.
func Expand(base Config, spec GridSpec) []Config {
	var configs []Config

	switch base.Kind {
	case KindMeanReversion:
		for _, atr := range orFloat(spec.ATRThresholds, base.MeanReversion.ATRThreshold) {
			for _, wick := range orFloat(spec.WickThresholds, base.MeanReversion.WickThreshold) {
				cfg := base
				cfg.MeanReversion.ATRThreshold = atr
				cfg.MeanReversion.WickThreshold = wick
				configs = append(configs, cfg)
			}
		}
	case KindTrendPullback:
		for _, fast := range orInt(spec.EMAFasts, base.TrendPullback.EMAFast) {
			for _, slow := range orInt(spec.EMASlows, base.TrendPullback.EMASlow) {
				if fast >= slow {
					continue
				}
				for _, pb := range orFloat(spec.PullbackATRs, base.TrendPullback.PullbackATR) {
					for _, trail := range orFloat(spec.TrailMults, base.Engine.TrailATRMult) {
						cfg := base
						cfg.TrendPullback.EMAFast = fast
						cfg.TrendPullback.EMASlow = slow
						cfg.TrendPullback.PullbackATR = pb
						cfg.Engine.TrailATRMult = trail
						configs = append(configs, cfg)
					}
				}
			}
		}
	default:
		return nil
	}

	configs = expandRisk(configs, spec)
	return configs
}

// expandRisk crosses the strategy grid with the shared risk axes.
func expandRisk(configs []Config, spec GridSpec) []Config {
	var out []Config
	for _, cfg := range configs {
		for _, rpt := range orFloat(spec.RiskPerTrades, cfg.Risk.RiskPerTrade) {
			for _, mtd := range orInt(spec.MaxTradesPerDay, cfg.Risk.MaxTradesPerDay) {
				c := cfg
				c.Risk.RiskPerTrade = rpt
				c.Risk.MaxTradesPerDay = mtd
				out = append(out, c)
			}
		}
	}
	return out
}

func orFloat(axis []float64, base float64) []float64 {
	if len(axis) == 0 {
		return []float64{base}
	}
	return axis
}

func orInt(axis []int, base int) []int {
	if len(axis) == 0 {
		return []int{base}
	}
	return axis
}
