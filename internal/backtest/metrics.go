package backtest

import "math"

// Sentinel replaces ratios whose denominator is legitimately zero: a run
// with profit and no losses has no meaningful profit factor, and a run with
// profit and no drawdown has no meaningful risk-adjusted score. A large
// finite value keeps sorting and serialization sane where +Inf would not.
const Sentinel = 9999.0

// Metrics are the per-run aggregates the sweep ranks and filters on.
type Metrics struct {
	Trades            int
	Wins              int
	NetPnl            float64
	GrossProfit       float64
	GrossLoss         float64
	ProfitFactor      float64
	WinRate           float64
	MaxDrawdown       float64
	AvgRMultiple      float64
	RiskAdjustedScore float64
}

// ComputeMetrics derives the scoring aggregates from one run's closed trades
// and drawdown. Deterministic: the same RunResult always yields the same
// metrics.
func ComputeMetrics(result *RunResult) Metrics {
	m := Metrics{
		Trades:      len(result.Trades),
		MaxDrawdown: result.MaxDrawdown,
	}

	totalR := 0.0
	for _, t := range result.Trades {
		m.NetPnl += t.NetPnl
		totalR += t.RMultiple
		if t.NetPnl > 0 {
			m.Wins++
			m.GrossProfit += t.NetPnl
		} else {
			m.GrossLoss += math.Abs(t.NetPnl)
		}
	}

	if m.Trades > 0 {
		m.WinRate = float64(m.Wins) / float64(m.Trades)
		m.AvgRMultiple = totalR / float64(m.Trades)
	}

	switch {
	case m.GrossLoss > 0:
		m.ProfitFactor = m.GrossProfit / m.GrossLoss
	case m.GrossProfit > 0:
		m.ProfitFactor = Sentinel
	}

	m.RiskAdjustedScore = riskAdjustedScore(m.NetPnl, m.MaxDrawdown, result.InitialCapital)

	return m
}

func riskAdjustedScore(netPnl, maxDrawdown, initialCapital float64) float64 {
	if maxDrawdown <= 0 || initialCapital <= 0 {
		if netPnl > 0 {
			return Sentinel
		}
		return 0
	}
	return netPnl / (maxDrawdown * initialCapital)
}
