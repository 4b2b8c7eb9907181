package sweep

import (
	"fmt"
	"sort"

	"github.com/ducminhle1904/strategy-sweep/internal/backtest"
)

// ValidityRules decides whether a run's metrics are trustworthy enough to
// rank. Zero-valued rules accept everything.
type ValidityRules struct {
	MaxDrawdown     float64 `json:"max_drawdown"`      // reject above; 0 disables
	MinTrades       int     `json:"min_trades"`        // reject below
	MinProfitFactor float64 `json:"min_profit_factor"` // reject below; 0 disables
	MinWinRate      float64 `json:"min_win_rate"`      // reject below; 0 disables
}

// Check returns whether the metrics pass, and if not, the first failing
// rule in a fixed order: drawdown, trade count, profit factor, win rate.
func (r ValidityRules) Check(m backtest.Metrics) (bool, string) {
	if r.MaxDrawdown > 0 && m.MaxDrawdown > r.MaxDrawdown {
		return false, fmt.Sprintf("max drawdown %.2f%% exceeds %.2f%%", m.MaxDrawdown*100, r.MaxDrawdown*100)
	}
	if m.Trades < r.MinTrades {
		return false, fmt.Sprintf("only %d trades, need %d", m.Trades, r.MinTrades)
	}
	if r.MinProfitFactor > 0 && m.ProfitFactor < r.MinProfitFactor {
		return false, fmt.Sprintf("profit factor %.2f below %.2f", m.ProfitFactor, r.MinProfitFactor)
	}
	if r.MinWinRate > 0 && m.WinRate < r.MinWinRate {
		return false, fmt.Sprintf("win rate %.1f%% below %.1f%%", m.WinRate*100, r.MinWinRate*100)
	}
	return true, ""
}

// Result is one evaluated configuration. Invalid configs are kept with their
// rejection reason so reports can show why a grid point was discarded.
type Result struct {
	Config  Config
	Run     *backtest.RunResult
	Metrics backtest.Metrics

	Valid         bool
	InvalidReason string
}

// Rank sorts results in place: valid before invalid, then descending by
// risk-adjusted score, with net P&L as the tie-break. Stable so equal configs
// keep grid order.
func Rank(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Valid != b.Valid {
			return a.Valid
		}
		if a.Metrics.RiskAdjustedScore != b.Metrics.RiskAdjustedScore {
			return a.Metrics.RiskAdjustedScore > b.Metrics.RiskAdjustedScore
		}
		return a.Metrics.NetPnl > b.Metrics.NetPnl
	})
}

// Best returns the top-ranked valid result, or nil when nothing passed the
// validity rules. Results must already be ranked.
func Best(results []Result) *Result {
	if len(results) == 0 || !results[0].Valid {
		return nil
	}
	return &results[0]
}
