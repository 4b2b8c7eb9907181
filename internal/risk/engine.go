package risk

import "math"

// Engine is the risk state machine for a single backtest run. It gates
// whether a new trade may open and computes position sizes. Exactly one
// engine exists per run; it is never shared between concurrent sweeps.
type Engine struct {
	cfg Config

	state           State
	equity          float64
	peakEquity      float64
	rollingDrawdown float64

	dailyPnl        float64
	dailyTradeCount int

	haltUntilDay int
	lastResetDay int

	killSwitchTriggers int
	dailyLossBreaches  int
}

// NewEngine creates a risk engine seeded with the configured initial capital.
func NewEngine(cfg Config) *Engine {
	return &Engine{
		cfg:          cfg,
		state:        StateActive,
		equity:       cfg.InitialCapital,
		peakEquity:   cfg.InitialCapital,
		haltUntilDay: -1,
	}
}

// OnNewDay resets the daily counters, releases an expired kill switch and
// re-evaluates the rolling drawdown against the kill threshold. day is the
// zero-based trading-day index within the run.
func (e *Engine) OnNewDay(day int) {
	e.dailyPnl = 0
	e.dailyTradeCount = 0
	e.lastResetDay = day

	if e.state == StateKillSwitched {
		if day >= e.haltUntilDay {
			e.state = StateActive
			e.haltUntilDay = -1
		} else {
			return
		}
	} else if e.state == StateDailyHalted {
		e.state = StateActive
	}

	if e.equity > e.peakEquity {
		e.peakEquity = e.equity
	}
	e.rollingDrawdown = drawdown(e.peakEquity, e.equity)

	if e.rollingDrawdown >= e.cfg.KillSwitchDD {
		e.trip(day)
	}
}

// CanOpenTrade reports whether a new entry is currently permitted.
func (e *Engine) CanOpenTrade() bool {
	if e.state == StateKillSwitched || e.state == StateDailyHalted {
		return false
	}
	if e.dailyPnl <= -e.cfg.DailyLossLimit*e.equity {
		return false
	}
	if e.dailyTradeCount >= e.cfg.MaxTradesPerDay {
		return false
	}
	return true
}

// SizePosition computes the quantity for a trade risking RiskPerTrade of
// capital between entry and stop, capped so the notional never exceeds
// MaxPositionPct of capital. Returns 0 when the cap cannot fit a single
// unit or the stop distance is degenerate.
func (e *Engine) SizePosition(capital, entry, stop float64) int {
	riskPerShare := math.Abs(entry - stop)
	if riskPerShare <= 0 || entry <= 0 || capital <= 0 {
		return 0
	}

	maxQty := int(capital * e.cfg.MaxPositionPct / entry)
	if maxQty < 1 {
		return 0
	}

	qty := int(capital * e.cfg.RiskPerTrade / riskPerShare)
	if qty < 1 {
		qty = 1
	}
	if qty > maxQty {
		qty = maxQty
	}
	return qty
}

// OnTradeClosed folds a closed trade's net P&L into the daily and running
// state. The kill switch is re-evaluated immediately rather than waiting for
// the next day boundary: a large intraday loss must stop the run now.
func (e *Engine) OnTradeClosed(netPnl float64) {
	e.dailyPnl += netPnl
	e.dailyTradeCount++
	e.equity += netPnl

	if e.equity > e.peakEquity {
		e.peakEquity = e.equity
	}
	e.rollingDrawdown = drawdown(e.peakEquity, e.equity)

	if e.state != StateKillSwitched && e.rollingDrawdown >= e.cfg.KillSwitchDD {
		e.trip(e.lastResetDay)
		return
	}

	if e.state == StateActive && e.dailyPnl <= -e.cfg.DailyLossLimit*e.equity {
		e.state = StateDailyHalted
		e.dailyLossBreaches++
	}
}

// Equity returns the current run equity.
func (e *Engine) Equity() float64 {
	return e.equity
}

// Snapshot returns a copy of the current state for diagnostics.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		State:           e.state,
		CurrentEquity:   e.equity,
		PeakEquity:      e.peakEquity,
		RollingDrawdown: e.rollingDrawdown,
		DailyPnl:        e.dailyPnl,
		DailyTradeCount: e.dailyTradeCount,
		HaltUntilDay:    e.haltUntilDay,
		LastResetDay:    e.lastResetDay,
	}
}

// KillSwitchTriggers returns how many times the kill switch fired.
func (e *Engine) KillSwitchTriggers() int {
	return e.killSwitchTriggers
}

// DailyLossBreaches returns how many days hit the daily loss limit.
func (e *Engine) DailyLossBreaches() int {
	return e.dailyLossBreaches
}

func (e *Engine) trip(day int) {
	e.state = StateKillSwitched
	e.haltUntilDay = day + e.cfg.KillSwitchDays
	e.killSwitchTriggers++
}

func drawdown(peak, equity float64) float64 {
	if peak <= 0 {
		return 0
	}
	dd := (peak - equity) / peak
	if dd < 0 {
		return 0
	}
	return dd
}
