package backtest

// DailyEquity is one point of the end-of-day equity series.
type DailyEquity struct {
	Date   string
	Equity float64
}

// EquityTracker maintains running equity, its historical peak and the
// resulting drawdown for one backtest run. The peak never decreases and the
// drawdown is never negative.
type EquityTracker struct {
	initialCapital float64
	equity         float64
	peak           float64
	maxDrawdown    float64
	daily          []DailyEquity
}

// NewEquityTracker starts a tracker at the initial capital.
func NewEquityTracker(initialCapital float64) *EquityTracker {
	return &EquityTracker{
		initialCapital: initialCapital,
		equity:         initialCapital,
		peak:           initialCapital,
	}
}

// OnTradeClosed folds one closed trade's net P&L into the series.
func (t *EquityTracker) OnTradeClosed(netPnl float64) {
	t.equity += netPnl
	if t.equity > t.peak {
		t.peak = t.equity
	}
	if dd := t.Drawdown(); dd > t.maxDrawdown {
		t.maxDrawdown = dd
	}
}

// OnDayEnd records the end-of-day equity point.
func (t *EquityTracker) OnDayEnd(date string) {
	t.daily = append(t.daily, DailyEquity{Date: date, Equity: t.equity})
}

// Equity returns the current equity.
func (t *EquityTracker) Equity() float64 {
	return t.equity
}

// Peak returns the highest equity seen so far.
func (t *EquityTracker) Peak() float64 {
	return t.peak
}

// Drawdown returns the current fractional decline from the peak.
func (t *EquityTracker) Drawdown() float64 {
	if t.peak <= 0 {
		return 0
	}
	return (t.peak - t.equity) / t.peak
}

// MaxDrawdown returns the deepest drawdown seen across the run, evaluated
// after every closed trade. Trade-level granularity is at least as deep as
// anything the daily series shows.
func (t *EquityTracker) MaxDrawdown() float64 {
	return t.maxDrawdown
}

// DailySeries returns the recorded end-of-day equity points.
func (t *EquityTracker) DailySeries() []DailyEquity {
	return t.daily
}
