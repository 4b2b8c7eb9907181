package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEquityTracker_PeakMonotonicAndDrawdownNonNegative(t *testing.T) {
	tracker := NewEquityTracker(100000)

	pnls := []float64{2000, -5000, 1000, 8000, -3000}
	prevPeak := tracker.Peak()
	for _, pnl := range pnls {
		tracker.OnTradeClosed(pnl)
		assert.GreaterOrEqual(t, tracker.Peak(), prevPeak)
		assert.GreaterOrEqual(t, tracker.Drawdown(), 0.0)
		prevPeak = tracker.Peak()
	}
}

func TestEquityTracker_MaxDrawdown(t *testing.T) {
	tracker := NewEquityTracker(100000)

	tracker.OnTradeClosed(10000) // peak 110000
	tracker.OnTradeClosed(-22000) // equity 88000, dd = 22000/110000
	tracker.OnTradeClosed(30000) // recovery must not shrink the max

	assert.InDelta(t, 0.2, tracker.MaxDrawdown(), 1e-9)
	assert.InDelta(t, 118000, tracker.Equity(), 1e-9)
	assert.InDelta(t, 118000, tracker.Peak(), 1e-9)
}

func TestEquityTracker_DailySeries(t *testing.T) {
	tracker := NewEquityTracker(50000)

	tracker.OnTradeClosed(500)
	tracker.OnDayEnd("2024-06-03")
	tracker.OnTradeClosed(-200)
	tracker.OnDayEnd("2024-06-04")

	series := tracker.DailySeries()
	assert.Len(t, series, 2)
	assert.Equal(t, DailyEquity{Date: "2024-06-03", Equity: 50500}, series[0])
	assert.Equal(t, DailyEquity{Date: "2024-06-04", Equity: 50300}, series[1])
}
