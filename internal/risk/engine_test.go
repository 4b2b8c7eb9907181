package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.InitialCapital = 100000
	cfg.RiskPerTrade = 0.01
	cfg.MaxPositionPct = 0.95
	return cfg
}

// TestSizePosition_RiskBased: capital=100000, entry=100, stop=98,
// riskPerTrade=1% => riskAmount=1000, riskPerShare=2 => qty=500.
func TestSizePosition_RiskBased(t *testing.T) {
	e := NewEngine(testConfig())

	assert.Equal(t, 500, e.SizePosition(100000, 100, 98))
}

func TestSizePosition_NotionalCap(t *testing.T) {
	cfg := testConfig()
	cfg.MaxPositionPct = 0.1 // notional cap 10000 at entry 100 => 100 units
	e := NewEngine(cfg)

	qty := e.SizePosition(100000, 100, 98)
	assert.Equal(t, 100, qty)
	assert.LessOrEqual(t, float64(qty)*100, cfg.MaxPositionPct*100000)
}

func TestSizePosition_Degenerate(t *testing.T) {
	e := NewEngine(testConfig())

	assert.Equal(t, 0, e.SizePosition(100000, 100, 100), "zero stop distance")
	assert.Equal(t, 0, e.SizePosition(0, 100, 98), "no capital")
	assert.Equal(t, 0, e.SizePosition(100, 5000, 4900), "cap below one unit")
}

func TestSizePosition_FloorsToOneUnit(t *testing.T) {
	cfg := testConfig()
	cfg.RiskPerTrade = 0.0001 // risk budget 10 against 20/share
	e := NewEngine(cfg)

	assert.Equal(t, 1, e.SizePosition(100000, 100, 80))
}

// TestCanOpenTrade_DailyLossLimit: dailyPnl=-1200 on 100k equity with a 1%
// limit blocks new entries.
func TestCanOpenTrade_DailyLossLimit(t *testing.T) {
	e := NewEngine(testConfig())
	e.OnNewDay(0)
	assert.True(t, e.CanOpenTrade())

	e.OnTradeClosed(-1200)
	assert.False(t, e.CanOpenTrade())
	assert.Equal(t, StateDailyHalted, e.Snapshot().State)

	// Next day the gate resets.
	e.OnNewDay(1)
	assert.True(t, e.CanOpenTrade())
}

func TestCanOpenTrade_MaxTradesPerDay(t *testing.T) {
	e := NewEngine(testConfig())
	e.OnNewDay(0)

	e.OnTradeClosed(50)
	assert.True(t, e.CanOpenTrade())
	e.OnTradeClosed(50)
	assert.False(t, e.CanOpenTrade(), "two trades exhaust the daily budget")
}

// TestKillSwitch_Lifecycle drives equity down 5%, then checks the halt lasts
// exactly KillSwitchDays trading days.
func TestKillSwitch_Lifecycle(t *testing.T) {
	e := NewEngine(testConfig())
	e.OnNewDay(0)

	e.OnTradeClosed(-6000) // 6% drawdown, trips immediately
	assert.Equal(t, StateKillSwitched, e.Snapshot().State)
	assert.False(t, e.CanOpenTrade())
	assert.Equal(t, 1, e.KillSwitchTriggers())

	// Days 1..4 remain halted.
	for day := 1; day < 5; day++ {
		e.OnNewDay(day)
		assert.False(t, e.CanOpenTrade(), "day %d should still be halted", day)
	}

	// Day 5: halt expires, but the drawdown still exceeds the threshold, so
	// the switch re-arms for another window.
	e.OnNewDay(5)
	assert.False(t, e.CanOpenTrade())
	assert.Equal(t, 2, e.KillSwitchTriggers())
}

func TestKillSwitch_RecoversWhenDrawdownHeals(t *testing.T) {
	e := NewEngine(testConfig())
	e.OnNewDay(0)
	e.OnTradeClosed(-6000)
	assert.Equal(t, StateKillSwitched, e.Snapshot().State)

	// Pretend the halt window passed and equity recovered off-market.
	e.equity = 99000 // 1% below peak, under the 5% threshold
	e.OnNewDay(5)

	assert.Equal(t, StateActive, e.Snapshot().State)
	assert.True(t, e.CanOpenTrade())
}

func TestPeakEquity_Monotonic(t *testing.T) {
	e := NewEngine(testConfig())
	e.OnNewDay(0)

	pnls := []float64{500, -300, 800, -900, 200}
	prevPeak := e.Snapshot().PeakEquity
	for _, pnl := range pnls {
		e.OnTradeClosed(pnl)
		snap := e.Snapshot()
		assert.GreaterOrEqual(t, snap.PeakEquity, prevPeak)
		assert.GreaterOrEqual(t, snap.RollingDrawdown, 0.0)
		prevPeak = snap.PeakEquity
	}
}

func TestEquity_SumOfClosedTrades(t *testing.T) {
	e := NewEngine(testConfig())
	e.OnNewDay(0)

	pnls := []float64{120, -80, 42.5, -10.25}
	total := 0.0
	for _, pnl := range pnls {
		e.OnTradeClosed(pnl)
		total += pnl
	}

	assert.InDelta(t, 100000+total, e.Equity(), 1e-9)
}
