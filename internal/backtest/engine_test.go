package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/strategy-sweep/internal/regime"
	"github.com/ducminhle1904/strategy-sweep/internal/risk"
	"github.com/ducminhle1904/strategy-sweep/internal/strategy"
	"github.com/ducminhle1904/strategy-sweep/pkg/logger"
	"github.com/ducminhle1904/strategy-sweep/pkg/types"
)

// alwaysLong proposes a long on every candle: entry at the close, stop two
// points below, target two above. Exits resolve on the next candle in the
// synthetic data below.
type alwaysLong struct{}

func (alwaysLong) Name() string       { return "always_long" }
func (alwaysLong) WarmupCandles() int { return 1 }

func (alwaysLong) GenerateSignal(window []types.Candle, _ regime.Permission) *strategy.TradeProposal {
	last := window[len(window)-1].Close
	return &strategy.TradeProposal{Side: types.Long, Entry: last, Stop: last - 2, Target: last + 2}
}

func testDay(symbol, date string, candles int) types.TradingDay {
	base, _ := time.Parse("2006-01-02", date)
	base = base.Add(9*time.Hour + 15*time.Minute)
	day := types.TradingDay{Symbol: symbol, Date: date}
	for i := 0; i < candles; i++ {
		day.Candles = append(day.Candles, types.Candle{
			Symbol: symbol,
			Open:   100, High: 103, Low: 99, Close: 100,
			Volume:    1000,
			Timestamp: base.Add(time.Duration(i) * 5 * time.Minute),
		})
	}
	return day
}

func testEngineOptions() EngineOptions {
	opts := DefaultEngineOptions()
	opts.Costs = CostModel{}
	opts.TrailATRMult = 0
	opts.MaxHoldingCandles = 0
	opts.MinDayCandles = 5
	opts.EndOfDayBuffer = 1
	opts.MinFirstHourRangeATR = 0
	return opts
}

func testRiskConfig() risk.Config {
	cfg := risk.DefaultConfig()
	cfg.InitialCapital = 100000
	cfg.RiskPerTrade = 0.01
	cfg.MaxPositionPct = 0.2
	cfg.MaxTradesPerDay = 2
	return cfg
}

func TestEngine_EquityMatchesClosedTrades(t *testing.T) {
	engine := NewEngine(alwaysLong{}, regime.DefaultConfig(), testRiskConfig(), testEngineOptions(), logger.NewNop())

	days := []types.TradingDay{
		testDay("INFY", "2024-06-03", 10),
		testDay("INFY", "2024-06-04", 10),
	}
	result := engine.Run(days)

	require.NotEmpty(t, result.Trades)

	sum := 0.0
	for _, tr := range result.Trades {
		sum += tr.NetPnl
		assert.Equal(t, "INFY", tr.Symbol)
	}
	assert.InDelta(t, result.InitialCapital+sum, result.FinalEquity, 1e-9)
}

func TestEngine_MaxTradesPerDay(t *testing.T) {
	engine := NewEngine(alwaysLong{}, regime.DefaultConfig(), testRiskConfig(), testEngineOptions(), logger.NewNop())

	result := engine.Run([]types.TradingDay{
		testDay("INFY", "2024-06-03", 50),
		testDay("INFY", "2024-06-04", 50),
	})

	perDay := map[string]int{}
	for _, tr := range result.Trades {
		perDay[tr.EntryTime.Format("2006-01-02")]++
	}
	for date, n := range perDay {
		assert.LessOrEqual(t, n, 2, "day %s exceeded the trade budget", date)
	}
	assert.Equal(t, 4, len(result.Trades))
}

func TestEngine_ShortDaysSkipped(t *testing.T) {
	engine := NewEngine(alwaysLong{}, regime.DefaultConfig(), testRiskConfig(), testEngineOptions(), logger.NewNop())

	result := engine.Run([]types.TradingDay{
		testDay("INFY", "2024-06-03", 3), // below MinDayCandles
		testDay("INFY", "2024-06-04", 10),
	})

	assert.Equal(t, 1, result.Stats.ShortDaySkips)
	assert.Equal(t, 1, result.Stats.DaysProcessed)
}

func TestEngine_DailyEquitySeriesPerUsableDay(t *testing.T) {
	engine := NewEngine(alwaysLong{}, regime.DefaultConfig(), testRiskConfig(), testEngineOptions(), logger.NewNop())

	result := engine.Run([]types.TradingDay{
		testDay("INFY", "2024-06-03", 10),
		testDay("INFY", "2024-06-04", 10),
		testDay("INFY", "2024-06-05", 10),
	})

	assert.Len(t, result.DailyEquity, 3)
	assert.Equal(t, "2024-06-05", result.DailyEquity[2].Date)
	assert.InDelta(t, result.FinalEquity, result.DailyEquity[2].Equity, 1e-9)
}

// TestEngine_KillSwitchHaltsRun wires a generator that always loses and a
// hair-trigger kill switch, then verifies trading stops for the halt window.
func TestEngine_KillSwitchHaltsRun(t *testing.T) {
	riskCfg := testRiskConfig()
	riskCfg.KillSwitchDD = 0.001
	riskCfg.KillSwitchDays = 100 // longer than the data

	engine := NewEngine(alwaysShortLoser{}, regime.DefaultConfig(), riskCfg, testEngineOptions(), logger.NewNop())

	var days []types.TradingDay
	for d := 3; d < 13; d++ {
		days = append(days, testDay("INFY", time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC).Format("2006-01-02"), 10))
	}
	result := engine.Run(days)

	assert.Equal(t, 1, result.Stats.KillSwitchTriggers)
	assert.Len(t, result.Trades, 1, "the single losing trade that tripped the switch")
	assert.Greater(t, result.Stats.KillSwitchSkips, 0)
}

// alwaysShortLoser shorts into rising candles so every trade stops out.
type alwaysShortLoser struct{}

func (alwaysShortLoser) Name() string       { return "always_short" }
func (alwaysShortLoser) WarmupCandles() int { return 1 }

func (alwaysShortLoser) GenerateSignal(window []types.Candle, _ regime.Permission) *strategy.TradeProposal {
	last := window[len(window)-1].Close
	return &strategy.TradeProposal{Side: types.Short, Entry: last, Stop: last + 2, Target: last - 50}
}
