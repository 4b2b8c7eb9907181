package backtest

import (
	"github.com/ducminhle1904/strategy-sweep/internal/indicators"
	"github.com/ducminhle1904/strategy-sweep/internal/regime"
	"github.com/ducminhle1904/strategy-sweep/internal/risk"
	"github.com/ducminhle1904/strategy-sweep/internal/strategy"
	"github.com/ducminhle1904/strategy-sweep/pkg/logger"
	"github.com/ducminhle1904/strategy-sweep/pkg/types"
)

// EngineOptions are the per-run simulation knobs beyond the strategy itself.
type EngineOptions struct {
	Costs             CostModel `json:"costs"`
	ATRPeriod         int       `json:"atr_period"`          // for trail distance sizing
	TrailATRMult      float64   `json:"trail_atr_mult"`      // 0 disables trailing
	MaxHoldingCandles int       `json:"max_holding_candles"` // 0 disables the time exit
	TargetFirst       bool      `json:"target_first"`        // intra-candle tie-break

	LookbackCandles int `json:"lookback_candles"` // signal window length
	EndOfDayBuffer  int `json:"end_of_day_buffer"`
	MinDayCandles   int `json:"min_day_candles"` // below this a day is unusable

	// FirstHourCandles and MinFirstHourRangeATR drive the low-volatility
	// day filter; a MinFirstHourRangeATR of 0 disables it.
	FirstHourCandles     int     `json:"first_hour_candles"`
	MinFirstHourRangeATR float64 `json:"min_first_hour_range_atr"`
}

// DefaultEngineOptions returns the 5-minute-bar defaults.
func DefaultEngineOptions() EngineOptions {
	return EngineOptions{
		Costs:                DefaultCostModel(),
		ATRPeriod:            14,
		TrailATRMult:         1.5,
		MaxHoldingCandles:    40,
		LookbackCandles:      60,
		EndOfDayBuffer:       5,
		MinDayCandles:        70,
		FirstHourCandles:     12,
		MinFirstHourRangeATR: 0.4,
	}
}

// RunStats counts the units the engine processed or skipped.
type RunStats struct {
	DaysProcessed      int
	ShortDaySkips      int
	VolatilitySkips    int
	KillSwitchSkips    int
	DailyLossBreaches  int
	KillSwitchTriggers int
}

// RunResult is everything one config's simulation produced.
type RunResult struct {
	InitialCapital float64
	FinalEquity    float64
	Trades         []ClosedTrade
	DailyEquity    []DailyEquity
	MaxDrawdown    float64
	Stats          RunStats
}

// Engine runs one strategy configuration over day-grouped candles. Every run
// owns its own risk engine, regime classifier and equity tracker, so engines
// for different configs can execute in parallel without locking.
type Engine struct {
	gen     strategy.SignalGenerator
	regime  regime.Config
	riskCfg risk.Config
	opts    EngineOptions
	log     *logger.Logger
}

// NewEngine creates an engine for one configuration.
func NewEngine(gen strategy.SignalGenerator, regimeCfg regime.Config, riskCfg risk.Config, opts EngineOptions, log *logger.Logger) *Engine {
	return &Engine{
		gen:     gen,
		regime:  regimeCfg,
		riskCfg: riskCfg,
		opts:    opts,
		log:     log,
	}
}

// Run simulates the configuration over the given trading days and returns
// the closed trades plus the daily equity series. Days must be in
// chronological order.
func (e *Engine) Run(days []types.TradingDay) *RunResult {
	riskEngine := risk.NewEngine(e.riskCfg)
	classifier := regime.NewClassifier(e.regime)
	tracker := NewEquityTracker(e.riskCfg.InitialCapital)

	result := &RunResult{InitialCapital: e.riskCfg.InitialCapital}

	var prevDay []types.Candle
	for dayIdx, day := range days {
		if len(day.Candles) < e.opts.MinDayCandles {
			result.Stats.ShortDaySkips++
			continue
		}

		// Today's permissions derive from the classifier state as of
		// yesterday's close; the counter is advanced at day end so intraday
		// decisions never see the full day's candles.
		perm := classifier.Permission()

		riskEngine.OnNewDay(dayIdx)
		if !riskEngine.CanOpenTrade() {
			result.Stats.KillSwitchSkips++
			e.endDay(day, tracker, classifier, &prevDay)
			continue
		}

		if e.skipLowVolatilityDay(day.Candles, prevDay) {
			result.Stats.VolatilitySkips++
			e.endDay(day, tracker, classifier, &prevDay)
			continue
		}

		e.runDay(day, dayIdx, perm, riskEngine, tracker, result)
		result.Stats.DaysProcessed++
		e.endDay(day, tracker, classifier, &prevDay)
	}

	result.FinalEquity = tracker.Equity()
	result.DailyEquity = tracker.DailySeries()
	result.MaxDrawdown = tracker.MaxDrawdown()
	result.Stats.DailyLossBreaches = riskEngine.DailyLossBreaches()
	result.Stats.KillSwitchTriggers = riskEngine.KillSwitchTriggers()

	return result
}

func (e *Engine) runDay(day types.TradingDay, dayIdx int, perm regime.Permission, riskEngine *risk.Engine, tracker *EquityTracker, result *RunResult) {
	candles := day.Candles
	warmup := e.gen.WarmupCandles()

	var dayTrades []ClosedTrade

	for i := warmup; i < len(candles)-e.opts.EndOfDayBuffer; i++ {
		if !riskEngine.CanOpenTrade() {
			break
		}
		if openTradesAt(dayTrades, i) >= perm.MaxConcurrentTrades {
			continue
		}

		start := i - e.opts.LookbackCandles
		if start < 0 {
			start = 0
		}
		window := candles[start : i+1]

		proposal := e.gen.GenerateSignal(window, perm)
		if proposal == nil {
			continue
		}
		proposal.GeneratedAt = i

		qty := riskEngine.SizePosition(riskEngine.Equity(), proposal.Entry, proposal.Stop)
		qty = int(float64(qty) * perm.PositionSizeMultiplier)
		if qty < 1 {
			continue
		}

		atr := indicators.ATR(window, e.opts.ATRPeriod)
		simOpts := SimOptions{
			Costs:             e.opts.Costs,
			MaxHoldingCandles: e.opts.MaxHoldingCandles,
			TargetFirst:       e.opts.TargetFirst,
		}
		if e.opts.TrailATRMult > 0 && atr > 0 {
			simOpts.TrailDistance = e.opts.TrailATRMult * atr
		}

		trade := Simulate(candles, proposal, qty, simOpts)
		trade.Symbol = day.Symbol

		riskEngine.OnTradeClosed(trade.NetPnl)
		tracker.OnTradeClosed(trade.NetPnl)

		dayTrades = append(dayTrades, trade)
	}

	if len(dayTrades) > 0 {
		result.Trades = append(result.Trades, dayTrades...)
		if e.log != nil {
			e.log.Debug("day simulated",
				logger.String("symbol", day.Symbol),
				logger.String("date", day.Date),
				logger.Int("trades", len(dayTrades)),
				logger.Float64("equity", tracker.Equity()),
			)
		}
	}
}

// endDay closes out the equity series and advances the regime classifier
// with the completed day's candles.
func (e *Engine) endDay(day types.TradingDay, tracker *EquityTracker, classifier *regime.Classifier, prevDay *[]types.Candle) {
	tracker.OnDayEnd(day.Date)
	classifier.OnNewDay(day.Candles)
	*prevDay = day.Candles
}

// skipLowVolatilityDay applies the first-hour range filter. The reference
// ATR comes from the prior session so the decision uses only information
// available an hour into the day.
func (e *Engine) skipLowVolatilityDay(candles, prevDay []types.Candle) bool {
	if e.opts.MinFirstHourRangeATR <= 0 || len(prevDay) == 0 {
		return false
	}

	n := e.opts.FirstHourCandles
	if n <= 0 || n > len(candles) {
		return false
	}

	atr := indicators.ATR(prevDay, e.opts.ATRPeriod)
	return strategy.IsLowVolatilityDay(candles[:n], atr, e.opts.MinFirstHourRangeATR)
}

// openTradesAt counts today's trades still open at candle index i.
func openTradesAt(trades []ClosedTrade, i int) int {
	open := 0
	for _, t := range trades {
		if t.ExitIndex > i {
			open++
		}
	}
	return open
}
