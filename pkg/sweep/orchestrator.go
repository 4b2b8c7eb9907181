package sweep

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ducminhle1904/strategy-sweep/internal/backtest"
	"github.com/ducminhle1904/strategy-sweep/pkg/logger"
	"github.com/ducminhle1904/strategy-sweep/pkg/types"
)

// Observer receives per-config evaluation events, for metrics exporters.
type Observer interface {
	ObserveConfig(valid bool, duration time.Duration)
	ObserveSkip(reason string)
}

// Orchestrator fans a config grid out over a worker pool. Each config gets
// its own engine, risk state and classifier, so workers share nothing but
// the immutable candle data and the synchronized result slice.
type Orchestrator struct {
	workers  int
	rules    ValidityRules
	log      *logger.Logger
	observer Observer
}

// NewOrchestrator creates an orchestrator. workers < 1 means one worker.
func NewOrchestrator(workers int, rules ValidityRules, log *logger.Logger) *Orchestrator {
	if workers < 1 {
		workers = 1
	}
	return &Orchestrator{workers: workers, rules: rules, log: log}
}

// SetObserver attaches a metrics observer. Must be called before Run.
func (o *Orchestrator) SetObserver(obs Observer) {
	o.observer = obs
}

// Run evaluates every config against the given trading days and returns the
// ranked results. Cancelling the context stops scheduling new configs;
// already-completed results are still returned, together with the context's
// error. A config whose evaluation fails is kept as an invalid result rather
// than aborting the sweep.
func (o *Orchestrator) Run(ctx context.Context, days []types.TradingDay, configs []Config) ([]Result, error) {
	// Each worker owns a distinct slot, so no lock is needed; compacting to
	// grid order afterwards keeps ranking deterministic across runs.
	slots := make([]Result, len(configs))
	done := make([]bool, len(configs))

	var g errgroup.Group
	g.SetLimit(o.workers)

	for i, cfg := range configs {
		if ctx.Err() != nil {
			break
		}
		i, cfg := i, cfg
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			slots[i] = o.evaluate(days, cfg)
			done[i] = true
			return nil
		})
	}

	_ = g.Wait()

	results := make([]Result, 0, len(configs))
	for i := range slots {
		if done[i] {
			results = append(results, slots[i])
		}
	}

	Rank(results)

	if o.log != nil {
		o.log.Info("sweep finished",
			logger.Int("configs", len(configs)),
			logger.Int("evaluated", len(results)),
			logger.Err(ctx.Err()),
		)
	}

	return results, ctx.Err()
}

func (o *Orchestrator) evaluate(days []types.TradingDay, cfg Config) Result {
	start := time.Now()

	gen, err := cfg.Generator()
	if err != nil {
		if o.log != nil {
			o.log.Warn("config skipped", logger.String("config", cfg.Label()), logger.Err(err))
		}
		if o.observer != nil {
			o.observer.ObserveSkip("bad_config")
		}
		return Result{Config: cfg, InvalidReason: err.Error()}
	}

	engine := backtest.NewEngine(gen, cfg.Regime, cfg.Risk, cfg.Engine, o.log)
	run := engine.Run(days)
	metrics := backtest.ComputeMetrics(run)

	res := Result{Config: cfg, Run: run, Metrics: metrics}
	res.Valid, res.InvalidReason = o.rules.Check(metrics)

	if o.observer != nil {
		o.observer.ObserveConfig(res.Valid, time.Since(start))
	}
	return res
}
