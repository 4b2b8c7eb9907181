package validation

import (
	"context"

	"github.com/ducminhle1904/strategy-sweep/internal/backtest"
	"github.com/ducminhle1904/strategy-sweep/pkg/logger"
	"github.com/ducminhle1904/strategy-sweep/pkg/sweep"
	"github.com/ducminhle1904/strategy-sweep/pkg/types"
)

// Result pairs a config's in-sample metrics with its out-of-sample re-run.
type Result struct {
	Config      sweep.Config
	InSample    backtest.Metrics
	OutOfSample backtest.Metrics

	// Degradation is the relative score drop from in-sample to
	// out-of-sample, 0 when the score held or improved.
	Degradation float64

	Robust bool
	Reason string
}

// Validator re-runs top-ranked configs on a held-out slice of data. A config
// is robust only if it was valid in-sample and its out-of-sample metrics
// clear the validator's own, typically looser, rules.
type Validator struct {
	topK  int
	rules sweep.ValidityRules
	log   *logger.Logger
}

// NewValidator creates a validator that checks the top k ranked configs.
func NewValidator(topK int, rules sweep.ValidityRules, log *logger.Logger) *Validator {
	if topK < 1 {
		topK = 1
	}
	return &Validator{topK: topK, rules: rules, log: log}
}

// Validate re-runs the top-K valid configs from ranked against the
// out-of-sample days. ranked must already be sorted by sweep.Rank.
// Cancellation stops after the current config; completed results are
// returned.
func (v *Validator) Validate(ctx context.Context, ranked []sweep.Result, outOfSample []types.TradingDay) []Result {
	var out []Result

	for _, is := range ranked {
		if len(out) >= v.topK || !is.Valid {
			break
		}
		if ctx.Err() != nil {
			break
		}

		out = append(out, v.revalidate(is, outOfSample))
	}

	return out
}

func (v *Validator) revalidate(is sweep.Result, days []types.TradingDay) Result {
	res := Result{Config: is.Config, InSample: is.Metrics}

	gen, err := is.Config.Generator()
	if err != nil {
		res.Reason = err.Error()
		return res
	}

	engine := backtest.NewEngine(gen, is.Config.Regime, is.Config.Risk, is.Config.Engine, v.log)
	run := engine.Run(days)
	res.OutOfSample = backtest.ComputeMetrics(run)

	res.Robust, res.Reason = v.rules.Check(res.OutOfSample)
	res.Degradation = degradation(res.InSample.RiskAdjustedScore, res.OutOfSample.RiskAdjustedScore)

	if v.log != nil {
		v.log.Info("out-of-sample re-run",
			logger.String("config", is.Config.Label()),
			logger.Float64("is_score", res.InSample.RiskAdjustedScore),
			logger.Float64("oos_score", res.OutOfSample.RiskAdjustedScore),
			logger.Float64("degradation", res.Degradation),
		)
	}

	return res
}

// Robust returns the first robust result, or nil when none survived the
// held-out slice.
func Robust(results []Result) *Result {
	for i := range results {
		if results[i].Robust {
			return &results[i]
		}
	}
	return nil
}

func degradation(inSample, outOfSample float64) float64 {
	if inSample <= 0 {
		return 0
	}
	d := 1 - outOfSample/inSample
	if d < 0 {
		return 0
	}
	return d
}
