package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/ducminhle1904/strategy-sweep/pkg/sweep"
)

// SweepConfig is the top-level JSON configuration for a sweep run.
type SweepConfig struct {
	DataDir string   `json:"data_dir"`
	Symbols []string `json:"symbols"`

	Strategy sweep.StrategyKind `json:"strategy"`
	Base     sweep.Config       `json:"base"`
	Grid     sweep.GridSpec     `json:"grid"`

	Validity sweep.ValidityRules `json:"validity"`

	// Out-of-sample stage. SplitRatio is the in-sample fraction; TopK configs
	// are re-run against the held-out slice under OOSValidity. A SplitRatio
	// of 0 or 1 disables the stage.
	SplitRatio  float64             `json:"split_ratio"`
	TopK        int                 `json:"top_k"`
	OOSValidity sweep.ValidityRules `json:"oos_validity"`

	Workers int `json:"workers"`

	Output OutputConfig `json:"output"`
}

// OutputConfig selects the report artifacts a run writes.
type OutputConfig struct {
	ConsoleRows int    `json:"console_rows"` // ranked rows to print; 0 = all
	ResultsCSV  string `json:"results_csv"`  // empty disables
	TradesCSV   string `json:"trades_csv"`   // empty disables
	Workbook    string `json:"workbook"`     // xlsx path, empty disables
}

// Default returns a runnable baseline configuration for the given strategy.
func Default(kind sweep.StrategyKind) *SweepConfig {
	return &SweepConfig{
		DataDir:  "data",
		Strategy: kind,
		Base:     sweep.DefaultConfig(kind),
		Validity: sweep.ValidityRules{
			MaxDrawdown:     0.10,
			MinTrades:       20,
			MinProfitFactor: 1.1,
			MinWinRate:      0.35,
		},
		SplitRatio: 0.7,
		TopK:       5,
		OOSValidity: sweep.ValidityRules{
			MinTrades:       5,
			MinProfitFactor: 1.0,
			MinWinRate:      0.30,
		},
		Workers: runtime.NumCPU(),
		Output:  OutputConfig{ConsoleRows: 20},
	}
}

// Load reads a JSON config file over the defaults for its strategy kind.
func Load(path string) (*SweepConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// First pass just to learn the strategy kind, so defaults match.
	var probe struct {
		Strategy sweep.StrategyKind `json:"strategy"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if probe.Strategy == "" {
		probe.Strategy = sweep.KindMeanReversion
	}

	cfg := Default(probe.Strategy)
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	cfg.Base.Kind = cfg.Strategy

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the parts a typo most often breaks.
func (c *SweepConfig) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if len(c.Symbols) == 0 {
		return fmt.Errorf("at least one symbol is required")
	}
	switch c.Strategy {
	case sweep.KindMeanReversion, sweep.KindTrendPullback:
	default:
		return fmt.Errorf("unknown strategy %q", c.Strategy)
	}
	if c.SplitRatio != 0 && (c.SplitRatio < 0 || c.SplitRatio >= 1) {
		return fmt.Errorf("split_ratio must be in [0,1), got %v", c.SplitRatio)
	}
	if c.Base.Risk.InitialCapital <= 0 {
		return fmt.Errorf("initial capital must be positive")
	}
	if c.Base.Risk.RiskPerTrade <= 0 || c.Base.Risk.RiskPerTrade > 0.05 {
		return fmt.Errorf("risk_per_trade must be in (0, 0.05], got %v", c.Base.Risk.RiskPerTrade)
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.TopK < 1 {
		c.TopK = 1
	}
	return nil
}
