package main

import (
	"flag"
	"fmt"
	"strings"
)

// SweepFlags holds all command line flags for the sweep command.
type SweepFlags struct {
	// Configuration
	ConfigFile *string
	DataDir    *string
	Symbols    *string
	Strategy   *string

	// Sweep execution
	Workers    *int
	SplitRatio *float64
	TopK       *int

	// Output options
	ConsoleRows *int
	ResultsCSV  *string
	TradesCSV   *string
	Workbook    *string
	ShowTrades  *bool

	// Observability
	MetricsAddr *string
	LogLevel    *string
	EnvFile     *string

	// Help and version
	ShowVersion *bool
}

// NewSweepFlags creates and registers all sweep command line flags.
func NewSweepFlags() *SweepFlags {
	return &SweepFlags{
		ConfigFile: flag.String("config", "", "JSON sweep configuration file"),
		DataDir:    flag.String("data", "", "directory with per-symbol candle CSVs (overrides config)"),
		Symbols:    flag.String("symbols", "", "comma-separated symbols (overrides config)"),
		Strategy:   flag.String("strategy", "", "strategy kind: mean_reversion or trend_pullback (overrides config)"),

		Workers:    flag.Int("workers", 0, "parallel config evaluations (0 = config/NumCPU)"),
		SplitRatio: flag.Float64("split", -1, "in-sample fraction for out-of-sample validation (overrides config)"),
		TopK:       flag.Int("top-k", 0, "configs to re-run out-of-sample (overrides config)"),

		ConsoleRows: flag.Int("rows", -1, "ranked rows to print, 0 = all (overrides config)"),
		ResultsCSV:  flag.String("results-csv", "", "write ranked results CSV to this path"),
		TradesCSV:   flag.String("trades-csv", "", "write winning config's trades CSV to this path"),
		Workbook:    flag.String("xlsx", "", "write full sweep workbook to this path"),
		ShowTrades:  flag.Bool("show-trades", false, "print the winning config's trades"),

		MetricsAddr: flag.String("metrics", "", "serve Prometheus metrics on this address, e.g. :9090"),
		LogLevel:    flag.String("log-level", "info", "log level: debug, info, warn, error"),
		EnvFile:     flag.String("env", ".env", "environment file to load"),

		ShowVersion: flag.Bool("version", false, "print version and exit"),
	}
}

// Validate catches flag combinations that cannot work before any data loads.
func (f *SweepFlags) Validate() error {
	if *f.ConfigFile == "" && (*f.DataDir == "" || *f.Symbols == "") {
		return fmt.Errorf("either -config or both -data and -symbols are required")
	}
	if *f.Strategy != "" && *f.Strategy != "mean_reversion" && *f.Strategy != "trend_pullback" {
		return fmt.Errorf("unknown -strategy %q", *f.Strategy)
	}
	if *f.SplitRatio >= 1 {
		return fmt.Errorf("-split must be below 1, got %v", *f.SplitRatio)
	}
	return nil
}

// SymbolList returns the -symbols flag parsed into a clean slice.
func (f *SweepFlags) SymbolList() []string {
	if *f.Symbols == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(*f.Symbols, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, strings.ToUpper(s))
		}
	}
	return out
}
