package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ducminhle1904/strategy-sweep/internal/monitoring"
	"github.com/ducminhle1904/strategy-sweep/pkg/config"
	"github.com/ducminhle1904/strategy-sweep/pkg/data"
	"github.com/ducminhle1904/strategy-sweep/pkg/logger"
	"github.com/ducminhle1904/strategy-sweep/pkg/reporting"
	"github.com/ducminhle1904/strategy-sweep/pkg/sweep"
	"github.com/ducminhle1904/strategy-sweep/pkg/validation"
)

const (
	AppName    = "Strategy Sweep"
	AppVersion = "1.0.0"
)

func main() {
	flags := NewSweepFlags()
	flag.Parse()

	if *flags.ShowVersion {
		fmt.Printf("%s v%s\n", AppName, AppVersion)
		return
	}

	if err := flags.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Flag validation error: %v\n", err)
		os.Exit(1)
	}

	if err := godotenv.Load(*flags.EnvFile); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "⚠️  Could not load %s: %v\n", *flags.EnvFile, err)
	}

	log, err := logger.New(*flags.LogLevel, "console")
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Logger error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := loadConfiguration(flags)
	if err != nil {
		log.Fatal("configuration error", logger.Err(err))
	}

	printHeader(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *flags.MetricsAddr != "" {
		srv := monitoring.NewServer(*flags.MetricsAddr, log)
		srv.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	failures := 0
	for _, symbol := range cfg.Symbols {
		if ctx.Err() != nil {
			log.Warn("sweep interrupted", logger.String("symbol", symbol))
			break
		}
		if err := runSymbol(ctx, cfg, symbol, flags, log); err != nil {
			log.Error("symbol failed", logger.String("symbol", symbol), logger.Err(err))
			failures++
		}
	}

	if failures == len(cfg.Symbols) {
		os.Exit(1)
	}
}

func printHeader(cfg *config.SweepConfig) {
	fmt.Printf("🎯 %s v%s\n", strings.ToUpper(AppName), AppVersion)
	fmt.Printf("%s\n", strings.Repeat("=", 50))
	fmt.Printf("📊 Strategy: %s  Symbols: %s\n\n", cfg.Strategy, strings.Join(cfg.Symbols, ", "))
}

// loadConfiguration merges the config file with command line overrides.
func loadConfiguration(flags *SweepFlags) (*config.SweepConfig, error) {
	var cfg *config.SweepConfig
	var err error

	if *flags.ConfigFile != "" {
		cfg, err = config.Load(*flags.ConfigFile)
		if err != nil {
			return nil, err
		}
	} else {
		kind := sweep.KindMeanReversion
		if *flags.Strategy != "" {
			kind = sweep.StrategyKind(*flags.Strategy)
		}
		cfg = config.Default(kind)
	}

	if *flags.DataDir != "" {
		cfg.DataDir = *flags.DataDir
	}
	if symbols := flags.SymbolList(); len(symbols) > 0 {
		cfg.Symbols = symbols
	}
	if *flags.Strategy != "" {
		cfg.Strategy = sweep.StrategyKind(*flags.Strategy)
		cfg.Base.Kind = cfg.Strategy
	}
	if *flags.Workers > 0 {
		cfg.Workers = *flags.Workers
	}
	if *flags.SplitRatio >= 0 {
		cfg.SplitRatio = *flags.SplitRatio
	}
	if *flags.TopK > 0 {
		cfg.TopK = *flags.TopK
	}
	if *flags.ConsoleRows >= 0 {
		cfg.Output.ConsoleRows = *flags.ConsoleRows
	}
	if *flags.ResultsCSV != "" {
		cfg.Output.ResultsCSV = *flags.ResultsCSV
	}
	if *flags.TradesCSV != "" {
		cfg.Output.TradesCSV = *flags.TradesCSV
	}
	if *flags.Workbook != "" {
		cfg.Output.Workbook = *flags.Workbook
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runSymbol executes the full sweep pipeline for one symbol.
func runSymbol(ctx context.Context, cfg *config.SweepConfig, symbol string, flags *SweepFlags, log *logger.Logger) error {
	provider := data.NewCSVProvider(cfg.DataDir, log)
	candles, err := provider.Load(symbol)
	if err != nil {
		return err
	}

	days := data.GroupByDay(candles)
	days, dropped := data.FilterUsableDays(days, cfg.Base.Engine.MinDayCandles)
	if len(days) == 0 {
		return fmt.Errorf("no usable trading days for %s", symbol)
	}
	log.Info("data prepared",
		logger.String("symbol", symbol),
		logger.Int("days", len(days)),
		logger.Int("short_days_dropped", dropped),
	)

	inSample, outOfSample := validation.SplitDays(days, cfg.SplitRatio)

	configs := sweep.Expand(cfg.Base, cfg.Grid)
	if len(configs) == 0 {
		return fmt.Errorf("grid expanded to zero configs")
	}
	log.Info("grid expanded",
		logger.Int("configs", len(configs)),
		logger.Int("in_sample_days", len(inSample)),
		logger.Int("out_of_sample_days", len(outOfSample)),
	)

	orch := sweep.NewOrchestrator(cfg.Workers, cfg.Validity, log)
	orch.SetObserver(monitoring.NewSweepObserver(len(configs)))

	results, runErr := orch.Run(ctx, inSample, configs)
	if runErr != nil {
		log.Warn("sweep cancelled, reporting completed results", logger.Err(runErr))
	}

	best := sweep.Best(results)

	var oos []validation.Result
	if len(outOfSample) > 0 && best != nil {
		validator := validation.NewValidator(cfg.TopK, cfg.OOSValidity, log)
		oos = validator.Validate(ctx, results, outOfSample)
	}

	report(cfg, symbol, results, best, oos, flags, log)
	return nil
}

func report(cfg *config.SweepConfig, symbol string, results []sweep.Result, best *sweep.Result, oos []validation.Result, flags *SweepFlags, log *logger.Logger) {
	fmt.Printf("━━━ %s ━━━\n", symbol)

	console := reporting.NewConsoleReporter(cfg.Output.ConsoleRows)
	console.PrintResults(results)
	console.PrintBest(best)
	console.PrintValidation(oos)
	if *flags.ShowTrades && best != nil {
		console.PrintTrades(best.Run.Trades)
	}

	if path := symbolPath(cfg.Output.ResultsCSV, symbol); path != "" {
		if err := reporting.WriteResultsCSV(results, path); err != nil {
			log.Error("results CSV failed", logger.Err(err))
		}
	}
	if path := symbolPath(cfg.Output.TradesCSV, symbol); path != "" && best != nil {
		if err := reporting.WriteTradesCSV(best.Run.Trades, path); err != nil {
			log.Error("trades CSV failed", logger.Err(err))
		}
	}
	if path := symbolPath(cfg.Output.Workbook, symbol); path != "" {
		if err := reporting.NewExcelReporter().WriteWorkbook(results, best, oos, path); err != nil {
			log.Error("workbook failed", logger.Err(err))
		}
	}
}

// symbolPath prefixes the file name with the symbol so multi-symbol runs do
// not overwrite each other: out/results.csv -> out/INFY_results.csv.
func symbolPath(path, symbol string) string {
	if path == "" {
		return ""
	}
	slash := strings.LastIndexByte(path, os.PathSeparator)
	return path[:slash+1] + symbol + "_" + path[slash+1:]
}
