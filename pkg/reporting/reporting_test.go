package reporting

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ducminhle1904/strategy-sweep/internal/backtest"
	"github.com/ducminhle1904/strategy-sweep/pkg/sweep"
	"github.com/ducminhle1904/strategy-sweep/pkg/types"
	"github.com/ducminhle1904/strategy-sweep/pkg/validation"
)

func sampleTrade() backtest.ClosedTrade {
	return backtest.ClosedTrade{
		Symbol:     "INFY",
		Side:       types.Long,
		EntryPrice: 100.05,
		ExitPrice:  103.95,
		Quantity:   200,
		ExitReason: backtest.ExitTarget,
		GrossPnl:   780,
		Costs:      40.78,
		NetPnl:     739.22,
		RMultiple:  1.85,
		EntryTime:  time.Date(2024, 6, 3, 10, 5, 0, 0, time.UTC),
		ExitTime:   time.Date(2024, 6, 3, 11, 40, 0, 0, time.UTC),
	}
}

func sampleResults() []sweep.Result {
	valid := sweep.Result{
		Config: sweep.DefaultConfig(sweep.KindMeanReversion),
		Run: &backtest.RunResult{
			InitialCapital: 500000,
			FinalEquity:    507392.2,
			Trades:         []backtest.ClosedTrade{sampleTrade()},
		},
		Metrics: backtest.Metrics{
			Trades: 25, Wins: 14, NetPnl: 7392.2, ProfitFactor: 1.6,
			WinRate: 0.56, MaxDrawdown: 0.031, RiskAdjustedScore: 0.477,
		},
		Valid: true,
	}
	invalid := sweep.Result{
		Config:        sweep.DefaultConfig(sweep.KindMeanReversion),
		Run:           &backtest.RunResult{InitialCapital: 500000, FinalEquity: 500000},
		Metrics:       backtest.Metrics{Trades: 3},
		InvalidReason: "only 3 trades, need 20",
	}
	return []sweep.Result{valid, invalid}
}

func TestConsoleReporter_PrintResults(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporterTo(&buf, 0)

	results := sampleResults()
	r.PrintResults(results)

	out := buf.String()
	assert.Contains(t, out, "SWEEP RESULTS")
	assert.Contains(t, out, "only 3 trades, need 20")
	assert.Contains(t, out, results[0].Config.Label())
}

func TestConsoleReporter_MaxRows(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporterTo(&buf, 1)

	r.PrintResults(sampleResults())

	assert.NotContains(t, buf.String(), "only 3 trades, need 20")
}

func TestConsoleReporter_PrintBestNil(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporterTo(&buf, 0)

	r.PrintBest(nil)

	assert.Contains(t, buf.String(), "No configuration passed")
}

func TestWriteTradesCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "trades.csv")

	require.NoError(t, WriteTradesCSV([]backtest.ClosedTrade{sampleTrade()}, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "net_pnl")
	assert.Contains(t, lines[1], "INFY")
	assert.Contains(t, lines[1], "TARGET")
	assert.Contains(t, lines[1], "739.2200")
}

func TestWriteResultsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")

	require.NoError(t, WriteResultsCSV(sampleResults(), path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "true")
	assert.Contains(t, lines[2], "only 3 trades, need 20")
}

func TestExcelReporter_WriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.xlsx")
	results := sampleResults()
	oos := []validation.Result{{
		Config:      results[0].Config,
		InSample:    results[0].Metrics,
		OutOfSample: backtest.Metrics{RiskAdjustedScore: 0.31, ProfitFactor: 1.3, WinRate: 0.5},
		Degradation: 0.35,
		Robust:      true,
	}}

	require.NoError(t, NewExcelReporter().WriteWorkbook(results, &results[0], oos, path))

	fx, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer fx.Close()

	assert.ElementsMatch(t, []string{summarySheet, resultsSheet, tradesSheet}, fx.GetSheetList())

	cell, err := fx.GetCellValue(resultsSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, results[0].Config.Label(), cell)

	symbol, err := fx.GetCellValue(tradesSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "INFY", symbol)

	robustLabel, err := fx.GetCellValue(summarySheet, "A11")
	require.NoError(t, err)
	assert.Equal(t, "Robust Config", robustLabel)
}

func TestExcelReporter_NoBestConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.xlsx")

	require.NoError(t, NewExcelReporter().WriteWorkbook(nil, nil, nil, path))

	fx, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer fx.Close()

	cell, err := fx.GetCellValue(summarySheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "none passed validity rules", cell)
}
