package reporting

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ducminhle1904/strategy-sweep/internal/backtest"
	"github.com/ducminhle1904/strategy-sweep/pkg/sweep"
)

// WriteTradesCSV exports closed trades to a CSV file, creating parent
// directories as needed.
func WriteTradesCSV(trades []backtest.ClosedTrade, path string) error {
	f, err := createWithDirs(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"symbol", "side", "entry_time", "exit_time", "entry_price", "exit_price",
		"quantity", "exit_reason", "gross_pnl", "costs", "net_pnl", "r_multiple",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, t := range trades {
		row := []string{
			t.Symbol,
			t.Side.String(),
			t.EntryTime.Format("2006-01-02 15:04:05"),
			t.ExitTime.Format("2006-01-02 15:04:05"),
			formatFloat(t.EntryPrice),
			formatFloat(t.ExitPrice),
			strconv.Itoa(t.Quantity),
			string(t.ExitReason),
			formatFloat(t.GrossPnl),
			formatFloat(t.Costs),
			formatFloat(t.NetPnl),
			formatFloat(t.RMultiple),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

// WriteResultsCSV exports the ranked sweep results to a CSV file.
func WriteResultsCSV(results []sweep.Result, path string) error {
	f, err := createWithDirs(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"rank", "config", "trades", "win_rate", "profit_factor",
		"net_pnl", "max_drawdown", "score", "valid", "invalid_reason",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, res := range results {
		m := res.Metrics
		row := []string{
			strconv.Itoa(i + 1),
			res.Config.Label(),
			strconv.Itoa(m.Trades),
			formatFloat(m.WinRate),
			formatFloat(m.ProfitFactor),
			formatFloat(m.NetPnl),
			formatFloat(m.MaxDrawdown),
			formatFloat(m.RiskAdjustedScore),
			strconv.FormatBool(res.Valid),
			res.InvalidReason,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func createWithDirs(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return os.Create(path)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
