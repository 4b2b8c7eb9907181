package reporting

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ducminhle1904/strategy-sweep/internal/backtest"
	"github.com/ducminhle1904/strategy-sweep/pkg/sweep"
	"github.com/ducminhle1904/strategy-sweep/pkg/validation"
)

// ConsoleReporter renders sweep output as terminal tables.
type ConsoleReporter struct {
	out     io.Writer
	maxRows int
}

// NewConsoleReporter creates a reporter writing to stdout. maxRows caps the
// ranked-results table; 0 shows everything.
func NewConsoleReporter(maxRows int) *ConsoleReporter {
	return &ConsoleReporter{out: os.Stdout, maxRows: maxRows}
}

// NewConsoleReporterTo creates a reporter writing to w, for tests.
func NewConsoleReporterTo(w io.Writer, maxRows int) *ConsoleReporter {
	return &ConsoleReporter{out: w, maxRows: maxRows}
}

// PrintResults renders the ranked sweep results.
func (r *ConsoleReporter) PrintResults(results []sweep.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("SWEEP RESULTS")
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{"#", "Config", "Trades", "Win%", "PF", "Net P&L", "Max DD%", "Score", "Status"})

	for i, res := range results {
		if r.maxRows > 0 && i >= r.maxRows {
			break
		}
		status := "✅ valid"
		if !res.Valid {
			status = "❌ " + res.InvalidReason
		}
		m := res.Metrics
		t.AppendRow(table.Row{
			i + 1,
			res.Config.Label(),
			m.Trades,
			fmt.Sprintf("%.1f", m.WinRate*100),
			fmt.Sprintf("%.2f", m.ProfitFactor),
			fmt.Sprintf("%.2f", m.NetPnl),
			fmt.Sprintf("%.2f", m.MaxDrawdown*100),
			fmt.Sprintf("%.3f", m.RiskAdjustedScore),
			status,
		})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 45, Align: text.AlignLeft},
		{Number: 9, WidthMax: 40, Align: text.AlignLeft},
	})

	t.Render()
	fmt.Fprintln(r.out)
}

// PrintBest renders the winning configuration's aggregates.
func (r *ConsoleReporter) PrintBest(best *sweep.Result) {
	if best == nil {
		fmt.Fprintln(r.out, "⚠️  No configuration passed the validity rules")
		return
	}

	m := best.Metrics
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("BEST CONFIGURATION")
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"🏷  Config", best.Config.Label()},
		{"💰 Initial Capital", fmt.Sprintf("%.2f", best.Run.InitialCapital)},
		{"💰 Final Equity", fmt.Sprintf("%.2f", best.Run.FinalEquity)},
		{"📈 Net P&L", fmt.Sprintf("%.2f", m.NetPnl)},
		{"📉 Max Drawdown", fmt.Sprintf("%.2f%%", m.MaxDrawdown*100)},
		{"💹 Profit Factor", fmt.Sprintf("%.2f", m.ProfitFactor)},
		{"✅ Win Rate", fmt.Sprintf("%.1f%% (%d/%d)", m.WinRate*100, m.Wins, m.Trades)},
		{"📊 Avg R-Multiple", fmt.Sprintf("%.2f", m.AvgRMultiple)},
		{"🎯 Score", fmt.Sprintf("%.3f", m.RiskAdjustedScore)},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 18, Align: text.AlignLeft},
		{Number: 2, WidthMin: 25, WidthMax: 45, Align: text.AlignLeft},
	})

	t.Render()
	fmt.Fprintln(r.out)
}

// PrintValidation renders the out-of-sample re-run summary.
func (r *ConsoleReporter) PrintValidation(results []validation.Result) {
	if len(results) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("OUT-OF-SAMPLE VALIDATION")
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{"Config", "IS Score", "OOS Score", "OOS PF", "OOS Win%", "Degradation", "Robust"})

	for _, res := range results {
		robust := "✅"
		if !res.Robust {
			robust = "❌ " + res.Reason
		}
		t.AppendRow(table.Row{
			res.Config.Label(),
			fmt.Sprintf("%.3f", res.InSample.RiskAdjustedScore),
			fmt.Sprintf("%.3f", res.OutOfSample.RiskAdjustedScore),
			fmt.Sprintf("%.2f", res.OutOfSample.ProfitFactor),
			fmt.Sprintf("%.1f", res.OutOfSample.WinRate*100),
			fmt.Sprintf("%.1f%%", res.Degradation*100),
			robust,
		})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMax: 45, Align: text.AlignLeft},
		{Number: 7, WidthMax: 40, Align: text.AlignLeft},
	})

	t.Render()
	fmt.Fprintln(r.out)
}

// PrintTrades renders the winning config's closed trades.
func (r *ConsoleReporter) PrintTrades(trades []backtest.ClosedTrade) {
	if len(trades) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("TRADES")
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{"Entry", "Side", "Qty", "Entry Px", "Exit Px", "Exit", "Net P&L", "R"})

	for _, tr := range trades {
		t.AppendRow(table.Row{
			tr.EntryTime.Format("2006-01-02 15:04"),
			tr.Side.String(),
			tr.Quantity,
			fmt.Sprintf("%.2f", tr.EntryPrice),
			fmt.Sprintf("%.2f", tr.ExitPrice),
			string(tr.ExitReason),
			fmt.Sprintf("%.2f", tr.NetPnl),
			fmt.Sprintf("%.2f", tr.RMultiple),
		})
	}

	t.Render()
	fmt.Fprintln(r.out)
}
