package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/ducminhle1904/strategy-sweep/pkg/sweep"
	"github.com/ducminhle1904/strategy-sweep/pkg/validation"
)

const (
	summarySheet = "Summary"
	resultsSheet = "Results"
	tradesSheet  = "Trades"
)

// ExcelReporter writes a sweep workbook with summary, ranked-results and
// winner-trades sheets.
type ExcelReporter struct{}

// NewExcelReporter creates an Excel reporter.
func NewExcelReporter() *ExcelReporter {
	return &ExcelReporter{}
}

// WriteWorkbook renders the full sweep output to an xlsx file. best and
// oos may be nil/empty when nothing passed validation.
func (r *ExcelReporter) WriteWorkbook(results []sweep.Result, best *sweep.Result, oos []validation.Result, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	fx.SetSheetName(fx.GetSheetName(0), summarySheet)
	fx.NewSheet(resultsSheet)
	fx.NewSheet(tradesSheet)

	headerStyle, err := fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF", Family: "Calibri"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2F4F4F"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return err
	}

	r.writeSummarySheet(fx, best, oos, headerStyle)
	r.writeResultsSheet(fx, results, headerStyle)
	r.writeTradesSheet(fx, best, headerStyle)

	return fx.SaveAs(path)
}

func (r *ExcelReporter) writeSummarySheet(fx *excelize.File, best *sweep.Result, oos []validation.Result, headerStyle int) {
	writeHeaderRow(fx, summarySheet, headerStyle, []string{"Field", "Value"})

	rows := [][]interface{}{}
	if best == nil {
		rows = append(rows, []interface{}{"Best Config", "none passed validity rules"})
	} else {
		m := best.Metrics
		rows = append(rows,
			[]interface{}{"Best Config", best.Config.Label()},
			[]interface{}{"Initial Capital", best.Run.InitialCapital},
			[]interface{}{"Final Equity", best.Run.FinalEquity},
			[]interface{}{"Net P&L", m.NetPnl},
			[]interface{}{"Max Drawdown", m.MaxDrawdown},
			[]interface{}{"Profit Factor", m.ProfitFactor},
			[]interface{}{"Win Rate", m.WinRate},
			[]interface{}{"Trades", m.Trades},
			[]interface{}{"Score", m.RiskAdjustedScore},
		)
	}
	if robust := validation.Robust(oos); robust != nil {
		rows = append(rows,
			[]interface{}{"Robust Config", robust.Config.Label()},
			[]interface{}{"OOS Score", robust.OutOfSample.RiskAdjustedScore},
			[]interface{}{"Score Degradation", robust.Degradation},
		)
	}

	writeRows(fx, summarySheet, 2, rows)
	fx.SetColWidth(summarySheet, "A", "A", 20)
	fx.SetColWidth(summarySheet, "B", "B", 45)
}

func (r *ExcelReporter) writeResultsSheet(fx *excelize.File, results []sweep.Result, headerStyle int) {
	writeHeaderRow(fx, resultsSheet, headerStyle, []string{
		"Rank", "Config", "Trades", "Win Rate", "Profit Factor",
		"Net P&L", "Max Drawdown", "Score", "Valid", "Reason",
	})

	rows := make([][]interface{}, 0, len(results))
	for i, res := range results {
		m := res.Metrics
		rows = append(rows, []interface{}{
			i + 1, res.Config.Label(), m.Trades, m.WinRate, m.ProfitFactor,
			m.NetPnl, m.MaxDrawdown, m.RiskAdjustedScore, res.Valid, res.InvalidReason,
		})
	}

	writeRows(fx, resultsSheet, 2, rows)
	fx.SetColWidth(resultsSheet, "B", "B", 45)
	fx.SetColWidth(resultsSheet, "J", "J", 35)
}

func (r *ExcelReporter) writeTradesSheet(fx *excelize.File, best *sweep.Result, headerStyle int) {
	writeHeaderRow(fx, tradesSheet, headerStyle, []string{
		"Symbol", "Side", "Entry Time", "Exit Time", "Entry Price", "Exit Price",
		"Quantity", "Exit Reason", "Gross P&L", "Costs", "Net P&L", "R-Multiple",
	})

	if best == nil || best.Run == nil {
		return
	}

	rows := make([][]interface{}, 0, len(best.Run.Trades))
	for _, t := range best.Run.Trades {
		rows = append(rows, []interface{}{
			t.Symbol, t.Side.String(),
			t.EntryTime.Format("2006-01-02 15:04:05"),
			t.ExitTime.Format("2006-01-02 15:04:05"),
			t.EntryPrice, t.ExitPrice, t.Quantity, string(t.ExitReason),
			t.GrossPnl, t.Costs, t.NetPnl, t.RMultiple,
		})
	}

	writeRows(fx, tradesSheet, 2, rows)
	fx.SetColWidth(tradesSheet, "C", "D", 20)
}

func writeHeaderRow(fx *excelize.File, sheet string, style int, headers []string) {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		fx.SetCellValue(sheet, cell, h)
		fx.SetCellStyle(sheet, cell, cell, style)
	}
}

func writeRows(fx *excelize.File, sheet string, startRow int, rows [][]interface{}) {
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, startRow+r)
			fx.SetCellValue(sheet, cell, v)
		}
	}
}
