package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ducminhle1904/strategy-sweep/pkg/logger"
	"github.com/ducminhle1904/strategy-sweep/pkg/types"
)

// CSVColumnMapping describes where each candle field lives in a CSV row.
type CSVColumnMapping struct {
	TimestampCol int
	OpenCol      int
	HighCol      int
	LowCol       int
	CloseCol     int
	VolumeCol    int
	MinColumns   int
	DateFormat   string
}

// DefaultCSVFormat matches the standard export layout:
// timestamp,open,high,low,close,volume with RFC3339 timestamps.
var DefaultCSVFormat = CSVColumnMapping{
	TimestampCol: 0,
	OpenCol:      1,
	HighCol:      2,
	LowCol:       3,
	CloseCol:     4,
	VolumeCol:    5,
	MinColumns:   6,
	DateFormat:   time.RFC3339,
}

// CSVProvider loads candles from per-symbol CSV files in a directory.
type CSVProvider struct {
	dir    string
	format CSVColumnMapping
	log    *logger.Logger
}

// NewCSVProvider creates a provider reading <dir>/<symbol>.csv files.
func NewCSVProvider(dir string, log *logger.Logger) *CSVProvider {
	return &CSVProvider{dir: dir, format: DefaultCSVFormat, log: log}
}

// NewCSVProviderWithFormat creates a provider with a custom column layout.
func NewCSVProviderWithFormat(dir string, format CSVColumnMapping, log *logger.Logger) *CSVProvider {
	return &CSVProvider{dir: dir, format: format, log: log}
}

func (p *CSVProvider) Name() string {
	return "csv"
}

// Load reads and validates the symbol's candle file. Malformed rows are
// logged and skipped; only file-level failures return an error.
func (p *CSVProvider) Load(symbol string) ([]types.Candle, error) {
	path := filepath.Join(p.dir, symbol+".csv")

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open candle file for %s: %w", symbol, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	// Header row.
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	var candles []types.Candle
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s line %d: %w", path, line+1, err)
		}
		line++

		candle, err := p.parseRow(symbol, record)
		if err != nil {
			if p.log != nil {
				p.log.Warn("skipping malformed candle row",
					logger.String("file", path),
					logger.Int("line", line),
					logger.Err(err),
				)
			}
			continue
		}

		if len(candles) > 0 && candle.Timestamp.Before(candles[len(candles)-1].Timestamp) {
			return nil, fmt.Errorf("%s line %d: timestamps out of order", path, line)
		}
		candles = append(candles, candle)
	}

	if p.log != nil {
		p.log.Info("candles loaded",
			logger.String("symbol", symbol),
			logger.Int("candles", len(candles)),
		)
	}
	return candles, nil
}

func (p *CSVProvider) parseRow(symbol string, record []string) (types.Candle, error) {
	f := p.format
	if len(record) < f.MinColumns {
		return types.Candle{}, fmt.Errorf("expected %d columns, got %d", f.MinColumns, len(record))
	}

	ts, err := time.Parse(f.DateFormat, record[f.TimestampCol])
	if err != nil {
		return types.Candle{}, fmt.Errorf("bad timestamp %q: %w", record[f.TimestampCol], err)
	}

	fields := [5]float64{}
	for i, col := range []int{f.OpenCol, f.HighCol, f.LowCol, f.CloseCol, f.VolumeCol} {
		v, err := strconv.ParseFloat(record[col], 64)
		if err != nil {
			return types.Candle{}, fmt.Errorf("bad value %q in column %d: %w", record[col], col, err)
		}
		fields[i] = v
	}

	candle := types.Candle{
		Symbol:    symbol,
		Open:      fields[0],
		High:      fields[1],
		Low:       fields[2],
		Close:     fields[3],
		Volume:    fields[4],
		Timestamp: ts,
	}

	if candle.Open <= 0 || candle.High <= 0 || candle.Low <= 0 || candle.Close <= 0 {
		return types.Candle{}, fmt.Errorf("non-positive price")
	}
	if candle.High < candle.Low || candle.High < candle.Open || candle.High < candle.Close {
		return types.Candle{}, fmt.Errorf("high below another price")
	}
	if candle.Low > candle.Open || candle.Low > candle.Close {
		return types.Candle{}, fmt.Errorf("low above another price")
	}

	return candle, nil
}
