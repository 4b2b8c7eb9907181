package data

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/strategy-sweep/pkg/logger"
	"github.com/ducminhle1904/strategy-sweep/pkg/types"
)

func writeCandleFile(t *testing.T, dir, symbol, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, symbol+".csv"), []byte(content), 0o644))
}

func TestCSVProvider_Load(t *testing.T) {
	dir := t.TempDir()
	writeCandleFile(t, dir, "INFY", `timestamp,open,high,low,close,volume
2024-06-03T09:15:00Z,100,101,99,100.5,1200
2024-06-03T09:20:00Z,100.5,102,100,101.5,900
`)

	p := NewCSVProvider(dir, logger.NewNop())
	candles, err := p.Load("INFY")

	require.NoError(t, err)
	require.Len(t, candles, 2)
	assert.Equal(t, "INFY", candles[0].Symbol)
	assert.InDelta(t, 100.5, candles[0].Close, 1e-9)
	assert.Equal(t, time.Date(2024, 6, 3, 9, 20, 0, 0, time.UTC), candles[1].Timestamp)
}

func TestCSVProvider_SkipsMalformedRows(t *testing.T) {
	dir := t.TempDir()
	writeCandleFile(t, dir, "INFY", `timestamp,open,high,low,close,volume
2024-06-03T09:15:00Z,100,101,99,100.5,1200
not-a-timestamp,100,101,99,100.5,1200
2024-06-03T09:20:00Z,100,abc,99,100.5,1200
2024-06-03T09:25:00Z,100,99,99,100.5,1200
2024-06-03T09:30:00Z,101,102,100,101.5,800
`)

	p := NewCSVProvider(dir, logger.NewNop())
	candles, err := p.Load("INFY")

	// Bad timestamp, bad number and high<close rows all drop; good rows stay.
	require.NoError(t, err)
	require.Len(t, candles, 2)
	assert.InDelta(t, 101.5, candles[1].Close, 1e-9)
}

func TestCSVProvider_RejectsOutOfOrderTimestamps(t *testing.T) {
	dir := t.TempDir()
	writeCandleFile(t, dir, "INFY", `timestamp,open,high,low,close,volume
2024-06-03T09:20:00Z,100,101,99,100.5,1200
2024-06-03T09:15:00Z,100,101,99,100.5,1200
`)

	p := NewCSVProvider(dir, logger.NewNop())
	_, err := p.Load("INFY")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of order")
}

func TestCSVProvider_MissingFile(t *testing.T) {
	p := NewCSVProvider(t.TempDir(), logger.NewNop())
	_, err := p.Load("NOPE")
	require.Error(t, err)
}

func dayCandles(date string, n int) []types.Candle {
	base, _ := time.Parse("2006-01-02", date)
	base = base.Add(9*time.Hour + 15*time.Minute)
	var out []types.Candle
	for i := 0; i < n; i++ {
		out = append(out, types.Candle{
			Symbol: "INFY",
			Open:   100, High: 101, Low: 99, Close: 100,
			Volume:    1000,
			Timestamp: base.Add(time.Duration(i) * 5 * time.Minute),
		})
	}
	return out
}

func TestGroupByDay(t *testing.T) {
	var candles []types.Candle
	candles = append(candles, dayCandles("2024-06-03", 3)...)
	candles = append(candles, dayCandles("2024-06-04", 2)...)
	candles = append(candles, dayCandles("2024-06-05", 4)...)

	days := GroupByDay(candles)

	require.Len(t, days, 3)
	assert.Equal(t, "2024-06-03", days[0].Date)
	assert.Len(t, days[0].Candles, 3)
	assert.Len(t, days[1].Candles, 2)
	assert.Equal(t, "INFY", days[2].Symbol)
	assert.Len(t, days[2].Candles, 4)
}

func TestFilterUsableDays(t *testing.T) {
	days := []types.TradingDay{
		{Date: "2024-06-03", Candles: dayCandles("2024-06-03", 75)},
		{Date: "2024-06-04", Candles: dayCandles("2024-06-04", 10)},
		{Date: "2024-06-05", Candles: dayCandles("2024-06-05", 70)},
	}

	usable, dropped := FilterUsableDays(days, 70)

	require.Len(t, usable, 2)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, "2024-06-05", usable[1].Date)

	all, dropped := FilterUsableDays(days, 0)
	assert.Len(t, all, 3)
	assert.Equal(t, 0, dropped)
}
