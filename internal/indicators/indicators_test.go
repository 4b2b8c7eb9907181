package indicators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ducminhle1904/strategy-sweep/pkg/types"
)

func TestSMA_FullWindow(t *testing.T) {
	closes := []float64{10, 20, 30, 40, 50}

	sma := SMA(closes, 3)
	assert.InDelta(t, 40.0, sma, 1e-9)
}

// TestSMA_ShortSeries verifies the fail-soft path: fewer points than the
// period returns the average of the whole series.
func TestSMA_ShortSeries(t *testing.T) {
	closes := []float64{10, 20}

	sma := SMA(closes, 5)
	assert.InDelta(t, 15.0, sma, 1e-9)
}

func TestSMA_Empty(t *testing.T) {
	assert.Equal(t, 0.0, SMA(nil, 5))
	assert.Equal(t, 0.0, SMA([]float64{1, 2, 3}, 0))
}

func TestEMA_SeededWithSMA(t *testing.T) {
	closes := []float64{10, 10, 10, 20}

	// Seed = SMA(10,10,10) = 10, then one step with k = 2/4 = 0.5.
	ema := EMA(closes, 3)
	assert.InDelta(t, 15.0, ema, 1e-9)
}

func TestEMA_ShortSeriesReturnsLastPrice(t *testing.T) {
	closes := []float64{100, 105}

	ema := EMA(closes, 20)
	assert.Equal(t, 105.0, ema)
}

func TestEMA_ConstantSeries(t *testing.T) {
	closes := make([]float64, 50)
	for i := range closes {
		closes[i] = 42.0
	}

	assert.InDelta(t, 42.0, EMA(closes, 13), 1e-9)
}

func TestTrueRange_GapUp(t *testing.T) {
	c := types.Candle{High: 110, Low: 105, Close: 108}

	// Gap above prior close: |high-prevClose| dominates high-low.
	assert.InDelta(t, 10.0, TrueRange(c, 100), 1e-9)
}

func TestATR_SimpleAverage(t *testing.T) {
	candles := testCandles([][4]float64{
		{100, 102, 99, 101},
		{101, 103, 100, 102},
		{102, 105, 101, 104},
	})

	// TRs: max(3, |103-101|, |100-101|)=3, max(4, |105-102|, |101-102|)=4.
	atr := ATR(candles, 14)
	assert.InDelta(t, 3.5, atr, 1e-9)
}

func TestATR_InsufficientCandles(t *testing.T) {
	candles := testCandles([][4]float64{{100, 101, 99, 100}})

	assert.Equal(t, 0.0, ATR(candles, 14))
	assert.Equal(t, 0.0, ATR(nil, 14))
}

func TestATR_UsesLastPeriodOnly(t *testing.T) {
	// Two wide candles followed by ten narrow ones; period 2 should only see
	// the narrow tail.
	rows := [][4]float64{{100, 120, 80, 100}, {100, 130, 70, 100}}
	for i := 0; i < 10; i++ {
		rows = append(rows, [4]float64{100, 101, 99, 100})
	}

	atr := ATR(testCandles(rows), 2)
	assert.InDelta(t, 2.0, atr, 1e-9)
}

func testCandles(rows [][4]float64) []types.Candle {
	base := time.Date(2024, 1, 2, 9, 15, 0, 0, time.UTC)
	candles := make([]types.Candle, len(rows))
	for i, r := range rows {
		candles[i] = types.Candle{
			Open:      r[0],
			High:      r[1],
			Low:       r[2],
			Close:     r[3],
			Timestamp: base.Add(time.Duration(i) * 5 * time.Minute),
		}
	}
	return candles
}
