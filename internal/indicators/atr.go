package indicators

import (
	"math"

	"github.com/ducminhle1904/strategy-sweep/pkg/types"
)

// ATR calculates the average true range over the last period candles using a
// simple average rather than Wilder smoothing, which keeps sweep runs exactly
// reproducible. Fewer true ranges than period averages what exists; fewer
// than 2 candles returns 0.
func ATR(candles []types.Candle, period int) float64 {
	if len(candles) < 2 || period <= 0 {
		return 0
	}

	trueRanges := make([]float64, 0, len(candles)-1)
	for i := 1; i < len(candles); i++ {
		tr := TrueRange(candles[i], candles[i-1].Close)
		trueRanges = append(trueRanges, tr)
	}

	n := period
	if len(trueRanges) < n {
		n = len(trueRanges)
	}

	sum := 0.0
	for i := len(trueRanges) - n; i < len(trueRanges); i++ {
		sum += trueRanges[i]
	}

	return sum / float64(n)
}

// TrueRange is the greatest of high-low, |high-prevClose| and |low-prevClose|.
func TrueRange(c types.Candle, prevClose float64) float64 {
	tr := c.High - c.Low
	if hc := math.Abs(c.High - prevClose); hc > tr {
		tr = hc
	}
	if lc := math.Abs(c.Low - prevClose); lc > tr {
		tr = lc
	}
	return tr
}
