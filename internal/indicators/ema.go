package indicators

// EMA calculates the exponential moving average over the full close series.
// The first period closes seed the average with their SMA, then the standard
// recurrence ema = (price-ema)*k + ema with k = 2/(period+1) folds in the
// rest. A series shorter than period returns the last close.
func EMA(closes []float64, period int) float64 {
	if len(closes) == 0 || period <= 0 {
		return 0
	}
	if len(closes) < period {
		return closes[len(closes)-1]
	}

	k := 2.0 / float64(period+1)

	ema := 0.0
	for i := 0; i < period; i++ {
		ema += closes[i]
	}
	ema /= float64(period)

	for _, price := range closes[period:] {
		ema = (price-ema)*k + ema
	}

	return ema
}
