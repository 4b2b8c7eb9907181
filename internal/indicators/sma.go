package indicators

// SMA calculates the simple moving average of the last period closes.
// With fewer than period points it fails soft and returns the average of
// whatever is available, so callers never need a length guard.
func SMA(closes []float64, period int) float64 {
	if len(closes) == 0 || period <= 0 {
		return 0
	}

	n := period
	if len(closes) < n {
		n = len(closes)
	}

	sum := 0.0
	for i := len(closes) - n; i < len(closes); i++ {
		sum += closes[i]
	}

	return sum / float64(n)
}
