package validation

import "github.com/ducminhle1904/strategy-sweep/pkg/types"

// SplitDays divides a chronological day series into in-sample and
// out-of-sample slices. ratio is the in-sample fraction; a ratio at or
// outside (0,1), or a split that would leave either side empty, returns all
// days in-sample.
func SplitDays(days []types.TradingDay, ratio float64) (inSample, outOfSample []types.TradingDay) {
	if ratio <= 0 || ratio >= 1 {
		return days, nil
	}

	n := int(float64(len(days)) * ratio)
	if n < 1 || n >= len(days) {
		return days, nil
	}

	return days[:n], days[n:]
}
