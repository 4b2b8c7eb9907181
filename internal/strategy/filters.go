package strategy

import (
	"math"

	"github.com/ducminhle1904/strategy-sweep/internal/indicators"
	"github.com/ducminhle1904/strategy-sweep/pkg/types"
)

const (
	slopeEMAPeriod  = 25
	slopeLookback   = 10
	volumeLookback  = 20
	qualityIdealMax = 0.5 // pullback depth above this starts scoring down
)

// TrendGate checks that the EMA slope over the last slopeLookback candles is
// at least minSlope (as a fraction of the past EMA). Weak-slope days produce
// more whipsaw entries than trends.
func TrendGate(closes []float64, minSlope float64) bool {
	if len(closes) < slopeEMAPeriod+slopeLookback {
		return false
	}

	currentEMA := indicators.EMA(closes, slopeEMAPeriod)
	pastEMA := indicators.EMA(closes[:len(closes)-slopeLookback], slopeEMAPeriod)
	if pastEMA == 0 {
		return false
	}

	slope := (currentEMA - pastEMA) / pastEMA
	return math.Abs(slope) >= minSlope
}

// TradeQualityScore grades a prospective entry in [0,1] from three signals:
// EMA separation (weight 0.4), pullback depth with an ideal 0.3-0.5 band
// (weight 0.4) and volume expansion on the signal candle (weight 0.2).
func TradeQualityScore(window []types.Candle, emaFast, emaSlow, swingLookback int) float64 {
	if len(window) < emaSlow+5 {
		return 0
	}

	closes := types.Closes(window)

	fast := indicators.EMA(closes, emaFast)
	slow := indicators.EMA(closes, emaSlow)
	trendStrength := 0.0
	if slow > 0 {
		separation := math.Abs(fast-slow) / slow
		trendStrength = math.Min(separation*100, 1.0)
	}

	swingHigh, swingLow := swingExtremes(window, swingLookback)
	current := closes[len(closes)-1]
	pullbackScore := 0.0
	if rangeVal := swingHigh - swingLow; rangeVal > 0 {
		fromHigh := (swingHigh - current) / rangeVal
		fromLow := (current - swingLow) / rangeVal
		depth := math.Max(fromHigh, fromLow)
		if depth <= qualityIdealMax {
			pullbackScore = depth * 2
		} else {
			pullbackScore = math.Max(0, 1-(depth-qualityIdealMax)*2)
		}
	}

	volumeScore := 0.5
	if len(window) >= volumeLookback {
		sum := 0.0
		recent := window[len(window)-volumeLookback : len(window)-1]
		for _, c := range recent {
			sum += c.Volume
		}
		avg := sum / float64(len(recent))
		if avg > 0 {
			ratio := window[len(window)-1].Volume / avg
			volumeScore = math.Min(ratio/2, 1.0)
		}
	}

	return trendStrength*0.4 + pullbackScore*0.4 + volumeScore*0.2
}

// IsLowVolatilityDay reports whether the opening candles span less than
// minRangeATR of the day's ATR. Sessions that open dead tend to stay dead,
// so the engine skips them entirely.
func IsLowVolatilityDay(firstHour []types.Candle, atr, minRangeATR float64) bool {
	if len(firstHour) == 0 || atr <= 0 {
		return false
	}

	high := firstHour[0].High
	low := firstHour[0].Low
	for _, c := range firstHour[1:] {
		if c.High > high {
			high = c.High
		}
		if c.Low < low {
			low = c.Low
		}
	}

	return high-low < atr*minRangeATR
}
