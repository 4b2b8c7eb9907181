package strategy

import (
	"math"

	"github.com/ducminhle1904/strategy-sweep/internal/indicators"
	"github.com/ducminhle1904/strategy-sweep/internal/regime"
	"github.com/ducminhle1904/strategy-sweep/pkg/types"
)

// MeanReversionParams configures the mean-reversion generator. One instance
// per grid point; immutable.
type MeanReversionParams struct {
	SMAPeriod     int     `json:"sma_period"`
	ATRPeriod     int     `json:"atr_period"`
	ATRThreshold  float64 `json:"atr_threshold"`  // min |close-SMA|/ATR to fire
	WickThreshold float64 `json:"wick_threshold"` // min (range-body)/range of signal candle
	StopATR       float64 `json:"stop_atr"`       // stop distance beyond the signal extreme
}

// DefaultMeanReversionParams returns the baseline parameter set.
func DefaultMeanReversionParams() MeanReversionParams {
	return MeanReversionParams{
		SMAPeriod:     20,
		ATRPeriod:     14,
		ATRThreshold:  1.5,
		WickThreshold: 0.4,
		StopATR:       0.5,
	}
}

// MeanReversion fades stretched moves back toward the SMA. It only fires in
// regimes that permit mean reversion: a price far from its average in a
// trending market is momentum, not an anomaly.
type MeanReversion struct {
	params MeanReversionParams
}

// NewMeanReversion creates a mean-reversion generator.
func NewMeanReversion(params MeanReversionParams) *MeanReversion {
	return &MeanReversion{params: params}
}

func (m *MeanReversion) Name() string {
	return "mean_reversion"
}

func (m *MeanReversion) WarmupCandles() int {
	if m.params.SMAPeriod > m.params.ATRPeriod {
		return m.params.SMAPeriod + 1
	}
	return m.params.ATRPeriod + 1
}

// GenerateSignal fires when the last close is stretched at least
// ATRThreshold ATRs away from the SMA and the signal candle shows rejection
// (a dominant wick). Entry at the close, target back at the SMA, stop beyond
// the candle extreme by StopATR ATRs.
func (m *MeanReversion) GenerateSignal(window []types.Candle, perm regime.Permission) *TradeProposal {
	if !perm.AllowMeanReversion || len(window) < m.WarmupCandles() {
		return nil
	}

	closes := types.Closes(window)
	sma := indicators.SMA(closes, m.params.SMAPeriod)
	atr := indicators.ATR(window, m.params.ATRPeriod)

	last := window[len(window)-1]
	lastClose := last.Close

	deviationRatio := 0.0
	if atr > 0 {
		deviationRatio = math.Abs(lastClose-sma) / atr
	}

	wickRatio := 0.0
	if r := last.Range(); r > 0 {
		wickRatio = (r - last.Body()) / r
	}

	if deviationRatio < m.params.ATRThreshold || wickRatio < m.params.WickThreshold {
		return nil
	}

	if lastClose < sma {
		return &TradeProposal{
			Side:   types.Long,
			Entry:  lastClose,
			Stop:   last.Low - m.params.StopATR*atr,
			Target: sma,
		}
	}

	return &TradeProposal{
		Side:   types.Short,
		Entry:  lastClose,
		Stop:   last.High + m.params.StopATR*atr,
		Target: sma,
	}
}
