package backtest

import (
	"math"

	"github.com/ducminhle1904/strategy-sweep/internal/strategy"
	"github.com/ducminhle1904/strategy-sweep/pkg/types"
)

// SimOptions controls how a proposal is resolved into a closed trade.
type SimOptions struct {
	Costs CostModel

	// TrailDistance is the absolute trailing-stop distance; 0 disables
	// trailing. The stop ratchets to extreme-TrailDistance (long) or
	// extreme+TrailDistance (short) and only ever moves favorably.
	TrailDistance float64

	// MaxHoldingCandles closes the trade at the close of the Nth candle
	// after entry; 0 disables the time exit.
	MaxHoldingCandles int

	// TargetFirst flips the intra-candle tie-break to check the target
	// before the stop. The default (stop first) is the conservative policy:
	// when one candle touches both levels, assume the worst path.
	TargetFirst bool
}

// Simulate resolves a trade proposal forward through the candles after its
// generation index and returns exactly one closed trade. It is a pure
// function of its inputs: no shared state, safe to call from parallel sweep
// workers.
func Simulate(candles []types.Candle, proposal *strategy.TradeProposal, qty int, opts SimOptions) ClosedTrade {
	long := proposal.Side == types.Long

	entryPrice := applySlippage(proposal.Entry, opts.Costs.SlippageRate, long)

	trade := ClosedTrade{
		Side:       proposal.Side,
		EntryPrice: entryPrice,
		Quantity:   qty,
		EntryIndex: proposal.GeneratedAt,
	}
	if proposal.GeneratedAt < len(candles) {
		trade.EntryTime = candles[proposal.GeneratedAt].Timestamp
	}

	stopLevel := proposal.Stop
	trailed := false

	exitIndex := len(candles) - 1
	rawExit := 0.0
	if exitIndex >= 0 {
		rawExit = candles[exitIndex].Close
	}
	reason := ExitEOD

	for i := proposal.GeneratedAt + 1; i < len(candles); i++ {
		c := candles[i]

		price, hit := checkExit(c, long, stopLevel, proposal.Target, opts.TargetFirst)
		if hit != "" {
			exitIndex = i
			rawExit = price
			reason = hit
			if hit == ExitStop && trailed {
				reason = ExitTrail
			}
			break
		}

		// Trailing: ratchet the stop off this candle's extreme, then test the
		// same candle against the new level.
		if opts.TrailDistance > 0 {
			moved := false
			if long {
				if candidate := c.High - opts.TrailDistance; candidate > stopLevel {
					stopLevel = candidate
					trailed = true
					moved = true
				}
			} else {
				if candidate := c.Low + opts.TrailDistance; candidate < stopLevel {
					stopLevel = candidate
					trailed = true
					moved = true
				}
			}
			if moved && ((long && c.Low <= stopLevel) || (!long && c.High >= stopLevel)) {
				exitIndex = i
				rawExit = stopLevel
				reason = ExitTrail
				break
			}
		}

		if opts.MaxHoldingCandles > 0 && i-proposal.GeneratedAt >= opts.MaxHoldingCandles {
			exitIndex = i
			rawExit = c.Close
			reason = ExitTime
			break
		}
	}

	trade.ExitIndex = exitIndex
	if exitIndex >= 0 && exitIndex < len(candles) {
		trade.ExitTime = candles[exitIndex].Timestamp
	}
	trade.ExitPrice = applySlippage(rawExit, opts.Costs.SlippageRate, !long)
	trade.ExitReason = reason

	gross := (trade.ExitPrice - trade.EntryPrice) * float64(qty)
	if !long {
		gross = -gross
	}
	trade.GrossPnl = gross
	trade.Costs = 2*opts.Costs.Brokerage + math.Abs(gross)*opts.Costs.STTRate
	trade.NetPnl = gross - trade.Costs

	if riskAmount := math.Abs(entryPrice-proposal.Stop) * float64(qty); riskAmount > 0 {
		trade.RMultiple = trade.NetPnl / riskAmount
	}

	return trade
}

// checkExit tests one candle against the protective stop and the fixed
// target, honoring the configured tie-break order. A gap through either
// level fills at the open, never at a price the candle did not trade.
func checkExit(c types.Candle, long bool, stop, target float64, targetFirst bool) (float64, ExitReason) {
	stopHit := func() (float64, bool) {
		if long {
			if c.Low <= stop {
				return math.Min(stop, c.Open), true
			}
		} else {
			if c.High >= stop {
				return math.Max(stop, c.Open), true
			}
		}
		return 0, false
	}

	targetHit := func() (float64, bool) {
		if target <= 0 {
			return 0, false
		}
		if long {
			if c.High >= target {
				return math.Max(target, c.Open), true
			}
		} else {
			if c.Low <= target {
				return math.Min(target, c.Open), true
			}
		}
		return 0, false
	}

	if targetFirst {
		if price, ok := targetHit(); ok {
			return price, ExitTarget
		}
		if price, ok := stopHit(); ok {
			return price, ExitStop
		}
	} else {
		if price, ok := stopHit(); ok {
			return price, ExitStop
		}
		if price, ok := targetHit(); ok {
			return price, ExitTarget
		}
	}

	return 0, ""
}

// applySlippage shifts a fill price against the trade: buys pay up, sells
// receive less.
func applySlippage(price, rate float64, buying bool) float64 {
	if buying {
		return price * (1 + rate)
	}
	return price * (1 - rate)
}
