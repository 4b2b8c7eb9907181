package backtest

import (
	"time"

	"github.com/ducminhle1904/strategy-sweep/pkg/types"
)

// ExitReason records which exit condition closed a trade.
type ExitReason string

const (
	ExitStop   ExitReason = "STOP"
	ExitTarget ExitReason = "TARGET"
	ExitTrail  ExitReason = "TRAIL"
	ExitTime   ExitReason = "TIME"
	ExitEOD    ExitReason = "EOD"
)

// ClosedTrade is one fully resolved trade. Entry and exit prices are
// post-slippage; the struct is immutable once the simulator returns it.
type ClosedTrade struct {
	Symbol     string
	Side       types.Side
	EntryPrice float64
	ExitPrice  float64
	Quantity   int
	ExitReason ExitReason
	GrossPnl   float64
	Costs      float64
	NetPnl     float64
	RMultiple  float64 // net P&L over capital risked between entry and stop
	EntryIndex int
	ExitIndex  int
	EntryTime  time.Time
	ExitTime   time.Time
}

// CostModel holds the transaction-cost constants applied to every trade.
type CostModel struct {
	SlippageRate float64 `json:"slippage_rate"` // adverse, applied at entry and exit
	Brokerage    float64 `json:"brokerage"`     // flat fee per side
	STTRate      float64 `json:"stt_rate"`      // levied on |gross P&L|
}

// DefaultCostModel mirrors the production intraday cost assumptions.
func DefaultCostModel() CostModel {
	return CostModel{
		SlippageRate: 0.0005,
		Brokerage:    20,
		STTRate:      0.001,
	}
}
