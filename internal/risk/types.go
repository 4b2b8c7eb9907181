package risk

// State is the risk engine's trading-permission state.
type State int

const (
	StateActive State = iota
	StateDailyHalted
	StateKillSwitched
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "ACTIVE"
	case StateDailyHalted:
		return "DAILY_HALTED"
	case StateKillSwitched:
		return "KILL_SWITCHED"
	default:
		return "UNKNOWN"
	}
}

// Config holds the risk-control parameters for one backtest run.
type Config struct {
	InitialCapital  float64 `json:"initial_capital"`
	RiskPerTrade    float64 `json:"risk_per_trade"`     // fraction of equity risked per trade
	MaxPositionPct  float64 `json:"max_position_pct"`   // notional cap as fraction of equity
	MaxTradesPerDay int     `json:"max_trades_per_day"`
	DailyLossLimit  float64 `json:"daily_loss_limit"` // fraction of equity
	KillSwitchDD    float64 `json:"kill_switch_dd"`   // rolling drawdown threshold
	KillSwitchDays  int     `json:"kill_switch_days"` // halt duration in trading days
}

// DefaultConfig mirrors the production risk profile: 0.3% risk per trade, two
// trades a day, 1% daily loss limit and a 5%/5-day kill switch.
func DefaultConfig() Config {
	return Config{
		InitialCapital:  500000,
		RiskPerTrade:    0.003,
		MaxPositionPct:  0.2,
		MaxTradesPerDay: 2,
		DailyLossLimit:  0.01,
		KillSwitchDD:    0.05,
		KillSwitchDays:  5,
	}
}

// Snapshot is a read-only view of the engine state, used by run diagnostics
// and reports.
type Snapshot struct {
	State           State
	CurrentEquity   float64
	PeakEquity      float64
	RollingDrawdown float64
	DailyPnl        float64
	DailyTradeCount int
	HaltUntilDay    int // -1 when no halt is pending
	LastResetDay    int
}
