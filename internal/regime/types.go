package regime

// Type is a coarse market-state classification.
type Type int

const (
	Ranging Type = iota
	Transition
	Trending
)

func (t Type) String() string {
	switch t {
	case Ranging:
		return "RANGING"
	case Transition:
		return "TRANSITION"
	case Trending:
		return "TRENDING"
	default:
		return "UNKNOWN"
	}
}

// Permission is the fixed trading-permission record carried by a regime.
type Permission struct {
	AllowMeanReversion     bool
	MaxConcurrentTrades    int
	PositionSizeMultiplier float64
}

// Config holds the classifier parameters.
type Config struct {
	ShortEMAPeriod int     `json:"short_ema_period"`
	LongEMAPeriod  int     `json:"long_ema_period"`
	ATRPeriod      int     `json:"atr_period"`
	ATRMultiple    float64 `json:"atr_multiple"`   // k in |emaShort-emaLong| > k*ATR
	TransitionTSD  int     `json:"transition_tsd"` // A: tsd >= A leaves RANGING
	TrendingTSD    int     `json:"trending_tsd"`   // B: tsd >= B enters TRENDING
}

// DefaultConfig returns the default classifier parameters.
func DefaultConfig() Config {
	return Config{
		ShortEMAPeriod: 5,
		LongEMAPeriod:  20,
		ATRPeriod:      20,
		ATRMultiple:    0.7,
		TransitionTSD:  3,
		TrendingTSD:    7,
	}
}

// Permissions maps each regime to its trading permissions. Mean reversion is
// a ranging-market play: full size while RANGING, reduced while the market
// is transitioning, disabled outright once trending.
var permissions = map[Type]Permission{
	Ranging:    {AllowMeanReversion: true, MaxConcurrentTrades: 2, PositionSizeMultiplier: 1.0},
	Transition: {AllowMeanReversion: true, MaxConcurrentTrades: 1, PositionSizeMultiplier: 0.5},
	Trending:   {AllowMeanReversion: false, MaxConcurrentTrades: 1, PositionSizeMultiplier: 0.75},
}

// PermissionFor returns the permission record for a regime.
func PermissionFor(t Type) Permission {
	return permissions[t]
}
