package types

import "math"

// Candle is one OHLCV bar plus the indicator values derived from the
// trailing window ending at this bar. Indicator fields are NaN until
// enough history exists (warm-up).
type Candle struct {
	Ts                          int64
	Open, High, Low, Close, Vol float64

	RSI     float64
	ATR     float64
	BBMid   float64
	BBUpper float64
	BBLower float64
}

// NewCandle returns a bar with all indicator fields unset (NaN).
func NewCandle(ts int64, o, h, l, c, v float64) Candle {
	nan := math.NaN()
	return Candle{
		Ts: ts, Open: o, High: h, Low: l, Close: c, Vol: v,
		RSI: nan, ATR: nan, BBMid: nan, BBUpper: nan, BBLower: nan,
	}
}

// IsGreen reports a bullish bar (close above open).
func (c Candle) IsGreen() bool { return c.Close > c.Open }

// IsRed reports a bearish bar (close below open).
func (c Candle) IsRed() bool { return c.Close < c.Open }

// Pivot is a confirmed local RSI minimum.
type Pivot struct {
	Index int
	RSI   float64
}

// Signal is a candidate bullish-divergence entry emitted a fixed number
// of candles after its generating pivot. VolumeConfirmed and RiskReward
// are filled by the downstream filters; a signal without volume
// confirmation is never actionable.
type Signal struct {
	Index           int
	PivotIndex      int
	VolumeConfirmed bool
	RiskReward      float64
	HasRiskReward   bool
}

// ExitReason says why a trade was closed.
type ExitReason string

const (
	ExitStopLoss          ExitReason = "STOP_LOSS"
	ExitStopLossBreakeven ExitReason = "STOP_LOSS_BREAKEVEN"
	ExitTakeProfit2       ExitReason = "TAKE_PROFIT_2"
	ExitTimeStop          ExitReason = "TIME_STOP"
	ExitForcedEndOfData   ExitReason = "FORCED_END_OF_DATA"
)

// ClosedTrade is one completed round trip.
type ClosedTrade struct {
	EntryIndex int        `json:"entry_index"`
	ExitIndex  int        `json:"exit_index"`
	EntryPrice float64    `json:"entry_price"`
	ExitPrice  float64    `json:"exit_price"`
	Reason     ExitReason `json:"reason"`
	Pnl        float64    `json:"pnl"`
}

// BacktestResult is what one simulation run produces.
type BacktestResult struct {
	JobID          string        `json:"job_id"`
	Symbol         string        `json:"symbol"`
	InitialCapital float64       `json:"initial_capital"`
	FinalCapital   float64       `json:"final_capital"`
	Candles        int           `json:"candles"`
	Pivots         int           `json:"pivots"`
	Signals        int           `json:"signals"`
	Confirmed      int           `json:"confirmed_signals"`
	Trades         []ClosedTrade `json:"trades"`
}
