package strategy

import (
	"divergence-bot/internal/types"
)

// Params configures the signal-detection pipeline.
type Params struct {
	PivotLookback      int
	ConfirmationWait   int
	MinPivotDistance   int
	VolumeSearchWindow int
	VolumeMultiplier   float64
	FeeRate            float64
}

// Scan runs the full detection pipeline over an indicator-annotated
// candle series: confirmed RSI pivots, divergence matching, then the
// volume and reward:risk annotations on each emitted signal.
func Scan(candles []types.Candle, p Params) ([]types.Pivot, []types.Signal) {
	pivots := DetectPivots(candles, p.PivotLookback, p.ConfirmationWait)
	signals := MatchDivergences(candles, pivots, p.MinPivotDistance, p.ConfirmationWait)
	for i := range signals {
		signals[i].VolumeConfirmed = ConfirmVolume(candles, signals[i], p.VolumeSearchWindow, p.VolumeMultiplier)
		rr, ok := RiskReward(candles[signals[i].Index], p.FeeRate)
		signals[i].RiskReward = rr
		signals[i].HasRiskReward = ok
	}
	return pivots, signals
}
