package strategy

import (
	"math"

	"divergence-bot/internal/types"
)

// RiskReward computes the theoretical fee-adjusted reward:risk ratio
// for an entry at the signal candle's close, a stop at low-ATR and a
// first target at the Bollinger mid band.
//
// Returns ok=false when either side of the ratio is non-positive or an
// indicator is still warming up. The ratio is informational; the
// simulator only gates on it when configured to.
func RiskReward(c types.Candle, feeRate float64) (ratio float64, ok bool) {
	if math.IsNaN(c.ATR) || math.IsNaN(c.BBMid) {
		return 0, false
	}
	entryCost := c.Close * (1 + feeRate)
	slProceeds := (c.Low - c.ATR) * (1 - feeRate)
	risk := entryCost - slProceeds
	if !(risk > 0) {
		return 0, false
	}
	tp1Proceeds := c.BBMid * (1 - feeRate)
	reward := tp1Proceeds - entryCost
	if !(reward > 0) {
		return 0, false
	}
	return reward / risk, true
}
