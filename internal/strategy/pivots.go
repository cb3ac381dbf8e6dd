package strategy

import (
	"math"

	"divergence-bot/internal/types"
)

// DetectPivots scans the RSI series for confirmed local minima.
//
// Index p is a pivot when its RSI equals the minimum of the trailing
// lookback window ending at p (a flat minimum therefore fires at its
// first in-window occurrence) and the RSI strictly rises on each of the
// next wait candles. Any NaN in the window or the confirmation run
// disqualifies the candidate. Output indices are strictly increasing.
func DetectPivots(candles []types.Candle, lookback, wait int) []types.Pivot {
	var pivots []types.Pivot
	if lookback <= 0 || wait < 0 {
		return pivots
	}
	for p := lookback - 1; p < len(candles); p++ {
		rsi := candles[p].RSI
		if math.IsNaN(rsi) {
			continue
		}
		if p+wait >= len(candles) {
			break
		}
		if !isWindowMin(candles, p, lookback, rsi) {
			continue
		}
		confirmed := true
		for k := 1; k <= wait; k++ {
			next := candles[p+k].RSI
			// NaN comparisons are false, which correctly rejects.
			if !(rsi < next) {
				confirmed = false
				break
			}
		}
		if confirmed {
			pivots = append(pivots, types.Pivot{Index: p, RSI: rsi})
		}
	}
	return pivots
}

// isWindowMin checks rsi against the rolling minimum of the lookback
// window [p-lookback+1, p]. A NaN anywhere in the window invalidates
// the rolling minimum, matching how the upstream data pipeline treats
// incomplete windows.
func isWindowMin(candles []types.Candle, p, lookback int, rsi float64) bool {
	min := math.Inf(1)
	for j := p - lookback + 1; j <= p; j++ {
		v := candles[j].RSI
		if math.IsNaN(v) {
			return false
		}
		if v < min {
			min = v
		}
	}
	return rsi == min
}
