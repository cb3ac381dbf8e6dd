package strategy

import (
	"divergence-bot/internal/types"
)

// minRedCandles is the number of recent bearish bars the spike
// threshold averages over; fewer than this in the search window fails
// the confirmation outright.
const minRedCandles = 5

// ConfirmVolume applies the volume-spike rule to a candidate signal.
//
// It looks for at least one green candle in the confirmation window
// (pivot, signal] whose volume exceeds multiplier times the average
// volume of the last five red candles found in the searchWindow bars
// before the pivot.
func ConfirmVolume(candles []types.Candle, sig types.Signal, searchWindow int, multiplier float64) bool {
	pivotPos, signalPos := sig.PivotIndex, sig.Index
	if pivotPos < 0 || signalPos >= len(candles) || signalPos <= pivotPos {
		return false
	}

	var greens []types.Candle
	for i := pivotPos + 1; i <= signalPos; i++ {
		if candles[i].IsGreen() {
			greens = append(greens, candles[i])
		}
	}
	if len(greens) == 0 {
		return false
	}

	start := pivotPos - searchWindow
	if start < 0 {
		start = 0
	}
	var reds []types.Candle
	for i := start; i < pivotPos; i++ {
		if candles[i].IsRed() {
			reds = append(reds, candles[i])
		}
	}
	if len(reds) < minRedCandles {
		return false
	}

	// Average the five most recent red candles before the pivot.
	sum := 0.0
	for _, c := range reds[len(reds)-minRedCandles:] {
		sum += c.Vol
	}
	threshold := multiplier * sum / minRedCandles

	for _, g := range greens {
		if g.Vol > threshold {
			return true
		}
	}
	return false
}
