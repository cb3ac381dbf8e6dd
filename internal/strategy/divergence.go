package strategy

import (
	"divergence-bot/internal/types"
)

// MatchDivergences walks the confirmed pivots in order and emits a
// candidate signal for every bullish divergence between the reference
// pivot and the current one.
//
// Pivots closer than minDistance to the reference collapse into it: the
// one with the deeper RSI low becomes the new reference and no
// divergence test runs for that pair. Once a pivot is far enough, the
// divergence holds when price makes a lower low while RSI makes a
// higher low; the signal lands wait candles after the newer pivot and
// is dropped if that position falls past the end of the data. The
// newer pivot then becomes the reference either way.
func MatchDivergences(candles []types.Candle, pivots []types.Pivot, minDistance, wait int) []types.Signal {
	var signals []types.Signal
	if len(pivots) < 2 {
		return signals
	}
	ref := pivots[0]
	for _, cur := range pivots[1:] {
		if cur.Index-ref.Index < minDistance {
			if cur.RSI < ref.RSI {
				ref = cur
			}
			continue
		}

		lowerLow := candles[cur.Index].Close < candles[ref.Index].Close
		higherRSI := cur.RSI > ref.RSI
		if lowerLow && higherRSI {
			signalIdx := cur.Index + wait
			if signalIdx < len(candles) {
				signals = append(signals, types.Signal{
					Index:      signalIdx,
					PivotIndex: cur.Index,
				})
			}
		}
		ref = cur
	}
	return signals
}
