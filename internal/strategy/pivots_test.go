package strategy

import (
	"math"
	"testing"

	"divergence-bot/internal/types"
)

// candlesWithRSI builds a flat price series and overlays the given RSI
// values so pivot detection can be exercised in isolation.
func candlesWithRSI(rsi []float64) []types.Candle {
	candles := make([]types.Candle, len(rsi))
	for i := range candles {
		candles[i] = types.NewCandle(int64(i), 100, 101, 99, 100, 1000)
		candles[i].RSI = rsi[i]
	}
	return candles
}

func TestDetectPivotsConfirmedMinimum(t *testing.T) {
	rsi := []float64{50, 45, 40, 30, 35, 40, 45, 50}
	pivots := DetectPivots(candlesWithRSI(rsi), 3, 2)

	if len(pivots) != 1 {
		t.Fatalf("Expected 1 pivot, got %d: %+v", len(pivots), pivots)
	}
	if pivots[0].Index != 3 || pivots[0].RSI != 30 {
		t.Errorf("Expected pivot at index 3 with RSI 30, got %+v", pivots[0])
	}
}

func TestDetectPivotsRejectsNonStrictRise(t *testing.T) {
	// RSI stalls on the first confirmation candle.
	rsi := []float64{50, 45, 30, 30, 40, 45}
	pivots := DetectPivots(candlesWithRSI(rsi), 3, 2)
	for _, p := range pivots {
		if p.Index == 2 {
			t.Errorf("Pivot at index 2 should be rejected, confirmation is not strictly rising")
		}
	}
}

func TestDetectPivotsFlatMinimumFiresAtLaterOccurrence(t *testing.T) {
	// Index 1 and 2 share the window minimum. Index 1 fails because the
	// next candle does not strictly rise; index 2 confirms.
	rsi := []float64{50, 30, 30, 35, 40}
	pivots := DetectPivots(candlesWithRSI(rsi), 2, 1)

	if len(pivots) != 1 {
		t.Fatalf("Expected 1 pivot, got %d: %+v", len(pivots), pivots)
	}
	if pivots[0].Index != 2 {
		t.Errorf("Expected pivot at index 2, got %d", pivots[0].Index)
	}
}

func TestDetectPivotsNaNDisqualifies(t *testing.T) {
	nan := math.NaN()
	rsi := []float64{nan, nan, 30, 35, 40, 45}
	pivots := DetectPivots(candlesWithRSI(rsi), 3, 2)
	if len(pivots) != 0 {
		t.Errorf("Expected no pivots with NaN in the lookback window, got %+v", pivots)
	}
}

func TestDetectPivotsIndicesStrictlyIncreasing(t *testing.T) {
	rsi := []float64{
		50, 45, 40, 30, 35, 40, 45, 50, 48, 46,
		44, 42, 28, 32, 36, 40, 44, 48, 50, 50,
	}
	pivots := DetectPivots(candlesWithRSI(rsi), 3, 2)

	if len(pivots) < 2 {
		t.Fatalf("Expected at least 2 pivots, got %d", len(pivots))
	}
	for i := 1; i < len(pivots); i++ {
		if pivots[i].Index <= pivots[i-1].Index {
			t.Errorf("Pivot indices not strictly increasing: %+v", pivots)
		}
	}
}

func TestDetectPivotsNoConfirmationRoomAtEnd(t *testing.T) {
	// The minimum sits too close to the end for wait candles to confirm.
	rsi := []float64{50, 45, 40, 30, 35}
	pivots := DetectPivots(candlesWithRSI(rsi), 3, 2)
	if len(pivots) != 0 {
		t.Errorf("Expected no pivots without room to confirm, got %+v", pivots)
	}
}
