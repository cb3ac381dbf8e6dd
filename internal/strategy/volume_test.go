package strategy

import (
	"testing"

	"divergence-bot/internal/types"
)

// volumeSeries builds a doji baseline (neither green nor red) and lets
// tests paint individual candles green or red with a volume.
func volumeSeries(n int) []types.Candle {
	candles := make([]types.Candle, n)
	for i := range candles {
		candles[i] = types.NewCandle(int64(i), 100, 101, 99, 100, 1000)
	}
	return candles
}

func paintRed(candles []types.Candle, i int, vol float64) {
	candles[i].Open = 101
	candles[i].Close = 99
	candles[i].Vol = vol
}

func paintGreen(candles []types.Candle, i int, vol float64) {
	candles[i].Open = 99
	candles[i].Close = 101
	candles[i].Vol = vol
}

func TestConfirmVolumeSpikeAboveThreshold(t *testing.T) {
	candles := volumeSeries(60)
	for i := 20; i < 25; i++ {
		paintRed(candles, i, 1000)
	}
	// Threshold = 1.5 * 1000; the green at 42 clears it.
	paintGreen(candles, 42, 1600)

	sig := types.Signal{PivotIndex: 40, Index: 43}
	if !ConfirmVolume(candles, sig, 50, 1.5) {
		t.Error("Expected confirmation for green volume above threshold")
	}
}

func TestConfirmVolumeRejectsBelowThreshold(t *testing.T) {
	candles := volumeSeries(60)
	for i := 20; i < 25; i++ {
		paintRed(candles, i, 1000)
	}
	paintGreen(candles, 42, 1400)

	sig := types.Signal{PivotIndex: 40, Index: 43}
	if ConfirmVolume(candles, sig, 50, 1.5) {
		t.Error("Expected rejection for green volume below threshold")
	}
}

func TestConfirmVolumeNeedsFiveRedCandles(t *testing.T) {
	candles := volumeSeries(60)
	for i := 20; i < 24; i++ { // only four reds
		paintRed(candles, i, 1000)
	}
	paintGreen(candles, 42, 5000)

	sig := types.Signal{PivotIndex: 40, Index: 43}
	if ConfirmVolume(candles, sig, 50, 1.5) {
		t.Error("Expected rejection with fewer than five red candles in the search window")
	}
}

func TestConfirmVolumeNeedsGreenCandle(t *testing.T) {
	candles := volumeSeries(60)
	for i := 20; i < 25; i++ {
		paintRed(candles, i, 1000)
	}
	sig := types.Signal{PivotIndex: 40, Index: 43}
	if ConfirmVolume(candles, sig, 50, 1.5) {
		t.Error("Expected rejection without a green candle between pivot and signal")
	}
}

func TestConfirmVolumeAveragesMostRecentReds(t *testing.T) {
	candles := volumeSeries(120)
	// Old heavy reds are pushed out of the last-five average by light
	// recent ones: threshold is 1.5 * 100, not 1.5 * 10000.
	for i := 10; i < 15; i++ {
		paintRed(candles, i, 10000)
	}
	for i := 60; i < 65; i++ {
		paintRed(candles, i, 100)
	}
	paintGreen(candles, 82, 200)

	sig := types.Signal{PivotIndex: 80, Index: 83}
	if !ConfirmVolume(candles, sig, 100, 1.5) {
		t.Error("Expected threshold based on the five most recent red candles")
	}
}

func TestConfirmVolumeWindowExcludesRedsBeforeSearchWindow(t *testing.T) {
	candles := volumeSeries(120)
	// All reds sit more than searchWindow candles before the pivot.
	for i := 10; i < 20; i++ {
		paintRed(candles, i, 1000)
	}
	paintGreen(candles, 102, 9000)

	sig := types.Signal{PivotIndex: 100, Index: 103}
	if ConfirmVolume(candles, sig, 50, 1.5) {
		t.Error("Expected rejection when reds fall outside the search window")
	}
}

func TestConfirmVolumeRejectsDegenerateBounds(t *testing.T) {
	candles := volumeSeries(10)
	if ConfirmVolume(candles, types.Signal{PivotIndex: 5, Index: 5}, 5, 1.5) {
		t.Error("Expected rejection when signal does not follow pivot")
	}
	if ConfirmVolume(candles, types.Signal{PivotIndex: 5, Index: 20}, 5, 1.5) {
		t.Error("Expected rejection when signal index is out of range")
	}
}
