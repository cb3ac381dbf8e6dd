package ta

import (
	"math"

	"divergence-bot/internal/types"
)

// Config holds the indicator periods used to annotate a candle series.
type Config struct {
	RSIPeriod int
	BBWindow  int
	BBStdDev  float64
	ATRPeriod int
}

// RSI returns the Wilder-smoothed RSI series. Values before index
// `period` are NaN (warm-up). Smoothing uses an EMA with alpha=1/period
// over the clipped gain/loss deltas.
func RSI(closes []float64, period int) []float64 {
	out := nanSlice(len(closes))
	if period <= 0 || len(closes) < period+1 {
		return out
	}
	alpha := 1.0 / float64(period)
	var avgGain, avgLoss float64
	for i := 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if d > 0 {
			gain = d
		} else {
			loss = -d
		}
		if i == 1 {
			avgGain, avgLoss = gain, loss
		} else {
			avgGain = avgGain*(1-alpha) + gain*alpha
			avgLoss = avgLoss*(1-alpha) + loss*alpha
		}
		if i < period {
			continue
		}
		if avgLoss == 0 {
			out[i] = 100.0
			continue
		}
		rs := avgGain / avgLoss
		out[i] = 100.0 - 100.0/(1.0+rs)
	}
	return out
}

// SMA returns the rolling mean over n values; NaN before index n-1.
func SMA(vals []float64, n int) []float64 {
	out := nanSlice(len(vals))
	if n <= 0 || len(vals) < n {
		return out
	}
	sum := 0.0
	for i, v := range vals {
		sum += v
		if i >= n {
			sum -= vals[i-n]
		}
		if i >= n-1 {
			out[i] = sum / float64(n)
		}
	}
	return out
}

// StdDev returns the rolling sample standard deviation over n values
// (n-1 divisor); NaN before index n-1.
func StdDev(vals []float64, n int) []float64 {
	out := nanSlice(len(vals))
	if n <= 1 || len(vals) < n {
		return out
	}
	for i := n - 1; i < len(vals); i++ {
		m := 0.0
		for j := i - n + 1; j <= i; j++ {
			m += vals[j]
		}
		m /= float64(n)
		s := 0.0
		for j := i - n + 1; j <= i; j++ {
			d := vals[j] - m
			s += d * d
		}
		out[i] = math.Sqrt(s / float64(n-1))
	}
	return out
}

// Bollinger returns the middle, upper and lower band series for the
// given window and deviation multiplier.
func Bollinger(closes []float64, n int, k float64) (mid, up, low []float64) {
	mid = SMA(closes, n)
	sd := StdDev(closes, n)
	up = nanSlice(len(closes))
	low = nanSlice(len(closes))
	for i := range closes {
		if math.IsNaN(mid[i]) || math.IsNaN(sd[i]) {
			continue
		}
		up[i] = mid[i] + k*sd[i]
		low[i] = mid[i] - k*sd[i]
	}
	return mid, up, low
}

// ATR returns the average-true-range series smoothed with an EMA of
// alpha=1/period. The first bar's true range is high-low (no previous
// close), so the series is defined from index 0.
func ATR(highs, lows, closes []float64, period int) []float64 {
	out := nanSlice(len(closes))
	if period <= 0 || len(closes) == 0 ||
		len(highs) != len(closes) || len(lows) != len(closes) {
		return out
	}
	alpha := 1.0 / float64(period)
	var atr float64
	for i := range closes {
		tr := highs[i] - lows[i]
		if i > 0 {
			tr = math.Max(tr, math.Abs(highs[i]-closes[i-1]))
			tr = math.Max(tr, math.Abs(lows[i]-closes[i-1]))
		}
		if i == 0 {
			atr = tr
		} else {
			atr = atr*(1-alpha) + tr*alpha
		}
		out[i] = atr
	}
	return out
}

// Enrich computes all configured indicators over the series and fills
// the derived fields of each candle in place.
func Enrich(candles []types.Candle, cfg Config) {
	closes := make([]float64, len(candles))
	highs := make([]float64, len(candles))
	lows := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
		highs[i] = c.High
		lows[i] = c.Low
	}

	rsi := RSI(closes, cfg.RSIPeriod)
	mid, up, low := Bollinger(closes, cfg.BBWindow, cfg.BBStdDev)
	atr := ATR(highs, lows, closes, cfg.ATRPeriod)

	for i := range candles {
		candles[i].RSI = rsi[i]
		candles[i].ATR = atr[i]
		candles[i].BBMid = mid[i]
		candles[i].BBUpper = up[i]
		candles[i].BBLower = low[i]
	}
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
