package csvio

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"divergence-bot/internal/types"
)

var header = []string{"timestamp", "open", "high", "low", "close", "volume"}

// ReadCandles loads an OHLCV CSV and validates the series before any
// simulation can see it. Malformed input is the one fatal failure mode:
// it is reported once, at construction time.
func ReadCandles(path string) ([]types.Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("csv %s is empty", path)
	}

	start := 0
	if rows[0][0] == header[0] || rows[0][0] == "TimeStamp" {
		start = 1
	}

	candles := make([]types.Candle, 0, len(rows)-start)
	for n, row := range rows[start:] {
		if len(row) < 6 {
			return nil, fmt.Errorf("csv %s row %d: want 6 columns, got %d", path, n+start+1, len(row))
		}
		vals := make([]float64, 5)
		ts, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("csv %s row %d: bad timestamp %q", path, n+start+1, row[0])
		}
		for j := 1; j <= 5; j++ {
			v, err := strconv.ParseFloat(row[j], 64)
			if err != nil {
				return nil, fmt.Errorf("csv %s row %d col %d: %w", path, n+start+1, j, err)
			}
			vals[j-1] = v
		}
		candles = append(candles, types.NewCandle(ts, vals[0], vals[1], vals[2], vals[3], vals[4]))
	}

	if err := Validate(candles); err != nil {
		return nil, fmt.Errorf("csv %s: %w", path, err)
	}
	return candles, nil
}

// Validate checks series-level invariants: strictly increasing
// timestamps, OHLC ordering and non-negative volume.
func Validate(candles []types.Candle) error {
	for i, c := range candles {
		if i > 0 && c.Ts <= candles[i-1].Ts {
			return fmt.Errorf("row %d: non-monotonic timestamp %d after %d", i, c.Ts, candles[i-1].Ts)
		}
		if c.High < c.Open || c.High < c.Close || c.High < c.Low {
			return fmt.Errorf("row %d: high %.8f below open/close/low", i, c.High)
		}
		if c.Low > c.Open || c.Low > c.Close {
			return fmt.Errorf("row %d: low %.8f above open/close", i, c.Low)
		}
		if c.Vol < 0 {
			return fmt.Errorf("row %d: negative volume %.8f", i, c.Vol)
		}
	}
	return nil
}

// WriteCandles writes the raw OHLCV columns. It refuses to overwrite an
// existing file so a long fetch cannot clobber earlier data.
func WriteCandles(candles []types.Candle, path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("output file %s already exists", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	_ = w.Write(header)
	for _, c := range candles {
		_ = w.Write([]string{
			strconv.FormatInt(c.Ts, 10),
			formatF(c.Open), formatF(c.High), formatF(c.Low), formatF(c.Close), formatF(c.Vol),
		})
	}
	return w.Error()
}

func formatF(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
