package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"divergence-bot/internal/types"
)

// FetchCandles loads klines over [start,end] by paging forward with a
// startTime cursor, one page per request, until the window is covered.
// Rows outside the window are filtered; results come back in
// chronological order.
func (c *Client) FetchCandles(ctx context.Context, symbol, interval string, start, end time.Time) ([]types.Candle, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if !end.After(start) {
		return nil, fmt.Errorf("end must be after start")
	}
	step, err := intervalDuration(interval)
	if err != nil {
		return nil, err
	}

	cursor := start
	var out []types.Candle
	for cursor.Before(end) {
		raw, err := c.fetchPage(ctx, symbol, interval, cursor)
		if err != nil {
			return nil, err
		}

		added, lastTS := 0, int64(0)
		for _, r := range raw {
			cdl, ok := klineRowToCandle(r)
			if !ok {
				continue
			}
			t := time.UnixMilli(cdl.Ts)
			if t.Before(start) || t.After(end) {
				continue
			}
			out = append(out, cdl)
			added++
			lastTS = cdl.Ts
		}

		if added == 0 {
			// Empty page: bump by a full page to avoid spinning.
			cursor = cursor.Add(step * time.Duration(c.pageLimit))
			if len(raw) == 0 {
				break
			}
			continue
		}
		next := time.UnixMilli(lastTS).Add(step)
		if !next.After(cursor) {
			next = cursor.Add(step * time.Duration(c.pageLimit))
		}
		cursor = next
	}
	return out, nil
}

func (c *Client) fetchPage(ctx context.Context, symbol, interval string, cursor time.Time) ([][]any, error) {
	u, err := url.Parse(c.baseURL + "/klines")
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("startTime", strconv.FormatInt(cursor.UnixMilli(), 10))
	q.Set("limit", strconv.Itoa(c.pageLimit))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("klines request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("klines status %d: %s", resp.StatusCode, string(b))
	}

	var raw [][]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode klines: %w", err)
	}
	return raw, nil
}

func klineRowToCandle(r []any) (types.Candle, bool) {
	if len(r) < 6 {
		return types.Candle{}, false
	}
	ts, e1 := anyToInt64(r[0])
	o, e2 := anyToFloat(r[1])
	h, e3 := anyToFloat(r[2])
	l, e4 := anyToFloat(r[3])
	cl, e5 := anyToFloat(r[4])
	v, e6 := anyToFloat(r[5])
	if e1 != nil || e2 != nil || e3 != nil || e4 != nil || e5 != nil || e6 != nil {
		return types.Candle{}, false
	}
	return types.NewCandle(ts, o, h, l, cl, v), true
}

func anyToInt64(v any) (int64, error) {
	switch x := v.(type) {
	case float64:
		return int64(x), nil
	case string:
		return strconv.ParseInt(x, 10, 64)
	case json.Number:
		return x.Int64()
	default:
		return 0, fmt.Errorf("unexpected kline field type %T", v)
	}
}

func anyToFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case string:
		return strconv.ParseFloat(x, 64)
	case json.Number:
		return x.Float64()
	default:
		return 0, fmt.Errorf("unexpected kline field type %T", v)
	}
}

func intervalDuration(interval string) (time.Duration, error) {
	switch interval {
	case "1m":
		return time.Minute, nil
	case "5m":
		return 5 * time.Minute, nil
	case "15m":
		return 15 * time.Minute, nil
	case "1h":
		return time.Hour, nil
	case "4h":
		return 4 * time.Hour, nil
	case "1d":
		return 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unsupported interval %q", interval)
	}
}
