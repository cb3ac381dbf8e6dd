package exchangeobs

import (
	"context"
	"time"

	"divergence-bot/internal/interfaces"
	"divergence-bot/internal/logger"
	"divergence-bot/internal/trace"
	"divergence-bot/internal/types"
)

type observableSource struct {
	source interfaces.CandleSource
}

var _ interfaces.CandleSource = (*observableSource)(nil)

func Wrap(src interfaces.CandleSource) interfaces.CandleSource {
	return &observableSource{source: src}
}

func (os *observableSource) FetchCandles(ctx context.Context, symbol, interval string, start, end time.Time) ([]types.Candle, error) {
	ctx, span := trace.StartSpan(ctx, "exchange.FetchCandles")
	defer span.End()

	t0 := time.Now()

	candles, err := os.source.FetchCandles(ctx, symbol, interval, start, end)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Candle fetch failed", err,
			"symbol", symbol,
			"interval", interval,
			"duration_ms", time.Since(t0).Milliseconds(),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Candles fetched",
		"symbol", symbol,
		"interval", interval,
		"count", len(candles),
		"duration_ms", time.Since(t0).Milliseconds(),
	)
	return candles, nil
}
