package interfaces

import (
	"context"
	"time"

	"divergence-bot/internal/types"
)

type CandleSource interface {
	FetchCandles(ctx context.Context, symbol, interval string, start, end time.Time) ([]types.Candle, error)
}
