package interfaces

import (
	"context"

	"divergence-bot/internal/types"
)

type Runner interface {
	Run(ctx context.Context, candles []types.Candle) (*types.BacktestResult, error)
}
