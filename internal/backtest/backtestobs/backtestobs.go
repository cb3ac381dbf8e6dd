package backtestobs

import (
	"context"
	"time"

	"divergence-bot/internal/interfaces"
	"divergence-bot/internal/logger"
	"divergence-bot/internal/trace"
	"divergence-bot/internal/types"
)

type observableRunner struct {
	runner interfaces.Runner
}

var _ interfaces.Runner = (*observableRunner)(nil)

func Wrap(r interfaces.Runner) interfaces.Runner {
	return &observableRunner{runner: r}
}

func (or *observableRunner) Run(ctx context.Context, candles []types.Candle) (*types.BacktestResult, error) {
	ctx, span := trace.StartSpan(ctx, "backtest.Run")
	defer span.End()

	start := time.Now()

	result, err := or.runner.Run(ctx, candles)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Backtest failed", err,
			"candles", len(candles),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Backtest completed",
		"job_id", result.JobID,
		"symbol", result.Symbol,
		"trades", len(result.Trades),
		"final_capital", result.FinalCapital,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result, nil
}
