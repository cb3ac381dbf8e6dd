package backtest

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"divergence-bot/internal/interfaces"
	"divergence-bot/internal/logger"
	"divergence-bot/internal/sim"
	"divergence-bot/internal/store"
	"divergence-bot/internal/strategy"
	"divergence-bot/internal/ta"
	"divergence-bot/internal/types"
)

// Runner wires the full pipeline for one symbol: indicator enrichment,
// signal detection and the candle-by-candle simulation.
type runner struct {
	cfg *store.Config
}

func New(cfg *store.Config) interfaces.Runner {
	return &runner{cfg: cfg}
}

func (r *runner) Run(ctx context.Context, candles []types.Candle) (*types.BacktestResult, error) {
	if len(candles) == 0 {
		return nil, fmt.Errorf("no candles to backtest")
	}

	jobID := uuid.NewString()
	logger.Info(ctx, "Backtest starting", "job_id", jobID, "symbol", r.cfg.Symbol, "candles", len(candles))

	ta.Enrich(candles, ta.Config{
		RSIPeriod: r.cfg.Indicators.RSIPeriod,
		BBWindow:  r.cfg.Indicators.BBWindow,
		BBStdDev:  r.cfg.Indicators.BBStdDev,
		ATRPeriod: r.cfg.Indicators.ATRPeriod,
	})

	pivots, signals := strategy.Scan(candles, strategy.Params{
		PivotLookback:      r.cfg.Strategy.PivotLookbackWindow,
		ConfirmationWait:   r.cfg.Strategy.ConfirmationWaitCandles,
		MinPivotDistance:   r.cfg.Strategy.MinDistanceBetweenPivots,
		VolumeSearchWindow: r.cfg.Strategy.VolumeSearchWindow,
		VolumeMultiplier:   r.cfg.Strategy.VolumeThresholdMultiplier,
		FeeRate:            r.cfg.Account.FeeRate,
	})

	confirmed := 0
	for _, sig := range signals {
		if sig.VolumeConfirmed {
			confirmed++
			logger.Signal(ctx, sig.Index, sig.PivotIndex, true, "risk_reward", sig.RiskReward)
		}
	}
	logger.Info(ctx, "Signal scan complete", "pivots", len(pivots), "signals", len(signals), "confirmed", confirmed)

	simulator := sim.New(sim.Config{
		InitialCapital:       r.cfg.Account.InitialCapital,
		FeeRate:              r.cfg.Account.FeeRate,
		RiskPerTradePct:      r.cfg.Account.RiskPerTradePct,
		MaxCandlesOpen:       r.cfg.Strategy.MaxCandlesOpen,
		EnforceMinRiskReward: r.cfg.Strategy.EnforceMinRiskReward,
		MinRiskReward:        r.cfg.Strategy.MinRiskReward,
	})
	finalCapital, trades := simulator.Run(ctx, candles, signals)

	return &types.BacktestResult{
		JobID:          jobID,
		Symbol:         r.cfg.Symbol,
		InitialCapital: r.cfg.Account.InitialCapital,
		FinalCapital:   finalCapital,
		Candles:        len(candles),
		Pivots:         len(pivots),
		Signals:        len(signals),
		Confirmed:      confirmed,
		Trades:         trades,
	}, nil
}
