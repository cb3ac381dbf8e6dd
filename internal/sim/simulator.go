package sim

import (
	"context"
	"math"

	"divergence-bot/internal/logger"
	"divergence-bot/internal/types"
)

// Config holds the account and exit parameters of one simulation run.
// All values come from configuration; the engine bakes in no defaults.
type Config struct {
	InitialCapital  float64
	FeeRate         float64
	RiskPerTradePct float64
	MaxCandlesOpen  int

	// EnforceMinRiskReward gates entries on the precomputed
	// reward:risk ratio. Off by default; the ratio is otherwise
	// informational only.
	EnforceMinRiskReward bool
	MinRiskReward        float64
}

// Simulator replays an indicator-annotated candle series candle by
// candle, consuming confirmed divergence signals and managing at most
// one open position. It exclusively owns its state for the whole run;
// candles must be processed in strictly increasing index order.
type Simulator struct {
	cfg     Config
	capital float64
	active  *trade
	closed  []types.ClosedTrade
}

func New(cfg Config) *Simulator {
	return &Simulator{cfg: cfg, capital: cfg.InitialCapital}
}

// Run replays the whole series and returns the final capital and the
// closed-trade log. Any position still open at the end of the data is
// force-closed at the last candle's close.
func (s *Simulator) Run(ctx context.Context, candles []types.Candle, signals []types.Signal) (float64, []types.ClosedTrade) {
	byIndex := make(map[int]types.Signal, len(signals))
	for _, sig := range signals {
		byIndex[sig.Index] = sig
	}

	logger.Info(ctx, "Simulation started", "capital", s.capital, "candles", len(candles), "signals", len(signals))

	for i := range candles {
		s.step(ctx, i, candles[i], byIndex)
	}

	if s.active != nil && len(candles) > 0 {
		last := len(candles) - 1
		s.exit(ctx, last, candles[last].Close, types.ExitForcedEndOfData)
	}

	logger.Info(ctx, "Simulation finished", "final_capital", s.capital, "closed_trades", len(s.closed))
	return s.capital, s.closed
}

// step processes one candle: exit rules first (in priority order) when
// a position is open, then entry evaluation when flat. An exit in this
// candle never re-enters in the same candle.
func (s *Simulator) step(ctx context.Context, i int, c types.Candle, signals map[int]types.Signal) {
	if s.active != nil {
		t := s.active

		// Phase1 stop-loss: full exit at the stop.
		if t.phase == phase1 && c.Low <= t.stopPrice {
			s.exit(ctx, i, t.stopPrice, types.ExitStopLoss)
			return
		}

		// Phase2 breakeven stop: remaining half out at the stop.
		if t.phase == phase2 && c.Low <= t.stopPrice {
			s.exit(ctx, i, t.stopPrice, types.ExitStopLossBreakeven)
			return
		}

		// Phase2 take-profit: remaining half out at the target.
		if t.phase == phase2 && c.High >= t.tp2Price {
			s.exit(ctx, i, t.tp2Price, types.ExitTakeProfit2)
			return
		}

		// Phase1 take-profit: partial exit, then fall through to the
		// time-stop check in this same candle.
		if t.phase == phase1 && c.High >= t.tp1Price {
			s.takeProfit1(ctx, i, c)
		}

		// Time stop: full exit at this candle's close.
		if i-t.entryIndex >= s.cfg.MaxCandlesOpen {
			s.exit(ctx, i, c.Close, types.ExitTimeStop)
		}
		return
	}

	sig, ok := signals[i]
	if !ok || !sig.VolumeConfirmed {
		return
	}
	s.tryEnter(ctx, i, c, sig)
}

// tryEnter sizes and opens a position off a confirmed signal. A
// non-positive unit risk or insufficient capital rejects the entry and
// the scan continues; neither is fatal.
func (s *Simulator) tryEnter(ctx context.Context, i int, c types.Candle, sig types.Signal) {
	if s.cfg.EnforceMinRiskReward {
		if !sig.HasRiskReward || sig.RiskReward < s.cfg.MinRiskReward {
			logger.Warn(ctx, "Signal rejected by reward:risk gate", "index", i, "ratio", sig.RiskReward, "min", s.cfg.MinRiskReward)
			return
		}
	}
	if math.IsNaN(c.ATR) || math.IsNaN(c.BBMid) {
		logger.Warn(ctx, "Signal skipped, indicators warming up", "index", i)
		return
	}

	entryPrice := c.Close
	stop := c.Low - c.ATR
	tp1 := c.BBMid

	entryCostPerUnit := entryPrice * (1 + s.cfg.FeeRate)
	slProceedsPerUnit := stop * (1 - s.cfg.FeeRate)
	riskPerUnit := entryCostPerUnit - slProceedsPerUnit
	if !(riskPerUnit > 0) {
		logger.Warn(ctx, "Signal rejected, non-positive unit risk", "index", i, "risk_per_unit", riskPerUnit)
		return
	}

	riskBudget := s.capital * s.cfg.RiskPerTradePct
	size := riskBudget / riskPerUnit
	totalCost := size * entryPrice * (1 + s.cfg.FeeRate)
	if totalCost > s.capital {
		logger.Warn(ctx, "Signal ignored, insufficient capital", "index", i, "cost", totalCost, "capital", s.capital)
		return
	}

	s.capital -= totalCost
	s.active = &trade{
		entryIndex: i,
		entryPrice: entryPrice,
		size:       size,
		stopPrice:  stop,
		tp1Price:   tp1,
		phase:      phase1,
		totalCost:  totalCost,
		costPart1:  totalCost / 2,
		costPart2:  totalCost / 2,
	}

	logger.Trade(ctx, "ENTRY", i, entryPrice, size,
		"risk_budget", riskBudget,
		"total_cost", totalCost,
		"stop", stop,
		"tp1", tp1,
		"risk_reward", sig.RiskReward,
	)
}

// takeProfit1 realizes half the position at tp1, moves the stop to a
// fee-aware breakeven on the remaining half and arms tp2 at the current
// candle's upper Bollinger band. The trade stays open in phase2.
func (s *Simulator) takeProfit1(ctx context.Context, i int, c types.Candle) {
	t := s.active
	half := t.size / 2

	proceeds := half * t.tp1Price * (1 - s.cfg.FeeRate)
	t.pnlPart1 = proceeds - t.costPart1
	s.capital += proceeds

	t.size = half
	t.phase = phase2
	t.stopPrice = t.costPart2 / (half * (1 - s.cfg.FeeRate))
	t.tp2Price = c.BBUpper

	logger.Trade(ctx, "TP1", i, t.tp1Price, half,
		"pnl_part1", t.pnlPart1,
		"breakeven_stop", t.stopPrice,
		"tp2", t.tp2Price,
	)
}

// exit closes the remaining position at the given price and appends a
// closed-trade record. Capital only ever increases here.
func (s *Simulator) exit(ctx context.Context, i int, price float64, reason types.ExitReason) {
	t := s.active
	proceeds := t.size * price * (1 - s.cfg.FeeRate)
	s.capital += proceeds

	var pnl float64
	if t.phase == phase2 {
		pnl = t.pnlPart1 + (proceeds - t.costPart2)
	} else {
		pnl = proceeds - t.totalCost
	}

	s.closed = append(s.closed, types.ClosedTrade{
		EntryIndex: t.entryIndex,
		ExitIndex:  i,
		EntryPrice: t.entryPrice,
		ExitPrice:  price,
		Reason:     reason,
		Pnl:        pnl,
	})
	s.active = nil

	logger.Trade(ctx, string(reason), i, price, t.size,
		"pnl", pnl,
		"capital", s.capital,
	)
}
