package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"divergence-bot/internal/backtest"
	"divergence-bot/internal/backtest/backtestobs"
	"divergence-bot/internal/csvio"
	"divergence-bot/internal/logger"
	"divergence-bot/internal/report"
	"divergence-bot/internal/store"
	"divergence-bot/internal/store/candledb"
	"divergence-bot/internal/trace"
	"divergence-bot/internal/tradelog"
	"divergence-bot/internal/types"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	tradesOut := flag.String("trades", "", "optional CSV path for the closed-trade log")
	flag.Parse()

	_ = godotenv.Load()
	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize tracer: %v\n", err)
	}

	ctx := context.Background()
	defer func() { _ = trace.Shutdown(ctx) }()

	if v := os.Getenv("BACKTEST_LOG_RETENTION_DAYS"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		if err := tradelog.CompressOlder(n); err != nil {
			logger.Warn(ctx, "Failed to compress old logs", "error", err)
		}
	}

	cfg, err := store.LoadConfig(*configPath)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		os.Exit(1)
	}

	candles, err := loadCandles(cfg)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load candles", err)
		os.Exit(1)
	}

	runner := backtestobs.Wrap(backtest.New(cfg))
	result, err := runner.Run(ctx, candles)
	if err != nil {
		logger.ErrorWithErr(ctx, "Backtest failed", err)
		os.Exit(1)
	}

	for _, t := range result.Trades {
		if err := tradelog.Append(tradelog.Entry{
			JobID:      result.JobID,
			Symbol:     result.Symbol,
			EntryIndex: t.EntryIndex,
			ExitIndex:  t.ExitIndex,
			EntryPrice: t.EntryPrice,
			ExitPrice:  t.ExitPrice,
			Reason:     t.Reason,
			Pnl:        t.Pnl,
		}); err != nil {
			logger.Warn(ctx, "Failed to append trade log entry", "error", err)
		}
	}

	summary := report.Summarize(result)
	logger.Info(ctx, "Backtest summary",
		"job_id", summary.JobID,
		"symbol", summary.Symbol,
		"initial_capital", summary.InitialCapital.String(),
		"final_capital", summary.FinalCapital.String(),
		"net_pnl", summary.NetPnl.String(),
		"return_pct", summary.ReturnPct.String(),
		"trades", summary.TotalTrades,
		"wins", summary.Wins,
		"losses", summary.Losses,
		"win_rate_pct", summary.WinRate.String(),
		"profit_factor", summary.ProfitFactor.String(),
	)

	if *tradesOut != "" {
		if err := report.WriteTradesCSV(result.Trades, *tradesOut); err != nil {
			logger.Warn(ctx, "Failed to write trades CSV", "error", err, "path", *tradesOut)
		}
	}
	if cfg.Server.ResultPath != "" {
		if err := report.SaveJSON(result, cfg.Server.ResultPath); err != nil {
			logger.Warn(ctx, "Failed to save result file", "error", err, "path", cfg.Server.ResultPath)
		}
	}
}

func loadCandles(cfg *store.Config) ([]types.Candle, error) {
	switch cfg.Data.Source {
	case "SQLITE":
		db, err := candledb.Open(cfg.Data.DBPath)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		candles, err := db.ReadCandles(cfg.Symbol, cfg.Interval, 0)
		if err != nil {
			return nil, err
		}
		if err := csvio.Validate(candles); err != nil {
			return nil, fmt.Errorf("candle store %s: %w", cfg.Data.DBPath, err)
		}
		return candles, nil
	default:
		return csvio.ReadCandles(cfg.Data.CSVPath)
	}
}
