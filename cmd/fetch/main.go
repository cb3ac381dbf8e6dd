package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"divergence-bot/internal/csvio"
	"divergence-bot/internal/exchange"
	"divergence-bot/internal/exchange/exchangeobs"
	"divergence-bot/internal/logger"
	"divergence-bot/internal/store"
	"divergence-bot/internal/store/candledb"
	"divergence-bot/internal/trace"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	startStr := flag.String("start", "", "fetch window start (RFC3339 or 2006-01-02)")
	endStr := flag.String("end", "", "fetch window end (RFC3339 or 2006-01-02), defaults to now")
	out := flag.String("out", "", "CSV output path (refuses to overwrite)")
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

	cfg, err := store.LoadConfig(*configPath)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		os.Exit(1)
	}

	start, err := parseTime(*startStr)
	if err != nil {
		logger.ErrorWithErr(ctx, "Invalid -start", err)
		os.Exit(1)
	}
	end := time.Now().UTC()
	if *endStr != "" {
		if end, err = parseTime(*endStr); err != nil {
			logger.ErrorWithErr(ctx, "Invalid -end", err)
			os.Exit(1)
		}
	}

	var opts []exchange.Option
	if cfg.Exchange.BaseURL != "" {
		opts = append(opts, exchange.WithBaseURL(cfg.Exchange.BaseURL))
	}
	opts = append(opts, exchange.WithPageLimit(cfg.Exchange.PageLimit))
	src := exchangeobs.Wrap(exchange.NewClient(opts...))

	candles, err := src.FetchCandles(ctx, cfg.Symbol, cfg.Interval, start, end)
	if err != nil {
		logger.ErrorWithErr(ctx, "Fetch failed", err, "symbol", cfg.Symbol)
		os.Exit(1)
	}
	if len(candles) == 0 {
		logger.Warn(ctx, "No candles in window", "symbol", cfg.Symbol, "start", start, "end", end)
		os.Exit(0)
	}
	if err := csvio.Validate(candles); err != nil {
		logger.ErrorWithErr(ctx, "Fetched series failed validation", err)
		os.Exit(1)
	}

	if *out != "" {
		if err := csvio.WriteCandles(candles, *out); err != nil {
			logger.ErrorWithErr(ctx, "CSV write failed", err, "path", *out)
			os.Exit(1)
		}
		logger.Info(ctx, "CSV written", "path", *out, "candles", len(candles))
	}

	if cfg.Data.DBPath != "" {
		db, err := candledb.Open(cfg.Data.DBPath)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to open candle store", err, "path", cfg.Data.DBPath)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.WriteCandles(cfg.Symbol, cfg.Interval, candles); err != nil {
			logger.ErrorWithErr(ctx, "Failed to write candle store", err)
			os.Exit(1)
		}
		logger.Info(ctx, "Candle store updated", "path", cfg.Data.DBPath, "candles", len(candles))
	}
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("value required")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
