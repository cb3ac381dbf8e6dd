package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"divergence-bot/internal/server"
	"divergence-bot/internal/store"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize zap: %v", err)
	}
	defer logger.Sync()

	cfg, err := store.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	resultPath := cfg.Server.ResultPath
	if resultPath == "" {
		resultPath = "backtest_result.json"
	}

	srv := server.New(logger, resultPath)
	if err := srv.Run(cfg.Server.Addr); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
