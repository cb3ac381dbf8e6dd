package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Symbol   string `yaml:"symbol"`
	Interval string `yaml:"interval"`

	Data struct {
		Source  string `yaml:"source"` // CSV or SQLITE
		CSVPath string `yaml:"csv_path"`
		DBPath  string `yaml:"db_path"`
	} `yaml:"data"`

	Account struct {
		InitialCapital  float64 `yaml:"initial_capital"`
		FeeRate         float64 `yaml:"fee_rate"`
		RiskPerTradePct float64 `yaml:"risk_per_trade_pct"`
	} `yaml:"account"`

	Strategy struct {
		PivotLookbackWindow       int     `yaml:"pivot_lookback_window"`
		ConfirmationWaitCandles   int     `yaml:"confirmation_wait_candles"`
		MinDistanceBetweenPivots  int     `yaml:"min_distance_between_pivots"`
		VolumeSearchWindow        int     `yaml:"volume_search_window"`
		VolumeThresholdMultiplier float64 `yaml:"volume_threshold_multiplier"`
		MaxCandlesOpen            int     `yaml:"max_candles_open"`
		EnforceMinRiskReward      bool    `yaml:"enforce_min_risk_reward"`
		MinRiskReward             float64 `yaml:"min_risk_reward"`
	} `yaml:"strategy"`

	Indicators struct {
		RSIPeriod int     `yaml:"rsi_period"`
		BBWindow  int     `yaml:"bb_window"`
		BBStdDev  float64 `yaml:"bb_stddev"`
		ATRPeriod int     `yaml:"atr_period"`
	} `yaml:"indicators"`

	Exchange struct {
		BaseURL   string `yaml:"base_url"`
		PageLimit int    `yaml:"page_limit"`
	} `yaml:"exchange"`

	Server struct {
		Addr       string `yaml:"addr"`
		ResultPath string `yaml:"result_path"`
	} `yaml:"server"`
}

func (c *Config) Validate() error {
	if c.Symbol == "" {
		return fmt.Errorf("symbol cannot be empty")
	}
	if c.Account.InitialCapital <= 0 {
		return fmt.Errorf("account.initial_capital must be positive, got %.2f", c.Account.InitialCapital)
	}
	if c.Account.FeeRate < 0 || c.Account.FeeRate >= 1 {
		return fmt.Errorf("account.fee_rate must be in [0,1), got %.4f", c.Account.FeeRate)
	}
	if c.Account.RiskPerTradePct <= 0 || c.Account.RiskPerTradePct > 1 {
		return fmt.Errorf("account.risk_per_trade_pct must be in (0,1], got %.4f", c.Account.RiskPerTradePct)
	}
	if c.Strategy.PivotLookbackWindow <= 0 {
		return fmt.Errorf("strategy.pivot_lookback_window must be positive, got %d", c.Strategy.PivotLookbackWindow)
	}
	if c.Strategy.ConfirmationWaitCandles < 0 {
		return fmt.Errorf("strategy.confirmation_wait_candles cannot be negative, got %d", c.Strategy.ConfirmationWaitCandles)
	}
	if c.Strategy.MaxCandlesOpen <= 0 {
		return fmt.Errorf("strategy.max_candles_open must be positive, got %d", c.Strategy.MaxCandlesOpen)
	}
	if c.Data.Source != "CSV" && c.Data.Source != "SQLITE" {
		return fmt.Errorf("data.source must be 'CSV' or 'SQLITE', got '%s'", c.Data.Source)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.Interval == "" {
		c.Interval = "1h"
	}
	if c.Data.Source == "" {
		c.Data.Source = "CSV"
	}
	if c.Strategy.VolumeThresholdMultiplier == 0 {
		c.Strategy.VolumeThresholdMultiplier = 1.5
	}
	if c.Indicators.RSIPeriod == 0 {
		c.Indicators.RSIPeriod = 14
	}
	if c.Indicators.BBWindow == 0 {
		c.Indicators.BBWindow = 20
	}
	if c.Indicators.BBStdDev == 0 {
		c.Indicators.BBStdDev = 2.0
	}
	if c.Indicators.ATRPeriod == 0 {
		c.Indicators.ATRPeriod = 14
	}
	if c.Exchange.PageLimit == 0 {
		c.Exchange.PageLimit = 200
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
