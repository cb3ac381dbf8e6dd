package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/shopspring/decimal"

	"divergence-bot/internal/types"
)

// Summary contains the aggregate statistics of one backtest run. Money
// figures are aggregated with decimals so reported totals do not drift
// from per-trade rounding.
type Summary struct {
	JobID          string                   `json:"job_id"`
	Symbol         string                   `json:"symbol"`
	TotalTrades    int                      `json:"total_trades"`
	Wins           int                      `json:"wins"`
	Losses         int                      `json:"losses"`
	WinRate        decimal.Decimal          `json:"win_rate"`
	NetPnl         decimal.Decimal          `json:"net_pnl"`
	ProfitFactor   decimal.Decimal          `json:"profit_factor"`
	InitialCapital decimal.Decimal          `json:"initial_capital"`
	FinalCapital   decimal.Decimal          `json:"final_capital"`
	ReturnPct      decimal.Decimal          `json:"return_pct"`
	ByReason       map[types.ExitReason]int `json:"by_reason"`
}

// Summarize aggregates a backtest result into a Summary.
func Summarize(res *types.BacktestResult) Summary {
	s := Summary{
		JobID:          res.JobID,
		Symbol:         res.Symbol,
		TotalTrades:    len(res.Trades),
		InitialCapital: decimal.NewFromFloat(res.InitialCapital),
		FinalCapital:   decimal.NewFromFloat(res.FinalCapital),
		ByReason:       make(map[types.ExitReason]int),
	}

	grossProfit := decimal.Zero
	grossLoss := decimal.Zero
	for _, t := range res.Trades {
		pnl := decimal.NewFromFloat(t.Pnl)
		if pnl.IsPositive() {
			s.Wins++
			grossProfit = grossProfit.Add(pnl)
		} else {
			s.Losses++
			grossLoss = grossLoss.Add(pnl.Abs())
		}
		s.ByReason[t.Reason]++
	}

	s.NetPnl = s.FinalCapital.Sub(s.InitialCapital)
	if s.TotalTrades > 0 {
		s.WinRate = decimal.NewFromInt(int64(s.Wins)).
			Div(decimal.NewFromInt(int64(s.TotalTrades))).
			Mul(decimal.NewFromInt(100)).Round(2)
	}
	if grossLoss.IsPositive() {
		s.ProfitFactor = grossProfit.Div(grossLoss).Round(4)
	}
	if s.InitialCapital.IsPositive() {
		s.ReturnPct = s.NetPnl.Div(s.InitialCapital).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return s
}

// WriteTradesCSV exports the closed-trade log.
func WriteTradesCSV(trades []types.ClosedTrade, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	_ = w.Write([]string{"entry_index", "exit_index", "entry_price", "exit_price", "reason", "pnl"})
	for _, t := range trades {
		_ = w.Write([]string{
			strconv.Itoa(t.EntryIndex), strconv.Itoa(t.ExitIndex),
			formatF(t.EntryPrice), formatF(t.ExitPrice),
			string(t.Reason), formatF(t.Pnl),
		})
	}
	return w.Error()
}

// SaveJSON persists the summary (with its trades) for the result API.
type Result struct {
	Summary Summary             `json:"summary"`
	Trades  []types.ClosedTrade `json:"trades"`
}

func SaveJSON(res *types.BacktestResult, path string) error {
	out := Result{Summary: Summarize(res), Trades: res.Trades}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	return os.WriteFile(path, b, 0o644)
}

func LoadJSON(path string) (*Result, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Result
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("parse result %s: %w", path, err)
	}
	return &r, nil
}

func formatF(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
