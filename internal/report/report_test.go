package report

import (
	"path/filepath"
	"testing"

	"divergence-bot/internal/types"
)

func sampleResult() *types.BacktestResult {
	return &types.BacktestResult{
		JobID:          "job-1",
		Symbol:         "BTCUSDT",
		InitialCapital: 10000,
		FinalCapital:   10150,
		Trades: []types.ClosedTrade{
			{EntryIndex: 10, ExitIndex: 15, EntryPrice: 100, ExitPrice: 110, Reason: types.ExitTakeProfit2, Pnl: 200},
			{EntryIndex: 30, ExitIndex: 32, EntryPrice: 100, ExitPrice: 95, Reason: types.ExitStopLoss, Pnl: -100},
			{EntryIndex: 50, ExitIndex: 98, EntryPrice: 100, ExitPrice: 101, Pnl: 50, Reason: types.ExitTimeStop},
		},
	}
}

func TestSummarizeAggregates(t *testing.T) {
	s := Summarize(sampleResult())

	if s.TotalTrades != 3 || s.Wins != 2 || s.Losses != 1 {
		t.Errorf("Expected 3 trades, 2 wins, 1 loss; got %d/%d/%d", s.TotalTrades, s.Wins, s.Losses)
	}
	if got := s.WinRate.String(); got != "66.67" {
		t.Errorf("Expected win rate 66.67, got %s", got)
	}
	if got := s.NetPnl.String(); got != "150" {
		t.Errorf("Expected net pnl 150 (final - initial), got %s", got)
	}
	if got := s.ProfitFactor.String(); got != "2.5" {
		t.Errorf("Expected profit factor 2.5, got %s", got)
	}
	if got := s.ReturnPct.String(); got != "1.5" {
		t.Errorf("Expected return 1.5%%, got %s", got)
	}
	if s.ByReason[types.ExitStopLoss] != 1 || s.ByReason[types.ExitTakeProfit2] != 1 || s.ByReason[types.ExitTimeStop] != 1 {
		t.Errorf("Unexpected reason breakdown: %v", s.ByReason)
	}
}

func TestSummarizeNoTrades(t *testing.T) {
	res := &types.BacktestResult{InitialCapital: 10000, FinalCapital: 10000}
	s := Summarize(res)

	if s.TotalTrades != 0 || !s.WinRate.IsZero() || !s.ProfitFactor.IsZero() {
		t.Errorf("Expected zero-valued summary for an empty run, got %+v", s)
	}
	if !s.NetPnl.IsZero() {
		t.Errorf("Expected zero net pnl, got %s", s.NetPnl.String())
	}
}

func TestSaveLoadJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")
	if err := SaveJSON(sampleResult(), path); err != nil {
		t.Fatal(err)
	}

	got, err := LoadJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Summary.JobID != "job-1" || got.Summary.Symbol != "BTCUSDT" {
		t.Errorf("Unexpected summary identity: %+v", got.Summary)
	}
	if len(got.Trades) != 3 || got.Trades[1].Reason != types.ExitStopLoss {
		t.Errorf("Unexpected trades after round trip: %+v", got.Trades)
	}
}

func TestWriteTradesCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.csv")
	if err := WriteTradesCSV(sampleResult().Trades, path); err != nil {
		t.Fatal(err)
	}
	// Re-written files are fine for the trade export.
	if err := WriteTradesCSV(nil, path); err != nil {
		t.Fatal(err)
	}
}
