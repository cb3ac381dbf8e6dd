package tradelog

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"divergence-bot/internal/types"
)

func TestAppendWritesJSONLines(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BACKTEST_LOG_DIR", dir)

	entries := []Entry{
		{JobID: "j1", Symbol: "BTCUSDT", EntryIndex: 10, ExitIndex: 15, EntryPrice: 100, ExitPrice: 105, Reason: types.ExitTakeProfit2, Pnl: 50},
		{JobID: "j1", Symbol: "BTCUSDT", EntryIndex: 30, ExitIndex: 32, EntryPrice: 100, ExitPrice: 95, Reason: types.ExitStopLoss, Pnl: -100},
	}
	for _, e := range entries {
		if err := Append(e); err != nil {
			t.Fatal(err)
		}
	}

	path := filepath.Join(dir, time.Now().UTC().Format("2006-01-02")+".txt")
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var got []Entry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("Line is not valid JSON: %v", err)
		}
		got = append(got, e)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 log lines, got %d", len(got))
	}
	if got[0].Reason != types.ExitTakeProfit2 || got[1].Pnl != -100 {
		t.Errorf("Unexpected entries: %+v", got)
	}
	if got[0].Time == "" {
		t.Error("Expected the append time to be stamped")
	}
}

func TestAppendSignalGoesToSignalsDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BACKTEST_LOG_DIR", dir)

	err := AppendSignal(SignalEntry{JobID: "j1", Symbol: "BTCUSDT", Index: 42, PivotIndex: 40, VolumeConfirmed: true, RiskReward: 1.2})
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, "signals", time.Now().UTC().Format("2006-01-02")+".txt")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Expected signals file at %s: %v", path, err)
	}
}

func TestCompressOlderGzipsAndRemoves(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BACKTEST_LOG_DIR", dir)

	oldPath := filepath.Join(dir, "2021-01-01.txt")
	if err := os.WriteFile(oldPath, []byte(`{"job_id":"old"}`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	past := time.Now().AddDate(0, 0, -30)
	if err := os.Chtimes(oldPath, past, past); err != nil {
		t.Fatal(err)
	}

	freshPath := filepath.Join(dir, "fresh.txt")
	if err := os.WriteFile(freshPath, []byte("keep\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CompressOlder(7); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Error("Expected the old log to be removed after compression")
	}
	gz, err := os.Open(oldPath + ".gz")
	if err != nil {
		t.Fatalf("Expected gzipped log: %v", err)
	}
	defer gz.Close()
	gr, err := gzip.NewReader(gz)
	if err != nil {
		t.Fatal(err)
	}
	var e Entry
	if err := json.NewDecoder(gr).Decode(&e); err != nil || e.JobID != "old" {
		t.Errorf("Gzipped content mismatch: %+v, %v", e, err)
	}

	if _, err := os.Stat(freshPath); err != nil {
		t.Error("Expected the fresh log to survive the retention pass")
	}
}

func TestCompressOlderDisabled(t *testing.T) {
	t.Setenv("BACKTEST_LOG_DIR", t.TempDir())
	if err := CompressOlder(0); err != nil {
		t.Errorf("Expected retention to be a no-op when disabled, got %v", err)
	}
}
