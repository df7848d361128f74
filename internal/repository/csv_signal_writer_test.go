package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"TrendPulse/internal/domain/models"
)

func TestCSVWriterCanonicalFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "daily_aggregated_signals.csv")
	w := NewCSVSignalWriter(path)

	err := w.Write(context.Background(), []models.DailySignal{
		{Day: "2025-08-03", TweetVolume: 1523, BuyPct: 0.61, SellPct: 0.24, NeutralPct: 0.15, Signal: models.LabelBuy, ConfidencePct: 61.1},
		{Day: "2025-08-04", TweetVolume: 12, BuyPct: 0.5, SellPct: 0.25, NeutralPct: 0.25, Signal: models.LabelNeutral, ConfidencePct: 50.0, LowVolume: true},
	})
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	want := "date,tweet_volume,buy_pct,sell_pct,signal,confidence_pct\n" +
		"2025-08-03,1523,0.61,0.24,buy,61.1\n" +
		"2025-08-04,12,0.50,0.25,neutral,50.0\n"
	if string(b) != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", b, want)
	}
}

func TestCSVWriterEmptyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signals.csv")
	w := NewCSVSignalWriter(path)

	if err := w.Write(context.Background(), nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(b) != "date,tweet_volume,buy_pct,sell_pct,signal,confidence_pct\n" {
		t.Fatalf("empty table must still write the header, got %q", b)
	}
}

func TestCSVWriterUnwritableDestination(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocked")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	// Parent path is a regular file, so MkdirAll must fail.
	w := NewCSVSignalWriter(filepath.Join(blocker, "signals.csv"))

	err := w.Write(context.Background(), []models.DailySignal{{Day: "2025-08-03"}})
	if !errors.Is(err, models.ErrWriteFailure) {
		t.Fatalf("expected write failure, got %v", err)
	}
}
