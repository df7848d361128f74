package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"TrendPulse/internal/domain/models"
	"TrendPulse/pkg/cache"
)

func newMemorySignalCache(t *testing.T) *SignalCache {
	t.Helper()
	mem := cache.NewMemoryCache(cache.WithMemoryMaxSize(64))
	t.Cleanup(func() { _ = mem.Close() })
	return NewSignalCache(mem, time.Hour)
}

func sampleRun() ([]models.DailySignal, *models.RunSummary) {
	signals := []models.DailySignal{
		{Day: "2025-08-03", TweetVolume: 1523, BuyPct: 0.61, SellPct: 0.24, NeutralPct: 0.15, Signal: models.LabelBuy, ConfidencePct: 61.1},
		{Day: "2025-08-04", TweetVolume: 40, BuyPct: 0.3, SellPct: 0.5, NeutralPct: 0.2, Signal: models.LabelSell, ConfidencePct: 50.0},
	}
	summary := models.NewRunSummary()
	summary.RecordsRead = 1563
	summary.Classified = 1563
	summary.DaysEmitted = 2
	summary.FinishedAt = summary.StartedAt.Add(time.Second)
	return signals, summary
}

func TestSignalCacheRoundTrip(t *testing.T) {
	sc := newMemorySignalCache(t)
	ctx := context.Background()
	signals, summary := sampleRun()

	if err := sc.StoreRun(ctx, signals, summary); err != nil {
		t.Fatalf("store run: %v", err)
	}

	got, err := sc.Signals(ctx)
	if err != nil {
		t.Fatalf("signals: %v", err)
	}
	if len(got) != 2 || got[0].Day != "2025-08-03" || got[1].Day != "2025-08-04" {
		t.Fatalf("unexpected signals: %+v", got)
	}

	one, err := sc.Signal(ctx, "2025-08-04")
	if err != nil {
		t.Fatalf("signal: %v", err)
	}
	if one.Signal != models.LabelSell || one.ConfidencePct != 50.0 {
		t.Fatalf("unexpected day row: %+v", one)
	}

	sum, err := sc.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.RecordsRead != 1563 || sum.DaysEmitted != 2 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
}

func TestSignalCacheMiss(t *testing.T) {
	sc := newMemorySignalCache(t)

	if _, err := sc.Signal(context.Background(), "2025-08-03"); !errors.Is(err, cache.ErrCacheMiss) {
		t.Fatalf("expected cache miss, got %v", err)
	}
	if _, err := sc.Summary(context.Background()); !errors.Is(err, cache.ErrCacheMiss) {
		t.Fatalf("expected cache miss, got %v", err)
	}
}

func TestSignalCacheStoreRunReplaces(t *testing.T) {
	sc := newMemorySignalCache(t)
	ctx := context.Background()
	signals, summary := sampleRun()

	if err := sc.StoreRun(ctx, signals, summary); err != nil {
		t.Fatalf("store run: %v", err)
	}
	if err := sc.StoreRun(ctx, signals[:1], summary); err != nil {
		t.Fatalf("second store run: %v", err)
	}

	got, err := sc.Signals(ctx)
	if err != nil {
		t.Fatalf("signals: %v", err)
	}
	if len(got) != 1 || got[0].Day != "2025-08-03" {
		t.Fatalf("stale rows survived the new run: %+v", got)
	}
}
