package repository

import (
	"context"
	"time"

	"TrendPulse/internal/domain/models"
	"TrendPulse/pkg/cache"
)

const (
	signalKeyPrefix = "signals"
	signalIndexKey  = "signals:index"
	runSummaryKey   = "run:summary"
)

// SignalCache stores the latest run's output so the API can serve it without
// re-reading the CSV. Backed by any cache.Service (memory, Redis, layered).
type SignalCache struct {
	c   cache.Service
	ttl time.Duration
}

// NewSignalCache creates a signal cache. A zero ttl means entries keep the
// backend's default expiry.
func NewSignalCache(c cache.Service, ttl time.Duration) *SignalCache {
	return &SignalCache{c: c, ttl: ttl}
}

// StoreRun replaces the cached output with a fresh run's signals and summary.
func (sc *SignalCache) StoreRun(ctx context.Context, signals []models.DailySignal, summary *models.RunSummary) error {
	if err := sc.c.DeleteByPattern(ctx, cache.BuildPattern(signalKeyPrefix)); err != nil {
		return err
	}

	values := make(map[string]interface{}, len(signals)+1)
	days := make([]string, 0, len(signals))
	for _, s := range signals {
		values[cache.GenerateKey(signalKeyPrefix, string(s.Day))] = s
		days = append(days, string(s.Day))
	}
	values[signalIndexKey] = days
	if err := sc.c.MSet(ctx, values, sc.ttl); err != nil {
		return err
	}

	return sc.c.Set(ctx, runSummaryKey, summary, sc.ttl)
}

// Signals returns all cached signals in date order.
func (sc *SignalCache) Signals(ctx context.Context) ([]models.DailySignal, error) {
	var days []string
	if err := sc.c.Get(ctx, signalIndexKey, &days); err != nil {
		return nil, err
	}

	keys := make([]string, len(days))
	for i, d := range days {
		keys[i] = cache.GenerateKey(signalKeyPrefix, d)
	}
	byKey, err := cache.MGetTyped[models.DailySignal](ctx, sc.c, keys...)
	if err != nil {
		return nil, err
	}

	out := make([]models.DailySignal, 0, len(days))
	for _, key := range keys {
		if s, ok := byKey[key]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// Signal returns one cached day, or cache.ErrCacheMiss.
func (sc *SignalCache) Signal(ctx context.Context, day string) (models.DailySignal, error) {
	var s models.DailySignal
	err := sc.c.Get(ctx, cache.GenerateKey(signalKeyPrefix, day), &s)
	return s, err
}

// Summary returns the cached run summary, or cache.ErrCacheMiss.
func (sc *SignalCache) Summary(ctx context.Context) (*models.RunSummary, error) {
	var s models.RunSummary
	if err := sc.c.Get(ctx, runSummaryKey, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
