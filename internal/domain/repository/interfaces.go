package repository

import (
	"context"
	"time"

	"TrendPulse/internal/domain/models"
)

// Filter restricts which feature records a scan yields. Zero values mean
// unbounded.
type Filter struct {
	From time.Time
	To   time.Time
}

// Match reports whether a record passes the filter.
func (f Filter) Match(r models.FeatureRecord) bool {
	if !f.From.IsZero() && r.Timestamp.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && r.Timestamp.After(f.To) {
		return false
	}
	return true
}

// FeatureSource provides read-only access to per-post feature records.
// Scan streams records in timestamp order; calling Scan again restarts the
// sequence from the beginning. Per-record problems go to onErr and do not
// stop the scan; only an unreadable backing store fails the call
// (models.ErrSourceUnavailable).
type FeatureSource interface {
	Scan(ctx context.Context, f Filter, yield func(models.FeatureRecord) error, onErr func(*models.RecordError)) error
}

// SignalWriter persists the ordered daily signal table.
type SignalWriter interface {
	Write(ctx context.Context, signals []models.DailySignal) error
}

// SignalPublisher pushes daily signal rows to a downstream consumer.
type SignalPublisher interface {
	Publish(ctx context.Context, s models.DailySignal) error
	PublishBatch(ctx context.Context, signals []models.DailySignal) error
	Close() error
}

// Metrics records pipeline observations.
type Metrics interface {
	RecordPost(label string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
	RecordRun(daysEmitted int)
}
