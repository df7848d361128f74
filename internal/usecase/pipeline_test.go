package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"TrendPulse/internal/domain/models"
	domrepo "TrendPulse/internal/domain/repository"
)

type fakeSource struct {
	records []models.FeatureRecord
	errs    []*models.RecordError
	fail    error
}

func (s *fakeSource) Scan(ctx context.Context, f domrepo.Filter, yield func(models.FeatureRecord) error, onErr func(*models.RecordError)) error {
	if s.fail != nil {
		return s.fail
	}
	for _, re := range s.errs {
		onErr(re)
	}
	for _, rec := range s.records {
		if !f.Match(rec) {
			continue
		}
		if err := yield(rec); err != nil {
			return err
		}
	}
	return nil
}

type fakeWriter struct {
	written []models.DailySignal
	called  bool
	fail    error
}

func (w *fakeWriter) Write(ctx context.Context, signals []models.DailySignal) error {
	if w.fail != nil {
		return w.fail
	}
	w.called = true
	w.written = append([]models.DailySignal(nil), signals...)
	return nil
}

func feature(id, dedup string, ts time.Time, kw float64) models.FeatureRecord {
	return models.FeatureRecord{
		ID:           id,
		Timestamp:    ts,
		DedupKey:     dedup,
		Language:     "en",
		KeywordScore: kw,
	}
}

func newTestPipeline(src domrepo.FeatureSource, w domrepo.SignalWriter, opts ...PipelineOption) *Pipeline {
	return NewPipeline(
		src,
		NewClassifier(0.2, -0.2, 0.6, 0.4),
		NewGrouper(time.UTC, nil),
		NewAggregator(),
		NewDecider(0, 2, ConfidenceShare),
		w,
		nil,
		4,
		nil,
		opts...,
	)
}

func TestRunProducesOrderedSignals(t *testing.T) {
	day1 := time.Date(2025, 8, 3, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 8, 4, 10, 0, 0, 0, time.UTC)
	src := &fakeSource{records: []models.FeatureRecord{
		feature("d", "d", day2, -0.5),
		feature("a", "a", day1, 0.5),
		feature("b", "b", day1, 0.6),
		feature("c", "c", day1, 0),
		feature("e", "e", day2, -0.6),
	}}
	w := &fakeWriter{}

	signals, summary, err := newTestPipeline(src, w).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(signals) != 2 {
		t.Fatalf("expected 2 days, got %d", len(signals))
	}
	if signals[0].Day != "2025-08-03" || signals[1].Day != "2025-08-04" {
		t.Fatalf("output not sorted by day: %s, %s", signals[0].Day, signals[1].Day)
	}
	if signals[0].Signal != models.LabelBuy {
		t.Fatalf("day 1 should be buy, got %s", signals[0].Signal)
	}
	if signals[1].Signal != models.LabelSell {
		t.Fatalf("day 2 should be sell, got %s", signals[1].Signal)
	}
	if len(w.written) != 2 {
		t.Fatalf("writer got %d rows", len(w.written))
	}
	if summary.RecordsRead != 5 || summary.Classified != 5 || summary.DaysEmitted != 2 {
		t.Fatalf("bad summary: %+v", summary)
	}
}

func TestRunDuplicateAppendIdempotent(t *testing.T) {
	day := time.Date(2025, 8, 3, 10, 0, 0, 0, time.UTC)
	records := []models.FeatureRecord{
		feature("a", "k1", day, 0.5),
		feature("b", "k2", day, 0.4),
		feature("c", "k3", day, -0.1),
	}

	w1 := &fakeWriter{}
	base, _, err := newTestPipeline(&fakeSource{records: records}, w1).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	w2 := &fakeWriter{}
	withDups, summary, err := newTestPipeline(&fakeSource{records: append(records, records...)}, w2).Run(context.Background())
	if err != nil {
		t.Fatalf("run with duplicates: %v", err)
	}

	if len(base) != len(withDups) {
		t.Fatalf("row count changed: %d vs %d", len(base), len(withDups))
	}
	for i := range base {
		if base[i] != withDups[i] {
			t.Fatalf("row %d differs: %+v vs %+v", i, base[i], withDups[i])
		}
	}
	if summary.DuplicatesDropped != 3 {
		t.Fatalf("expected 3 duplicates dropped, got %d", summary.DuplicatesDropped)
	}
}

func TestRunEmptyInputEmitsNoRows(t *testing.T) {
	w := &fakeWriter{}
	signals, summary, err := newTestPipeline(&fakeSource{}, w).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(signals) != 0 {
		t.Fatalf("expected no rows, got %d", len(signals))
	}
	if summary.DaysEmitted != 0 {
		t.Fatalf("expected 0 days emitted, got %d", summary.DaysEmitted)
	}
	if !w.called {
		t.Fatalf("writer must still receive the empty table")
	}
}

func TestRunCountsRecordErrors(t *testing.T) {
	day := time.Date(2025, 8, 3, 10, 0, 0, 0, time.UTC)
	src := &fakeSource{
		records: []models.FeatureRecord{feature("a", "a", day, 0.5)},
		errs: []*models.RecordError{
			{Kind: models.KindInvalidTimestamp, ID: "x", Err: errors.New("bad ts")},
			{Kind: models.KindMissingField, ID: "y", Err: errors.New("no scores")},
			{Kind: models.KindMissingField, Err: errors.New("no id")},
		},
	}

	_, summary, err := newTestPipeline(src, &fakeWriter{}).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.RecordsRead != 4 {
		t.Fatalf("expected 4 records read, got %d", summary.RecordsRead)
	}
	if summary.RecordErrors[models.KindInvalidTimestamp] != 1 {
		t.Fatalf("expected 1 invalid_timestamp, got %d", summary.RecordErrors[models.KindInvalidTimestamp])
	}
	if summary.RecordErrors[models.KindMissingField] != 2 {
		t.Fatalf("expected 2 missing_field, got %d", summary.RecordErrors[models.KindMissingField])
	}
}

func TestRunSourceFailureAborts(t *testing.T) {
	src := &fakeSource{fail: models.ErrSourceUnavailable}
	_, _, err := newTestPipeline(src, &fakeWriter{}).Run(context.Background())
	if !errors.Is(err, models.ErrSourceUnavailable) {
		t.Fatalf("expected source error, got %v", err)
	}
}

func TestRunWriteFailureAborts(t *testing.T) {
	day := time.Date(2025, 8, 3, 10, 0, 0, 0, time.UTC)
	src := &fakeSource{records: []models.FeatureRecord{feature("a", "a", day, 0.5)}}
	w := &fakeWriter{fail: models.ErrWriteFailure}

	_, _, err := newTestPipeline(src, w).Run(context.Background())
	if !errors.Is(err, models.ErrWriteFailure) {
		t.Fatalf("expected write error, got %v", err)
	}
}

type failingPublisher struct{}

func (p *failingPublisher) Publish(ctx context.Context, s models.DailySignal) error {
	return errors.New("broker down")
}

func (p *failingPublisher) PublishBatch(ctx context.Context, signals []models.DailySignal) error {
	return errors.New("broker down")
}

func (p *failingPublisher) Close() error { return nil }

type failingRunStore struct{}

func (r *failingRunStore) StoreRun(ctx context.Context, signals []models.DailySignal, summary *models.RunSummary) error {
	return errors.New("cache down")
}

func TestRunCountsSinkFailures(t *testing.T) {
	day := time.Date(2025, 8, 3, 10, 0, 0, 0, time.UTC)
	src := &fakeSource{records: []models.FeatureRecord{
		feature("a", "a", day, 0.5),
		feature("b", "b", day, 0.6),
	}}
	w := &fakeWriter{}
	p := newTestPipeline(src, w,
		WithExtraWriter(&fakeWriter{fail: errors.New("sink down")}),
		WithPublisher(&failingPublisher{}),
		WithRunStore(&failingRunStore{}),
	)

	signals, summary, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("sink failures must not abort the run: %v", err)
	}
	if len(signals) != 1 {
		t.Fatalf("expected 1 day, got %d", len(signals))
	}
	if !w.called {
		t.Fatalf("canonical writer must still run")
	}
	if summary.SinkFailures != 3 {
		t.Fatalf("expected 3 sink failures counted, got %d", summary.SinkFailures)
	}
}

func TestRunFilterWindow(t *testing.T) {
	src := &fakeSource{records: []models.FeatureRecord{
		feature("a", "a", time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC), 0.5),
		feature("b", "b", time.Date(2025, 8, 3, 10, 0, 0, 0, time.UTC), 0.5),
		feature("c", "c", time.Date(2025, 8, 9, 10, 0, 0, 0, time.UTC), 0.5),
	}}
	w := &fakeWriter{}
	p := newTestPipeline(src, w, WithFilter(domrepo.Filter{
		From: time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 8, 5, 0, 0, 0, 0, time.UTC),
	}))

	signals, _, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(signals) != 1 || signals[0].Day != "2025-08-03" {
		t.Fatalf("expected only 2025-08-03, got %+v", signals)
	}
}
