package usecase

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"TrendPulse/internal/domain/models"
	domrepo "TrendPulse/internal/domain/repository"
	applogger "TrendPulse/pkg/logger"
)

// RunStore persists a completed run's output for later lookups.
type RunStore interface {
	StoreRun(ctx context.Context, signals []models.DailySignal, summary *models.RunSummary) error
}

// Pipeline runs the full batch: scan, classify, group, aggregate, decide,
// write. Stages are pure transformations of their predecessor's output; the
// canonical writer is mandatory, everything after it is best-effort.
type Pipeline struct {
	source     domrepo.FeatureSource
	classifier *Classifier
	grouper    *Grouper
	aggregator *Aggregator
	decider    *Decider
	writer     domrepo.SignalWriter
	metrics    domrepo.Metrics
	filter     domrepo.Filter
	workers    int
	l          *applogger.Logger

	// optional sinks
	extraWriters []domrepo.SignalWriter
	publisher    domrepo.SignalPublisher
	runStore     RunStore
}

// PipelineOption configures optional pipeline sinks.
type PipelineOption func(*Pipeline)

// WithExtraWriter adds a best-effort secondary destination for the signal
// table.
func WithExtraWriter(w domrepo.SignalWriter) PipelineOption {
	return func(p *Pipeline) {
		if w != nil {
			p.extraWriters = append(p.extraWriters, w)
		}
	}
}

// WithPublisher adds a downstream publisher for the signal rows.
func WithPublisher(pub domrepo.SignalPublisher) PipelineOption {
	return func(p *Pipeline) { p.publisher = pub }
}

// WithRunStore caches the run output for the API.
func WithRunStore(rs RunStore) PipelineOption {
	return func(p *Pipeline) { p.runStore = rs }
}

// WithFilter restricts the scan to a time window.
func WithFilter(f domrepo.Filter) PipelineOption {
	return func(p *Pipeline) { p.filter = f }
}

// NewPipeline wires the pipeline stages together.
func NewPipeline(
	source domrepo.FeatureSource,
	classifier *Classifier,
	grouper *Grouper,
	aggregator *Aggregator,
	decider *Decider,
	writer domrepo.SignalWriter,
	metrics domrepo.Metrics,
	workers int,
	l *applogger.Logger,
	opts ...PipelineOption,
) *Pipeline {
	if workers <= 0 {
		workers = 1
	}
	p := &Pipeline{
		source:     source,
		classifier: classifier,
		grouper:    grouper,
		aggregator: aggregator,
		decider:    decider,
		writer:     writer,
		metrics:    metrics,
		workers:    workers,
		l:          l,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one batch and returns the ordered signal table plus the run
// summary. Record-level problems are counted in the summary and never abort
// the run; only an unreadable source, a failed canonical write, or
// cancellation do.
func (p *Pipeline) Run(ctx context.Context) ([]models.DailySignal, *models.RunSummary, error) {
	summary := models.NewRunSummary()

	// Scan
	scanStart := time.Now()
	records := make([]models.FeatureRecord, 0, 4096)
	err := p.source.Scan(ctx, p.filter,
		func(rec models.FeatureRecord) error {
			records = append(records, rec)
			return ctx.Err()
		},
		func(re *models.RecordError) {
			summary.CountError(re.Kind)
			if p.metrics != nil {
				p.metrics.RecordError(string(re.Kind))
			}
			if p.l != nil {
				p.l.Warn("record skipped",
					applogger.String("kind", string(re.Kind)),
					applogger.String("id", re.ID),
					applogger.Error(re.Err),
				)
			}
		},
	)
	if err != nil {
		return nil, summary, err
	}
	summary.RecordsRead = len(records) + summary.ErrorTotal()
	p.observe("scan", scanStart)

	// Classify across the worker pool. Results land at the record's index,
	// so input order survives for the order-sensitive grouping stage.
	classifyStart := time.Now()
	posts := make([]models.ClassifiedPost, len(records))
	var fallbacks int64

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				post, fellBack := p.classifier.Classify(records[i])
				posts[i] = post
				if fellBack {
					atomic.AddInt64(&fallbacks, 1)
				}
				if p.metrics != nil {
					p.metrics.RecordPost(string(post.Label))
				}
			}
		}()
	}

	var feedErr error
feed:
	for i := range records {
		select {
		case <-ctx.Done():
			feedErr = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	if feedErr != nil {
		return nil, summary, feedErr
	}
	summary.Classified = len(posts)
	summary.EmbeddingFallbacks = int(fallbacks)
	p.observe("classify", classifyStart)

	// Group
	groupStart := time.Now()
	buckets, gstats := p.grouper.Group(posts)
	summary.LanguageFiltered = gstats.LanguageFiltered
	summary.DuplicatesDropped = gstats.DuplicatesDropped
	for i := 0; i < gstats.InvalidTimestamps; i++ {
		summary.CountError(models.KindInvalidTimestamp)
		if p.metrics != nil {
			p.metrics.RecordError(string(models.KindInvalidTimestamp))
		}
	}
	p.observe("group", groupStart)

	// Aggregate and decide per day, output sorted ascending by date.
	decideStart := time.Now()
	days := make([]models.Day, 0, len(buckets))
	for day := range buckets {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	signals := make([]models.DailySignal, 0, len(days))
	for _, day := range days {
		stats, ok := p.aggregator.Stats(buckets[day])
		if !ok {
			continue
		}
		signals = append(signals, p.decider.Decide(stats))
	}
	summary.DaysEmitted = len(signals)
	p.observe("aggregate", decideStart)

	// Write
	writeStart := time.Now()
	if err := p.writer.Write(ctx, signals); err != nil {
		return nil, summary, err
	}
	p.observe("write", writeStart)

	for _, w := range p.extraWriters {
		if err := w.Write(ctx, signals); err != nil {
			p.countSinkFailure(summary, "secondary signal write failed", err)
		}
	}
	if p.publisher != nil {
		if err := p.publisher.PublishBatch(ctx, signals); err != nil {
			p.countSinkFailure(summary, "signal publish failed", err)
		}
	}
	if p.runStore != nil {
		if err := p.runStore.StoreRun(ctx, signals, summary); err != nil {
			p.countSinkFailure(summary, "run cache store failed", err)
		}
	}

	summary.FinishedAt = time.Now()
	if p.metrics != nil {
		p.metrics.RecordRun(summary.DaysEmitted)
	}
	if p.l != nil {
		p.l.Info("run complete",
			applogger.Int("records_read", summary.RecordsRead),
			applogger.Int("classified", summary.Classified),
			applogger.Int("language_filtered", summary.LanguageFiltered),
			applogger.Int("duplicates_dropped", summary.DuplicatesDropped),
			applogger.Int("embedding_fallbacks", summary.EmbeddingFallbacks),
			applogger.Int("record_errors", summary.ErrorTotal()),
			applogger.Int("days_emitted", summary.DaysEmitted),
			applogger.Int("sink_failures", summary.SinkFailures),
			applogger.Duration("duration_ms", summary.FinishedAt.Sub(summary.StartedAt)),
		)
	}
	return signals, summary, nil
}

// countSinkFailure tallies a best-effort sink error. The run still succeeds;
// the failure is counted, logged, and exported rather than swallowed.
func (p *Pipeline) countSinkFailure(summary *models.RunSummary, msg string, err error) {
	summary.SinkFailures++
	if p.metrics != nil {
		p.metrics.RecordError("sink_failure")
	}
	if p.l != nil {
		p.l.Error(msg, applogger.Error(err))
	}
}

func (p *Pipeline) observe(stage string, start time.Time) {
	if p.metrics != nil {
		p.metrics.RecordLatency(stage, time.Since(start).Seconds())
	}
}
