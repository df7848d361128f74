package di

import (
	"context"
	"fmt"
	"time"

	"TrendPulse/internal/domain/repository"
	"TrendPulse/internal/handler/api"
	internalrepo "TrendPulse/internal/repository"
	"TrendPulse/internal/usecase"
	"TrendPulse/pkg/cache"
	pkgch "TrendPulse/pkg/clickhouse"
	"TrendPulse/pkg/config"
	xhttp "TrendPulse/pkg/http"
	pkgkafka "TrendPulse/pkg/kafka"
	applogger "TrendPulse/pkg/logger"
	"TrendPulse/pkg/metrics"
	"TrendPulse/pkg/server"
	"TrendPulse/pkg/util"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client and ensures the
// schema. Returns nil when neither the source nor the sink uses ClickHouse.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.Source.Type != "clickhouse" && !cfg.ClickHouse.SinkEnabled {
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, pkgch.SchemaStatements(cfg.ClickHouse.Database)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer, or nil when publishing is
// disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideCacheService creates the cache backing the signal API: in-memory by
// default, layered over Redis when configured.
func ProvideCacheService(cfg *config.Config) (cache.Service, error) {
	if !cfg.Cache.Redis.Enabled {
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MemorySize)), nil
	}

	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Cache.Redis.Host),
		cache.WithRedisPort(cfg.Cache.Redis.Port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(rc, cache.WithLayeredMemorySize(cfg.Cache.MemorySize)), nil
}

// ProvideSignalCache creates the run-output cache.
func ProvideSignalCache(svc cache.Service, cfg *config.Config) *internalrepo.SignalCache {
	return internalrepo.NewSignalCache(svc, cfg.Cache.TTL)
}

// ProvideFeatureSource selects the configured feature backend.
func ProvideFeatureSource(cfg *config.Config, ch *pkgch.Client, l *applogger.Logger) (repository.FeatureSource, error) {
	switch cfg.Source.Type {
	case "clickhouse":
		if ch == nil {
			return nil, fmt.Errorf("clickhouse source requires a client")
		}
		src := internalrepo.NewCHFeatureSource(ch, cfg.ClickHouse.Database)
		src.SetLogger(l)
		return src, nil
	default:
		src := internalrepo.NewFileFeatureSource(cfg.Source.Path)
		src.SetLogger(l)
		return src, nil
	}
}

// ProvideSignalWriter creates the canonical CSV writer.
func ProvideSignalWriter(cfg *config.Config) repository.SignalWriter {
	return internalrepo.NewCSVSignalWriter(cfg.Signals.OutputPath)
}

// ProvidePipeline wires the batch pipeline with its optional sinks.
func ProvidePipeline(
	cfg *config.Config,
	source repository.FeatureSource,
	writer repository.SignalWriter,
	m repository.Metrics,
	l *applogger.Logger,
	ch *pkgch.Client,
	producer *pkgkafka.Producer,
	sc *internalrepo.SignalCache,
) *usecase.Pipeline {
	s := &cfg.Signals

	opts := []usecase.PipelineOption{usecase.WithRunStore(sc)}

	var f repository.Filter
	if t, ok := util.ParseTime(cfg.Source.From); ok {
		f.From = t
	}
	if t, ok := util.ParseTime(cfg.Source.To); ok {
		f.To = t
	}
	opts = append(opts, usecase.WithFilter(f))

	if cfg.ClickHouse.SinkEnabled && ch != nil {
		opts = append(opts, usecase.WithExtraWriter(internalrepo.NewCHSignalWriter(ch, cfg.ClickHouse.Database)))
	}
	if producer != nil {
		opts = append(opts, usecase.WithPublisher(internalrepo.NewKafkaSignalPublisher(producer, cfg.Kafka.Topic)))
	}

	return usecase.NewPipeline(
		source,
		usecase.NewClassifier(s.BuyThreshold, s.SellThreshold, s.KeywordWeight, s.EmbeddingWeight),
		usecase.NewGrouper(cfg.MarketLocation(), s.LanguageAllowlist),
		usecase.NewAggregator(),
		usecase.NewDecider(s.MinVolumePct, s.MinDailyVolume, s.ConfidenceMode),
		writer,
		m,
		s.Workers,
		l,
		opts...,
	)
}

// ProvideHTTPHandler creates the signals API handler.
func ProvideHTTPHandler(l *applogger.Logger, sc *internalrepo.SignalCache) xhttp.Handler {
	return api.NewSignalsEchoHandler(l, sc)
}

// ProvideApp creates the application.
func ProvideApp(
	cfg *config.Config,
	pipeline *usecase.Pipeline,
	l *applogger.Logger,
	handler xhttp.Handler,
	ch *pkgch.Client,
	producer *pkgkafka.Producer,
	cacheSvc cache.Service,
) *server.App {
	return server.New(cfg, pipeline, l, handler, ch, producer, cacheSvc)
}
