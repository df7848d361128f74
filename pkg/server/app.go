package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"TrendPulse/internal/usecase"
	"TrendPulse/pkg/cache"
	pkgch "TrendPulse/pkg/clickhouse"
	"TrendPulse/pkg/config"
	xhttp "TrendPulse/pkg/http"
	pkgkafka "TrendPulse/pkg/kafka"
	applogger "TrendPulse/pkg/logger"
)

// App encapsulates the application lifecycle: one batch run, then an
// optional serve phase until SIGTERM.
type App struct {
	cfg         *config.Config
	pipeline    *usecase.Pipeline
	l           *applogger.Logger
	httpHandler xhttp.Handler
	httpServer  *xhttp.Server
	chClient    *pkgch.Client
	producer    *pkgkafka.Producer
	cacheSvc    cache.Service
}

// New creates a new App instance with all dependencies. chClient and
// producer may be nil when the configuration does not use them.
func New(
	cfg *config.Config,
	pipeline *usecase.Pipeline,
	l *applogger.Logger,
	httpHandler xhttp.Handler,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
	cacheSvc cache.Service,
) *App {
	return &App{
		cfg:         cfg,
		pipeline:    pipeline,
		l:           l,
		httpHandler: httpHandler,
		chClient:    chClient,
		producer:    producer,
		cacheSvc:    cacheSvc,
	}
}

// Run executes the batch and, when the server is enabled, serves the signal
// API until interrupted. Blocks until done.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.producer != nil && a.cfg.Kafka.LogTopic != "" {
		a.l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          a.cfg.Kafka.LogTopic,
			Publisher:      a.producer,
		})
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		a.l.Info("shutdown signal received")
		cancel()
	}()

	signals, _, err := a.pipeline.Run(ctx)
	if err != nil {
		a.l.Error("pipeline run failed", applogger.Error(err))
		a.close()
		return err
	}
	a.l.Info("signal table written",
		applogger.Int("days", len(signals)),
		applogger.String("output", a.cfg.Signals.OutputPath),
	)

	if !a.cfg.Server.Enabled {
		a.close()
		return nil
	}

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsLogger(a.l),
		xhttp.WithRateLimit(a.cfg.Server.RateLimitRPS),
	)
	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		a.close()
		return err
	}
	a.l.Info("serving signals api", applogger.Int("port", a.cfg.Server.Port))

	<-ctx.Done()
	return a.shutdown()
}

// shutdown gracefully stops the server and releases resources.
func (a *App) shutdown() error {
	if a.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := a.httpServer.Stop(shutdownCtx); err != nil {
			a.l.Error("http shutdown error", applogger.Error(err))
		}
	}
	a.close()
	a.l.Info("shutdown complete")
	return nil
}

func (a *App) close() {
	a.l.RemoveCollector()
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.l.Warn("kafka producer close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.l.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	if a.cacheSvc != nil {
		if err := a.cacheSvc.Close(); err != nil {
			a.l.Warn("cache close error", applogger.Error(err))
		}
	}
}
