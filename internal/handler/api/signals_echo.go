package api

import (
	"context"
	"errors"

	"TrendPulse/internal/domain/models"
	"TrendPulse/pkg/cache"
	xhttp "TrendPulse/pkg/http"
	xlogger "TrendPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SignalReader serves the latest run's output. Satisfied by the signal
// cache.
type SignalReader interface {
	Signals(ctx context.Context) ([]models.DailySignal, error)
	Signal(ctx context.Context, day string) (models.DailySignal, error)
	Summary(ctx context.Context) (*models.RunSummary, error)
}

// SignalsEchoHandler exposes the daily signal table over HTTP.
type SignalsEchoHandler struct {
	logger *xlogger.Logger
	reader SignalReader
}

func NewSignalsEchoHandler(logger *xlogger.Logger, reader SignalReader) *SignalsEchoHandler {
	return &SignalsEchoHandler{logger: logger, reader: reader}
}

func (h *SignalsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/signals", h.Signals)
	g.GET("/signals/:date", h.Signal)
	g.GET("/run", h.Run)
	e.GET("/healthz", h.Health)
}

// Signals lists the full signal table, optionally windowed by inclusive
// from/to day keys.
func (h *SignalsEchoHandler) Signals(c echo.Context) error {
	req := &models.SignalsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	signals, err := h.reader.Signals(c.Request().Context())
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return xhttp.SuccessResponse(c, []models.DailySignal{})
		}
		h.logger.Error("signals lookup error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	if req.From != "" || req.To != "" {
		filtered := make([]models.DailySignal, 0, len(signals))
		for _, s := range signals {
			if req.From != "" && string(s.Day) < req.From {
				continue
			}
			if req.To != "" && string(s.Day) > req.To {
				continue
			}
			filtered = append(filtered, s)
		}
		signals = filtered
	}

	if limit := xhttp.ParseIntDefault(c.QueryParam("limit"), 0); limit > 0 && len(signals) > limit {
		signals = signals[:limit]
	}

	return xhttp.ListResponse(c, signals, int64(len(signals)))
}

// Signal returns one day's row.
func (h *SignalsEchoHandler) Signal(c echo.Context) error {
	req := &models.SignalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	s, err := h.reader.Signal(c.Request().Context(), req.Date)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("no signal for %s", req.Date))
		}
		h.logger.Error("signal lookup error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, s)
}

// Run returns the latest run summary.
func (h *SignalsEchoHandler) Run(c echo.Context) error {
	summary, err := h.reader.Summary(c.Request().Context())
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no completed run"))
		}
		h.logger.Error("run summary lookup error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, summary)
}

// Health is a liveness probe.
func (h *SignalsEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}
