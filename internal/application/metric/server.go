package metric

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/qrave1/ListenRoom/internal/application/constant"
)

const readyTimeout = 2 * time.Second

// Pinger - зависимость, без которой сервер не готов принимать комнаты (каталог в postgres)
type Pinger interface {
	PingContext(ctx context.Context) error
}

// NewServer - служебный сервер: /metrics для prometheus, /health живость процесса,
// /ready доступность каталога
func NewServer(catalog Pinger) *echo.Echo {
	e := echo.New()

	e.HideBanner = true
	e.HidePort = true

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "service": "listenroom"})
	})

	e.GET("/ready", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), readyTimeout)
		defer cancel()

		if err := catalog.PingContext(ctx); err != nil {
			slog.Warn("catalog is not ready", slog.Any(constant.Error, err))
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "catalog unavailable"})
		}

		return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
	})

	return e
}
