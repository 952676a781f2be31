package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/qrave1/ListenRoom/internal/application/constant"
	"github.com/qrave1/ListenRoom/internal/domain"
	"github.com/qrave1/ListenRoom/internal/infra/appctx"
)

func statusOf(err error) int {
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindInvalidArgument:
		return http.StatusBadRequest
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError отдает клиенту сообщение доменной ошибки, остальные ошибки скрываются за "internal error"
func respondError(c echo.Context, op string, err error) error {
	status := statusOf(err)

	message := "internal error"

	var de *domain.Error
	if errors.As(err, &de) {
		message = de.Message
	}

	log := slog.Warn
	if status >= http.StatusInternalServerError {
		log = slog.Error
	}

	log(op, slog.Int("status", status), slog.Any(constant.Error, err))

	return c.JSON(status, map[string]string{"error": message})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": message})
}

func currentUserID(c echo.Context) (uuid.UUID, bool) {
	return appctx.UserID(c.Request().Context())
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user ID in context"})
}

func paramID(c echo.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, false
	}

	return id, true
}
