package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/qrave1/ListenRoom/internal/application/config"
	"github.com/qrave1/ListenRoom/internal/application/constant"
	"github.com/qrave1/ListenRoom/internal/application/metric"
	"github.com/qrave1/ListenRoom/internal/domain/events"
	"github.com/qrave1/ListenRoom/internal/infra/adapters/memory"
	"github.com/qrave1/ListenRoom/internal/usecase"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second
	writeTimeout = 10 * time.Second
)

type WebSocketHandler struct {
	upgrader *websocket.Upgrader

	sessionUsecase usecase.SessionUsecase

	wsConnRepo memory.WebsocketConnectionRepository
}

func NewWebSocketHandler(cfg *config.Config, sessionUsecase usecase.SessionUsecase, wsConnRepo memory.WebsocketConnectionRepository) *WebSocketHandler {
	return &WebSocketHandler{
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if cfg.Debug {
					return true
				}

				origin := r.Header.Get("Origin")

				return origin == cfg.Domain || origin == cfg.WebURL
			},
		},
		sessionUsecase: sessionUsecase,
		wsConnRepo:     wsConnRepo,
	}
}

func (h *WebSocketHandler) Handle(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"WebSocket upgrade error",
			slog.Any(constant.Error, err),
		)
		return err
	}
	defer ws.Close()

	ctx := c.Request().Context()
	connID := uuid.New()

	h.wsConnRepo.Add(connID, ws)
	metric.IncrementWSActiveConnections()

	// при любом обрыве пользователь выходит из всех комнат этого соединения
	defer func() {
		h.sessionUsecase.Disconnect(ctx, connID, userID)
		h.wsConnRepo.Remove(connID)
		metric.DecrementWSActiveConnections()
	}()

	slog.Info("user connected to websocket", slog.Any(constant.UserID, userID), slog.Any(constant.ConnID, connID))

	if err = ws.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
		return nil
	}
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(readTimeout))
	})

	pingCtx, stopPing := context.WithCancel(ctx)
	defer stopPing()

	go keepAlive(pingCtx, ws)

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			h.handleWebsocketError(userID, err)
			return nil
		}

		var msg events.Message
		if err = json.Unmarshal(raw, &msg); err != nil {
			slog.Warn("unmarshal websocket message", slog.Any(constant.UserID, userID), slog.Any(constant.Error, err))
			h.sendMalformed(connID)

			continue
		}

		h.sessionUsecase.Handle(ctx, connID, userID, msg)
	}
}

// keepAlive шлет ping через WriteControl: его можно вызывать параллельно с писателем соединения
func keepAlive(ctx context.Context, ws *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				slog.Error("ping failed", slog.Any(constant.Error, err))
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (h *WebSocketHandler) sendMalformed(connID uuid.UUID) {
	msg, err := events.NewMessage(events.Error, events.ErrorEvent{Message: "malformed message"})
	if err != nil {
		return
	}

	h.wsConnRepo.Send(connID, msg)
}

func (h *WebSocketHandler) handleWebsocketError(userID uuid.UUID, err error) {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		switch closeErr.Code {
		case websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived:
			slog.Info("user disconnected from websocket", slog.Any(constant.UserID, userID))
		default:
			slog.Error("websocket close error", slog.Any(constant.UserID, userID), slog.Int("code", closeErr.Code))
		}

		return
	}

	slog.Error(
		"websocket read",
		slog.Any(constant.UserID, userID),
		slog.Any(constant.Error, err),
	)
}
