package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/qrave1/ListenRoom/internal/domain/input"
	"github.com/qrave1/ListenRoom/internal/domain/policy"
	"github.com/qrave1/ListenRoom/internal/infra/ports/http/dto"
	"github.com/qrave1/ListenRoom/internal/usecase"
)

type RoomHandler struct {
	roomUsecase    usecase.RoomUsecase
	sessionUsecase usecase.SessionUsecase
}

func NewRoomHandler(roomUsecase usecase.RoomUsecase, sessionUsecase usecase.SessionUsecase) *RoomHandler {
	return &RoomHandler{
		roomUsecase:    roomUsecase,
		sessionUsecase: sessionUsecase,
	}
}

func (h *RoomHandler) ListRooms(c echo.Context) error {
	rooms, err := h.roomUsecase.ListRooms(c.Request().Context())
	if err != nil {
		return respondError(c, "list rooms", err)
	}

	return c.JSON(http.StatusOK, rooms)
}

func (h *RoomHandler) CreateRoom(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	var req dto.CreateRoomRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	room, err := h.roomUsecase.CreateRoom(c.Request().Context(), &input.CreateRoomInput{
		OwnerID:  userID,
		Name:     req.Name,
		Playlist: req.Playlist,
	})
	if err != nil {
		return respondError(c, "create room", err)
	}

	return c.JSON(http.StatusCreated, room)
}

func (h *RoomHandler) UpdateRoom(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	roomID, ok := paramID(c, "rid")
	if !ok {
		return badRequest(c, "invalid room id")
	}

	var req dto.UpdateRoomRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	room, err := h.roomUsecase.UpdateRoom(c.Request().Context(), &input.UpdateRoomInput{
		ID:       roomID,
		ActorID:  userID,
		Name:     req.Name,
		Playlist: req.Playlist,
	})
	if err != nil {
		return respondError(c, "update room", err)
	}

	return c.JSON(http.StatusOK, room)
}

func (h *RoomHandler) DeleteRoom(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	roomID, ok := paramID(c, "rid")
	if !ok {
		return badRequest(c, "invalid room id")
	}

	if err := h.roomUsecase.DeleteRoom(c.Request().Context(), roomID, userID); err != nil {
		return respondError(c, "delete room", err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ChangeRole - общий обработчик для promote/demote admin/controller
func (h *RoomHandler) ChangeRole(action policy.Action) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, ok := currentUserID(c)
		if !ok {
			return unauthorized(c)
		}

		roomID, ok := paramID(c, "rid")
		if !ok {
			return badRequest(c, "invalid room id")
		}

		targetID, ok := paramID(c, "uid")
		if !ok {
			return badRequest(c, "invalid user id")
		}

		message, err := h.sessionUsecase.ChangeRole(c.Request().Context(), roomID, userID, targetID, action)
		if err != nil {
			return respondError(c, string(action), err)
		}

		return c.JSON(http.StatusOK, dto.MessageResponse{Message: message})
	}
}
