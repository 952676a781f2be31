package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/qrave1/ListenRoom/internal/domain/input"
	"github.com/qrave1/ListenRoom/internal/infra/ports/http/dto"
	"github.com/qrave1/ListenRoom/internal/usecase"
)

type SongHandler struct {
	songUsecase usecase.SongUsecase
}

func NewSongHandler(songUsecase usecase.SongUsecase) *SongHandler {
	return &SongHandler{songUsecase: songUsecase}
}

// SearchSongs: GET /api/songs?search=
func (h *SongHandler) SearchSongs(c echo.Context) error {
	songs, err := h.songUsecase.SearchSongs(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return respondError(c, "search songs", err)
	}

	return c.JSON(http.StatusOK, songs)
}

func (h *SongHandler) ListSongs(c echo.Context) error {
	songs, err := h.songUsecase.ListSongs(c.Request().Context())
	if err != nil {
		return respondError(c, "list songs", err)
	}

	return c.JSON(http.StatusOK, songs)
}

func (h *SongHandler) CheckAvailability(c echo.Context) error {
	var req dto.SongAvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	if err := h.songUsecase.CheckAvailability(c.Request().Context(), req.Title, req.Hash); err != nil {
		return respondError(c, "check song availability", err)
	}

	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Song is available"})
}

func (h *SongHandler) CreateSong(c echo.Context) error {
	var req dto.CreateSongRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	song, err := h.songUsecase.AddSong(c.Request().Context(), &input.AddSongInput{
		Title:    req.Title,
		Artist:   req.Artist,
		URL:      req.URL,
		FileType: req.FileType,
		Length:   req.Length,
		Hash:     req.Hash,
	})
	if err != nil {
		return respondError(c, "create song", err)
	}

	return c.JSON(http.StatusCreated, song)
}

func (h *SongHandler) UpdateSong(c echo.Context) error {
	songID, ok := paramID(c, "sid")
	if !ok {
		return badRequest(c, "invalid song id")
	}

	var req dto.UpdateSongRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	song, err := h.songUsecase.UpdateSong(c.Request().Context(), &input.UpdateSongInput{
		ID:     songID,
		Title:  req.Title,
		Artist: req.Artist,
	})
	if err != nil {
		return respondError(c, "update song", err)
	}

	return c.JSON(http.StatusOK, song)
}

func (h *SongHandler) DeleteSong(c echo.Context) error {
	songID, ok := paramID(c, "sid")
	if !ok {
		return badRequest(c, "invalid song id")
	}

	if err := h.songUsecase.DeleteSong(c.Request().Context(), songID); err != nil {
		return respondError(c, "delete song", err)
	}

	return c.NoContent(http.StatusNoContent)
}
