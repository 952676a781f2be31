package dto

import "github.com/google/uuid"

type CreateRoomRequest struct {
	Name     string      `json:"name"`
	Playlist []uuid.UUID `json:"playlist"`
}

// UpdateRoomRequest: отсутствующий playlist не меняет плейлист, пустой массив очищает его
type UpdateRoomRequest struct {
	Name     string      `json:"name"`
	Playlist []uuid.UUID `json:"playlist"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
