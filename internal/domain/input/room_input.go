package input

import "github.com/google/uuid"

type CreateRoomInput struct {
	OwnerID  uuid.UUID   `json:"ownerId"`
	Name     string      `json:"name"`
	Playlist []uuid.UUID `json:"playlist"`
}

type UpdateRoomInput struct {
	ID      uuid.UUID `json:"id"`
	ActorID uuid.UUID `json:"actorId"`
	Name    string    `json:"name"`
	// Playlist == nil - плейлист не меняется
	Playlist []uuid.UUID `json:"playlist"`
}
