package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/qrave1/ListenRoom/internal/domain/input"
)

type Room struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OwnerID   uuid.UUID `json:"ownerId" db:"owner_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

func NewRoom(input *input.CreateRoomInput) *Room {
	now := time.Now()

	return &Room{
		ID:        uuid.New(),
		OwnerID:   input.OwnerID,
		Name:      input.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// RoomMetadata - всё, что нужно для поднятия живой сессии комнаты
type RoomMetadata struct {
	Room

	Admins   []uuid.UUID `json:"admins"`
	Playlist []Song      `json:"playlist"`
}
