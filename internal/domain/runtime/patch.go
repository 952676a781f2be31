package runtime

import (
	"time"

	"github.com/google/uuid"

	"github.com/qrave1/ListenRoom/internal/domain/models"
)

// SessionPatch - частичное обновление сессии, nil поля не трогаются
type SessionPatch struct {
	Name        *string
	Owner       *uuid.UUID
	Admins      *[]uuid.UUID
	Controllers *[]uuid.UUID

	Playlist      *[]models.Song
	Cursor        *int
	Paused        *bool
	SecondsPlayed *float64
	LastChangedAt *time.Time

	Members *[]Member
	Chats   *[]ChatEntry
}

func Ptr[T any](v T) *T {
	return &v
}

func (p SessionPatch) complete() bool {
	return p.Owner != nil && *p.Owner != uuid.Nil &&
		p.Playlist != nil &&
		p.Members != nil && len(*p.Members) > 0
}

func (p SessionPatch) merge(s *RoomSession) {
	if p.Owner != nil && *p.Owner != uuid.Nil {
		s.Owner = *p.Owner
	}
	if p.Admins != nil {
		s.Admins = append([]uuid.UUID(nil), (*p.Admins)...)
	}
	if p.Controllers != nil {
		s.Controllers = append([]uuid.UUID(nil), (*p.Controllers)...)
	}
	if p.Playlist != nil {
		s.Playlist = append([]models.Song(nil), (*p.Playlist)...)
	}
	if p.Cursor != nil {
		s.Cursor = *p.Cursor
	}
	if p.Paused != nil {
		s.Paused = *p.Paused
	}
	if p.SecondsPlayed != nil {
		s.SecondsPlayed = *p.SecondsPlayed
	}
	if p.LastChangedAt != nil {
		s.LastChangedAt = *p.LastChangedAt
	}
	if p.Members != nil {
		s.Members = append([]Member(nil), (*p.Members)...)
	}
	if p.Chats != nil {
		s.Chats = append([]ChatEntry(nil), (*p.Chats)...)
	}
}
