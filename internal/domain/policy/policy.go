// Package policy решает, может ли пользователь выполнить действие в комнате.
// Функции чистые: решение принимается только по переданному состоянию сессии,
// поэтому вызывающий обязан передавать актуальный снимок, а не закешированный.
package policy

import (
	"github.com/google/uuid"

	"github.com/qrave1/ListenRoom/internal/domain"
	"github.com/qrave1/ListenRoom/internal/domain/runtime"
)

type Action string

const (
	PromoteAdmin      Action = "promote-admin"
	DemoteAdmin       Action = "demote-admin"
	PromoteController Action = "promote-controller"
	DemoteController  Action = "demote-controller"

	PlayPause      Action = "play-pause"
	Seek           Action = "seek"
	Next           Action = "next"
	Prev           Action = "prev"
	PlaySong       Action = "play-song"
	Sync           Action = "sync"
	UpdatePlaylist Action = "update-playlist"
	AddSong        Action = "add-song"
	Chat           Action = "chat"

	EditRoom   Action = "edit-room"
	DeleteRoom Action = "delete-room"
)

// Authorize возвращает nil или ошибку вида Forbidden с причиной отказа
func Authorize(s *runtime.RoomSession, actor uuid.UUID, action Action) error {
	if s == nil {
		return domain.NotFound("room not found")
	}

	switch action {
	case PromoteAdmin, DemoteAdmin:
		if actor != s.Owner {
			return domain.Forbidden("only the room owner can change admins")
		}

	case PromoteController, DemoteController:
		if actor != s.Owner && !s.IsAdmin(actor) {
			return domain.Forbidden("only the room owner or an admin can change controllers")
		}

	case PlayPause, Seek, Next, Prev, PlaySong, Sync, UpdatePlaylist, AddSong, Chat:
		if !s.HasMember(actor) {
			return domain.Forbidden("user %s is not a member of the room: %s", actor, s.Name)
		}

	case EditRoom:
		if actor != s.Owner && !s.IsAdmin(actor) {
			return domain.Forbidden("only the room owner or an admin can edit the room")
		}

	case DeleteRoom:
		if actor != s.Owner {
			return domain.Forbidden("only the room owner can delete the room")
		}

	default:
		return domain.InvalidArgument("unknown action %q", action)
	}

	return nil
}

func Allowed(s *runtime.RoomSession, actor uuid.UUID, action Action) bool {
	return Authorize(s, actor, action) == nil
}
