package output

import (
	"github.com/qrave1/ListenRoom/internal/domain/models"
	"github.com/qrave1/ListenRoom/internal/domain/runtime"
)

// RoomWithUsers - комната из каталога и ее участники, если сессия сейчас живая
type RoomWithUsers struct {
	models.Room

	Users []runtime.Member `json:"users"`
}
