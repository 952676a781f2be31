package runtime

import (
	"time"

	"github.com/google/uuid"
)

// Role - роль пользователя внутри конкретной комнаты
type Role string

const (
	RoleMember     Role = "member"
	RoleController Role = "controller"
	RoleAdmin      Role = "admin"
	RoleOwner      Role = "owner"
)

type Member struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	ProfileImage string    `json:"profileImage"`
	Role         Role      `json:"role"`
}

// ChatEntry хранит снимок автора на момент отправки
type ChatEntry struct {
	User      Member    `json:"user"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
