package models

import (
	"time"

	"github.com/google/uuid"
	"gopkg.in/guregu/null.v4"
)

type User struct {
	ID           uuid.UUID   `json:"id" db:"id"`
	Name         string      `json:"name" db:"name"`
	Email        string      `json:"email" db:"email"`
	ProfileImage null.String `json:"profileImage" db:"profile_image"`
	GoogleID     null.String `json:"-" db:"google_id"`
	CreatedAt    time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time   `json:"updatedAt" db:"updated_at"`
}

func NewUser() *User {
	now := time.Now()

	return &User{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
