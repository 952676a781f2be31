package models

import (
	"time"

	"github.com/google/uuid"
	"gopkg.in/guregu/null.v4"

	"github.com/qrave1/ListenRoom/internal/domain/input"
)

type Song struct {
	ID       uuid.UUID   `json:"id" db:"id"`
	Title    string      `json:"title" db:"title"`
	Artist   string      `json:"artist" db:"artist"`
	URL      string      `json:"url" db:"url"`
	FileType null.String `json:"fileType" db:"file_type"`
	// Length - длительность в секундах
	Length    int         `json:"length" db:"length"`
	Hash      null.String `json:"hash" db:"hash"`
	CreatedAt time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time   `json:"updatedAt" db:"updated_at"`
}

func NewSong(input *input.AddSongInput) *Song {
	now := time.Now()

	return &Song{
		ID:        uuid.New(),
		Title:     input.Title,
		Artist:    input.Artist,
		URL:       input.URL,
		FileType:  null.NewString(input.FileType, input.FileType != ""),
		Length:    input.Length,
		Hash:      null.NewString(input.Hash, input.Hash != ""),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
