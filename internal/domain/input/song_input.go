package input

import "github.com/google/uuid"

type AddSongInput struct {
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	URL      string `json:"url"`
	FileType string `json:"fileType"`
	Length   int    `json:"length"`
	Hash     string `json:"hash"`
}

type UpdateSongInput struct {
	ID     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	Artist string    `json:"artist"`
}
