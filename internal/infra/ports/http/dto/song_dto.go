package dto

type SongAvailabilityRequest struct {
	Title string `json:"title"`
	Hash  string `json:"hash"`
}

type CreateSongRequest struct {
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	URL      string `json:"url"`
	FileType string `json:"fileType"`
	Length   int    `json:"length"`
	Hash     string `json:"hash"`
}

type UpdateSongRequest struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
}
