package constant

// Ключи атрибутов для slog
const (
	Error     = "error"
	UserID    = "user_id"
	UserName  = "user_name"
	RoomID    = "room_id"
	SongID    = "song_id"
	ConnID    = "conn_id"
	EventType = "event_type"
	Kind      = "kind"
	State     = "state"
)
