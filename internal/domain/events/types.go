package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/qrave1/ListenRoom/internal/domain/models"
	"github.com/qrave1/ListenRoom/internal/domain/runtime"
)

// Message - общее событие, в обе стороны ходит как {"type": ..., "data": ...}
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func NewMessage(eventType string, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	return Message{Type: eventType, Data: data}, nil
}

// Входящие события
const (
	JoinRoom          = "join-room"
	LeaveRoom         = "leave-room"
	PlayPause         = "play-pause"
	Seek              = "seek"
	Next              = "next"
	Prev              = "prev"
	PlaySong          = "play-song"
	Sync              = "sync"
	UpdatePlaylist    = "update-playlist"
	AddSong           = "add-song"
	Chat              = "chat"
	PromoteAdmin      = "promote-admin"
	DemoteAdmin       = "demote-admin"
	PromoteController = "promote-controller"
	DemoteController  = "demote-controller"
)

// Исходящие события (play-pause, seek, next, prev, play-song, update-playlist, add-song и chat
// называются так же, как входящие)
const (
	JoinedRoom   = "joined-room"
	LeftRoom     = "left-room"
	UsersChange  = "users-change"
	Notification = "notification"
	Error        = "error"
)

// Intent - полезная нагрузка любого входящего события, лишние поля игнорируются
type Intent struct {
	RoomID uuid.UUID `json:"roomId"`
	UserID uuid.UUID `json:"userId"`

	// join-room
	Name         string `json:"name"`
	Email        string `json:"email"`
	ProfileImage string `json:"profileImage"`

	SeekSeconds   Seconds     `json:"seekSeconds"`
	SecondsPlayed Seconds     `json:"secondsPlayed"`
	CurrentSongID uuid.UUID   `json:"currentSongId"`
	SongID        uuid.UUID   `json:"songId"`
	SongIDs       []uuid.UUID `json:"songIds"`
	Song          *SongRef    `json:"song"`

	Message   string    `json:"message"`
	Timestamp Timestamp `json:"timestamp"`

	TargetUserID uuid.UUID `json:"targetUserId"`
}

type SongRef struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

func DecodeIntent(data json.RawMessage) (*Intent, error) {
	in := new(Intent)
	if len(data) == 0 {
		return in, nil
	}

	if err := json.Unmarshal(data, in); err != nil {
		return nil, fmt.Errorf("unmarshal intent: %w", err)
	}

	return in, nil
}

type JoinedRoomEvent struct {
	RoomState
}

type LeftRoomEvent struct {
	ID uuid.UUID `json:"id"`
}

type UsersChangeEvent struct {
	Users  []runtime.Member `json:"users"`
	RoomID uuid.UUID        `json:"roomId"`
}

type NotificationEvent struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type ErrorEvent struct {
	Message string `json:"message"`
}

type PlayPauseEvent struct {
	Paused bool `json:"paused"`
}

type SeekEvent struct {
	LastChangedAt time.Time `json:"lastChangedAt"`
	Paused        bool      `json:"paused"`
	SecondsPlayed float64   `json:"secondsPlayed"`
}

// TrackEvent - next, prev и play-song
type TrackEvent struct {
	SecondsPlayed float64   `json:"secondsPlayed"`
	LastChangedAt time.Time `json:"lastChangedAt"`
	Paused        bool      `json:"paused"`
	CurrentSong   uuid.UUID `json:"currentSong"`
}

// PlaylistEvent - update-playlist и add-song. Курсор приходит вместе с плейлистом,
// так как правка плейлиста может его сдвинуть.
type PlaylistEvent struct {
	Playlist    []models.Song `json:"playlist"`
	CurrentSong uuid.UUID     `json:"currentSong"`
	Paused      bool          `json:"paused"`
}

type ChatEvent struct {
	Chats []runtime.ChatEntry `json:"chats"`
}

// RoomState - полный снимок сессии для только что вошедшего участника
type RoomState struct {
	ID            uuid.UUID           `json:"id"`
	Name          string              `json:"name"`
	Owner         uuid.UUID           `json:"owner"`
	Admins        []uuid.UUID         `json:"admins"`
	Controllers   []uuid.UUID         `json:"controllers"`
	Playlist      []models.Song       `json:"playlist"`
	CurrentSong   uuid.UUID           `json:"currentSong"`
	Paused        bool                `json:"paused"`
	SecondsPlayed float64             `json:"secondsPlayed"`
	LastChangedAt time.Time           `json:"lastChangedAt"`
	Users         []runtime.Member    `json:"users"`
	Chats         []runtime.ChatEntry `json:"chats"`
}

func NewRoomState(s *runtime.RoomSession) RoomState {
	return RoomState{
		ID:            s.ID,
		Name:          s.Name,
		Owner:         s.Owner,
		Admins:        nonNil(s.Admins),
		Controllers:   nonNil(s.Controllers),
		Playlist:      nonNil(s.Playlist),
		CurrentSong:   s.CurrentSongID(),
		Paused:        s.Paused,
		SecondsPlayed: s.SecondsPlayed,
		LastChangedAt: s.LastChangedAt,
		Users:         nonNil(s.Members),
		Chats:         nonNil(s.Chats),
	}
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}

	return v
}
