package runtime

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/qrave1/ListenRoom/internal/domain/models"
)

// NoTrack - курсор пустого плейлиста
const NoTrack = -1

// RoomSession - живое состояние комнаты, существует пока в комнате есть хотя бы один участник.
//
// Роли участников не хранятся отдельно: Member.Role каждый раз пересчитывается
// из Owner, Admins и Controllers в Normalize.
type RoomSession struct {
	ID   uuid.UUID
	Name string

	Owner       uuid.UUID
	Admins      []uuid.UUID
	Controllers []uuid.UUID

	Playlist      []models.Song
	Cursor        int
	Paused        bool
	SecondsPlayed float64
	LastChangedAt time.Time

	Members []Member
	Chats   []ChatEntry
}

// NewRoomSession собирает сессию только из полного начального состояния
// (владелец, плейлист и хотя бы один участник), иначе возвращает false.
func NewRoomSession(id uuid.UUID, p SessionPatch) (*RoomSession, bool) {
	if !p.complete() {
		return nil, false
	}

	s := &RoomSession{ID: id, Cursor: NoTrack, Paused: true}
	if p.Name != nil {
		s.Name = *p.Name
	}

	p.merge(s)
	s.Normalize()

	return s, true
}

// Apply сливает заданные поля патча в сессию. Имя комнаты после создания не меняется.
func (s *RoomSession) Apply(p SessionPatch) {
	p.merge(s)
	s.Normalize()
}

// Normalize восстанавливает инварианты после любого изменения
func (s *RoomSession) Normalize() {
	s.Members = uniqueMembers(s.Members)
	s.Admins = uniqueIDs(s.Admins)
	s.Controllers = uniqueIDs(s.Controllers)

	if len(s.Playlist) == 0 {
		s.Cursor = NoTrack
		s.Paused = true
		s.SecondsPlayed = 0
	} else if s.Cursor < 0 || s.Cursor >= len(s.Playlist) {
		s.Cursor = 0
	}

	if s.SecondsPlayed < 0 {
		s.SecondsPlayed = 0
	}

	if song, ok := s.CurrentSong(); ok && s.SecondsPlayed > float64(song.Length) {
		s.SecondsPlayed = float64(song.Length)
	}

	for i := range s.Members {
		s.Members[i].Role = s.RoleOf(s.Members[i].ID)
	}
}

func (s *RoomSession) CurrentSong() (models.Song, bool) {
	if s.Cursor < 0 || s.Cursor >= len(s.Playlist) {
		return models.Song{}, false
	}

	return s.Playlist[s.Cursor], true
}

// CurrentSongID возвращает uuid.Nil при пустом плейлисте
func (s *RoomSession) CurrentSongID() uuid.UUID {
	song, ok := s.CurrentSong()
	if !ok {
		return uuid.Nil
	}

	return song.ID
}

// IndexOfSong ищет позицию трека. Плейлист допускает дубли, поэтому если курсор
// уже стоит на треке с таким id, возвращается именно он.
func (s *RoomSession) IndexOfSong(songID uuid.UUID) int {
	if song, ok := s.CurrentSong(); ok && song.ID == songID {
		return s.Cursor
	}

	for i, song := range s.Playlist {
		if song.ID == songID {
			return i
		}
	}

	return NoTrack
}

// Step сдвигает индекс по кругу: после последнего идет первый, перед первым - последний
func (s *RoomSession) Step(from, delta int) int {
	n := len(s.Playlist)
	if n == 0 {
		return NoTrack
	}

	return ((from+delta)%n + n) % n
}

func (s *RoomSession) Member(userID uuid.UUID) (Member, bool) {
	for _, m := range s.Members {
		if m.ID == userID {
			return m, true
		}
	}

	return Member{}, false
}

func (s *RoomSession) HasMember(userID uuid.UUID) bool {
	_, ok := s.Member(userID)
	return ok
}

func (s *RoomSession) IsAdmin(userID uuid.UUID) bool {
	return slices.Contains(s.Admins, userID)
}

func (s *RoomSession) IsController(userID uuid.UUID) bool {
	return slices.Contains(s.Controllers, userID)
}

// RoleOf - единственный источник эффективной роли в комнате
func (s *RoomSession) RoleOf(userID uuid.UUID) Role {
	switch {
	case userID == s.Owner:
		return RoleOwner
	case s.IsAdmin(userID):
		return RoleAdmin
	case s.IsController(userID):
		return RoleController
	default:
		return RoleMember
	}
}

func (s *RoomSession) PlaylistIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.Playlist))
	for _, song := range s.Playlist {
		ids = append(ids, song.ID)
	}

	return ids
}

// Clone делает глубокую копию, наружу из хранилища сессии отдаются только копии
func (s *RoomSession) Clone() *RoomSession {
	if s == nil {
		return nil
	}

	c := *s
	c.Admins = append([]uuid.UUID(nil), s.Admins...)
	c.Controllers = append([]uuid.UUID(nil), s.Controllers...)
	c.Playlist = append([]models.Song(nil), s.Playlist...)
	c.Members = append([]Member(nil), s.Members...)
	c.Chats = append([]ChatEntry(nil), s.Chats...)

	return &c
}

func uniqueMembers(members []Member) []Member {
	out := make([]Member, 0, len(members))
	pos := make(map[uuid.UUID]int, len(members))

	for _, m := range members {
		if i, ok := pos[m.ID]; ok {
			out[i] = m
			continue
		}

		pos[m.ID] = len(out)
		out = append(out, m)
	}

	return out
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok || id == uuid.Nil {
			continue
		}

		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
