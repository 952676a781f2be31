package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/qrave1/ListenRoom/internal/application/metric"
	"github.com/qrave1/ListenRoom/internal/domain/runtime"
)

// SessionRepository - живые сессии комнат в памяти процесса
type SessionRepository interface {
	// Get отдает копию живой сессии
	Get(ctx context.Context, roomID uuid.UUID) (*runtime.RoomSession, bool)

	// Upsert вливает патч в живую сессию. Отсутствующая сессия создается только из полного
	// начального состояния, иначе ничего не меняется и возвращается false.
	// Сессия без участников удаляется, тоже с false.
	Upsert(ctx context.Context, roomID uuid.UUID, patch runtime.SessionPatch) (*runtime.RoomSession, bool)

	Remove(ctx context.Context, roomID uuid.UUID)

	// List - копии всех живых сессий
	List(ctx context.Context) []*runtime.RoomSession

	// RoomsOf - комнаты, где пользователь сейчас участник
	RoomsOf(ctx context.Context, userID uuid.UUID) []uuid.UUID
}

type sessionRepository struct {
	sessions map[uuid.UUID]*runtime.RoomSession
	mu       sync.RWMutex
}

func NewSessionRepository() SessionRepository {
	return &sessionRepository{
		sessions: make(map[uuid.UUID]*runtime.RoomSession),
	}
}

func (r *sessionRepository) Get(ctx context.Context, roomID uuid.UUID) (*runtime.RoomSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[roomID]
	if !ok {
		return nil, false
	}

	return s.Clone(), true
}

func (r *sessionRepository) Upsert(ctx context.Context, roomID uuid.UUID, patch runtime.SessionPatch) (*runtime.RoomSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[roomID]
	if !ok {
		s, ok = runtime.NewRoomSession(roomID, patch)
		if !ok {
			return nil, false
		}

		r.sessions[roomID] = s
	} else {
		s.Apply(patch)
	}

	if len(s.Members) == 0 {
		delete(r.sessions, roomID)
		metric.SetLiveRooms(len(r.sessions))

		return nil, false
	}

	metric.SetLiveRooms(len(r.sessions))

	return s.Clone(), true
}

func (r *sessionRepository) Remove(ctx context.Context, roomID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, roomID)
	metric.SetLiveRooms(len(r.sessions))
}

func (r *sessionRepository) List(ctx context.Context) []*runtime.RoomSession {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*runtime.RoomSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s.Clone())
	}

	return out
}

func (r *sessionRepository) RoomsOf(ctx context.Context, userID uuid.UUID) []uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var rooms []uuid.UUID

	for id, s := range r.sessions {
		if s.HasMember(userID) {
			rooms = append(rooms, id)
		}
	}

	return rooms
}
