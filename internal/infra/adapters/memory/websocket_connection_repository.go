package memory

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/qrave1/ListenRoom/internal/application/constant"
	"github.com/qrave1/ListenRoom/internal/application/metric"
)

// Conn - то, что нужно от websocket соединения, *websocket.Conn подходит как есть
type Conn interface {
	WriteJSON(v any) error
}

// WebsocketConnectionRepository - активные соединения и их подписки на комнаты.
// Отправка никогда не блокирует вызывающего: у каждого соединения своя очередь и писатель.
type WebsocketConnectionRepository interface {
	Add(connID uuid.UUID, conn Conn)
	Remove(connID uuid.UUID)

	Join(roomID, connID uuid.UUID)
	Leave(roomID, connID uuid.UUID)
	LeaveAll(roomID uuid.UUID)
	Rooms(connID uuid.UUID) []uuid.UUID
	Conns(roomID uuid.UUID) []uuid.UUID

	Send(connID uuid.UUID, payload any)
	Publish(roomID uuid.UUID, payload any)
}

type safeWS struct {
	conn  Conn
	send  chan any
	rooms map[uuid.UUID]struct{}
}

type wsConnectionRepository struct {
	queueSize int

	// wsConns хранит map[conn_id]*safeWS
	wsConns map[uuid.UUID]*safeWS
	// groups хранит map[room_id]set[conn_id]
	groups map[uuid.UUID]map[uuid.UUID]struct{}

	mu sync.RWMutex
}

func NewWSConnectionRepository(queueSize int) WebsocketConnectionRepository {
	if queueSize <= 0 {
		queueSize = 1
	}

	return &wsConnectionRepository{
		queueSize: queueSize,
		wsConns:   make(map[uuid.UUID]*safeWS, 10),
		groups:    make(map[uuid.UUID]map[uuid.UUID]struct{}),
	}
}

func (w *wsConnectionRepository) Add(connID uuid.UUID, conn Conn) {
	ws := &safeWS{
		conn:  conn,
		send:  make(chan any, w.queueSize),
		rooms: make(map[uuid.UUID]struct{}),
	}

	w.mu.Lock()
	old, exists := w.wsConns[connID]
	w.wsConns[connID] = ws
	if exists {
		close(old.send)
	}
	w.mu.Unlock()

	go writePump(connID, ws)
}

func (w *wsConnectionRepository) Remove(connID uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ws, ok := w.wsConns[connID]
	if !ok {
		return
	}

	for roomID := range ws.rooms {
		w.leaveLocked(roomID, connID)
	}

	delete(w.wsConns, connID)
	close(ws.send)
}

func (w *wsConnectionRepository) Join(roomID, connID uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ws, ok := w.wsConns[connID]
	if !ok {
		return
	}

	if _, ok := w.groups[roomID]; !ok {
		w.groups[roomID] = make(map[uuid.UUID]struct{})
	}

	w.groups[roomID][connID] = struct{}{}
	ws.rooms[roomID] = struct{}{}
}

func (w *wsConnectionRepository) Leave(roomID, connID uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.leaveLocked(roomID, connID)
}

func (w *wsConnectionRepository) LeaveAll(roomID uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for connID := range w.groups[roomID] {
		w.leaveLocked(roomID, connID)
	}
}

func (w *wsConnectionRepository) Rooms(connID uuid.UUID) []uuid.UUID {
	w.mu.RLock()
	defer w.mu.RUnlock()

	ws, ok := w.wsConns[connID]
	if !ok {
		return nil
	}

	rooms := make([]uuid.UUID, 0, len(ws.rooms))
	for roomID := range ws.rooms {
		rooms = append(rooms, roomID)
	}

	return rooms
}

func (w *wsConnectionRepository) Conns(roomID uuid.UUID) []uuid.UUID {
	w.mu.RLock()
	defer w.mu.RUnlock()

	conns := make([]uuid.UUID, 0, len(w.groups[roomID]))
	for connID := range w.groups[roomID] {
		conns = append(conns, connID)
	}

	return conns
}

func (w *wsConnectionRepository) Send(connID uuid.UUID, payload any) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	ws, ok := w.wsConns[connID]
	if !ok {
		slog.Debug("send to unknown websocket", slog.Any(constant.ConnID, connID))
		return
	}

	w.enqueue(connID, ws, payload)
}

func (w *wsConnectionRepository) Publish(roomID uuid.UUID, payload any) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for connID := range w.groups[roomID] {
		if ws, ok := w.wsConns[connID]; ok {
			w.enqueue(connID, ws, payload)
		}
	}
}

// enqueue вызывается под RLock, поэтому канал не может быть закрыт в процессе
func (w *wsConnectionRepository) enqueue(connID uuid.UUID, ws *safeWS, payload any) {
	select {
	case ws.send <- payload:
	default:
		metric.IncrementWSDroppedMessages()
		slog.Warn("websocket send queue is full, message dropped", slog.Any(constant.ConnID, connID))
	}
}

func (w *wsConnectionRepository) leaveLocked(roomID, connID uuid.UUID) {
	if group, ok := w.groups[roomID]; ok {
		delete(group, connID)

		if len(group) == 0 {
			delete(w.groups, roomID)
		}
	}

	if ws, ok := w.wsConns[connID]; ok {
		delete(ws.rooms, roomID)
	}
}

func writePump(connID uuid.UUID, ws *safeWS) {
	for payload := range ws.send {
		if err := ws.conn.WriteJSON(payload); err != nil {
			slog.Error(
				"write to websocket",
				slog.Any(constant.ConnID, connID),
				slog.Any(constant.Error, err),
			)
		}
	}
}
