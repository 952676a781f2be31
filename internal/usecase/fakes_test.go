package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/qrave1/ListenRoom/internal/domain"
	"github.com/qrave1/ListenRoom/internal/domain/events"
	"github.com/qrave1/ListenRoom/internal/domain/input"
	"github.com/qrave1/ListenRoom/internal/domain/models"
	"github.com/qrave1/ListenRoom/internal/domain/runtime"
	"github.com/qrave1/ListenRoom/internal/infra/adapters/memory"
	"github.com/qrave1/ListenRoom/internal/infra/adapters/postgres/repository"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// fakeBroadcaster доставляет Publish каждому соединению комнаты и все запоминает
type fakeBroadcaster struct {
	mu     sync.Mutex
	sent   map[uuid.UUID][]events.Message
	groups map[uuid.UUID]map[uuid.UUID]struct{}
}

var _ memory.WebsocketConnectionRepository = (*fakeBroadcaster)(nil)

func newFakeBroadcaster() *fakeBroadcaster {
	return &fakeBroadcaster{
		sent:   make(map[uuid.UUID][]events.Message),
		groups: make(map[uuid.UUID]map[uuid.UUID]struct{}),
	}
}

func (b *fakeBroadcaster) Add(uuid.UUID, memory.Conn) {}

func (b *fakeBroadcaster) Remove(connID uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, group := range b.groups {
		delete(group, connID)
	}
}

func (b *fakeBroadcaster) Join(roomID, connID uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.groups[roomID] == nil {
		b.groups[roomID] = make(map[uuid.UUID]struct{})
	}

	b.groups[roomID][connID] = struct{}{}
}

func (b *fakeBroadcaster) Leave(roomID, connID uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.groups[roomID], connID)
}

func (b *fakeBroadcaster) LeaveAll(roomID uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.groups, roomID)
}

func (b *fakeBroadcaster) Rooms(connID uuid.UUID) []uuid.UUID {
	b.mu.Lock()
	defer b.mu.Unlock()

	var rooms []uuid.UUID
	for roomID, group := range b.groups {
		if _, ok := group[connID]; ok {
			rooms = append(rooms, roomID)
		}
	}

	return rooms
}

func (b *fakeBroadcaster) Conns(roomID uuid.UUID) []uuid.UUID {
	b.mu.Lock()
	defer b.mu.Unlock()

	var conns []uuid.UUID
	for connID := range b.groups[roomID] {
		conns = append(conns, connID)
	}

	return conns
}

func (b *fakeBroadcaster) Send(connID uuid.UUID, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.sent[connID] = append(b.sent[connID], payload.(events.Message))
}

func (b *fakeBroadcaster) Publish(roomID uuid.UUID, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for connID := range b.groups[roomID] {
		b.sent[connID] = append(b.sent[connID], payload.(events.Message))
	}
}

func (b *fakeBroadcaster) received(connID uuid.UUID, eventType string) []events.Message {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []events.Message
	for _, msg := range b.sent[connID] {
		if msg.Type == eventType {
			out = append(out, msg)
		}
	}

	return out
}

func (b *fakeBroadcaster) total(connID uuid.UUID) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.sent[connID])
}

func (b *fakeBroadcaster) inGroup(roomID, connID uuid.UUID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	_, ok := b.groups[roomID][connID]

	return ok
}

type fakeWriter struct {
	mu        sync.Mutex
	playlists map[uuid.UUID][][]uuid.UUID
	admins    map[uuid.UUID][][]uuid.UUID
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{
		playlists: make(map[uuid.UUID][][]uuid.UUID),
		admins:    make(map[uuid.UUID][][]uuid.UUID),
	}
}

func (w *fakeWriter) WritePlaylist(roomID uuid.UUID, songIDs []uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.playlists[roomID] = append(w.playlists[roomID], songIDs)
}

func (w *fakeWriter) WriteAdmins(roomID uuid.UUID, admins []uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.admins[roomID] = append(w.admins[roomID], admins)
}

type fakeRoomRepo struct {
	repository.RoomRepository

	mu        sync.Mutex
	metas     map[uuid.UUID]*models.RoomMetadata
	findCalls int
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{metas: make(map[uuid.UUID]*models.RoomMetadata)}
}

func (r *fakeRoomRepo) FindMetadata(_ context.Context, id uuid.UUID) (*models.RoomMetadata, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.findCalls++

	meta, ok := r.metas[id]
	if !ok {
		return nil, domain.NotFound("room not found")
	}

	clone := *meta
	clone.Admins = append([]uuid.UUID{}, meta.Admins...)
	clone.Playlist = append([]models.Song{}, meta.Playlist...)

	return &clone, nil
}

func (r *fakeRoomRepo) Create(_ context.Context, room *models.Room, playlist []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	songs := make([]models.Song, 0, len(playlist))
	for _, id := range playlist {
		songs = append(songs, models.Song{ID: id})
	}

	r.metas[room.ID] = &models.RoomMetadata{Room: *room, Admins: []uuid.UUID{}, Playlist: songs}

	return nil
}

func (r *fakeRoomRepo) List(context.Context) ([]models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rooms := make([]models.Room, 0, len(r.metas))
	for _, meta := range r.metas {
		rooms = append(rooms, meta.Room)
	}

	return rooms, nil
}

func (r *fakeRoomRepo) UpdateName(_ context.Context, id uuid.UUID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	meta, ok := r.metas[id]
	if !ok {
		return domain.NotFound("room not found")
	}

	meta.Name = name

	return nil
}

func (r *fakeRoomRepo) WritePlaylist(_ context.Context, id uuid.UUID, songIDs []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	meta, ok := r.metas[id]
	if !ok {
		return domain.NotFound("room not found")
	}

	meta.Playlist = meta.Playlist[:0]
	for _, songID := range songIDs {
		meta.Playlist = append(meta.Playlist, models.Song{ID: songID})
	}

	return nil
}

func (r *fakeRoomRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.metas[id]; !ok {
		return domain.NotFound("room not found")
	}

	delete(r.metas, id)

	return nil
}

type fakeSongRepo struct {
	repository.SongRepository

	songs map[uuid.UUID]models.Song
}

func newFakeSongRepo(songs ...models.Song) *fakeSongRepo {
	r := &fakeSongRepo{songs: make(map[uuid.UUID]models.Song)}
	for _, s := range songs {
		r.songs[s.ID] = s
	}

	return r
}

func (r *fakeSongRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Song, error) {
	song, ok := r.songs[id]
	if !ok {
		return nil, domain.NotFound("song not found")
	}

	return &song, nil
}

func (r *fakeSongRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]models.Song, error) {
	out := make([]models.Song, 0, len(ids))
	for _, id := range ids {
		if song, ok := r.songs[id]; ok {
			out = append(out, song)
		}
	}

	return out, nil
}

func (r *fakeSongRepo) Create(_ context.Context, song *models.Song) error {
	r.songs[song.ID] = *song
	return nil
}

func (r *fakeSongRepo) FindSimilar(_ context.Context, title, hash string) ([]models.Song, error) {
	var out []models.Song
	for _, song := range r.songs {
		if song.Title == title || (hash != "" && song.Hash.String == hash) {
			out = append(out, song)
		}
	}

	return out, nil
}

func (r *fakeSongRepo) Update(_ context.Context, in *input.UpdateSongInput) (*models.Song, error) {
	song, ok := r.songs[in.ID]
	if !ok {
		return nil, domain.NotFound("song not found")
	}

	song.Title = in.Title
	song.Artist = in.Artist
	r.songs[in.ID] = song

	return &song, nil
}

type fakeUserRepo struct {
	repository.UserRepository

	users map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, domain.NotFound("user not found")
	}

	clone := *user

	return &clone, nil
}

func (r *fakeUserRepo) UpsertGoogleUser(_ context.Context, user *models.User) (*models.User, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			existing.Name = user.Name
			existing.ProfileImage = user.ProfileImage
			existing.GoogleID = user.GoogleID

			clone := *existing

			return &clone, nil
		}
	}

	clone := *user
	r.users[user.ID] = &clone

	return user, nil
}

type harness struct {
	t *testing.T

	uc       *sessionUsecase
	sessions memory.SessionRepository
	bc       *fakeBroadcaster
	writer   *fakeWriter
	rooms    *fakeRoomRepo
	songs    *fakeSongRepo
	users    *fakeUserRepo
}

func newHarness(t *testing.T, songs ...models.Song) *harness {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	loop := NewEventLoop(16)
	go loop.Run(ctx)

	h := &harness{
		t:        t,
		sessions: memory.NewSessionRepository(),
		bc:       newFakeBroadcaster(),
		writer:   newFakeWriter(),
		rooms:    newFakeRoomRepo(),
		songs:    newFakeSongRepo(songs...),
		users:    newFakeUserRepo(),
	}

	h.uc = NewSessionUsecase(loop, h.sessions, h.bc, h.writer, h.rooms, h.songs, h.users).(*sessionUsecase)
	h.uc.now = func() time.Time { return fixedNow }

	return h
}

func (h *harness) user(name string) uuid.UUID {
	u := models.NewUser()
	u.Name = name
	u.Email = name + "@example.com"
	h.users.users[u.ID] = u

	return u.ID
}

func (h *harness) room(owner uuid.UUID, playlist ...models.Song) uuid.UUID {
	id := uuid.New()
	h.rooms.metas[id] = &models.RoomMetadata{
		Room:     models.Room{ID: id, OwnerID: owner, Name: "room " + id.String()[:4]},
		Admins:   []uuid.UUID{},
		Playlist: playlist,
	}

	return id
}

func (h *harness) emit(connID, actor uuid.UUID, eventType string, payload map[string]any) {
	h.t.Helper()

	data, err := json.Marshal(payload)
	require.NoError(h.t, err)

	h.uc.Handle(context.Background(), connID, actor, events.Message{Type: eventType, Data: data})
}

func (h *harness) join(connID, actor, roomID uuid.UUID) {
	h.t.Helper()

	h.emit(connID, actor, events.JoinRoom, map[string]any{"roomId": roomID})
	require.Empty(h.t, h.bc.received(connID, events.Error), "join must succeed")
}

func (h *harness) lastError(connID uuid.UUID) string {
	h.t.Helper()

	errs := h.bc.received(connID, events.Error)
	require.NotEmpty(h.t, errs, "expected an error event")

	return decode[events.ErrorEvent](h.t, errs[len(errs)-1]).Message
}

func (h *harness) snapshot(roomID uuid.UUID) *runtime.RoomSession {
	h.t.Helper()

	s, ok := h.sessions.Get(context.Background(), roomID)
	require.True(h.t, ok, "room must be live")

	return s
}

func decode[T any](t *testing.T, msg events.Message) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(msg.Data, &v))

	return v
}

func last(t *testing.T, msgs []events.Message) events.Message {
	t.Helper()
	require.NotEmpty(t, msgs)

	return msgs[len(msgs)-1]
}

func song(title string, length int) models.Song {
	return models.Song{ID: uuid.New(), Title: title, Artist: "artist", Length: length}
}
