package handlers

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/qrave1/ListenRoom/internal/domain/events"
	"github.com/qrave1/ListenRoom/internal/domain/input"
	"github.com/qrave1/ListenRoom/internal/domain/models"
	"github.com/qrave1/ListenRoom/internal/domain/policy"
	"github.com/qrave1/ListenRoom/internal/infra/appctx"
	"github.com/qrave1/ListenRoom/internal/usecase"
)

func newContext(method, target, body string, userID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	if userID != uuid.Nil {
		req = req.WithContext(appctx.WithUserID(req.Context(), userID))
	}

	rec := httptest.NewRecorder()

	return echo.New().NewContext(req, rec), rec
}

type handledEvent struct {
	connID uuid.UUID
	actor  uuid.UUID
	msg    events.Message
}

type roleCall struct {
	roomID, actor, target uuid.UUID
	action                policy.Action
}

type fakeSessionUsecase struct {
	usecase.SessionUsecase

	mu          sync.Mutex
	handled     []handledEvent
	disconnects []uuid.UUID
	roles       []roleCall

	roleMessage string
	roleErr     error
}

func (f *fakeSessionUsecase) Handle(_ context.Context, connID, actorID uuid.UUID, msg events.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.handled = append(f.handled, handledEvent{connID: connID, actor: actorID, msg: msg})
}

func (f *fakeSessionUsecase) Disconnect(_ context.Context, connID, _ uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.disconnects = append(f.disconnects, connID)
}

func (f *fakeSessionUsecase) ChangeRole(_ context.Context, roomID, actorID, targetID uuid.UUID, action policy.Action) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.roles = append(f.roles, roleCall{roomID: roomID, actor: actorID, target: targetID, action: action})

	return f.roleMessage, f.roleErr
}

func (f *fakeSessionUsecase) snapshot() ([]handledEvent, []uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]handledEvent(nil), f.handled...), append([]uuid.UUID(nil), f.disconnects...)
}

type fakeRoomUsecase struct {
	usecase.RoomUsecase

	created *input.CreateRoomInput
	updated *input.UpdateRoomInput
	err     error
}

func (f *fakeRoomUsecase) CreateRoom(_ context.Context, in *input.CreateRoomInput) (*models.RoomMetadata, error) {
	f.created = in
	if f.err != nil {
		return nil, f.err
	}

	return &models.RoomMetadata{
		Room:     models.Room{ID: uuid.New(), OwnerID: in.OwnerID, Name: in.Name},
		Admins:   []uuid.UUID{},
		Playlist: []models.Song{},
	}, nil
}

func (f *fakeRoomUsecase) UpdateRoom(_ context.Context, in *input.UpdateRoomInput) (*models.RoomMetadata, error) {
	f.updated = in
	if f.err != nil {
		return nil, f.err
	}

	return &models.RoomMetadata{Room: models.Room{ID: in.ID, Name: in.Name}}, nil
}

func (f *fakeRoomUsecase) DeleteRoom(context.Context, uuid.UUID, uuid.UUID) error {
	return f.err
}

type fakeSongUsecase struct {
	usecase.SongUsecase

	added *input.AddSongInput
	err   error
}

func (f *fakeSongUsecase) SearchSongs(context.Context, string) ([]models.Song, error) {
	if f.err != nil {
		return nil, f.err
	}

	return []models.Song{{ID: uuid.New(), Title: "found"}}, nil
}

func (f *fakeSongUsecase) CheckAvailability(context.Context, string, string) error {
	return f.err
}

func (f *fakeSongUsecase) AddSong(_ context.Context, in *input.AddSongInput) (*models.Song, error) {
	f.added = in
	if f.err != nil {
		return nil, f.err
	}

	return models.NewSong(in), nil
}

type fakeUserUsecase struct {
	usecase.UserUsecase

	user    *models.User
	profile *input.GoogleProfileInput
	err     error
}

func (f *fakeUserUsecase) GetUserByID(context.Context, uuid.UUID) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}

	return f.user, nil
}

func (f *fakeUserUsecase) SignInWithGoogle(_ context.Context, profile *input.GoogleProfileInput) (*models.User, error) {
	f.profile = profile
	if f.err != nil {
		return nil, f.err
	}

	return f.user, nil
}

func (f *fakeUserUsecase) GenerateJWT(*models.User) (string, error) {
	return "signed-token", nil
}

func (f *fakeUserUsecase) CheckAdminAccess(string) error {
	return f.err
}
