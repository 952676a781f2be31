package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/qrave1/ListenRoom/internal/domain"
	"github.com/qrave1/ListenRoom/internal/domain/input"
	"github.com/qrave1/ListenRoom/internal/domain/models"
	"github.com/qrave1/ListenRoom/internal/domain/output"
	"github.com/qrave1/ListenRoom/internal/domain/policy"
	"github.com/qrave1/ListenRoom/internal/domain/runtime"
	"github.com/qrave1/ListenRoom/internal/infra/adapters/postgres/repository"
)

type RoomUsecase interface {
	ListRooms(ctx context.Context) ([]output.RoomWithUsers, error)
	CreateRoom(ctx context.Context, in *input.CreateRoomInput) (*models.RoomMetadata, error)
	UpdateRoom(ctx context.Context, in *input.UpdateRoomInput) (*models.RoomMetadata, error)
	DeleteRoom(ctx context.Context, roomID, actorID uuid.UUID) error
}

type roomUsecase struct {
	roomRepo repository.RoomRepository
	songRepo repository.SongRepository

	sessions SessionUsecase
}

func NewRoomUsecase(roomRepo repository.RoomRepository, songRepo repository.SongRepository, sessions SessionUsecase) RoomUsecase {
	return &roomUsecase{roomRepo: roomRepo, songRepo: songRepo, sessions: sessions}
}

func (uc *roomUsecase) ListRooms(ctx context.Context) ([]output.RoomWithUsers, error) {
	rooms, err := uc.roomRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	live, err := uc.sessions.LiveUsers(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]output.RoomWithUsers, 0, len(rooms))

	for _, room := range rooms {
		users := live[room.ID]
		if users == nil {
			users = []runtime.Member{}
		}

		result = append(result, output.RoomWithUsers{Room: room, Users: users})
	}

	return result, nil
}

func (uc *roomUsecase) CreateRoom(ctx context.Context, in *input.CreateRoomInput) (*models.RoomMetadata, error) {
	if in.Name == "" {
		return nil, domain.InvalidArgument("Room name required")
	}

	playlist, err := uc.resolvePlaylist(ctx, in.Playlist)
	if err != nil {
		return nil, err
	}

	room := models.NewRoom(in)

	if err = uc.roomRepo.Create(ctx, room, songIDs(playlist)); err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}

	return &models.RoomMetadata{Room: *room, Admins: []uuid.UUID{}, Playlist: playlist}, nil
}

func (uc *roomUsecase) UpdateRoom(ctx context.Context, in *input.UpdateRoomInput) (*models.RoomMetadata, error) {
	if err := uc.authorize(ctx, in.ID, in.ActorID, policy.EditRoom); err != nil {
		return nil, err
	}

	if in.Name != "" {
		if err := uc.roomRepo.UpdateName(ctx, in.ID, in.Name); err != nil {
			return nil, fmt.Errorf("update room name: %w", err)
		}
	}

	if in.Playlist != nil {
		playlist, err := uc.resolvePlaylist(ctx, in.Playlist)
		if err != nil {
			return nil, err
		}

		if err = uc.roomRepo.WritePlaylist(ctx, in.ID, songIDs(playlist)); err != nil {
			return nil, fmt.Errorf("write room playlist: %w", err)
		}

		if err = uc.sessions.ReplacePlaylist(ctx, in.ID, in.ActorID, playlist); err != nil {
			return nil, err
		}
	}

	meta, err := uc.roomRepo.FindMetadata(ctx, in.ID)
	if err != nil {
		return nil, fmt.Errorf("find updated room: %w", err)
	}

	return meta, nil
}

func (uc *roomUsecase) DeleteRoom(ctx context.Context, roomID, actorID uuid.UUID) error {
	if err := uc.authorize(ctx, roomID, actorID, policy.DeleteRoom); err != nil {
		return err
	}

	if err := uc.roomRepo.Delete(ctx, roomID); err != nil {
		return fmt.Errorf("delete room: %w", err)
	}

	return uc.sessions.CloseRoom(ctx, roomID)
}

// authorize проверяет права по живой сессии, а если ее нет - по данным каталога
func (uc *roomUsecase) authorize(ctx context.Context, roomID, actorID uuid.UUID, action policy.Action) error {
	view, live := uc.sessions.Snapshot(ctx, roomID)
	if !live {
		meta, err := uc.roomRepo.FindMetadata(ctx, roomID)
		if err != nil {
			return fmt.Errorf("find room: %w", err)
		}

		view = &runtime.RoomSession{
			ID:     meta.ID,
			Name:   meta.Name,
			Owner:  meta.OwnerID,
			Admins: meta.Admins,
			Cursor: runtime.NoTrack,
		}
	}

	return policy.Authorize(view, actorID, action)
}

// resolvePlaylist сохраняет порядок ids, неизвестные песни отбрасываются
func (uc *roomUsecase) resolvePlaylist(ctx context.Context, ids []uuid.UUID) ([]models.Song, error) {
	songs, err := uc.songRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get playlist songs: %w", err)
	}

	byID := make(map[uuid.UUID]models.Song, len(songs))
	for _, song := range songs {
		byID[song.ID] = song
	}

	playlist := make([]models.Song, 0, len(ids))
	for _, id := range ids {
		if song, ok := byID[id]; ok {
			playlist = append(playlist, song)
		}
	}

	return playlist, nil
}

func songIDs(songs []models.Song) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(songs))
	for _, song := range songs {
		ids = append(ids, song.ID)
	}

	return ids
}
