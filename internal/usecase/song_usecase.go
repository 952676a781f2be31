package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/qrave1/ListenRoom/internal/domain"
	"github.com/qrave1/ListenRoom/internal/domain/input"
	"github.com/qrave1/ListenRoom/internal/domain/models"
	"github.com/qrave1/ListenRoom/internal/infra/adapters/postgres/repository"
)

type SongUsecase interface {
	ListSongs(ctx context.Context) ([]models.Song, error)
	SearchSongs(ctx context.Context, query string) ([]models.Song, error)
	// CheckAvailability возвращает Conflict, если похожая песня уже есть в каталоге
	CheckAvailability(ctx context.Context, title, hash string) error

	AddSong(ctx context.Context, in *input.AddSongInput) (*models.Song, error)
	UpdateSong(ctx context.Context, in *input.UpdateSongInput) (*models.Song, error)
	DeleteSong(ctx context.Context, id uuid.UUID) error
}

type songUsecase struct {
	songRepo repository.SongRepository
}

func NewSongUsecase(songRepo repository.SongRepository) SongUsecase {
	return &songUsecase{songRepo: songRepo}
}

func (uc *songUsecase) ListSongs(ctx context.Context) ([]models.Song, error) {
	return uc.songRepo.List(ctx)
}

func (uc *songUsecase) SearchSongs(ctx context.Context, query string) ([]models.Song, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.InvalidArgument("search query required")
	}

	return uc.songRepo.Search(ctx, query)
}

func (uc *songUsecase) CheckAvailability(ctx context.Context, title, hash string) error {
	if title == "" && hash == "" {
		return domain.InvalidArgument("title or hash required")
	}

	similar, err := uc.songRepo.FindSimilar(ctx, title, hash)
	if err != nil {
		return fmt.Errorf("find similar songs: %w", err)
	}

	if len(similar) > 0 {
		return domain.Conflict("Similar song already exist: %s", similar[0].Title)
	}

	return nil
}

func (uc *songUsecase) AddSong(ctx context.Context, in *input.AddSongInput) (*models.Song, error) {
	var missing []string

	for _, field := range []struct {
		name  string
		empty bool
	}{
		{"title", in.Title == ""},
		{"artist", in.Artist == ""},
		{"length", in.Length <= 0},
		{"fileType", in.FileType == ""},
		{"url", in.URL == ""},
		{"hash", in.Hash == ""},
	} {
		if field.empty {
			missing = append(missing, field.name)
		}
	}

	if len(missing) > 0 {
		return nil, domain.InvalidArgument("%s are required", strings.Join(missing, ", "))
	}

	if err := uc.CheckAvailability(ctx, in.Title, in.Hash); err != nil {
		return nil, err
	}

	song := models.NewSong(in)

	if err := uc.songRepo.Create(ctx, song); err != nil {
		return nil, fmt.Errorf("create song: %w", err)
	}

	return song, nil
}

func (uc *songUsecase) UpdateSong(ctx context.Context, in *input.UpdateSongInput) (*models.Song, error) {
	current, err := uc.songRepo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, fmt.Errorf("get song by id: %w", err)
	}

	update := *in
	if update.Title == "" {
		update.Title = current.Title
	}
	if update.Artist == "" {
		update.Artist = current.Artist
	}

	song, err := uc.songRepo.Update(ctx, &update)
	if err != nil {
		return nil, fmt.Errorf("update song: %w", err)
	}

	return song, nil
}

func (uc *songUsecase) DeleteSong(ctx context.Context, id uuid.UUID) error {
	return uc.songRepo.Delete(ctx, id)
}
