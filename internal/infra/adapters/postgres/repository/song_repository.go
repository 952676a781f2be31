package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/qrave1/ListenRoom/internal/domain/input"
	"github.com/qrave1/ListenRoom/internal/domain/models"
)

type SongRepository interface {
	Create(ctx context.Context, song *models.Song) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Song, error)
	// GetByIDs возвращает найденные песни в произвольном порядке, неизвестные id пропускаются
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Song, error)
	List(ctx context.Context) ([]models.Song, error)
	Search(ctx context.Context, query string) ([]models.Song, error)
	// FindSimilar ищет песни с тем же названием (без учета регистра) или тем же хешем файла
	FindSimilar(ctx context.Context, title, hash string) ([]models.Song, error)
	Update(ctx context.Context, in *input.UpdateSongInput) (*models.Song, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

const songColumns = "id, title, artist, url, file_type, length, hash, created_at, updated_at"

type songRepo struct {
	db *sqlx.DB
}

func NewSongRepo(db *sqlx.DB) SongRepository {
	return &songRepo{db: db}
}

func (r *songRepo) Create(ctx context.Context, song *models.Song) error {
	_, err := r.db.NamedExecContext(
		ctx,
		`INSERT INTO songs (id, title, artist, url, file_type, length, hash, created_at, updated_at)
		VALUES (:id, :title, :artist, :url, :file_type, :length, :hash, :created_at, :updated_at)`,
		song,
	)

	return mapErr(err, "create song", "song")
}

func (r *songRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Song, error) {
	var song models.Song

	err := r.db.GetContext(ctx, &song, "SELECT "+songColumns+" FROM songs WHERE id = $1", id)
	if err != nil {
		return nil, mapErr(err, "get song by id", "song")
	}

	return &song, nil
}

func (r *songRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Song, error) {
	songs := make([]models.Song, 0, len(ids))
	if len(ids) == 0 {
		return songs, nil
	}

	query, args, err := sqlx.In("SELECT "+songColumns+" FROM songs WHERE id IN (?)", ids)
	if err != nil {
		return nil, fmt.Errorf("build songs by ids query: %w", err)
	}

	if err = r.db.SelectContext(ctx, &songs, r.db.Rebind(query), args...); err != nil {
		return nil, mapErr(err, "get songs by ids", "song")
	}

	return songs, nil
}

func (r *songRepo) List(ctx context.Context) ([]models.Song, error) {
	songs := make([]models.Song, 0)

	err := r.db.SelectContext(ctx, &songs, "SELECT "+songColumns+" FROM songs ORDER BY created_at DESC")
	if err != nil {
		return nil, mapErr(err, "list songs", "song")
	}

	return songs, nil
}

func (r *songRepo) Search(ctx context.Context, query string) ([]models.Song, error) {
	songs := make([]models.Song, 0)

	err := r.db.SelectContext(
		ctx,
		&songs,
		`SELECT `+songColumns+` FROM songs
		WHERE title ILIKE '%' || $1::text || '%' OR artist ILIKE '%' || $1::text || '%'
		ORDER BY title, artist`,
		query,
	)
	if err != nil {
		return nil, mapErr(err, "search songs", "song")
	}

	return songs, nil
}

func (r *songRepo) FindSimilar(ctx context.Context, title, hash string) ([]models.Song, error) {
	songs := make([]models.Song, 0)

	err := r.db.SelectContext(
		ctx,
		&songs,
		`SELECT `+songColumns+` FROM songs
		WHERE LOWER(title) = LOWER($1::text) OR ($2::text <> '' AND hash = $2::text)`,
		title,
		hash,
	)
	if err != nil {
		return nil, mapErr(err, "find similar songs", "song")
	}

	return songs, nil
}

func (r *songRepo) Update(ctx context.Context, in *input.UpdateSongInput) (*models.Song, error) {
	var song models.Song

	err := r.db.GetContext(
		ctx,
		&song,
		`UPDATE songs SET title = $1, artist = $2, updated_at = $3
		WHERE id = $4
		RETURNING `+songColumns,
		in.Title,
		in.Artist,
		time.Now(),
		in.ID,
	)
	if err != nil {
		return nil, mapErr(err, "update song", "song")
	}

	return &song, nil
}

func (r *songRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM songs WHERE id = $1", id)
	if err != nil {
		return mapErr(err, "delete song", "song")
	}

	return expectAffected(res, "song")
}
