package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/qrave1/ListenRoom/internal/domain"
	"github.com/qrave1/ListenRoom/internal/domain/models"
)

type RoomRepository interface {
	Create(ctx context.Context, room *models.Room, playlist []uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error)
	// List отдает комнаты, сначала недавно измененные
	List(ctx context.Context) ([]models.Room, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) error
	Delete(ctx context.Context, id uuid.UUID) error

	// FindMetadata собирает комнату, ее админов и упорядоченный плейлист
	FindMetadata(ctx context.Context, id uuid.UUID) (*models.RoomMetadata, error)
	// WritePlaylist и SetAdmins целиком заменяют сохраненный список
	WritePlaylist(ctx context.Context, id uuid.UUID, songIDs []uuid.UUID) error
	SetAdmins(ctx context.Context, id uuid.UUID, userIDs []uuid.UUID) error
}

const roomColumns = "id, name, owner_id, created_at, updated_at"

type playlistRow struct {
	RoomID   uuid.UUID `db:"room_id"`
	Position int       `db:"position"`
	SongID   uuid.UUID `db:"song_id"`
}

type adminRow struct {
	RoomID uuid.UUID `db:"room_id"`
	UserID uuid.UUID `db:"user_id"`
}

type roomRepo struct {
	db *sqlx.DB
}

func NewRoomRepo(db *sqlx.DB) RoomRepository {
	return &roomRepo{db: db}
}

func (r *roomRepo) Create(ctx context.Context, room *models.Room, playlist []uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create room: %w", err)
	}
	defer rollback(tx)

	_, err = tx.ExecContext(
		ctx,
		"INSERT INTO rooms (id, name, owner_id, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)",
		room.ID,
		room.Name,
		room.OwnerID,
		room.CreatedAt,
		room.UpdatedAt,
	)
	if err != nil {
		return mapErr(err, "create room", "room")
	}

	if err = insertPlaylist(ctx, tx, room.ID, playlist); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create room: %w", err)
	}

	return nil
}

func (r *roomRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	var room models.Room

	err := r.db.GetContext(ctx, &room, "SELECT "+roomColumns+" FROM rooms WHERE id = $1", id)
	if err != nil {
		return nil, mapErr(err, "get room by id", "room")
	}

	return &room, nil
}

func (r *roomRepo) List(ctx context.Context) ([]models.Room, error) {
	rooms := make([]models.Room, 0)

	err := r.db.SelectContext(ctx, &rooms, "SELECT "+roomColumns+" FROM rooms ORDER BY updated_at DESC")
	if err != nil {
		return nil, mapErr(err, "list rooms", "room")
	}

	return rooms, nil
}

func (r *roomRepo) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	res, err := r.db.ExecContext(
		ctx,
		"UPDATE rooms SET name = $1, updated_at = $2 WHERE id = $3",
		name,
		time.Now(),
		id,
	)
	if err != nil {
		return mapErr(err, "update room name", "room")
	}

	return expectAffected(res, "room")
}

func (r *roomRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM rooms WHERE id = $1", id)
	if err != nil {
		return mapErr(err, "delete room", "room")
	}

	return expectAffected(res, "room")
}

func (r *roomRepo) FindMetadata(ctx context.Context, id uuid.UUID) (*models.RoomMetadata, error) {
	room, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	meta := &models.RoomMetadata{
		Room:     *room,
		Admins:   make([]uuid.UUID, 0),
		Playlist: make([]models.Song, 0),
	}

	err = r.db.SelectContext(ctx, &meta.Admins, "SELECT user_id FROM room_admins WHERE room_id = $1", id)
	if err != nil {
		return nil, mapErr(err, "get room admins", "room")
	}

	err = r.db.SelectContext(
		ctx,
		&meta.Playlist,
		`SELECT s.id, s.title, s.artist, s.url, s.file_type, s.length, s.hash, s.created_at, s.updated_at
		FROM room_playlist rp
		INNER JOIN songs s ON s.id = rp.song_id
		WHERE rp.room_id = $1
		ORDER BY rp.position`,
		id,
	)
	if err != nil {
		return nil, mapErr(err, "get room playlist", "room")
	}

	return meta, nil
}

func (r *roomRepo) WritePlaylist(ctx context.Context, id uuid.UUID, songIDs []uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin write playlist: %w", err)
	}
	defer rollback(tx)

	if _, err = tx.ExecContext(ctx, "DELETE FROM room_playlist WHERE room_id = $1", id); err != nil {
		return mapErr(err, "clear playlist", "room")
	}

	if err = insertPlaylist(ctx, tx, id, songIDs); err != nil {
		return err
	}

	if err = touchRoom(ctx, tx, id); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit write playlist: %w", err)
	}

	return nil
}

func (r *roomRepo) SetAdmins(ctx context.Context, id uuid.UUID, userIDs []uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin set admins: %w", err)
	}
	defer rollback(tx)

	if _, err = tx.ExecContext(ctx, "DELETE FROM room_admins WHERE room_id = $1", id); err != nil {
		return mapErr(err, "clear admins", "room")
	}

	if len(userIDs) > 0 {
		rows := make([]adminRow, 0, len(userIDs))
		for _, userID := range userIDs {
			rows = append(rows, adminRow{RoomID: id, UserID: userID})
		}

		_, err = tx.NamedExecContext(ctx, "INSERT INTO room_admins (room_id, user_id) VALUES (:room_id, :user_id)", rows)
		if err != nil {
			return mapErr(err, "insert admins", "room admin")
		}
	}

	if err = touchRoom(ctx, tx, id); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit set admins: %w", err)
	}

	return nil
}

func insertPlaylist(ctx context.Context, tx *sqlx.Tx, roomID uuid.UUID, songIDs []uuid.UUID) error {
	if len(songIDs) == 0 {
		return nil
	}

	rows := make([]playlistRow, 0, len(songIDs))
	for i, songID := range songIDs {
		rows = append(rows, playlistRow{RoomID: roomID, Position: i, SongID: songID})
	}

	_, err := tx.NamedExecContext(
		ctx,
		"INSERT INTO room_playlist (room_id, position, song_id) VALUES (:room_id, :position, :song_id)",
		rows,
	)

	return mapErr(err, "insert playlist", "playlist entry")
}

func touchRoom(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	res, err := tx.ExecContext(ctx, "UPDATE rooms SET updated_at = $1 WHERE id = $2", time.Now(), id)
	if err != nil {
		return mapErr(err, "touch room", "room")
	}

	return expectAffected(res, "room")
}

func expectAffected(res interface{ RowsAffected() (int64, error) }, entity string) error {
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", entity, err)
	}

	if aff == 0 {
		return domain.NotFound("%s not found", entity)
	}

	return nil
}
