package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/qrave1/ListenRoom/internal/domain/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// UpsertGoogleUser создает пользователя или обновляет профиль существующего по email
	UpsertGoogleUser(ctx context.Context, user *models.User) (*models.User, error)
}

const userColumns = "id, name, email, profile_image, google_id, created_at, updated_at"

type userRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO users (id, name, email, profile_image, google_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID,
		user.Name,
		user.Email,
		user.ProfileImage,
		user.GoogleID,
		user.CreatedAt,
		user.UpdatedAt,
	)

	return mapErr(err, "create user", "user")
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User

	err := r.db.GetContext(ctx, &user, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
	if err != nil {
		return nil, mapErr(err, "get user by id", "user")
	}

	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	err := r.db.GetContext(ctx, &user, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
	if err != nil {
		return nil, mapErr(err, "get user by email", "user")
	}

	return &user, nil
}

func (r *userRepo) UpsertGoogleUser(ctx context.Context, user *models.User) (*models.User, error) {
	var saved models.User

	query := `
		INSERT INTO users (id, name, email, profile_image, google_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (email) DO UPDATE
		SET name = EXCLUDED.name,
		    profile_image = EXCLUDED.profile_image,
		    google_id = EXCLUDED.google_id,
		    updated_at = EXCLUDED.updated_at
		RETURNING ` + userColumns

	err := r.db.GetContext(
		ctx,
		&saved,
		query,
		user.ID,
		user.Name,
		user.Email,
		user.ProfileImage,
		user.GoogleID,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return nil, mapErr(err, "upsert google user", "user")
	}

	return &saved, nil
}
