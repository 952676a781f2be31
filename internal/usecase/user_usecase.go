package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/guregu/null.v4"

	"github.com/qrave1/ListenRoom/internal/domain"
	"github.com/qrave1/ListenRoom/internal/domain/input"
	"github.com/qrave1/ListenRoom/internal/domain/models"
	"github.com/qrave1/ListenRoom/internal/infra/adapters/postgres/repository"
)

// UserUsecase определяет интерфейс для работы с пользователями
type UserUsecase interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// SignInWithGoogle создает пользователя по профилю Google или обновляет существующего
	SignInWithGoogle(ctx context.Context, profile *input.GoogleProfileInput) (*models.User, error)
	GenerateJWT(user *models.User) (string, error)

	// CheckAdminAccess сверяет пароль доступа с bcrypt хешем из конфига
	CheckAdminAccess(password string) error
}

type userUsecase struct {
	jwtSecret         []byte
	jwtTTL            time.Duration
	adminPasswordHash []byte

	userRepo repository.UserRepository
}

// NewUserUsecase создает новый экземпляр UserUsecase
func NewUserUsecase(
	jwtSecret []byte,
	jwtTTL time.Duration,
	adminPasswordHash string,
	userRepo repository.UserRepository,
) UserUsecase {
	return &userUsecase{
		jwtSecret:         jwtSecret,
		jwtTTL:            jwtTTL,
		adminPasswordHash: []byte(adminPasswordHash),
		userRepo:          userRepo,
	}
}

// GetUserByID получает пользователя по ID
func (uc *userUsecase) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

func (uc *userUsecase) SignInWithGoogle(ctx context.Context, profile *input.GoogleProfileInput) (*models.User, error) {
	switch {
	case profile.Email == "":
		return nil, domain.InvalidArgument("Email required")
	case !profile.EmailVerified:
		return nil, domain.Forbidden("google email is not verified")
	case profile.Name == "":
		return nil, domain.InvalidArgument("Name required")
	}

	user := models.NewUser()
	user.Name = profile.Name
	user.Email = profile.Email
	user.ProfileImage = null.NewString(profile.Picture, profile.Picture != "")
	user.GoogleID = null.NewString(profile.GoogleID, profile.GoogleID != "")

	saved, err := uc.userRepo.UpsertGoogleUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("upsert google user: %w", err)
	}

	return saved, nil
}

// GenerateJWT генерирует JWT токен для пользователя
func (uc *userUsecase) GenerateJWT(user *models.User) (string, error) {
	claims := &jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(uc.jwtTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(uc.jwtSecret)
}

func (uc *userUsecase) CheckAdminAccess(password string) error {
	if password == "" {
		return domain.InvalidArgument("Password required")
	}

	if len(uc.adminPasswordHash) == 0 {
		return domain.Forbidden("admin access is disabled")
	}

	err := bcrypt.CompareHashAndPassword(uc.adminPasswordHash, []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return domain.Forbidden("Incorrect password")
	}

	if err != nil {
		return fmt.Errorf("compare admin password: %w", err)
	}

	return nil
}
