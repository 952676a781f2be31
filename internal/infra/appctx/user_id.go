package appctx

import (
	"context"

	"github.com/google/uuid"
)

// userIDKey - ключ контекста для id пользователя
type userIDKey struct{}

// WithUserID кладет id пользователя из JWT в контекст запроса
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

// UserID достает id пользователя. Пустой uuid считается отсутствием пользователя.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey{}).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}

	return id, true
}
