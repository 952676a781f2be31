package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/qrave1/ListenRoom/internal/domain"
	"github.com/qrave1/ListenRoom/internal/domain/models"
	"github.com/qrave1/ListenRoom/internal/domain/policy"
	"github.com/qrave1/ListenRoom/internal/domain/runtime"
)

// Админы сохраняются в базе, контроллеры живут только вместе с сессией

func (u *sessionUsecase) roleRoute(action policy.Action) route {
	return route{
		action: action,
		prepare: func(ctx context.Context, req *request) error {
			target, err := u.findTarget(ctx, req.in.TargetUserID)
			if err != nil {
				return err
			}

			req.target = target

			return nil
		},
		apply: func(ctx context.Context, s *runtime.RoomSession, req *request) error {
			_, err := u.applyRole(ctx, s, req.target, action)
			return err
		},
	}
}

func (u *sessionUsecase) ChangeRole(ctx context.Context, roomID, actorID, targetID uuid.UUID, action policy.Action) (string, error) {
	target, err := u.findTarget(ctx, targetID)
	if err != nil {
		return "", err
	}

	var (
		message string
		opErr   error
	)

	err = u.loop.Do(ctx, func() {
		s, ok := u.sessions.Get(ctx, roomID)
		if !ok {
			opErr = domain.NotFound("room is not live, please re-join")
			return
		}

		if opErr = policy.Authorize(s, actorID, action); opErr != nil {
			return
		}

		message, opErr = u.applyRole(ctx, s, target, action)
	})
	if err != nil {
		return "", fmt.Errorf("change role: %w", err)
	}

	return message, opErr
}

func (u *sessionUsecase) findTarget(ctx context.Context, targetID uuid.UUID) (*models.User, error) {
	if targetID == uuid.Nil {
		return nil, domain.InvalidArgument("targetUserId required")
	}

	target, err := u.userRepo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("provided user does not exist")
		}

		return nil, fmt.Errorf("get target user: %w", err)
	}

	return target, nil
}

// applyRole вызывается внутри цикла после проверки политики
func (u *sessionUsecase) applyRole(ctx context.Context, s *runtime.RoomSession, target *models.User, action policy.Action) (string, error) {
	if target.ID == s.Owner {
		return "", domain.InvalidArgument("the room owner role can not be changed")
	}

	admins := s.Admins
	controllers := s.Controllers
	without := func(ids []uuid.UUID) []uuid.UUID {
		return slices.DeleteFunc(slices.Clone(ids), func(id uuid.UUID) bool { return id == target.ID })
	}

	var message string

	switch action {
	case policy.PromoteAdmin:
		if s.IsAdmin(target.ID) {
			return "", domain.InvalidArgument("%s is already an admin", target.Name)
		}

		admins = append(slices.Clone(admins), target.ID)
		message = fmt.Sprintf("%s promoted to admin", target.Name)

	case policy.DemoteAdmin:
		if !s.IsAdmin(target.ID) {
			return "", domain.InvalidArgument("%s is not an admin", target.Name)
		}

		// бывший админ остается контроллером
		admins = without(admins)
		controllers = append(without(controllers), target.ID)
		message = fmt.Sprintf("%s demoted from admin to controller", target.Name)

	case policy.PromoteController:
		controllers = append(without(controllers), target.ID)
		message = fmt.Sprintf("%s promoted to controller", target.Name)

	case policy.DemoteController:
		if !s.IsController(target.ID) {
			return "", domain.InvalidArgument("%s is not a controller", target.Name)
		}

		controllers = without(controllers)
		message = fmt.Sprintf("%s demoted to user", target.Name)

	default:
		return "", domain.InvalidArgument("unknown role action %q", action)
	}

	updated, err := u.upsert(ctx, s.ID, runtime.SessionPatch{
		Admins:      &admins,
		Controllers: &controllers,
	})
	if err != nil {
		return "", err
	}

	if action == policy.PromoteAdmin || action == policy.DemoteAdmin {
		u.writer.WriteAdmins(s.ID, updated.Admins)
	}

	u.publishUsers(updated)
	u.notify(s.ID, message, "")

	return message, nil
}
