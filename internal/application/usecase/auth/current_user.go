package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/khoahotran/devconnect/internal/domain/user"
)

type CurrentUserUseCase struct {
	userRepo user.Repository
}

func NewCurrentUserUseCase(repo user.Repository) *CurrentUserUseCase {
	return &CurrentUserUseCase{userRepo: repo}
}

func (uc *CurrentUserUseCase) Execute(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	ctx, span := tracer.Start(ctx, "CurrentUser")
	defer span.End()

	return uc.userRepo.FindByID(ctx, userID)
}
