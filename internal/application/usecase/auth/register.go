package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnect/internal/domain/user"
	"github.com/khoahotran/devconnect/pkg/apperror"
	"github.com/khoahotran/devconnect/pkg/auth"
	"github.com/khoahotran/devconnect/pkg/logger"
)

type RegisterUseCase struct {
	userRepo user.Repository
	jwtSvc   *auth.JWTService
	logger   logger.Logger
}

func NewRegisterUseCase(repo user.Repository, jwtSvc *auth.JWTService, log logger.Logger) *RegisterUseCase {
	return &RegisterUseCase{
		userRepo: repo,
		jwtSvc:   jwtSvc,
		logger:   log,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type RegisterOutput struct {
	UserID uuid.UUID
	Token  string
}

func (uc *RegisterUseCase) Execute(ctx context.Context, input RegisterInput) (*RegisterOutput, error) {
	ctx, span := tracer.Start(ctx, "Register")
	defer span.End()

	input.Email = normalizeEmail(input.Email)
	_, err := uc.userRepo.FindByEmail(ctx, input.Email)
	switch {
	case err == nil:
		return nil, user.ErrEmailTaken
	case !errors.Is(err, user.ErrUserNotFound):
		span.RecordError(err)
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, apperror.NewInternal("failed to hash password", err)
	}

	u := &user.User{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Avatar:       auth.GravatarURL(input.Email),
		CreatedAt:    time.Now().UTC(),
	}
	// a concurrent registration of the same email surfaces here as ErrEmailTaken
	if err := uc.userRepo.Save(ctx, u); err != nil {
		span.RecordError(err)
		return nil, err
	}

	token, err := issueToken(uc.jwtSvc, u.ID)
	if err != nil {
		uc.logger.Error("Failed to generate token", err, zap.String("user_id", u.ID.String()))
		return nil, err
	}

	uc.logger.Info("User registered", zap.String("user_id", u.ID.String()))
	span.SetAttributes(attribute.String("user_id", u.ID.String()))
	return &RegisterOutput{UserID: u.ID, Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// issueToken signs a session token for id. Signing failures are internal errors.
func issueToken(jwtSvc *auth.JWTService, id uuid.UUID) (string, error) {
	token, err := jwtSvc.GenerateToken(id)
	if err != nil {
		return "", apperror.NewInternal("failed to generate token", err)
	}
	return token, nil
}
