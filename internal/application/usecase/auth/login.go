package auth

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnect/internal/domain/user"
	"github.com/khoahotran/devconnect/pkg/apperror"
	"github.com/khoahotran/devconnect/pkg/auth"
	"github.com/khoahotran/devconnect/pkg/logger"
)

var tracer = otel.Tracer("auth_usecase")

// ErrInvalidCredentials covers both an unknown email and a wrong password.
var ErrInvalidCredentials = apperror.NewCoded(apperror.ErrInvalidInput, "invalid_credentials", "Invalid Credentials")

type LoginInput struct {
	Email    string
	Password string
}

type LoginOutput struct {
	Token string
}

type LoginUseCase struct {
	users  user.Repository
	jwtSvc *auth.JWTService
	logger logger.Logger
}

func NewLoginUseCase(repo user.Repository, jwtSvc *auth.JWTService, log logger.Logger) *LoginUseCase {
	return &LoginUseCase{users: repo, jwtSvc: jwtSvc, logger: log}
}

func (uc *LoginUseCase) Execute(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	email := normalizeEmail(input.Email)
	u, err := uc.authenticate(ctx, email, input.Password)
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		uc.logger.Warn("Login rejected", zap.String("email", email))
		return nil, err
	case err != nil:
		span.RecordError(err)
		return nil, err
	}

	token, err := issueToken(uc.jwtSvc, u.ID)
	if err != nil {
		uc.logger.Error("Failed to generate token", err, zap.String("user_id", u.ID.String()))
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("user_id", u.ID.String()))
	return &LoginOutput{Token: token}, nil
}

// authenticate returns the account for email when password matches its hash.
func (uc *LoginUseCase) authenticate(ctx context.Context, email, password string) (*user.User, error) {
	u, err := uc.users.FindByEmail(ctx, email)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPasswordHash(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}
