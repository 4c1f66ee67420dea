package user

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/devconnect/pkg/apperror"
)

type User struct {
	ID           uuid.UUID `json:"id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password"`
	Avatar       string    `json:"avatar" bson:"avatar"`
	CreatedAt    time.Time `json:"date" bson:"date"`
}

// Snapshot is the name/avatar pair copied onto content items and comments.
type Snapshot struct {
	Name   string
	Avatar string
}

func (u *User) Snapshot() Snapshot {
	return Snapshot{Name: u.Name, Avatar: u.Avatar}
}

var (
	ErrUserNotFound = apperror.NewCoded(apperror.ErrNotFound, "user_not_found", "User not found")
	ErrEmailTaken   = apperror.NewCoded(apperror.ErrConflict, "user_exists", "User already exists")
)

type Repository interface {
	Save(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
