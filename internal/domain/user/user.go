package user

import (
	"context"
	"time"
)

// User is an account identified by a unique email address. The username is
// a unique display handle chosen at registration.
type User struct {
	ID           uint
	PublicID     string
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Repository persists users.
type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByPublicID(ctx context.Context, publicID string) (*User, error)
}
