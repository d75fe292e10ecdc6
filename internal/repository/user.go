package repository

import (
	"context"

	"github.com/contactly/contactly/internal/domain"
)

// Usecases depend on interfaces, not the pgx implementations, so tests can
// inject fakes and the store could be swapped without touching workflows.
type UserRepository interface {
	// Create inserts an inactive user. Returns domain.ErrEmailTaken when the
	// (case-normalized) email is already registered.
	Create(ctx context.Context, email, passwordHash string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	SetEmailActive(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}
