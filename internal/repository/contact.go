package repository

import (
	"context"

	"github.com/contactly/contactly/internal/domain"
)

// UpdateContactInput carries the fields to change. Nil means "leave as is".
type UpdateContactInput struct {
	Firstname *string
	Lastname  *string
	Phone     *string
}

// All lookups are scoped to the owning user, so one user can never observe
// or mutate another user's contacts.
type ContactRepository interface {
	// Create returns domain.ErrPhoneTaken when the owner already has a
	// contact with this phone number.
	Create(ctx context.Context, contact *domain.Contact) (*domain.Contact, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Contact, error)
	FindByID(ctx context.Context, id, ownerID string) (*domain.Contact, error)
	Update(ctx context.Context, id, ownerID string, input UpdateContactInput) (*domain.Contact, error)
	// Delete returns the removed contact so callers can name it.
	Delete(ctx context.Context, id, ownerID string) (*domain.Contact, error)
}
