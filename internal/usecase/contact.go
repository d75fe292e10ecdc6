package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/contactly/contactly/internal/domain"
	"github.com/contactly/contactly/internal/repository"
)

// ContactUsecase operates strictly on the authenticated owner's contacts.
type ContactUsecase struct {
	contacts repository.ContactRepository
}

func NewContactUsecase(contacts repository.ContactRepository) *ContactUsecase {
	return &ContactUsecase{contacts: contacts}
}

// List returns the owner's contacts. An empty list is a success, not an
// error.
func (u *ContactUsecase) List(ctx context.Context, ownerID string) ([]*domain.Contact, error) {
	contacts, err := u.contacts.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

type CreateContactInput struct {
	Firstname string
	Lastname  string
	Phone     string
}

// Create validates before touching the store and names the first missing
// field in the failure message.
func (u *ContactUsecase) Create(ctx context.Context, ownerID string, input CreateContactInput) (*domain.Contact, error) {
	if input.Firstname == "" {
		return nil, domain.Validation("Firstname is required")
	}
	if input.Lastname == "" {
		return nil, domain.Validation("Lastname is required")
	}
	if input.Phone == "" {
		return nil, domain.Validation("Phone is required")
	}
	if err := validate.Var(input.Phone, "e164"); err != nil {
		return nil, domain.Validation("Please enter a valid phone number")
	}

	created, err := u.contacts.Create(ctx, &domain.Contact{
		OwnerID:   ownerID,
		Firstname: input.Firstname,
		Lastname:  input.Lastname,
		Phone:     input.Phone,
	})
	if err != nil {
		if errors.Is(err, domain.ErrPhoneTaken) {
			return nil, domain.Conflict("A contact with this phone number already exists")
		}
		return nil, fmt.Errorf("create contact: %w", err)
	}
	return created, nil
}

func (u *ContactUsecase) Get(ctx context.Context, ownerID, id string) (*domain.Contact, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.NotFound("Invalid contact id")
	}

	contact, err := u.contacts.FindByID(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrContactNotFound) {
			return nil, domain.NotFound("Contact not found")
		}
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return contact, nil
}

// Update changes only the provided fields.
func (u *ContactUsecase) Update(ctx context.Context, ownerID, id string, input repository.UpdateContactInput) (*domain.Contact, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.NotFound("Invalid contact id")
	}
	if input.Phone != nil {
		if err := validate.Var(*input.Phone, "e164"); err != nil {
			return nil, domain.Validation("Please enter a valid phone number")
		}
	}

	updated, err := u.contacts.Update(ctx, id, ownerID, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrContactNotFound):
			return nil, domain.NotFound("Contact does not exist")
		case errors.Is(err, domain.ErrPhoneTaken):
			return nil, domain.Conflict("A contact with this phone number already exists")
		}
		return nil, fmt.Errorf("update contact: %w", err)
	}
	return updated, nil
}

// Delete removes the contact and returns it so the caller can name it.
func (u *ContactUsecase) Delete(ctx context.Context, ownerID, id string) (*domain.Contact, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.NotFound("Invalid contact id")
	}

	deleted, err := u.contacts.Delete(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrContactNotFound) {
			return nil, domain.NotFound("Failed to delete contact, because contact does not exist")
		}
		return nil, fmt.Errorf("delete contact: %w", err)
	}
	return deleted, nil
}
