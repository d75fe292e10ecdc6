package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contactly/contactly/internal/domain"
	"github.com/contactly/contactly/internal/repository"
)

type ContactRepository struct {
	pool *pgxpool.Pool
}

func NewContactRepository(pool *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{pool: pool}
}

const contactColumns = `id, owner_id, firstname, lastname, phone, created_at, updated_at`

func (r *ContactRepository) Create(ctx context.Context, contact *domain.Contact) (*domain.Contact, error) {
	query := `
		INSERT INTO contacts (owner_id, firstname, lastname, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + contactColumns

	row := r.pool.QueryRow(ctx, query,
		contact.OwnerID, contact.Firstname, contact.Lastname, contact.Phone)
	created, err := scanContact(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrPhoneTaken
		}
		return nil, err
	}
	return created, nil
}

func (r *ContactRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE owner_id = $1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []*domain.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (r *ContactRepository) FindByID(ctx context.Context, id, ownerID string) (*domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1 AND owner_id = $2`
	return scanContact(r.pool.QueryRow(ctx, query, id, ownerID))
}

func (r *ContactRepository) Update(ctx context.Context, id, ownerID string, input repository.UpdateContactInput) (*domain.Contact, error) {
	// COALESCE keeps columns whose input field is nil untouched.
	query := `
		UPDATE contacts
		SET    firstname  = COALESCE($3, firstname),
		       lastname   = COALESCE($4, lastname),
		       phone      = COALESCE($5, phone),
		       updated_at = NOW()
		WHERE  id = $1 AND owner_id = $2
		RETURNING ` + contactColumns

	row := r.pool.QueryRow(ctx, query, id, ownerID, input.Firstname, input.Lastname, input.Phone)
	updated, err := scanContact(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrPhoneTaken
		}
		return nil, err
	}
	return updated, nil
}

func (r *ContactRepository) Delete(ctx context.Context, id, ownerID string) (*domain.Contact, error) {
	query := `DELETE FROM contacts WHERE id = $1 AND owner_id = $2 RETURNING ` + contactColumns
	return scanContact(r.pool.QueryRow(ctx, query, id, ownerID))
}

func scanContact(row pgx.Row) (*domain.Contact, error) {
	var c domain.Contact
	err := row.Scan(&c.ID, &c.OwnerID, &c.Firstname, &c.Lastname, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrContactNotFound
		}
		return nil, fmt.Errorf("scan contact: %w", err)
	}
	return &c, nil
}
