package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contactly/contactly/internal/domain"
)

type TokenRepository struct {
	pool *pgxpool.Pool
}

func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

const tokenColumns = `id, email, token, expires_at, created_at`

// Replace deletes any token bound to the email and inserts the new one in a
// single transaction, so reissuing invalidates prior still-live tokens.
func (r *TokenRepository) Replace(ctx context.Context, email, token string, expiresAt time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM one_time_tokens WHERE email = $1`, email); err != nil {
		return fmt.Errorf("delete prior tokens: %w", err)
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO one_time_tokens (email, token, expires_at) VALUES ($1, $2, $3)`,
		email, token, expiresAt)
	if err != nil {
		return fmt.Errorf("insert token: %w", err)
	}
	return tx.Commit(ctx)
}

func (r *TokenRepository) Exists(ctx context.Context, token string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM one_time_tokens WHERE token = $1 AND expires_at > NOW())`,
		token).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check token exists: %w", err)
	}
	return exists, nil
}

// ConsumeByToken deletes and returns the live token in one statement, which
// is what makes a code single-use even under concurrent attempts.
func (r *TokenRepository) ConsumeByToken(ctx context.Context, token string) (*domain.OneTimeToken, error) {
	query := `
		DELETE FROM one_time_tokens
		WHERE token = $1 AND expires_at > NOW()
		RETURNING ` + tokenColumns

	return scanToken(r.pool.QueryRow(ctx, query, token))
}

func (r *TokenRepository) ConsumeByEmail(ctx context.Context, email string) (*domain.OneTimeToken, error) {
	query := `
		DELETE FROM one_time_tokens
		WHERE email = $1 AND expires_at > NOW()
		RETURNING ` + tokenColumns

	return scanToken(r.pool.QueryRow(ctx, query, email))
}

func (r *TokenRepository) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM one_time_tokens WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("purge expired tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanToken(row pgx.Row) (*domain.OneTimeToken, error) {
	var t domain.OneTimeToken
	err := row.Scan(&t.ID, &t.Email, &t.Token, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, fmt.Errorf("scan token: %w", err)
	}
	return &t, nil
}
