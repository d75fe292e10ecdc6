package repository

import (
	"context"
	"time"

	"github.com/contactly/contactly/internal/domain"
)

// TokenRepository stores one-time verification codes and reset tokens.
// Replace and the Consume methods carry the correctness burden: a code is
// only ever usable once, enforced by the store's atomic delete-and-return.
type TokenRepository interface {
	// Replace removes any live token for the email before inserting the new
	// one, so at most one token per email is valid at a time.
	Replace(ctx context.Context, email, token string, expiresAt time.Time) error
	// Exists reports whether an unexpired token with this exact value is
	// live. Used to avoid issuing colliding verification codes.
	Exists(ctx context.Context, token string) (bool, error)
	// ConsumeByToken atomically deletes and returns the live token with this
	// value. Returns domain.ErrTokenNotFound if none is live.
	ConsumeByToken(ctx context.Context, token string) (*domain.OneTimeToken, error)
	// ConsumeByEmail atomically deletes and returns the live token bound to
	// this email.
	ConsumeByEmail(ctx context.Context, email string) (*domain.OneTimeToken, error)
	// PurgeExpired deletes tokens past their expiry and reports how many.
	PurgeExpired(ctx context.Context) (int64, error)
}
