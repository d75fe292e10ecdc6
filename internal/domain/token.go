package domain

import "time"

// OneTimeToken binds an email to a verification code or reset token.
// It is consumed (deleted) atomically with the read, and ignored once
// ExpiresAt has passed even if a janitor has not removed it yet.
type OneTimeToken struct {
	ID        string
	Email     string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}
