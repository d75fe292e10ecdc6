package domain

import "time"

// User is an account identified by a unique, lower-cased email address.
// Users are created inactive and flip EmailActive exactly once when the
// emailed verification code is consumed.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	EmailActive  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
