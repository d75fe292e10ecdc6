package domain

import "time"

// Contact belongs to exactly one user. Phone numbers are unique per owner,
// not globally.
type Contact struct {
	ID        string
	OwnerID   string
	Firstname string
	Lastname  string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
