package domain

import "errors"

// Repository-level sentinels. Repositories translate driver errors into
// these so usecases never see pgx details.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email already in use")
	ErrContactNotFound = errors.New("contact not found")
	ErrPhoneTaken      = errors.New("phone already in use")
	ErrTokenNotFound   = errors.New("token not found")
)

// Kind classifies an expected workflow failure. Handlers map kinds to
// HTTP statuses; anything that is not a *Error becomes a 500.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindNotFound
	KindUnauthorized
)

// Error is an expected failure with a user-facing message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}
