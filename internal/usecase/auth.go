package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/contactly/contactly/internal/auth"
	"github.com/contactly/contactly/internal/domain"
	"github.com/contactly/contactly/internal/email"
	"github.com/contactly/contactly/internal/metrics"
	"github.com/contactly/contactly/internal/repository"
)

var validate = validator.New()

const msgWeakPassword = "Password must be at least 8 characters and contain at least one uppercase, lowercase, special character and number"

type AuthUsecase struct {
	users      repository.UserRepository
	tokens     repository.TokenRepository
	email      email.Sender
	tm         *auth.TokenManager
	logger     *slog.Logger
	tokenTTL   time.Duration
	sessionTTL time.Duration
	resetBase  string
}

func NewAuthUsecase(
	users repository.UserRepository,
	tokens repository.TokenRepository,
	sender email.Sender,
	tm *auth.TokenManager,
	logger *slog.Logger,
	tokenTTL, sessionTTL time.Duration,
	resetBase string,
) *AuthUsecase {
	return &AuthUsecase{
		users:      users,
		tokens:     tokens,
		email:      sender,
		tm:         tm,
		logger:     logger.With("component", "auth_usecase"),
		tokenTTL:   tokenTTL,
		sessionTTL: sessionTTL,
		resetBase:  resetBase,
	}
}

type RegisterInput struct {
	Email           string
	Password        string
	ConfirmPassword string
}

// Register creates an inactive account and emails a one-time activation
// code. The code is never part of the response.
func (u *AuthUsecase) Register(ctx context.Context, input RegisterInput) error {
	if input.Email == "" {
		return domain.Validation("Please enter your email address")
	}
	if input.Password == "" {
		return domain.Validation("Please enter your password")
	}
	if input.ConfirmPassword != input.Password {
		return domain.Validation("Please ensure passwords are matching")
	}
	if err := validate.Var(input.Email, "email"); err != nil {
		return domain.Validation("Please enter a valid email")
	}
	if !auth.StrongPassword(input.Password) {
		return domain.Validation(msgWeakPassword)
	}

	addr := normalizeEmail(input.Email)

	_, err := u.users.FindByEmail(ctx, addr)
	switch {
	case err == nil:
		return domain.Conflict("Email is already in use")
	case !errors.Is(err, domain.ErrUserNotFound):
		return fmt.Errorf("check existing email: %w", err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return err
	}

	user, err := u.users.Create(ctx, addr, hash)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return domain.Conflict("Email is already in use")
		}
		return fmt.Errorf("create user: %w", err)
	}

	return u.sendActivationCode(ctx, user.Email)
}

type LoginOutput struct {
	Token       string
	Email       string
	VerifyEmail bool
}

// Login checks credentials. The failure message never distinguishes an
// unknown email from a wrong password, to avoid account enumeration.
// An unactivated account gets a fresh verification code instead of a
// session token.
func (u *AuthUsecase) Login(ctx context.Context, emailAddr, password string) (*LoginOutput, error) {
	invalid := domain.Unauthorized("Invalid login credentials")

	if emailAddr == "" || password == "" {
		return nil, invalid
	}

	user, err := u.users.FindByEmail(ctx, normalizeEmail(emailAddr))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, invalid
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, invalid
	}

	if !user.EmailActive {
		if err := u.sendActivationCode(ctx, user.Email); err != nil {
			return nil, err
		}
		return &LoginOutput{Email: user.Email, VerifyEmail: true}, nil
	}

	token, err := u.tm.IssueSessionToken(user.ID, u.sessionTTL)
	if err != nil {
		return nil, err
	}
	metrics.TokensIssuedTotal.WithLabelValues("session").Inc()

	return &LoginOutput{Token: token, Email: user.Email}, nil
}

// ValidateEmail consumes the one-time code and activates the bound account.
// The consume is atomic with the read, so a code can never be used twice.
func (u *AuthUsecase) ValidateEmail(ctx context.Context, code string) error {
	if code == "" {
		return domain.Validation("Please enter the 6 digit code")
	}

	tok, err := u.tokens.ConsumeByToken(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			return domain.NotFound("Invalid token. Please request a new token")
		}
		return fmt.Errorf("consume code: %w", err)
	}

	user, err := u.users.FindByEmail(ctx, tok.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.NotFound("Sorry we couldn't find a user for that account")
		}
		return fmt.Errorf("find user: %w", err)
	}

	if err := u.users.SetEmailActive(ctx, user.ID); err != nil {
		return fmt.Errorf("activate user: %w", err)
	}
	return nil
}

// ForgotPassword issues a signed reset token bound to the email and mails a
// link to the client's reset page.
func (u *AuthUsecase) ForgotPassword(ctx context.Context, emailAddr string) error {
	if emailAddr == "" {
		return domain.Validation("Please enter account username/email address")
	}

	user, err := u.users.FindByEmail(ctx, normalizeEmail(emailAddr))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.NotFound("Sorry we couldn't find a user with that username/email")
		}
		return fmt.Errorf("find user: %w", err)
	}

	resetToken, err := u.tm.IssueResetToken(user.Email, u.tokenTTL)
	if err != nil {
		return err
	}

	if err := u.tokens.Replace(ctx, user.Email, resetToken, time.Now().Add(u.tokenTTL)); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}
	metrics.TokensIssuedTotal.WithLabelValues("reset").Inc()

	link := u.resetBase + "/" + resetToken
	subject, body := email.ResetEmail(user.Email, link, u.tokenTTL)
	if err := u.sendEmail(ctx, user.Email, subject, body, "password_reset"); err != nil {
		return err
	}
	return nil
}

// ResetPassword verifies the signed token, consumes the persisted record
// bound to its email, and replaces the password hash. A cryptographically
// valid token whose record was already consumed or superseded is rejected.
func (u *AuthUsecase) ResetPassword(ctx context.Context, resetToken, password, confirmPassword string) error {
	unauthorized := domain.Unauthorized("Unauthorized request.")

	emailAddr, err := u.tm.Verify(resetToken)
	if err != nil {
		return unauthorized
	}

	if _, err := u.tokens.ConsumeByEmail(ctx, emailAddr); err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			return unauthorized
		}
		return fmt.Errorf("consume reset token: %w", err)
	}

	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return unauthorized
		}
		return fmt.Errorf("find user: %w", err)
	}

	if password == "" {
		return domain.Validation("Please enter new password")
	}
	if confirmPassword != password {
		return domain.Validation("Please ensure passwords are matching")
	}
	if !auth.StrongPassword(password) {
		return domain.Validation(msgWeakPassword)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if err := u.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// GetUserDetails returns the non-secret fields of a user.
func (u *AuthUsecase) GetUserDetails(ctx context.Context, id string) (*domain.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.NotFound("Invalid user id")
	}

	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.Unauthorized("Unauthorized request")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// sendActivationCode issues a fresh 6-digit code, stores it (replacing any
// live token for the email) and emails it.
func (u *AuthUsecase) sendActivationCode(ctx context.Context, emailAddr string) error {
	code, err := auth.GenerateCode(ctx, u.tokens)
	if err != nil {
		return err
	}

	if err := u.tokens.Replace(ctx, emailAddr, code, time.Now().Add(u.tokenTTL)); err != nil {
		return fmt.Errorf("store verification code: %w", err)
	}
	metrics.TokensIssuedTotal.WithLabelValues("code").Inc()

	subject, body := email.ActivationEmail(emailAddr, code, u.tokenTTL)
	return u.sendEmail(ctx, emailAddr, subject, body, "activation")
}

// sendEmail logs and counts failures. The records written before the send
// stay in place either way; a failed delivery is not rolled back.
func (u *AuthUsecase) sendEmail(ctx context.Context, to, subject, body, purpose string) error {
	if err := u.email.Send(ctx, to, subject, body); err != nil {
		metrics.EmailSendFailuresTotal.Inc()
		u.logger.ErrorContext(ctx, "email send failed", "purpose", purpose, "error", err)
		return fmt.Errorf("send %s email: %w", purpose, err)
	}
	metrics.EmailsSentTotal.WithLabelValues(purpose).Inc()
	return nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
