package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/contactly/contactly/internal/auth"
	"github.com/contactly/contactly/internal/domain"
	"github.com/contactly/contactly/internal/usecase"
)

// ---- fakes ----

type fakeUserRepo struct {
	create         func(ctx context.Context, email, passwordHash string) (*domain.User, error)
	findByID       func(ctx context.Context, id string) (*domain.User, error)
	findByEmail    func(ctx context.Context, email string) (*domain.User, error)
	setEmailActive func(ctx context.Context, id string) error
	updatePassword func(ctx context.Context, id, passwordHash string) error
}

func (r *fakeUserRepo) Create(ctx context.Context, email, passwordHash string) (*domain.User, error) {
	return r.create(ctx, email, passwordHash)
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findByID(ctx, id)
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findByEmail(ctx, email)
}

func (r *fakeUserRepo) SetEmailActive(ctx context.Context, id string) error {
	return r.setEmailActive(ctx, id)
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.updatePassword(ctx, id, passwordHash)
}

type fakeTokenRepo struct {
	replace        func(ctx context.Context, email, token string, expiresAt time.Time) error
	exists         func(ctx context.Context, token string) (bool, error)
	consumeByToken func(ctx context.Context, token string) (*domain.OneTimeToken, error)
	consumeByEmail func(ctx context.Context, email string) (*domain.OneTimeToken, error)
	purgeExpired   func(ctx context.Context) (int64, error)
}

func (r *fakeTokenRepo) Replace(ctx context.Context, email, token string, expiresAt time.Time) error {
	return r.replace(ctx, email, token, expiresAt)
}

func (r *fakeTokenRepo) Exists(ctx context.Context, token string) (bool, error) {
	if r.exists == nil {
		return false, nil
	}
	return r.exists(ctx, token)
}

func (r *fakeTokenRepo) ConsumeByToken(ctx context.Context, token string) (*domain.OneTimeToken, error) {
	return r.consumeByToken(ctx, token)
}

func (r *fakeTokenRepo) ConsumeByEmail(ctx context.Context, email string) (*domain.OneTimeToken, error) {
	return r.consumeByEmail(ctx, email)
}

func (r *fakeTokenRepo) PurgeExpired(ctx context.Context) (int64, error) {
	return r.purgeExpired(ctx)
}

type fakeSender struct {
	send func(ctx context.Context, to, subject, body string) error
}

func (s *fakeSender) Send(ctx context.Context, to, subject, body string) error {
	if s.send == nil {
		return nil
	}
	return s.send(ctx, to, subject, body)
}

// ---- helpers ----

const (
	testSecret    = "test-signing-secret-at-least-32-chars!!"
	testResetBase = "https://app.contactly.test/reset-password"
	testUserID    = "2a747b84-3f5c-41f8-bb35-ee6b1c3ee2a4"
	goodPassword  = "Abc123!@"
)

func newAuthUsecase(users *fakeUserRepo, tokens *fakeTokenRepo, sender *fakeSender) *usecase.AuthUsecase {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tm := auth.NewTokenManager([]byte(testSecret))
	return usecase.NewAuthUsecase(users, tokens, sender, tm, logger, 3*time.Hour, 7*24*time.Hour, testResetBase)
}

func mustHash(t *testing.T, pw string) string {
	t.Helper()
	hash, err := auth.HashPassword(pw)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return hash
}

func activeUser(t *testing.T) *domain.User {
	return &domain.User{
		ID:           testUserID,
		Email:        "a@b.com",
		PasswordHash: mustHash(t, goodPassword),
		EmailActive:  true,
	}
}

func wantKind(t *testing.T, err error, kind domain.Kind) *domain.Error {
	t.Helper()
	var de *domain.Error
	if !errors.As(err, &de) {
		t.Fatalf("want *domain.Error, got %v", err)
	}
	if de.Kind != kind {
		t.Fatalf("kind = %v, want %v (message %q)", de.Kind, kind, de.Message)
	}
	return de
}

// ---- Register ----

func TestRegister_StoresCodeThatWasEmailed(t *testing.T) {
	var storedToken, emailedBody string

	users := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
		create: func(_ context.Context, email, passwordHash string) (*domain.User, error) {
			if passwordHash == goodPassword {
				t.Error("password stored in plaintext")
			}
			return &domain.User{ID: testUserID, Email: email}, nil
		},
	}
	tokens := &fakeTokenRepo{
		replace: func(_ context.Context, _, token string, _ time.Time) error {
			storedToken = token
			return nil
		},
	}
	sender := &fakeSender{
		send: func(_ context.Context, _, _, body string) error {
			emailedBody = body
			return nil
		},
	}

	err := newAuthUsecase(users, tokens, sender).Register(context.Background(), usecase.RegisterInput{
		Email: "a@b.com", Password: goodPassword, ConfirmPassword: goodPassword,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if len(storedToken) != 6 {
		t.Fatalf("stored token %q is not a 6-digit code", storedToken)
	}
	if !strings.Contains(emailedBody, storedToken) {
		t.Error("emailed body does not contain the stored code")
	}
}

func TestRegister_NormalizesEmail(t *testing.T) {
	var lookedUp, created string

	users := &fakeUserRepo{
		findByEmail: func(_ context.Context, email string) (*domain.User, error) {
			lookedUp = email
			return nil, domain.ErrUserNotFound
		},
		create: func(_ context.Context, email, _ string) (*domain.User, error) {
			created = email
			return &domain.User{ID: testUserID, Email: email}, nil
		},
	}
	tokens := &fakeTokenRepo{
		replace: func(context.Context, string, string, time.Time) error { return nil },
	}

	err := newAuthUsecase(users, tokens, &fakeSender{}).Register(context.Background(), usecase.RegisterInput{
		Email: " A@B.Com ", Password: goodPassword, ConfirmPassword: goodPassword,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if lookedUp != "a@b.com" || created != "a@b.com" {
		t.Errorf("email not normalized: looked up %q, created %q", lookedUp, created)
	}
}

func TestRegister_DuplicateEmail_Conflict(t *testing.T) {
	users := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return activeUser(t), nil
		},
	}

	err := newAuthUsecase(users, &fakeTokenRepo{}, &fakeSender{}).Register(context.Background(), usecase.RegisterInput{
		Email: "a@b.com", Password: goodPassword, ConfirmPassword: goodPassword,
	})
	wantKind(t, err, domain.KindConflict)
}

func TestRegister_Validation(t *testing.T) {
	cases := []struct {
		name  string
		input usecase.RegisterInput
		want  string
	}{
		{"missing email", usecase.RegisterInput{Password: goodPassword, ConfirmPassword: goodPassword}, "Please enter your email address"},
		{"missing password", usecase.RegisterInput{Email: "a@b.com"}, "Please enter your password"},
		{"mismatch", usecase.RegisterInput{Email: "a@b.com", Password: goodPassword, ConfirmPassword: "other"}, "Please ensure passwords are matching"},
		{"bad email", usecase.RegisterInput{Email: "not-an-email", Password: goodPassword, ConfirmPassword: goodPassword}, "Please enter a valid email"},
		{"weak password", usecase.RegisterInput{Email: "a@b.com", Password: "weakpass", ConfirmPassword: "weakpass"}, ""},
	}

	u := newAuthUsecase(&fakeUserRepo{}, &fakeTokenRepo{}, &fakeSender{})
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			de := wantKind(t, u.Register(context.Background(), c.input), domain.KindValidation)
			if c.want != "" && de.Message != c.want {
				t.Errorf("message = %q, want %q", de.Message, c.want)
			}
		})
	}
}

// ---- Login ----

func TestLogin_ReturnsVerifiableSessionToken(t *testing.T) {
	user := activeUser(t)
	users := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) { return user, nil },
	}

	out, err := newAuthUsecase(users, &fakeTokenRepo{}, &fakeSender{}).Login(context.Background(), user.Email, goodPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	subject, err := auth.NewTokenManager([]byte(testSecret)).Verify(out.Token)
	if err != nil {
		t.Fatalf("returned token does not verify: %v", err)
	}
	if subject != user.ID {
		t.Errorf("token subject = %q, want user id %q", subject, user.ID)
	}
	if out.Email != user.Email {
		t.Errorf("email = %q, want %q", out.Email, user.Email)
	}
}

func TestLogin_GenericMessageForUnknownUserAndWrongPassword(t *testing.T) {
	unknown := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	known := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return activeUser(t), nil
		},
	}

	u1 := newAuthUsecase(unknown, &fakeTokenRepo{}, &fakeSender{})
	u2 := newAuthUsecase(known, &fakeTokenRepo{}, &fakeSender{})

	_, err1 := u1.Login(context.Background(), "a@b.com", goodPassword)
	_, err2 := u2.Login(context.Background(), "a@b.com", "WrongPw1!")

	de1 := wantKind(t, err1, domain.KindUnauthorized)
	de2 := wantKind(t, err2, domain.KindUnauthorized)
	if de1.Message != de2.Message {
		t.Errorf("messages differ, enabling enumeration: %q vs %q", de1.Message, de2.Message)
	}
}

func TestLogin_InactiveAccount_NoTokenSendsCode(t *testing.T) {
	user := activeUser(t)
	user.EmailActive = false

	var storedToken string
	emailed := false

	users := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) { return user, nil },
	}
	tokens := &fakeTokenRepo{
		replace: func(_ context.Context, _, token string, _ time.Time) error {
			storedToken = token
			return nil
		},
	}
	sender := &fakeSender{
		send: func(context.Context, string, string, string) error {
			emailed = true
			return nil
		},
	}

	out, err := newAuthUsecase(users, tokens, sender).Login(context.Background(), user.Email, goodPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if !out.VerifyEmail {
		t.Error("expected verify-email outcome")
	}
	if out.Token != "" {
		t.Error("inactive account must never receive a session token")
	}
	if len(storedToken) != 6 || !emailed {
		t.Errorf("fresh code not issued: token %q emailed=%v", storedToken, emailed)
	}
}

// ---- ValidateEmail ----

func TestValidateEmail_ActivatesOnce(t *testing.T) {
	consumed := false
	var activatedID string

	tokens := &fakeTokenRepo{
		consumeByToken: func(_ context.Context, code string) (*domain.OneTimeToken, error) {
			if consumed {
				return nil, domain.ErrTokenNotFound
			}
			consumed = true
			return &domain.OneTimeToken{Email: "a@b.com", Token: code}, nil
		},
	}
	users := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			u := activeUser(t)
			u.EmailActive = false
			return u, nil
		},
		setEmailActive: func(_ context.Context, id string) error {
			activatedID = id
			return nil
		},
	}

	u := newAuthUsecase(users, tokens, &fakeSender{})

	if err := u.ValidateEmail(context.Background(), "123456"); err != nil {
		t.Fatalf("first validation: %v", err)
	}
	if activatedID != testUserID {
		t.Errorf("activated %q, want %q", activatedID, testUserID)
	}

	// Same code a second time: the record is gone.
	err := u.ValidateEmail(context.Background(), "123456")
	de := wantKind(t, err, domain.KindNotFound)
	if !strings.Contains(de.Message, "Invalid token") {
		t.Errorf("message = %q", de.Message)
	}
}

func TestValidateEmail_MissingCode(t *testing.T) {
	u := newAuthUsecase(&fakeUserRepo{}, &fakeTokenRepo{}, &fakeSender{})
	wantKind(t, u.ValidateEmail(context.Background(), ""), domain.KindValidation)
}

// ---- ForgotPassword ----

func TestForgotPassword_StoresSignedTokenBoundToEmail(t *testing.T) {
	var storedToken, emailedBody string

	users := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return activeUser(t), nil
		},
	}
	tokens := &fakeTokenRepo{
		replace: func(_ context.Context, _, token string, _ time.Time) error {
			storedToken = token
			return nil
		},
	}
	sender := &fakeSender{
		send: func(_ context.Context, _, _, body string) error {
			emailedBody = body
			return nil
		},
	}

	if err := newAuthUsecase(users, tokens, sender).ForgotPassword(context.Background(), "a@b.com"); err != nil {
		t.Fatalf("forgot password: %v", err)
	}

	subject, err := auth.NewTokenManager([]byte(testSecret)).Verify(storedToken)
	if err != nil {
		t.Fatalf("stored reset token does not verify: %v", err)
	}
	if subject != "a@b.com" {
		t.Errorf("reset token subject = %q, want the email", subject)
	}
	if !strings.Contains(emailedBody, testResetBase+"/"+storedToken) {
		t.Error("emailed body does not contain the reset link")
	}
}

func TestForgotPassword_UnknownUser(t *testing.T) {
	users := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}

	err := newAuthUsecase(users, &fakeTokenRepo{}, &fakeSender{}).ForgotPassword(context.Background(), "a@b.com")
	wantKind(t, err, domain.KindNotFound)
}

// ---- ResetPassword ----

func TestResetPassword_ConsumedOnce(t *testing.T) {
	tm := auth.NewTokenManager([]byte(testSecret))
	resetToken, err := tm.IssueResetToken("a@b.com", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	consumed := false
	var newHash string

	tokens := &fakeTokenRepo{
		consumeByEmail: func(_ context.Context, email string) (*domain.OneTimeToken, error) {
			if consumed {
				return nil, domain.ErrTokenNotFound
			}
			consumed = true
			return &domain.OneTimeToken{Email: email, Token: resetToken}, nil
		},
	}
	users := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return activeUser(t), nil
		},
		updatePassword: func(_ context.Context, _, passwordHash string) error {
			newHash = passwordHash
			return nil
		},
	}

	u := newAuthUsecase(users, tokens, &fakeSender{})

	if err := u.ResetPassword(context.Background(), resetToken, "New123!@", "New123!@"); err != nil {
		t.Fatalf("first reset: %v", err)
	}
	if !auth.CheckPassword("New123!@", newHash) {
		t.Error("stored hash does not match new password")
	}

	// The token still verifies cryptographically but its record is gone.
	err = u.ResetPassword(context.Background(), resetToken, "Other123!@", "Other123!@")
	wantKind(t, err, domain.KindUnauthorized)
}

func TestResetPassword_ExpiredOrMalformedToken(t *testing.T) {
	tm := auth.NewTokenManager([]byte(testSecret))
	expired, err := tm.IssueResetToken("a@b.com", -time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	u := newAuthUsecase(&fakeUserRepo{}, &fakeTokenRepo{}, &fakeSender{})

	wantKind(t, u.ResetPassword(context.Background(), expired, "New123!@", "New123!@"), domain.KindUnauthorized)
	wantKind(t, u.ResetPassword(context.Background(), "garbage", "New123!@", "New123!@"), domain.KindUnauthorized)
}

func TestResetPassword_WeakNewPassword(t *testing.T) {
	tm := auth.NewTokenManager([]byte(testSecret))
	resetToken, err := tm.IssueResetToken("a@b.com", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	tokens := &fakeTokenRepo{
		consumeByEmail: func(_ context.Context, email string) (*domain.OneTimeToken, error) {
			return &domain.OneTimeToken{Email: email, Token: resetToken}, nil
		},
	}
	users := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return activeUser(t), nil
		},
	}

	u := newAuthUsecase(users, tokens, &fakeSender{})
	wantKind(t, u.ResetPassword(context.Background(), resetToken, "weakpass", "weakpass"), domain.KindValidation)
}

// ---- GetUserDetails ----

func TestGetUserDetails(t *testing.T) {
	users := &fakeUserRepo{
		findByID: func(_ context.Context, id string) (*domain.User, error) {
			if id != testUserID {
				return nil, domain.ErrUserNotFound
			}
			return activeUser(t), nil
		},
	}
	u := newAuthUsecase(users, &fakeTokenRepo{}, &fakeSender{})

	user, err := u.GetUserDetails(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if user.Email != "a@b.com" {
		t.Errorf("email = %q", user.Email)
	}

	_, err = u.GetUserDetails(context.Background(), "not-a-uuid")
	wantKind(t, err, domain.KindNotFound)

	_, err = u.GetUserDetails(context.Background(), "97cf1ed8-79e1-4b5c-86bd-69bd21b37d4a")
	wantKind(t, err, domain.KindUnauthorized)
}
