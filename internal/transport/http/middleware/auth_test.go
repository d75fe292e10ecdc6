package middleware_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/contactly/contactly/internal/auth"
	"github.com/contactly/contactly/internal/domain"
	"github.com/contactly/contactly/internal/transport/http/middleware"
)

const testKey = "middleware-test-secret-32-chars!!!"

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUserRepo struct {
	findByID func(ctx context.Context, id string) (*domain.User, error)
}

func (r *fakeUserRepo) Create(context.Context, string, string) (*domain.User, error) {
	panic("not used")
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findByID(ctx, id)
}

func (r *fakeUserRepo) FindByEmail(context.Context, string) (*domain.User, error) {
	panic("not used")
}

func (r *fakeUserRepo) SetEmailActive(context.Context, string) error { panic("not used") }

func (r *fakeUserRepo) UpdatePassword(context.Context, string, string) error { panic("not used") }

// newEngine protects GET /protected with Auth. The handler echoes the
// resolved user id so tests can assert it was attached.
func newEngine(users *fakeUserRepo) *gin.Engine {
	tm := auth.NewTokenManager([]byte(testKey))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := gin.New()
	r.GET("/protected", middleware.Auth(tm, users, logger), func(c *gin.Context) {
		c.String(http.StatusOK, "%s", middleware.UserID(c))
	})
	return r
}

func existingUsers(id string) *fakeUserRepo {
	return &fakeUserRepo{
		findByID: func(_ context.Context, got string) (*domain.User, error) {
			if got != id {
				return nil, domain.ErrUserNotFound
			}
			return &domain.User{ID: id, Email: "a@b.com", EmailActive: true}, nil
		},
	}
}

func doRequest(t *testing.T, r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	r.ServeHTTP(w, req)
	return w
}

func messageOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse body %q: %v", w.Body.String(), err)
	}
	return body.Message
}

func TestAuth_MissingHeader(t *testing.T) {
	w := doRequest(t, newEngine(existingUsers("user-1")), "")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if got := messageOf(t, w); got != "Authorization token required" {
		t.Errorf("message = %q", got)
	}
}

func TestAuth_ExpiredVsInvalid_DistinctMessages(t *testing.T) {
	tm := auth.NewTokenManager([]byte(testKey))
	expired, err := tm.IssueSessionToken("user-1", -time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	engine := newEngine(existingUsers("user-1"))

	wExpired := doRequest(t, engine, "Bearer "+expired)
	wInvalid := doRequest(t, engine, "Bearer not.a.jwt")

	if wExpired.Code != http.StatusUnauthorized || wInvalid.Code != http.StatusUnauthorized {
		t.Fatalf("statuses = %d, %d, want 401s", wExpired.Code, wInvalid.Code)
	}
	if messageOf(t, wExpired) != "Token expired" {
		t.Errorf("expired message = %q", messageOf(t, wExpired))
	}
	if messageOf(t, wInvalid) != "Invalid token" {
		t.Errorf("invalid message = %q", messageOf(t, wInvalid))
	}
}

func TestAuth_WrongSigningKey(t *testing.T) {
	other := auth.NewTokenManager([]byte("a-different-secret-that-is-32-ch!!"))
	tok, err := other.IssueSessionToken("user-1", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	w := doRequest(t, newEngine(existingUsers("user-1")), "Bearer "+tok)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_DeletedUserRejected(t *testing.T) {
	tm := auth.NewTokenManager([]byte(testKey))
	tok, err := tm.IssueSessionToken("gone-user", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	users := &fakeUserRepo{
		findByID: func(context.Context, string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}

	w := doRequest(t, newEngine(users), "Bearer "+tok)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if got := messageOf(t, w); got != "User not found" {
		t.Errorf("message = %q", got)
	}
}

func TestAuth_ValidToken_SetsUserID(t *testing.T) {
	tm := auth.NewTokenManager([]byte(testKey))
	tok, err := tm.IssueSessionToken("user-1", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	w := doRequest(t, newEngine(existingUsers("user-1")), "Bearer "+tok)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	if w.Body.String() != "user-1" {
		t.Errorf("resolved user = %q, want user-1", w.Body.String())
	}
}
