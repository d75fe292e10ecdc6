package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/contactly/contactly/internal/domain"
	"github.com/contactly/contactly/internal/usecase"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	Register(ctx context.Context, input usecase.RegisterInput) error
	Login(ctx context.Context, email, password string) (*usecase.LoginOutput, error)
	ValidateEmail(ctx context.Context, code string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, password, confirmPassword string) error
	GetUserDetails(ctx context.Context, id string) (*domain.User, error)
}

type AuthHandler struct {
	authUsecase authUsecaser
	logger      *slog.Logger
}

func NewAuthHandler(authUsecase authUsecaser, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		logger:      logger.With("component", "auth_handler"),
	}
}

type registerRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// POST /user/register
// The verification code travels only by email, never in the response.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Respond(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	err := h.authUsecase.Register(c.Request.Context(), usecase.RegisterInput{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	Respond(c, http.StatusCreated, "An email verification code has been sent to your mail.", nil)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /user/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Respond(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	out, err := h.authUsecase.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	if out.VerifyEmail {
		Respond(c, http.StatusForbidden,
			"Your account is not activated. An email verification code has been sent to your mail.",
			gin.H{"verifyEmail": true})
		return
	}

	Respond(c, http.StatusOK, "Welcome back!", gin.H{
		"token": out.Token,
		"email": out.Email,
	})
}

type activateRequest struct {
	VerificationCode string `json:"verificationCode"`
}

// POST /user/activate-account
func (h *AuthHandler) ActivateAccount(c *gin.Context) {
	var req activateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Respond(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.authUsecase.ValidateEmail(c.Request.Context(), req.VerificationCode); err != nil {
		RespondError(c, h.logger, err)
		return
	}

	Respond(c, http.StatusOK, "Your account has been activated successfully. Welcome aboard!", nil)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// POST /user/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Respond(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.authUsecase.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		RespondError(c, h.logger, err)
		return
	}

	Respond(c, http.StatusOK, "An email has been sent to reset your password. Please check your inbox.", nil)
}

type resetPasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// PUT /user/reset_password/:resetToken
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Respond(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	err := h.authUsecase.ResetPassword(c.Request.Context(),
		c.Param("resetToken"), req.Password, req.ConfirmPassword)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	Respond(c, http.StatusOK, "Password updated successfully", nil)
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// GET /user/:id
// Returns only non-secret fields.
func (h *AuthHandler) GetUser(c *gin.Context) {
	user, err := h.authUsecase.GetUserDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	Respond(c, http.StatusOK, "", userResponse{ID: user.ID, Email: user.Email})
}
