package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/contactly/contactly/internal/domain"
)

// envelope is the uniform response shape for every route. Success is
// derived from the status, never set independently.
type envelope struct {
	Success bool    `json:"success"`
	Status  int     `json:"status"`
	Message *string `json:"message"`
	Data    any     `json:"data"`
}

// Respond writes the envelope. An empty message marshals as null.
func Respond(c *gin.Context, status int, message string, data any) {
	var msg *string
	if message != "" {
		msg = &message
	}
	c.JSON(status, envelope{
		Success: status >= 200 && status < 300,
		Status:  status,
		Message: msg,
		Data:    data,
	})
}

// RespondError maps expected domain errors to their status; everything else
// is logged with detail and reduced to a generic 500.
func RespondError(c *gin.Context, logger *slog.Logger, err error) {
	var de *domain.Error
	if errors.As(err, &de) {
		Respond(c, statusFor(de.Kind), de.Message, nil)
		return
	}
	logger.ErrorContext(c.Request.Context(), "request failed", "error", err)
	Respond(c, 500, errInternalServer, nil)
}

func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation:
		return 400
	case domain.KindConflict:
		return 409
	case domain.KindNotFound:
		return 404
	case domain.KindUnauthorized:
		return 401
	default:
		return 500
	}
}
