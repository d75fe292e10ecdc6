package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/contactly/contactly/internal/auth"
	"github.com/contactly/contactly/internal/domain"
	"github.com/contactly/contactly/internal/repository"
)

const userIDKey = "userID"

// UserID returns the authenticated user's id set by Auth. Empty on
// unprotected routes.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// Auth validates a Bearer session token, re-fetches the user so deleted
// accounts are locked out immediately, and sets the identity in the gin
// context. Expired and malformed tokens produce distinct messages.
func Auth(tm *auth.TokenManager, users repository.UserRepository, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abortUnauthorized(c, "Authorization token required")
			return
		}

		userID, err := tm.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				abortUnauthorized(c, "Token expired")
				return
			}
			abortUnauthorized(c, "Invalid token")
			return
		}

		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				abortUnauthorized(c, "User not found")
				return
			}
			logger.ErrorContext(c.Request.Context(), "auth user lookup", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"status":  http.StatusInternalServerError,
				"message": "Internal Server Error",
				"data":    nil,
			})
			return
		}

		c.Set(userIDKey, user.ID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"status":  http.StatusUnauthorized,
		"message": message,
		"data":    nil,
	})
}
