package httptransport

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	sloggin "github.com/samber/slog-gin"

	"github.com/contactly/contactly/internal/auth"
	"github.com/contactly/contactly/internal/repository"
	"github.com/contactly/contactly/internal/transport/http/handler"
	"github.com/contactly/contactly/internal/transport/http/middleware"
)

// NewRouter wires the versioned API. Contact routes sit behind the bearer
// token gate; user routes are public.
func NewRouter(
	logger *slog.Logger,
	apiPrefix string,
	authHandler *handler.AuthHandler,
	contactHandler *handler.ContactHandler,
	users repository.UserRepository,
	tm *auth.TokenManager,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	api := r.Group(apiPrefix)

	user := api.Group("/user")
	user.GET("/:id", authHandler.GetUser)
	user.POST("/login", authHandler.Login)
	user.POST("/register", authHandler.Register)
	user.POST("/activate-account", authHandler.ActivateAccount)
	user.POST("/forgot-password", authHandler.ForgotPassword)
	user.PUT("/reset_password/:resetToken", authHandler.ResetPassword)

	contact := api.Group("/contact", middleware.Auth(tm, users, logger))
	contact.GET("", contactHandler.List)
	contact.POST("/add", contactHandler.Create)
	contact.GET("/:id", contactHandler.Get)
	contact.PUT("/:id", contactHandler.Update)
	contact.DELETE("/:id", contactHandler.Delete)

	return r
}
