package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/contactly/contactly/internal/domain"
	"github.com/contactly/contactly/internal/repository"
	"github.com/contactly/contactly/internal/transport/http/middleware"
	"github.com/contactly/contactly/internal/usecase"
)

type contactUsecaser interface {
	List(ctx context.Context, ownerID string) ([]*domain.Contact, error)
	Create(ctx context.Context, ownerID string, input usecase.CreateContactInput) (*domain.Contact, error)
	Get(ctx context.Context, ownerID, id string) (*domain.Contact, error)
	Update(ctx context.Context, ownerID, id string, input repository.UpdateContactInput) (*domain.Contact, error)
	Delete(ctx context.Context, ownerID, id string) (*domain.Contact, error)
}

type ContactHandler struct {
	contactUsecase contactUsecaser
	logger         *slog.Logger
}

func NewContactHandler(contactUsecase contactUsecaser, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{
		contactUsecase: contactUsecase,
		logger:         logger.With("component", "contact_handler"),
	}
}

// contactResponse deliberately omits the owner reference.
type contactResponse struct {
	ID        string    `json:"id"`
	Firstname string    `json:"firstname"`
	Lastname  string    `json:"lastname"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toContactResponse(c *domain.Contact) contactResponse {
	return contactResponse{
		ID:        c.ID,
		Firstname: c.Firstname,
		Lastname:  c.Lastname,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// GET /contact
func (h *ContactHandler) List(c *gin.Context) {
	contacts, err := h.contactUsecase.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	out := make([]contactResponse, 0, len(contacts))
	for _, contact := range contacts {
		out = append(out, toContactResponse(contact))
	}
	Respond(c, http.StatusOK, "", out)
}

type createContactRequest struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Phone     string `json:"phone"`
}

// POST /contact/add
func (h *ContactHandler) Create(c *gin.Context) {
	var req createContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Respond(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	created, err := h.contactUsecase.Create(c.Request.Context(), middleware.UserID(c), usecase.CreateContactInput{
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Phone:     req.Phone,
	})
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	Respond(c, http.StatusCreated,
		fmt.Sprintf("Contact %s created successfully", created.Firstname),
		toContactResponse(created))
}

// GET /contact/:id
func (h *ContactHandler) Get(c *gin.Context) {
	contact, err := h.contactUsecase.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	Respond(c, http.StatusOK, "Contact details found", toContactResponse(contact))
}

type updateContactRequest struct {
	Firstname *string `json:"firstname"`
	Lastname  *string `json:"lastname"`
	Phone     *string `json:"phone"`
}

// PUT /contact/:id
// Absent fields stay untouched.
func (h *ContactHandler) Update(c *gin.Context) {
	var req updateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Respond(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	updated, err := h.contactUsecase.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"),
		repository.UpdateContactInput{
			Firstname: req.Firstname,
			Lastname:  req.Lastname,
			Phone:     req.Phone,
		})
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	Respond(c, http.StatusOK,
		fmt.Sprintf("Contact %s updated successfully", updated.Firstname), nil)
}

// DELETE /contact/:id
func (h *ContactHandler) Delete(c *gin.Context) {
	deleted, err := h.contactUsecase.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	Respond(c, http.StatusOK,
		fmt.Sprintf("Contact %s deleted successfully", deleted.Firstname), nil)
}
