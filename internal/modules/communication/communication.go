// Package communication logs messages sent to leads.
package communication

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"realtyflow/internal/domain"
	"realtyflow/internal/middleware"
	"realtyflow/internal/pkg/response"
	"realtyflow/internal/pkg/validator"
	"realtyflow/internal/repository"
)

var ErrInvalidType = domain.Validation("INVALID_COMMUNICATION_TYPE", "Unknown communication type")

type CreateRequest struct {
	LeadID    *string                  `json:"lead_id"`
	Type      domain.CommunicationType `json:"type" validate:"required"`
	Subject   string                   `json:"subject" validate:"max=255"`
	Content   string                   `json:"content" validate:"required"`
	Recipient string                   `json:"recipient" validate:"required"`
	Status    string                   `json:"status" validate:"omitempty,oneof=sent delivered failed queued"`
	SentAt    *time.Time               `json:"sent_at"`
}

type Service struct {
	repos *repository.Repositories
}

func NewService(repos *repository.Repositories) *Service {
	return &Service{repos: repos}
}

func (s *Service) List(ctx context.Context, leadID string) ([]domain.Communication, error) {
	out, err := s.repos.Communications.List(ctx, leadID)
	return out, domain.Persistence(err)
}

// Create records a communication. Status defaults to sent, sent_at to now
// and created_by to the actor.
func (s *Service) Create(ctx context.Context, actor domain.Actor, req CreateRequest) (*domain.Communication, error) {
	if !req.Type.Valid() {
		return nil, ErrInvalidType
	}
	c := &domain.Communication{
		LeadID:    req.LeadID,
		Type:      req.Type,
		Subject:   req.Subject,
		Content:   req.Content,
		Recipient: req.Recipient,
		Status:    req.Status,
	}
	if req.SentAt != nil {
		c.SentAt = req.SentAt.UTC()
	}
	if actor.UserID != "" {
		me := actor.UserID
		c.CreatedBy = &me
	}
	if err := s.repos.Communications.Create(ctx, c); err != nil {
		return nil, domain.Persistence(err)
	}
	return c, nil
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/communications", h.List)
	rg.POST("/communications", h.Create)
}

func (h *Handler) List(c *gin.Context) {
	out, err := h.service.List(c.Request.Context(), c.Query("lead_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"communications": out})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	out, err := h.service.Create(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"communication": out})
}
