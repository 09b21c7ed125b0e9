package negotiation

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"realtyflow/internal/domain"
	"realtyflow/internal/middleware"
	"realtyflow/internal/pkg/response"
	"realtyflow/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	negotiations := rg.Group("/negotiations")
	{
		negotiations.GET("", h.ListNegotiations)
		negotiations.GET("/:id", h.GetNegotiation)
		negotiations.POST("", h.CreateNegotiation)
		negotiations.PUT("/:id", h.UpdateNegotiation)
		negotiations.POST("/:id/approve", middleware.Approvers(), h.Approve)
		negotiations.POST("/:id/reject", middleware.Approvers(), h.Reject)
	}
}

func (h *Handler) ListNegotiations(c *gin.Context) {
	var q NegotiationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}
	out, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"negotiations": out})
}

func (h *Handler) GetNegotiation(c *gin.Context) {
	n, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"negotiation": n})
}

func (h *Handler) CreateNegotiation(c *gin.Context) {
	var req CreateNegotiationRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	n, err := h.service.Create(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"negotiation": n})
}

func (h *Handler) UpdateNegotiation(c *gin.Context) {
	var req UpdateNegotiationRequest
	if !validator.BindJSON(c, &req) {
		return
	}

	actor := middleware.Actor(c)
	if req.Status.Terminal() && !actor.HasRole(middleware.ApproverRoles...) {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Only administrators can approve or reject")
		return
	}

	out, err := h.service.Update(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	writeOutcome(c, out)
}

func (h *Handler) Approve(c *gin.Context) {
	h.review(c, h.service.Approve)
}

func (h *Handler) Reject(c *gin.Context) {
	h.review(c, h.service.Reject)
}

type reviewFunc func(ctx context.Context, actor domain.Actor, id string, req ReviewRequest) (*Outcome, error)

func (h *Handler) review(c *gin.Context, fn reviewFunc) {
	var req ReviewRequest
	if c.Request.ContentLength > 0 && !validator.BindJSON(c, &req) {
		return
	}
	out, err := fn(c.Request.Context(), middleware.Actor(c), c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	writeOutcome(c, out)
}

func writeOutcome(c *gin.Context, out *Outcome) {
	body := gin.H{"negotiation": out.Negotiation}
	if out.Booking != nil {
		body["booking"] = out.Booking.Booking
		body["payments"] = out.Booking.Payments
	}
	response.Success(c, http.StatusOK, body)
}
