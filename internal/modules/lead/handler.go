package lead

import (
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
	leads := rg.Group("/leads")
	{
		leads.GET("", h.ListLeads)
		leads.GET("/status/:status", h.LeadsByStatus)
		leads.GET("/search", h.SearchLeads)
		leads.GET("/:id", h.GetLead)
		leads.POST("", h.CreateLead)
		leads.PUT("/:id", h.UpdateLead)
		leads.DELETE("/:id", middleware.Approvers(), h.DeleteLead)

		leads.GET("/:id/activities", h.ListActivities)
		leads.POST("/:id/activities", h.AddActivity)
	}
}

func (h *Handler) ListLeads(c *gin.Context) {
	var q LeadQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}
	h.list(c, q)
}

func (h *Handler) LeadsByStatus(c *gin.Context) {
	h.list(c, LeadQuery{Status: domain.LeadStatus(c.Param("status"))})
}

func (h *Handler) list(c *gin.Context, q LeadQuery) {
	leads, err := h.service.List(c.Request.Context(), middleware.Actor(c), q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"leads": leads})
}

func (h *Handler) SearchLeads(c *gin.Context) {
	var q SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}
	leads, err := h.service.Search(c.Request.Context(), middleware.Actor(c), q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"leads": leads})
}

func (h *Handler) GetLead(c *gin.Context) {
	l, err := h.service.Get(c.Request.Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"lead": l})
}

func (h *Handler) CreateLead(c *gin.Context) {
	var req CreateLeadRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	l, err := h.service.Create(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"lead": l})
}

func (h *Handler) UpdateLead(c *gin.Context) {
	var req UpdateLeadRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	l, err := h.service.Update(c.Request.Context(), middleware.Actor(c), c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"lead": l})
}

func (h *Handler) DeleteLead(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.Actor(c), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Lead deleted"})
}

func (h *Handler) ListActivities(c *gin.Context) {
	out, err := h.service.Activities(c.Request.Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"activities": out})
}

func (h *Handler) AddActivity(c *gin.Context) {
	var req ActivityRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	a, err := h.service.AddActivity(c.Request.Context(), middleware.Actor(c), c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"activity": a})
}
