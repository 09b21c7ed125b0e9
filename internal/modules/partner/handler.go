package partner

import (
	"net/http"

	"github.com/gin-gonic/gin"

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
	partners := rg.Group("/channel-partners")
	{
		partners.GET("", h.ListPartners)
		partners.GET("/:id", h.GetPartner)
		partners.POST("", middleware.Managers(), h.CreatePartner)
		partners.PUT("/:id", middleware.Managers(), h.UpdatePartner)

		partners.GET("/:id/leads", h.ListLeads)
		partners.POST("/:id/leads", h.AttributeLead)
		partners.POST("/:id/leads/:lead_id/pay", middleware.Managers(), h.PayCommission)
	}
}

func (h *Handler) ListPartners(c *gin.Context) {
	out, err := h.service.List(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"partners": out})
}

func (h *Handler) GetPartner(c *gin.Context) {
	p, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"partner": p})
}

func (h *Handler) CreatePartner(c *gin.Context) {
	var req PartnerRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	p, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"partner": p})
}

func (h *Handler) UpdatePartner(c *gin.Context) {
	var req PartnerRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	p, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"partner": p})
}

func (h *Handler) ListLeads(c *gin.Context) {
	out, err := h.service.Leads(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"leads": out})
}

func (h *Handler) AttributeLead(c *gin.Context) {
	var req AttributeRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	a, err := h.service.Attribute(c.Request.Context(), c.Param("id"), req.LeadID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"attribution": a})
}

func (h *Handler) PayCommission(c *gin.Context) {
	a, err := h.service.PayCommission(c.Request.Context(), c.Param("id"), c.Param("lead_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"attribution": a})
}
