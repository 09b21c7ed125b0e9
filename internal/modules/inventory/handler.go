package inventory

import (
	"net/http"
	"time"

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

// RegisterRoutes mounts the inventory endpoints on an authenticated group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	projects := rg.Group("/projects")
	{
		projects.GET("", h.ListProjects)
		projects.GET("/:id", h.GetProject)
		projects.POST("", middleware.Managers(), h.CreateProject)
		projects.PUT("/:id", middleware.Managers(), h.UpdateProject)
		projects.DELETE("/:id", middleware.Managers(), h.DeleteProject)

		projects.GET("/:id/towers", h.ListTowers)
		projects.POST("/:id/towers", middleware.Managers(), h.CreateTower)
		projects.GET("/:id/available-units", h.AvailableUnits)
	}

	rg.GET("/towers/:id/floors", h.Floors)

	units := rg.Group("/units")
	{
		units.GET("", h.ListUnits)
		units.GET("/:id", h.GetUnit)
		units.POST("", h.CreateUnit)
		units.PUT("/:id", h.UpdateUnit)
		units.DELETE("/:id", middleware.Approvers(), h.DeleteUnit)

		units.POST("/:id/block", h.Block)
		units.POST("/:id/unblock", h.Unblock)
		units.POST("/:id/sell", middleware.Approvers(), h.Sell)
	}
}

func (h *Handler) ListProjects(c *gin.Context) {
	projects, err := h.service.ListProjects(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"projects": projects})
}

func (h *Handler) GetProject(c *gin.Context) {
	p, err := h.service.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"project": p})
}

func (h *Handler) CreateProject(c *gin.Context) {
	var req ProjectRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	p, err := h.service.CreateProject(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"project": p})
}

func (h *Handler) UpdateProject(c *gin.Context) {
	var req ProjectRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	p, err := h.service.UpdateProject(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"project": p})
}

func (h *Handler) DeleteProject(c *gin.Context) {
	if err := h.service.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Project deleted"})
}

func (h *Handler) ListTowers(c *gin.Context) {
	towers, err := h.service.ListTowers(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"towers": towers})
}

func (h *Handler) CreateTower(c *gin.Context) {
	var req TowerRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	t, err := h.service.CreateTower(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"tower": t})
}

func (h *Handler) Floors(c *gin.Context) {
	towerID := c.Param("id")
	floors, err := h.service.Floors(c.Request.Context(), towerID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, FloorsResponse{TowerID: towerID, Floors: floors})
}

func (h *Handler) ListUnits(c *gin.Context) {
	var q UnitQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}
	units, err := h.service.ListUnits(c.Request.Context(), q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"units": units})
}

func (h *Handler) AvailableUnits(c *gin.Context) {
	units, err := h.service.AvailableUnits(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"units": units})
}

func (h *Handler) GetUnit(c *gin.Context) {
	u, err := h.service.GetUnit(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"unit": u})
}

func (h *Handler) CreateUnit(c *gin.Context) {
	var req UnitRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	u, err := h.service.CreateUnit(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"unit": u})
}

func (h *Handler) UpdateUnit(c *gin.Context) {
	var req UnitDetails
	if !validator.BindJSON(c, &req) {
		return
	}
	u, err := h.service.UpdateUnit(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"unit": u})
}

func (h *Handler) DeleteUnit(c *gin.Context) {
	if err := h.service.DeleteUnit(c.Request.Context(), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Unit deleted"})
}

func (h *Handler) Block(c *gin.Context) {
	var req BlockRequest
	// the body is optional
	if c.Request.ContentLength > 0 && !validator.BindJSON(c, &req) {
		return
	}

	var ttl *time.Duration
	if req.TTLHours != nil {
		d := time.Duration(*req.TTLHours) * time.Hour
		ttl = &d
	}

	u, err := h.service.Block(c.Request.Context(), middleware.Actor(c), c.Param("id"), ttl)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"unit": u})
}

func (h *Handler) Unblock(c *gin.Context) {
	u, err := h.service.Unblock(c.Request.Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"unit": u})
}

func (h *Handler) Sell(c *gin.Context) {
	u, err := h.service.Sell(c.Request.Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"unit": u})
}
