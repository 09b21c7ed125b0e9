package booking

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
	bookings := rg.Group("/bookings")
	{
		bookings.GET("", h.ListBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.POST("", h.CreateBooking)
		bookings.PUT("/:id", h.UpdateBooking)
		bookings.PUT("/:id/schedule", h.ReplaceSchedule)
	}
}

func (h *Handler) ListBookings(c *gin.Context) {
	var q BookingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}
	out, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": out})
}

func (h *Handler) GetBooking(c *gin.Context) {
	details, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, details)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if !validator.BindJSON(c, &req) {
		return
	}

	res, err := h.service.Create(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"booking":  res.Booking,
		"payments": res.Payments,
		"unit":     res.Unit.Unit,
	})
}

func (h *Handler) UpdateBooking(c *gin.Context) {
	var req UpdateBookingRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	b, err := h.service.UpdateTerms(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) ReplaceSchedule(c *gin.Context) {
	var req ScheduleRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	payments, err := h.service.ReplaceSchedule(c.Request.Context(), c.Param("id"), req.Items)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payments": payments})
}
