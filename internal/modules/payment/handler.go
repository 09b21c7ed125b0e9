package payment

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"realtyflow/internal/pkg/response"
	"realtyflow/internal/pkg/validator"
)

type Handler struct {
	service *Service
	loggerf func(format string, args ...interface{})
}

func NewHandler(service *Service, loggerf func(format string, args ...interface{})) *Handler {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Handler{service: service, loggerf: loggerf}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.GET("", h.ListPayments)
		payments.GET("/pending", h.PendingPayments)
		payments.POST("", h.CreatePayment)
		payments.PUT("/:id", h.UpdatePayment)
		payments.POST("/:id/record", h.RecordPayment)
	}
}

func (h *Handler) ListPayments(c *gin.Context) {
	var q PaymentQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}
	out, err := h.service.List(c.Request.Context(), q.BookingID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payments": out})
}

func (h *Handler) PendingPayments(c *gin.Context) {
	out, err := h.service.Pending(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payments": out})
}

func (h *Handler) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	p, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"payment": p})
}

func (h *Handler) UpdatePayment(c *gin.Context) {
	var req UpdatePaymentRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	p, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payment": p})
}

func (h *Handler) RecordPayment(c *gin.Context) {
	var req RecordRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	p, err := h.service.Record(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.loggerf("level=error msg=record payment failed payment_id=%s err=%v", c.Param("id"), err)
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payment": p})
}
