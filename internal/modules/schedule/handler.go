package schedule

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"realtyflow/internal/pkg/response"
	"realtyflow/internal/pkg/validator"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/payment-schedules")
	g.POST("/preview", h.Preview)
	g.POST("/validate", h.Validate)
}

// Preview generates a schedule without persisting anything.
func (h *Handler) Preview(c *gin.Context) {
	var req PreviewRequest
	if !validator.BindJSON(c, &req) {
		return
	}

	in, err := req.Input()
	if err != nil {
		response.FromError(c, err)
		return
	}
	items, err := Generate(in)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, ScheduleResponse{
		TotalAmount: req.TotalAmount,
		Items:       items,
		Remaining:   decimal.Zero,
	})
}

// Validate checks an edited schedule and echoes it back with fresh
// percentages.
func (h *Handler) Validate(c *gin.Context) {
	var req ValidateRequest
	if !validator.BindJSON(c, &req) {
		return
	}

	if err := Validate(req.TotalAmount, req.Items); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, ScheduleResponse{
		TotalAmount: req.TotalAmount,
		Items:       Recalculate(req.TotalAmount, req.Items),
		Remaining:   decimal.Zero,
	})
}
