package schedule

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"realtyflow/internal/domain"
)

type PreviewRequest struct {
	TotalAmount        decimal.Decimal    `json:"total_amount" validate:"gt=0"`
	PlanType           domain.PaymentPlan `json:"plan_type" validate:"required"`
	DownPaymentPercent *decimal.Decimal   `json:"down_payment_percent" validate:"omitempty,gte=0,lte=100"`
	InstallmentCount   int                `json:"installment_count" validate:"gte=0,lte=120"`
	StartDate          string             `json:"start_date"`
}

func (r PreviewRequest) Input() (Input, error) {
	start, err := ParseDate(r.StartDate)
	if err != nil {
		return Input{}, err
	}
	return Input{
		TotalAmount:        r.TotalAmount,
		PlanType:           r.PlanType,
		DownPaymentPercent: r.DownPaymentPercent,
		InstallmentCount:   r.InstallmentCount,
		StartDate:          start,
	}, nil
}

type ValidateRequest struct {
	TotalAmount decimal.Decimal `json:"total_amount" validate:"gt=0"`
	Items       []Item          `json:"items" validate:"required,min=1"`
}

type ScheduleResponse struct {
	TotalAmount decimal.Decimal `json:"total_amount"`
	Items       []Item          `json:"items"`
	Remaining   decimal.Decimal `json:"remaining"`
}

// ParseDate accepts a calendar date or an RFC 3339 timestamp. Empty input
// yields today's date at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, ErrInvalidStartDate
	}
	return t.UTC(), nil
}
