package booking

import (
	"time"

	"github.com/shopspring/decimal"

	"realtyflow/internal/domain"
	"realtyflow/internal/modules/schedule"
)

type CreateBookingRequest struct {
	LeadID             string             `json:"lead_id" validate:"required"`
	UnitID             string             `json:"unit_id" validate:"required"`
	TokenAmount        decimal.Decimal    `json:"token_amount" validate:"gte=0"`
	TotalAmount        *decimal.Decimal   `json:"total_amount" validate:"omitempty,gt=0"`
	FinalAmount        *decimal.Decimal   `json:"final_amount" validate:"omitempty,gt=0"`
	PaymentPlan        domain.PaymentPlan `json:"payment_plan"`
	DownPaymentPercent *decimal.Decimal   `json:"down_payment_percent" validate:"omitempty,gte=0,lte=100"`
	InstallmentCount   int                `json:"installment_count" validate:"gte=0,lte=120"`
	BookingDate        *time.Time         `json:"booking_date"`
	AgreementDate      *time.Time         `json:"agreement_date"`
	PossessionDate     *time.Time         `json:"possession_date"`

	// set when the booking comes out of an approved negotiation
	NegotiationID *string `json:"-"`
}

type UpdateBookingRequest struct {
	AgreementDate  *time.Time         `json:"agreement_date"`
	PossessionDate *time.Time         `json:"possession_date"`
	PaymentPlan    domain.PaymentPlan `json:"payment_plan"`
}

type ScheduleRequest struct {
	Items []schedule.Item `json:"items" validate:"required,min=1"`
}

type BookingQuery struct {
	LeadID    string `form:"lead_id"`
	ProjectID string `form:"project_id"`
	UnitID    string `form:"unit_id"`
}

type BookingDetails struct {
	Booking     *domain.Booking  `json:"booking"`
	Payments    []domain.Payment `json:"payments"`
	Outstanding decimal.Decimal  `json:"outstanding"`
}
