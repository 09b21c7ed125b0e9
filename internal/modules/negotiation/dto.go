package negotiation

import (
	"github.com/shopspring/decimal"

	"realtyflow/internal/domain"
	"realtyflow/internal/modules/booking"
)

// Terms are the negotiable fields shared by create and update.
type Terms struct {
	UnitID         *string            `json:"unit_id"`
	BasePrice      *decimal.Decimal   `json:"base_price" validate:"omitempty,gt=0"`
	RequestedPrice *decimal.Decimal   `json:"requested_price" validate:"omitempty,gt=0"`
	OfferedPrice   *decimal.Decimal   `json:"offered_price" validate:"omitempty,gt=0"`
	TokenAmount    *decimal.Decimal   `json:"token_amount" validate:"omitempty,gte=0"`
	PaymentPlan    domain.PaymentPlan `json:"payment_plan"`
	IsTokenReady   *bool              `json:"is_token_ready"`
	Notes          *string            `json:"notes"`
}

func (t Terms) apply(n *domain.Negotiation) {
	if t.UnitID != nil {
		n.UnitID = t.UnitID
	}
	if t.BasePrice != nil {
		n.BasePrice = t.BasePrice
	}
	if t.RequestedPrice != nil {
		n.RequestedPrice = t.RequestedPrice
	}
	if t.OfferedPrice != nil {
		n.OfferedPrice = t.OfferedPrice
	}
	if t.TokenAmount != nil {
		n.TokenAmount = t.TokenAmount
	}
	if t.PaymentPlan != "" {
		n.PaymentPlan = t.PaymentPlan
	}
	if t.IsTokenReady != nil {
		n.IsTokenReady = *t.IsTokenReady
	}
	if t.Notes != nil {
		n.Notes = *t.Notes
	}
}

type CreateNegotiationRequest struct {
	LeadID string `json:"lead_id" validate:"required"`
	Terms
}

type UpdateNegotiationRequest struct {
	Status     domain.NegotiationStatus `json:"status"`
	AdminNotes *string                  `json:"admin_notes"`
	Terms
}

type ReviewRequest struct {
	AdminNotes string `json:"admin_notes"`
}

type NegotiationQuery struct {
	LeadID string                   `form:"lead_id"`
	Status domain.NegotiationStatus `form:"status"`
}

// Outcome is a saved negotiation and, when it was approved, the booking
// the approval wrote.
type Outcome struct {
	Negotiation *domain.Negotiation `json:"negotiation"`
	Booking     *booking.Result     `json:"-"`
}
