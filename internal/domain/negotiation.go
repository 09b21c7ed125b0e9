package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type NegotiationStatus string

const (
	NegotiationPending     NegotiationStatus = "pending"
	NegotiationNegotiating NegotiationStatus = "negotiating"
	NegotiationApproved    NegotiationStatus = "approved"
	NegotiationRejected    NegotiationStatus = "rejected"
)

func (s NegotiationStatus) Valid() bool {
	switch s {
	case NegotiationPending, NegotiationNegotiating, NegotiationApproved, NegotiationRejected:
		return true
	}
	return false
}

func (s NegotiationStatus) Terminal() bool {
	return s == NegotiationApproved || s == NegotiationRejected
}

// CanTransition reports whether a negotiation may move from s to next.
// Staying in a non-terminal state is allowed so field edits can carry the
// current status along.
func (s NegotiationStatus) CanTransition(next NegotiationStatus) bool {
	switch s {
	case NegotiationPending:
		return next == NegotiationPending || next == NegotiationNegotiating ||
			next == NegotiationApproved || next == NegotiationRejected
	case NegotiationNegotiating:
		return next == NegotiationNegotiating || next == NegotiationApproved || next == NegotiationRejected
	}
	return false
}

type Negotiation struct {
	Base
	LeadID          string            `json:"lead_id" gorm:"type:varchar(36);not null;index"`
	UnitID          *string           `json:"unit_id,omitempty" gorm:"type:varchar(36);index"`
	ProjectID       *string           `json:"project_id,omitempty" gorm:"type:varchar(36)"`
	Status          NegotiationStatus `json:"status" gorm:"type:varchar(20);not null;default:pending;index"`
	BasePrice       *decimal.Decimal  `json:"base_price,omitempty" gorm:"type:decimal(15,2)"`
	RequestedPrice  *decimal.Decimal  `json:"requested_price,omitempty" gorm:"type:decimal(15,2)"`
	OfferedPrice    *decimal.Decimal  `json:"offered_price,omitempty" gorm:"type:decimal(15,2)"`
	DiscountPercent *decimal.Decimal  `json:"discount_percent,omitempty" gorm:"type:decimal(5,2)"`
	TokenAmount     *decimal.Decimal  `json:"token_amount,omitempty" gorm:"type:decimal(15,2)"`
	PaymentPlan     PaymentPlan       `json:"payment_plan,omitempty" gorm:"type:varchar(20)"`
	IsTokenReady    bool              `json:"is_token_ready" gorm:"not null;default:false"`
	Notes           string            `json:"notes,omitempty" gorm:"type:text"`
	AdminNotes      string            `json:"admin_notes,omitempty" gorm:"type:text"`
	CreatedBy       *string           `json:"created_by,omitempty" gorm:"type:varchar(36)"`
	ApprovedBy      *string           `json:"approved_by,omitempty" gorm:"type:varchar(36)"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// AgreedPrice is the price a booking is written at: the offer if one was
// made, else what the buyer asked for, else the list price.
func (n *Negotiation) AgreedPrice() (decimal.Decimal, bool) {
	for _, p := range []*decimal.Decimal{n.OfferedPrice, n.RequestedPrice, n.BasePrice} {
		if p != nil && p.IsPositive() {
			return *p, true
		}
	}
	return decimal.Zero, false
}

// RecomputeDiscount derives discount_percent from the list price and the
// agreed price.
func (n *Negotiation) RecomputeDiscount() {
	if n.BasePrice == nil || !n.BasePrice.IsPositive() {
		n.DiscountPercent = nil
		return
	}
	agreed := n.OfferedPrice
	if agreed == nil {
		agreed = n.RequestedPrice
	}
	if agreed == nil {
		n.DiscountPercent = nil
		return
	}
	pct := n.BasePrice.Sub(*agreed).Div(*n.BasePrice).Mul(decimal.NewFromInt(100)).Round(2)
	n.DiscountPercent = &pct
}
