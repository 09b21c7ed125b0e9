package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentPlan string

const (
	PlanFullDP     PaymentPlan = "full_dp"
	PlanSubvention PaymentPlan = "subvention"
	PlanTLP        PaymentPlan = "tlp"
	PlanCLP        PaymentPlan = "clp"
	PlanCustom     PaymentPlan = "custom"
)

func (p PaymentPlan) Valid() bool {
	switch p {
	case PlanFullDP, PlanSubvention, PlanTLP, PlanCLP, PlanCustom:
		return true
	}
	return false
}

type Booking struct {
	Base
	LeadID         string          `json:"lead_id" gorm:"type:varchar(36);not null;index"`
	UnitID         string          `json:"unit_id" gorm:"type:varchar(36);not null;index"`
	ProjectID      string          `json:"project_id" gorm:"type:varchar(36);not null;index"`
	SalesPersonID  string          `json:"sales_person_id" gorm:"type:varchar(36);not null"`
	NegotiationID  *string         `json:"negotiation_id,omitempty" gorm:"type:varchar(36);uniqueIndex"`
	TokenAmount    decimal.Decimal `json:"token_amount" gorm:"type:decimal(15,2);not null"`
	TotalAmount    decimal.Decimal `json:"total_amount" gorm:"type:decimal(15,2);not null"`
	DiscountAmount decimal.Decimal `json:"discount_amount" gorm:"type:decimal(15,2);not null;default:0"`
	FinalAmount    decimal.Decimal `json:"final_amount" gorm:"type:decimal(15,2);not null"`
	PaymentPlan    PaymentPlan     `json:"payment_plan,omitempty" gorm:"type:varchar(20)"`
	BookingDate    time.Time       `json:"booking_date"`
	AgreementDate  *time.Time      `json:"agreement_date,omitempty"`
	PossessionDate *time.Time      `json:"possession_date,omitempty"`
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentOverdue PaymentStatus = "overdue"
	PaymentPartial PaymentStatus = "partial"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentOverdue, PaymentPartial:
		return true
	}
	return false
}

type Payment struct {
	Base
	BookingID     string          `json:"booking_id" gorm:"type:varchar(36);not null;index"`
	Milestone     string          `json:"milestone,omitempty"`
	Sequence      int             `json:"sequence" gorm:"not null;default:0"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:decimal(15,2);not null"`
	PaidAmount    decimal.Decimal `json:"paid_amount" gorm:"type:decimal(15,2);not null;default:0"`
	DueDate       time.Time       `json:"due_date" gorm:"not null;index"`
	PaidDate      *time.Time      `json:"paid_date,omitempty"`
	Status        PaymentStatus   `json:"status" gorm:"type:varchar(20);not null;default:pending;index"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Notes         string          `json:"notes,omitempty" gorm:"type:text"`
}

// ApplyReceipt adds amount to what has been paid and moves the payment to
// partial or paid accordingly.
func (p *Payment) ApplyReceipt(amount decimal.Decimal, at time.Time) {
	p.PaidAmount = p.PaidAmount.Add(amount)
	if p.PaidAmount.GreaterThanOrEqual(p.Amount) {
		p.Status = PaymentPaid
		p.PaidDate = &at
		return
	}
	p.Status = PaymentPartial
}

// Outstanding is what remains to be received on the payment.
func (p *Payment) Outstanding() decimal.Decimal {
	rest := p.Amount.Sub(p.PaidAmount)
	if rest.IsNegative() {
		return decimal.Zero
	}
	return rest
}
