package payment

import (
	"time"

	"github.com/shopspring/decimal"

	"realtyflow/internal/domain"
)

type CreatePaymentRequest struct {
	BookingID     string          `json:"booking_id" validate:"required"`
	Milestone     string          `json:"milestone" validate:"max=255"`
	Sequence      int             `json:"sequence" validate:"gte=0"`
	Amount        decimal.Decimal `json:"amount" validate:"gt=0"`
	DueDate       time.Time       `json:"due_date" validate:"required"`
	PaymentMethod string          `json:"payment_method"`
	TransactionID string          `json:"transaction_id"`
	Notes         string          `json:"notes"`
}

type UpdatePaymentRequest struct {
	Milestone     *string              `json:"milestone"`
	Amount        *decimal.Decimal     `json:"amount" validate:"omitempty,gt=0"`
	DueDate       *time.Time           `json:"due_date"`
	Status        domain.PaymentStatus `json:"status"`
	PaymentMethod *string              `json:"payment_method"`
	TransactionID *string              `json:"transaction_id"`
	Notes         *string              `json:"notes"`
}

// RecordRequest is money received against one installment.
type RecordRequest struct {
	Amount        decimal.Decimal `json:"amount" validate:"gt=0"`
	PaymentMethod string          `json:"payment_method"`
	TransactionID string          `json:"transaction_id"`
	PaidAt        *time.Time      `json:"paid_at"`
}

type PaymentQuery struct {
	BookingID string `form:"booking_id"`
}
