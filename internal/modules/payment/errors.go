package payment

import "realtyflow/internal/domain"

var (
	ErrPaymentNotFound = domain.NotFound("PAYMENT_NOT_FOUND", "Payment not found")
	ErrBookingNotFound = domain.NotFound("BOOKING_NOT_FOUND", "Booking not found")

	ErrInvalidStatus      = domain.Validation("INVALID_PAYMENT_STATUS", "Unknown payment status")
	ErrAmountBelowPaid    = domain.Validation("AMOUNT_BELOW_PAID", "Amount cannot be less than what was already received")
	ErrExceedsOutstanding = domain.Validation("EXCEEDS_OUTSTANDING", "Receipt is larger than the outstanding amount")
)
