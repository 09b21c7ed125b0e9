package booking

import "realtyflow/internal/domain"

var (
	ErrBookingNotFound = domain.NotFound("BOOKING_NOT_FOUND", "Booking not found")
	ErrLeadNotFound    = domain.NotFound("LEAD_NOT_FOUND", "Lead not found")

	ErrInvalidPlan   = domain.Validation("INVALID_PAYMENT_PLAN", "Unknown payment plan")
	ErrInvalidAmount = domain.Validation("INVALID_AMOUNT", "Booking amounts are inconsistent")

	ErrAlreadyBooked  = domain.Conflict("NEGOTIATION_ALREADY_BOOKED", "A booking already exists for this negotiation")
	ErrScheduleLocked = domain.Conflict("SCHEDULE_LOCKED", "Schedule cannot change once payments are received")
)
