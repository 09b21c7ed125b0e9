package negotiation

import "realtyflow/internal/domain"

var (
	ErrNegotiationNotFound = domain.NotFound("NEGOTIATION_NOT_FOUND", "Negotiation not found")
	ErrLeadNotFound        = domain.NotFound("LEAD_NOT_FOUND", "Lead not found")
	ErrUnitNotFound        = domain.NotFound("UNIT_NOT_FOUND", "Unit not found")

	ErrInvalidStatus = domain.Validation("INVALID_NEGOTIATION_STATUS", "Unknown negotiation status")
	ErrInvalidPlan   = domain.Validation("INVALID_PAYMENT_PLAN", "Unknown payment plan")
	ErrUnitRequired  = domain.Validation("UNIT_REQUIRED", "A unit must be chosen before approval")
	ErrNoPrice       = domain.Validation("PRICE_REQUIRED", "Negotiation has no price to book at")
)
