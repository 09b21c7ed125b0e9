package lead

import "realtyflow/internal/domain"

var (
	ErrLeadNotFound = domain.NotFound("LEAD_NOT_FOUND", "Lead not found")

	ErrInvalidSource       = domain.Validation("INVALID_LEAD_SOURCE", "Unknown lead source")
	ErrInvalidStatus       = domain.Validation("INVALID_LEAD_STATUS", "Unknown lead status")
	ErrInvalidActivityType = domain.Validation("INVALID_ACTIVITY_TYPE", "Unknown activity type")
	ErrEmptyQuery          = domain.Validation("EMPTY_QUERY", "Search query is required")
)
