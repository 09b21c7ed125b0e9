package partner

import "realtyflow/internal/domain"

var (
	ErrPartnerNotFound     = domain.NotFound("PARTNER_NOT_FOUND", "Channel partner not found")
	ErrLeadNotFound        = domain.NotFound("LEAD_NOT_FOUND", "Lead not found")
	ErrAttributionNotFound = domain.NotFound("ATTRIBUTION_NOT_FOUND", "Lead is not attributed to this partner")

	ErrLeadAttributed       = domain.Conflict("LEAD_ALREADY_ATTRIBUTED", "Lead already belongs to a channel partner")
	ErrCommissionNotAccrued = domain.Conflict("COMMISSION_NOT_ACCRUED", "No commission has accrued for this lead")
)
