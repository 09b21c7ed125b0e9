package schedule

import "realtyflow/internal/domain"

var (
	ErrInvalidTotal        = domain.Validation("INVALID_TOTAL_AMOUNT", "total_amount must be greater than zero")
	ErrInvalidDownPayment  = domain.Validation("INVALID_DOWN_PAYMENT", "down_payment_percent must be between 0 and 100")
	ErrInvalidInstallments = domain.Validation("INVALID_INSTALLMENT_COUNT", "installment_count must be between 1 and 120")
	ErrUnknownPlan         = domain.Validation("UNKNOWN_PLAN_TYPE", "Unknown payment plan type")
	ErrInvalidStartDate    = domain.Validation("INVALID_START_DATE", "start_date must be YYYY-MM-DD or RFC 3339")

	ErrEmptySchedule    = domain.Validation("EMPTY_SCHEDULE", "Schedule has no items")
	ErrNegativeAmount   = domain.Validation("NEGATIVE_AMOUNT", "Schedule amounts cannot be negative")
	ErrLockedMilestone  = domain.Validation("LOCKED_MILESTONE", "Milestone is not editable")
	ErrMissingDueDate   = domain.Validation("MISSING_DUE_DATE", "Every milestone needs a due date")
	ErrScheduleMismatch = domain.Validation("SCHEDULE_MISMATCH", "Schedule must add up to the total amount")
)
