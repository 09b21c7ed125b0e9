package lead

import (
	"time"

	"github.com/shopspring/decimal"

	"realtyflow/internal/domain"
)

type CreateLeadRequest struct {
	Name           string            `json:"name" validate:"required,max=255"`
	Email          *string           `json:"email" validate:"omitempty,email"`
	Phone          string            `json:"phone" validate:"required,max=20"`
	Source         domain.LeadSource `json:"source" validate:"required"`
	Status         domain.LeadStatus `json:"status"`
	ProjectID      *string           `json:"project_id"`
	AssignedTo     *string           `json:"assigned_to"`
	Budget         *decimal.Decimal  `json:"budget" validate:"omitempty,gte=0"`
	Preferences    string            `json:"preferences"`
	Notes          string            `json:"notes"`
	NextFollowUpAt *time.Time        `json:"next_follow_up_at"`
}

type UpdateLeadRequest struct {
	Name           *string           `json:"name" validate:"omitempty,min=1,max=255"`
	Email          *string           `json:"email" validate:"omitempty,email"`
	Phone          *string           `json:"phone" validate:"omitempty,min=1,max=20"`
	Source         domain.LeadSource `json:"source"`
	Status         domain.LeadStatus `json:"status"`
	ProjectID      *string           `json:"project_id"`
	AssignedTo     *string           `json:"assigned_to"`
	Budget         *decimal.Decimal  `json:"budget" validate:"omitempty,gte=0"`
	Preferences    *string           `json:"preferences"`
	Notes          *string           `json:"notes"`
	NextFollowUpAt *time.Time        `json:"next_follow_up_at"`
	IsActive       *bool             `json:"is_active"`
}

func (r UpdateLeadRequest) apply(l *domain.Lead) {
	if r.Name != nil {
		l.Name = *r.Name
	}
	if r.Email != nil {
		l.Email = r.Email
	}
	if r.Phone != nil {
		l.Phone = *r.Phone
	}
	if r.Source != "" {
		l.Source = r.Source
	}
	if r.Status != "" {
		l.Status = r.Status
	}
	if r.ProjectID != nil {
		l.ProjectID = r.ProjectID
	}
	if r.AssignedTo != nil {
		l.AssignedTo = r.AssignedTo
	}
	if r.Budget != nil {
		l.Budget = r.Budget
	}
	if r.Preferences != nil {
		l.Preferences = *r.Preferences
	}
	if r.Notes != nil {
		l.Notes = *r.Notes
	}
	if r.NextFollowUpAt != nil {
		at := r.NextFollowUpAt.UTC()
		l.NextFollowUpAt = &at
	}
	if r.IsActive != nil {
		l.IsActive = *r.IsActive
	}
}

type ActivityRequest struct {
	Type           domain.CommunicationType `json:"type" validate:"required"`
	Description    string                   `json:"description" validate:"required"`
	Outcome        string                   `json:"outcome"`
	NextAction     string                   `json:"next_action"`
	NextFollowUpAt *time.Time               `json:"next_follow_up_at"`
}

type LeadQuery struct {
	Status    domain.LeadStatus `form:"status"`
	Source    domain.LeadSource `form:"source"`
	ProjectID string            `form:"project_id"`
}

type SearchQuery struct {
	Q     string `form:"q"`
	Limit int    `form:"limit"`
}
