package partner

import (
	"time"

	"github.com/shopspring/decimal"

	"realtyflow/internal/domain"
)

type PartnerRequest struct {
	Name           string          `json:"name" validate:"required,max=255"`
	Email          string          `json:"email" validate:"omitempty,email"`
	Phone          string          `json:"phone" validate:"required,max=20"`
	Company        string          `json:"company"`
	Address        string          `json:"address"`
	CommissionRate decimal.Decimal `json:"commission_rate" validate:"gte=0,lte=100"`
	KYCStatus      bool            `json:"kyc_status"`
	AgreementDate  *time.Time      `json:"agreement_date"`
	IsActive       *bool           `json:"is_active"`
}

func (r PartnerRequest) apply(p *domain.ChannelPartner) {
	p.Name = r.Name
	p.Email = r.Email
	p.Phone = r.Phone
	p.Company = r.Company
	p.Address = r.Address
	p.CommissionRate = r.CommissionRate
	p.KYCStatus = r.KYCStatus
	if r.AgreementDate != nil {
		at := r.AgreementDate.UTC()
		p.AgreementDate = &at
	}
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}
}

type AttributeRequest struct {
	LeadID string `json:"lead_id" validate:"required"`
}
