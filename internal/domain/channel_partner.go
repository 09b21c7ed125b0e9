package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ChannelPartner struct {
	Base
	Name           string          `json:"name" gorm:"not null"`
	Email          string          `json:"email,omitempty"`
	Phone          string          `json:"phone" gorm:"not null"`
	Company        string          `json:"company,omitempty"`
	Address        string          `json:"address,omitempty" gorm:"type:text"`
	CommissionRate decimal.Decimal `json:"commission_rate" gorm:"type:decimal(5,2);not null"`
	KYCStatus      bool            `json:"kyc_status" gorm:"column:kyc_status;not null;default:false"`
	AgreementDate  *time.Time      `json:"agreement_date,omitempty"`
	IsActive       bool            `json:"is_active" gorm:"not null"`
}

// Commission is the partner's cut of a booking's final amount.
func (p *ChannelPartner) Commission(finalAmount decimal.Decimal) decimal.Decimal {
	return finalAmount.Mul(p.CommissionRate).Div(decimal.NewFromInt(100)).Round(2)
}

// ChannelPartnerLead attributes a lead to the partner that brought it.
type ChannelPartnerLead struct {
	Base
	ChannelPartnerID string           `json:"channel_partner_id" gorm:"type:varchar(36);not null;index"`
	LeadID           string           `json:"lead_id" gorm:"type:varchar(36);not null;uniqueIndex"`
	BookingID        *string          `json:"booking_id,omitempty" gorm:"type:varchar(36)"`
	CommissionAmount *decimal.Decimal `json:"commission_amount,omitempty" gorm:"type:decimal(15,2)"`
	CommissionPaid   bool             `json:"commission_paid" gorm:"not null;default:false"`
	PaidAt           *time.Time       `json:"paid_at,omitempty"`
}
