package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type LeadSource string

const (
	Source99Acres     LeadSource = "99acres"
	SourceMagicBricks LeadSource = "magicbricks"
	SourceWebsite     LeadSource = "website"
	SourceWalkIn      LeadSource = "walk_in"
	SourceBroker      LeadSource = "broker"
	SourceGoogleAds   LeadSource = "google_ads"
	SourceMetaAds     LeadSource = "meta_ads"
	SourceReferral    LeadSource = "referral"
)

func (s LeadSource) Valid() bool {
	switch s {
	case Source99Acres, SourceMagicBricks, SourceWebsite, SourceWalkIn,
		SourceBroker, SourceGoogleAds, SourceMetaAds, SourceReferral:
		return true
	}
	return false
}

type LeadStatus string

const (
	LeadNew         LeadStatus = "new"
	LeadContacted   LeadStatus = "contacted"
	LeadSiteVisit   LeadStatus = "site_visit"
	LeadNegotiation LeadStatus = "negotiation"
	LeadBooking     LeadStatus = "booking"
	LeadSale        LeadStatus = "sale"
	LeadPostSales   LeadStatus = "post_sales"
	LeadLost        LeadStatus = "lost"
	LeadInactive    LeadStatus = "inactive"
)

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadNew, LeadContacted, LeadSiteVisit, LeadNegotiation, LeadBooking,
		LeadSale, LeadPostSales, LeadLost, LeadInactive:
		return true
	}
	return false
}

type Lead struct {
	Base
	Name            string           `json:"name" gorm:"not null"`
	Email           *string          `json:"email,omitempty"`
	Phone           string           `json:"phone" gorm:"not null"`
	Source          LeadSource       `json:"source" gorm:"type:varchar(32);not null;index"`
	Status          LeadStatus       `json:"status" gorm:"type:varchar(32);not null;default:new;index"`
	ProjectID       *string          `json:"project_id,omitempty" gorm:"type:varchar(36);index"`
	AssignedTo      *string          `json:"assigned_to,omitempty" gorm:"type:varchar(36);index"`
	Budget          *decimal.Decimal `json:"budget,omitempty" gorm:"type:decimal(15,2)"`
	Preferences     string           `json:"preferences,omitempty" gorm:"type:text"`
	Notes           string           `json:"notes,omitempty" gorm:"type:text"`
	LastContactedAt *time.Time       `json:"last_contacted_at,omitempty"`
	NextFollowUpAt  *time.Time       `json:"next_follow_up_at,omitempty"`
	IsActive        bool             `json:"is_active" gorm:"not null"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

type CommunicationType string

const (
	CommCall      CommunicationType = "call"
	CommEmail     CommunicationType = "email"
	CommWhatsApp  CommunicationType = "whatsapp"
	CommSMS       CommunicationType = "sms"
	CommMeeting   CommunicationType = "meeting"
	CommSiteVisit CommunicationType = "site_visit"
)

func (t CommunicationType) Valid() bool {
	switch t {
	case CommCall, CommEmail, CommWhatsApp, CommSMS, CommMeeting, CommSiteVisit:
		return true
	}
	return false
}

type LeadActivity struct {
	Base
	LeadID      string            `json:"lead_id" gorm:"type:varchar(36);not null;index"`
	UserID      string            `json:"user_id" gorm:"type:varchar(36);not null"`
	Type        CommunicationType `json:"type" gorm:"type:varchar(20);not null"`
	Description string            `json:"description" gorm:"type:text;not null"`
	Outcome     string            `json:"outcome,omitempty" gorm:"type:text"`
	NextAction  string            `json:"next_action,omitempty" gorm:"type:text"`
}
