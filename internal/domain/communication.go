package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const CommunicationSent = "sent"

type Communication struct {
	ID        string            `json:"id" gorm:"type:varchar(36);primaryKey"`
	LeadID    *string           `json:"lead_id,omitempty" gorm:"type:varchar(36);index"`
	Type      CommunicationType `json:"type" gorm:"type:varchar(20);not null"`
	Subject   string            `json:"subject,omitempty"`
	Content   string            `json:"content" gorm:"type:text;not null"`
	Recipient string            `json:"recipient" gorm:"not null"`
	Status    string            `json:"status" gorm:"type:varchar(20);not null;default:sent"`
	SentAt    time.Time         `json:"sent_at"`
	CreatedBy *string           `json:"created_by,omitempty" gorm:"type:varchar(36)"`
}

func (c *Communication) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = CommunicationSent
	}
	if c.SentAt.IsZero() {
		c.SentAt = time.Now().UTC()
	}
	return nil
}
