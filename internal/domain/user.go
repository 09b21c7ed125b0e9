package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleMaster         UserRole = "master"
	RoleDeveloperHQ    UserRole = "developer_hq"
	RoleSalesAdmin     UserRole = "sales_admin"
	RoleSalesExecutive UserRole = "sales_executive"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleMaster, RoleDeveloperHQ, RoleSalesAdmin, RoleSalesExecutive:
		return true
	}
	return false
}

// Base carries the primary key and creation time shared by all tables.
type Base struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	CreatedAt time.Time `json:"created_at"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

type User struct {
	Base
	Username     string    `json:"username" gorm:"type:varchar(100);uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         UserRole  `json:"role" gorm:"type:varchar(32);not null;default:sales_executive;index"`
	Phone        string    `json:"phone,omitempty"`
	IsActive     bool      `json:"is_active" gorm:"not null"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Actor is the authenticated identity a request acts as. It is passed
// explicitly into every service call.
type Actor struct {
	UserID string
	Role   UserRole
}

func (a Actor) HasRole(roles ...UserRole) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

// SeesAllLeads is true for roles whose lead lists are not filtered.
func (a Actor) SeesAllLeads() bool {
	return a.HasRole(RoleMaster, RoleDeveloperHQ)
}
