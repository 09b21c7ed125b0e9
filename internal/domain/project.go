package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProjectStatus string

const (
	ProjectPreLaunch ProjectStatus = "pre_launch"
	ProjectActive    ProjectStatus = "active"
	ProjectSoldOut   ProjectStatus = "sold_out"
	ProjectCompleted ProjectStatus = "completed"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPreLaunch, ProjectActive, ProjectSoldOut, ProjectCompleted:
		return true
	}
	return false
}

type Project struct {
	Base
	Name           string           `json:"name" gorm:"not null"`
	Location       string           `json:"location" gorm:"not null"`
	Description    string           `json:"description,omitempty" gorm:"type:text"`
	TotalUnits     int              `json:"total_units" gorm:"not null"`
	AvailableUnits int              `json:"available_units" gorm:"not null"`
	BlockedUnits   int              `json:"blocked_units" gorm:"not null;default:0"`
	SoldUnits      int              `json:"sold_units" gorm:"not null;default:0"`
	BasePrice      *decimal.Decimal `json:"base_price,omitempty" gorm:"type:decimal(15,2)"`
	Status         ProjectStatus    `json:"status" gorm:"type:varchar(20);not null;default:pre_launch"`
	ImageURL       string           `json:"image_url,omitempty"`
	LaunchDate     *time.Time       `json:"launch_date,omitempty"`
	CompletionDate *time.Time       `json:"completion_date,omitempty"`
	DeveloperID    *string          `json:"developer_id,omitempty" gorm:"type:varchar(36);index"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// UnitCounts is the per-status tally of a project's unit rows.
type UnitCounts struct {
	Available int
	Blocked   int
	Booked    int
	Sold      int
}

func (c UnitCounts) Total() int { return c.Available + c.Blocked + c.Booked + c.Sold }

// ApplyCounts reconciles the derived counters with the actual unit rows.
// Booked units count as sold for the project rollup.
func (p *Project) ApplyCounts(c UnitCounts) {
	p.AvailableUnits = c.Available
	p.BlockedUnits = c.Blocked
	p.SoldUnits = c.Booked + c.Sold
	if c.Total() > p.TotalUnits {
		p.TotalUnits = c.Total()
	}

	switch {
	case p.Status == ProjectCompleted || p.Status == ProjectPreLaunch:
	case c.Total() > 0 && c.Available+c.Blocked == 0:
		p.Status = ProjectSoldOut
	case p.Status == ProjectSoldOut:
		p.Status = ProjectActive
	}
}

type Tower struct {
	Base
	ProjectID     string `json:"project_id" gorm:"type:varchar(36);not null;index"`
	Name          string `json:"name" gorm:"not null"`
	Floors        int    `json:"floors" gorm:"not null"`
	UnitsPerFloor int    `json:"units_per_floor" gorm:"not null"`
}
