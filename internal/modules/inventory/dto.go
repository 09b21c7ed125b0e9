package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"realtyflow/internal/domain"
)

type ProjectRequest struct {
	Name           string               `json:"name" validate:"required,max=255"`
	Location       string               `json:"location" validate:"required,max=255"`
	Description    string               `json:"description"`
	TotalUnits     int                  `json:"total_units" validate:"gte=0"`
	BasePrice      *decimal.Decimal     `json:"base_price" validate:"omitempty,gte=0"`
	Status         domain.ProjectStatus `json:"status"`
	ImageURL       string               `json:"image_url" validate:"omitempty,url"`
	LaunchDate     *time.Time           `json:"launch_date"`
	CompletionDate *time.Time           `json:"completion_date"`
}

type TowerRequest struct {
	Name          string `json:"name" validate:"required,max=100"`
	Floors        int    `json:"floors" validate:"gte=1"`
	UnitsPerFloor int    `json:"units_per_floor" validate:"gte=1"`
}

// UnitDetails carries the writable unit fields. total_price and status are
// not among them.
type UnitDetails struct {
	UnitNumber   string              `json:"unit_number" validate:"required,max=50"`
	Floor        int                 `json:"floor" validate:"gte=1"`
	PropertyType domain.PropertyType `json:"property_type"`
	Size         decimal.Decimal     `json:"size" validate:"gt=0"`
	BaseRate     decimal.Decimal     `json:"base_rate" validate:"gt=0"`
	PLC          decimal.Decimal     `json:"plc" validate:"gte=0"`
	GST          decimal.Decimal     `json:"gst" validate:"gte=0"`
	StampDuty    decimal.Decimal     `json:"stamp_duty" validate:"gte=0"`
	View         string              `json:"view"`
	Facing       string              `json:"facing"`
}

func (d UnitDetails) validatePropertyType() error {
	if d.PropertyType != "" && !d.PropertyType.Valid() {
		return ErrInvalidPropertyType
	}
	return nil
}

func (d UnitDetails) apply(u *domain.Unit) {
	u.UnitNumber = d.UnitNumber
	u.Floor = d.Floor
	u.PropertyType = d.PropertyType
	if u.PropertyType == "" {
		u.PropertyType = domain.PropertyFlat
	}
	u.Size = d.Size
	u.BaseRate = d.BaseRate
	u.PLC = d.PLC
	u.GST = d.GST
	u.StampDuty = d.StampDuty
	u.View = d.View
	u.Facing = d.Facing
	u.RecomputeTotal()
}

type UnitRequest struct {
	TowerID   string `json:"tower_id" validate:"required"`
	ProjectID string `json:"project_id" validate:"required"`
	UnitDetails
}

type BlockRequest struct {
	TTLHours *int `json:"ttl_hours" validate:"omitempty,gte=0,lte=720"`
}

type UnitQuery struct {
	ProjectID    string `form:"project_id"`
	TowerID      string `form:"tower_id"`
	Status       string `form:"status"`
	PropertyType string `form:"property_type"`
	Floor        *int   `form:"floor"`
}

type FloorsResponse struct {
	TowerID string `json:"tower_id"`
	Floors  []int  `json:"floors"`
}
