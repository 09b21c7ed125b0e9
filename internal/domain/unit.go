package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type UnitStatus string

const (
	UnitAvailable UnitStatus = "available"
	UnitBlocked   UnitStatus = "blocked"
	UnitBooked    UnitStatus = "booked"
	UnitSold      UnitStatus = "sold"
)

var UnitStatuses = []UnitStatus{UnitAvailable, UnitBlocked, UnitBooked, UnitSold}

func (s UnitStatus) Valid() bool {
	switch s {
	case UnitAvailable, UnitBlocked, UnitBooked, UnitSold:
		return true
	}
	return false
}

type PropertyType string

const (
	PropertyFlat     PropertyType = "flat"
	PropertyBungalow PropertyType = "bungalow"
	PropertyRowHouse PropertyType = "row_house"
	PropertyShop     PropertyType = "shop"
	PropertyOffice   PropertyType = "office"
)

func (p PropertyType) Valid() bool {
	switch p {
	case PropertyFlat, PropertyBungalow, PropertyRowHouse, PropertyShop, PropertyOffice:
		return true
	}
	return false
}

type Unit struct {
	Base
	TowerID       string          `json:"tower_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_units_tower_number"`
	ProjectID     string          `json:"project_id" gorm:"type:varchar(36);not null;index"`
	UnitNumber    string          `json:"unit_number" gorm:"type:varchar(50);not null;uniqueIndex:idx_units_tower_number"`
	Floor         int             `json:"floor" gorm:"not null"`
	PropertyType  PropertyType    `json:"property_type" gorm:"type:varchar(20);not null;default:flat"`
	Size          decimal.Decimal `json:"size" gorm:"type:decimal(8,2);not null"`
	BaseRate      decimal.Decimal `json:"base_rate" gorm:"type:decimal(15,2);not null"`
	PLC           decimal.Decimal `json:"plc" gorm:"column:plc;type:decimal(15,2);not null;default:0"`
	GST           decimal.Decimal `json:"gst" gorm:"column:gst;type:decimal(15,2);not null;default:0"`
	StampDuty     decimal.Decimal `json:"stamp_duty" gorm:"type:decimal(15,2);not null;default:0"`
	TotalPrice    decimal.Decimal `json:"total_price" gorm:"type:decimal(15,2);not null"`
	Status        UnitStatus      `json:"status" gorm:"type:varchar(20);not null;default:available;index"`
	View          string          `json:"view,omitempty"`
	Facing        string          `json:"facing,omitempty"`
	BlockedAt     *time.Time      `json:"blocked_at,omitempty"`
	BlockExpiryAt *time.Time      `json:"block_expiry_at,omitempty" gorm:"index"`
	BlockedBy     *string         `json:"blocked_by,omitempty" gorm:"type:varchar(36)"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// RecomputeTotal restores total_price = base_rate + plc + gst + stamp_duty.
// Every write path calls it; the stored total is never taken from input.
func (u *Unit) RecomputeTotal() {
	u.TotalPrice = u.BaseRate.Add(u.PLC).Add(u.GST).Add(u.StampDuty)
}

type UnitAction string

const (
	UnitActionBlock   UnitAction = "block"
	UnitActionUnblock UnitAction = "unblock"
	UnitActionRelease UnitAction = "release"
	UnitActionBook    UnitAction = "book"
	UnitActionSell    UnitAction = "sell"
)

var UnitActions = []UnitAction{UnitActionBlock, UnitActionUnblock, UnitActionRelease, UnitActionBook, UnitActionSell}

type unitTransition struct {
	from []UnitStatus
	to   UnitStatus
}

// Release is an expired block returning to stock; it shares unblock's guard.
var unitTransitions = map[UnitAction]unitTransition{
	UnitActionBlock:   {from: []UnitStatus{UnitAvailable}, to: UnitBlocked},
	UnitActionUnblock: {from: []UnitStatus{UnitBlocked}, to: UnitAvailable},
	UnitActionRelease: {from: []UnitStatus{UnitBlocked}, to: UnitAvailable},
	UnitActionBook:    {from: []UnitStatus{UnitAvailable, UnitBlocked}, to: UnitBooked},
	UnitActionSell:    {from: []UnitStatus{UnitBooked}, to: UnitSold},
}

// UnitTransitionGuard returns the states action may start from and the state
// it leads to.
func UnitTransitionGuard(action UnitAction) (from []UnitStatus, to UnitStatus, ok bool) {
	t, ok := unitTransitions[action]
	if !ok {
		return nil, "", false
	}
	return t.from, t.to, true
}

// NextUnitStatus applies action to current. The returned error is a
// transition conflict naming the actual state.
func NextUnitStatus(unitID string, current UnitStatus, action UnitAction) (UnitStatus, error) {
	from, to, ok := UnitTransitionGuard(action)
	if !ok {
		return current, Validation("UNKNOWN_ACTION", "unknown unit action "+string(action))
	}
	for _, s := range from {
		if s == current {
			return to, nil
		}
	}
	return current, ConflictError("unit", unitID, string(action), string(current))
}
