package domain

import "time"

const (
	EventUnitCreated   = "unit.created"
	EventUnitUpdated   = "unit.updated"
	EventUnitDeleted   = "unit.deleted"
	EventUnitBlocked   = "unit.blocked"
	EventUnitUnblocked = "unit.unblocked"
	EventUnitReleased  = "unit.released"
	EventUnitBooked    = "unit.booked"
	EventUnitSold      = "unit.sold"
)

var actionEvents = map[UnitAction]string{
	UnitActionBlock:   EventUnitBlocked,
	UnitActionUnblock: EventUnitUnblocked,
	UnitActionRelease: EventUnitReleased,
	UnitActionBook:    EventUnitBooked,
	UnitActionSell:    EventUnitSold,
}

// UnitEvent is what the live inventory feed broadcasts.
type UnitEvent struct {
	Type      string     `json:"type"`
	UnitID    string     `json:"unit_id"`
	ProjectID string     `json:"project_id"`
	From      UnitStatus `json:"from,omitempty"`
	To        UnitStatus `json:"to,omitempty"`
	At        time.Time  `json:"at"`
}

// EventForAction names the event a successful action emits.
func EventForAction(action UnitAction) string {
	return actionEvents[action]
}
