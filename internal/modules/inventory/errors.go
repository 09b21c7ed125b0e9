package inventory

import "realtyflow/internal/domain"

var (
	ErrProjectNotFound = domain.NotFound("PROJECT_NOT_FOUND", "Project not found")
	ErrTowerNotFound   = domain.NotFound("TOWER_NOT_FOUND", "Tower not found")
	ErrUnitNotFound    = domain.NotFound("UNIT_NOT_FOUND", "Unit not found")

	ErrInvalidProjectStatus = domain.Validation("INVALID_PROJECT_STATUS", "Unknown project status")
	ErrInvalidPropertyType  = domain.Validation("INVALID_PROPERTY_TYPE", "Unknown property type")
	ErrInvalidUnitStatus    = domain.Validation("INVALID_UNIT_STATUS", "Unknown unit status")
	ErrTowerMismatch        = domain.Validation("TOWER_PROJECT_MISMATCH", "Tower does not belong to the project")
	ErrFloorOutOfRange      = domain.Validation("FLOOR_OUT_OF_RANGE", "Floor is outside the tower")
	ErrUnknownAction        = domain.Validation("UNKNOWN_ACTION", "Unknown unit action")

	ErrDuplicateUnit    = domain.Conflict("UNIT_EXISTS", "Unit number already exists in this tower")
	ErrUnitNotDeletable = domain.Conflict("UNIT_NOT_DELETABLE", "Only available units can be deleted")
	ErrProjectNotEmpty  = domain.Conflict("PROJECT_NOT_EMPTY", "Project still has towers")
)
