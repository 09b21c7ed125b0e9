package booking

import (
	"context"

	"realtyflow/internal/domain"
	"realtyflow/internal/modules/inventory"
	"realtyflow/internal/repository"
)

// UnitLifecycle applies unit transitions inside a caller's transaction.
type UnitLifecycle interface {
	Apply(ctx context.Context, tx *repository.Repositories, unitID string, action domain.UnitAction, opts inventory.ApplyOptions) (*inventory.Change, error)
}
