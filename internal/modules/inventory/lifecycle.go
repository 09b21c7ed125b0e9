package inventory

import (
	"context"
	"errors"
	"time"

	"realtyflow/internal/domain"
	"realtyflow/internal/repository"
)

// Lifecycle moves units through available -> blocked -> booked -> sold.
// Every move is a single conditional update on the unit row; the guard is
// never checked apart from the write.
type Lifecycle struct {
	blockTTL time.Duration
	now      func() time.Time
}

func NewLifecycle(blockTTL time.Duration) *Lifecycle {
	return &Lifecycle{blockTTL: blockTTL, now: time.Now}
}

type ApplyOptions struct {
	Actor domain.Actor
	// overrides the configured hold for a block; <= 0 means no expiry
	BlockTTL *time.Duration
}

// Change describes a transition that was applied.
type Change struct {
	Unit    *domain.Unit
	Project *domain.Project
	Action  domain.UnitAction
	From    domain.UnitStatus
	To      domain.UnitStatus
	At      time.Time
}

func (c *Change) Event() domain.UnitEvent {
	return domain.UnitEvent{
		Type:      domain.EventForAction(c.Action),
		UnitID:    c.Unit.ID,
		ProjectID: c.Unit.ProjectID,
		From:      c.From,
		To:        c.To,
		At:        c.At,
	}
}

// Apply performs action on the unit using tx and recounts the project in the
// same transaction. A failed guard returns a transition conflict naming the
// state the unit is actually in.
func (l *Lifecycle) Apply(ctx context.Context, tx *repository.Repositories, unitID string, action domain.UnitAction, opts ApplyOptions) (*Change, error) {
	from, to, ok := domain.UnitTransitionGuard(action)
	if !ok {
		return nil, ErrUnknownAction.WithDetails(map[string]any{"action": action})
	}

	before, err := tx.Units.GetByID(ctx, unitID)
	if err != nil {
		return nil, unitError(err)
	}

	now := l.now().UTC()
	fields := map[string]any{"status": to}
	if action == domain.UnitActionBlock {
		fields["blocked_at"] = now
		fields["block_expiry_at"] = nil
		fields["blocked_by"] = nil
		ttl := l.blockTTL
		if opts.BlockTTL != nil {
			ttl = *opts.BlockTTL
		}
		if ttl > 0 {
			fields["block_expiry_at"] = now.Add(ttl)
		}
		if opts.Actor.UserID != "" {
			fields["blocked_by"] = opts.Actor.UserID
		}
	} else {
		fields["blocked_at"] = nil
		fields["block_expiry_at"] = nil
		fields["blocked_by"] = nil
	}

	swapped, err := tx.Units.UpdateStatusIf(ctx, unitID, from, fields)
	if err != nil {
		return nil, domain.Persistence(err)
	}
	if !swapped {
		current, err := tx.Units.GetByID(ctx, unitID)
		if err != nil {
			return nil, unitError(err)
		}
		return nil, domain.ConflictError("unit", unitID, string(action), string(current.Status))
	}

	after, err := tx.Units.GetByID(ctx, unitID)
	if err != nil {
		return nil, unitError(err)
	}
	project, err := tx.Projects.RecountUnits(ctx, after.ProjectID)
	if err != nil {
		return nil, domain.Persistence(err)
	}

	return &Change{
		Unit:    after,
		Project: project,
		Action:  action,
		From:    before.Status,
		To:      to,
		At:      now,
	}, nil
}

func unitError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUnitNotFound
	}
	return domain.Persistence(err)
}
