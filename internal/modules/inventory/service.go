package inventory

import (
	"context"
	"errors"
	"time"

	"realtyflow/internal/domain"
	"realtyflow/internal/repository"
)

const releaseBatch = 200

type Service struct {
	repos     *repository.Repositories
	lifecycle *Lifecycle
	events    Publisher
	now       func() time.Time
}

func NewService(repos *repository.Repositories, lifecycle *Lifecycle, events Publisher) *Service {
	if events == nil {
		events = nopPublisher{}
	}
	return &Service{repos: repos, lifecycle: lifecycle, events: events, now: time.Now}
}

// ---- projects ----

func (s *Service) ListProjects(ctx context.Context) ([]domain.Project, error) {
	out, err := s.repos.Projects.List(ctx)
	return out, domain.Persistence(err)
}

func (s *Service) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	p, err := s.repos.Projects.GetByID(ctx, id)
	if err != nil {
		return nil, projectError(err)
	}
	return p, nil
}

func (s *Service) CreateProject(ctx context.Context, actor domain.Actor, req ProjectRequest) (*domain.Project, error) {
	status := req.Status
	if status == "" {
		status = domain.ProjectPreLaunch
	}
	if !status.Valid() {
		return nil, ErrInvalidProjectStatus
	}

	p := &domain.Project{
		Name:           req.Name,
		Location:       req.Location,
		Description:    req.Description,
		TotalUnits:     req.TotalUnits,
		AvailableUnits: req.TotalUnits,
		BasePrice:      req.BasePrice,
		Status:         status,
		ImageURL:       req.ImageURL,
		LaunchDate:     utcPtr(req.LaunchDate),
		CompletionDate: utcPtr(req.CompletionDate),
	}
	if actor.UserID != "" {
		id := actor.UserID
		p.DeveloperID = &id
	}
	if err := s.repos.Projects.Create(ctx, p); err != nil {
		return nil, domain.Persistence(err)
	}
	return p, nil
}

func (s *Service) UpdateProject(ctx context.Context, id string, req ProjectRequest) (*domain.Project, error) {
	var out *domain.Project
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		p, err := tx.Projects.GetByID(ctx, id)
		if err != nil {
			return projectError(err)
		}
		if req.Status != "" {
			if !req.Status.Valid() {
				return ErrInvalidProjectStatus
			}
			p.Status = req.Status
		}
		p.Name = req.Name
		p.Location = req.Location
		p.Description = req.Description
		p.TotalUnits = req.TotalUnits
		p.BasePrice = req.BasePrice
		p.ImageURL = req.ImageURL
		p.LaunchDate = utcPtr(req.LaunchDate)
		p.CompletionDate = utcPtr(req.CompletionDate)

		if err := tx.Projects.Update(ctx, p); err != nil {
			return projectError(err)
		}
		// counters and sold_out follow the unit rows, whatever was sent
		out, err = tx.Projects.RecountUnits(ctx, id)
		return domain.Persistence(err)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) DeleteProject(ctx context.Context, id string) error {
	return s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Projects.GetByID(ctx, id); err != nil {
			return projectError(err)
		}
		towers, err := tx.Towers.CountByProject(ctx, id)
		if err != nil {
			return domain.Persistence(err)
		}
		if towers > 0 {
			return ErrProjectNotEmpty.WithDetails(map[string]any{"towers": towers})
		}
		return projectError(tx.Projects.Delete(ctx, id))
	})
}

// ---- towers ----

func (s *Service) ListTowers(ctx context.Context, projectID string) ([]domain.Tower, error) {
	if _, err := s.repos.Projects.GetByID(ctx, projectID); err != nil {
		return nil, projectError(err)
	}
	out, err := s.repos.Towers.ListByProject(ctx, projectID)
	return out, domain.Persistence(err)
}

func (s *Service) CreateTower(ctx context.Context, projectID string, req TowerRequest) (*domain.Tower, error) {
	if _, err := s.repos.Projects.GetByID(ctx, projectID); err != nil {
		return nil, projectError(err)
	}
	t := &domain.Tower{
		ProjectID:     projectID,
		Name:          req.Name,
		Floors:        req.Floors,
		UnitsPerFloor: req.UnitsPerFloor,
	}
	if err := s.repos.Towers.Create(ctx, t); err != nil {
		return nil, domain.Persistence(err)
	}
	return t, nil
}

func (s *Service) Floors(ctx context.Context, towerID string) ([]int, error) {
	if _, err := s.repos.Towers.GetByID(ctx, towerID); err != nil {
		return nil, towerError(err)
	}
	floors, err := s.repos.Units.Floors(ctx, towerID)
	if err != nil {
		return nil, domain.Persistence(err)
	}
	if floors == nil {
		floors = []int{}
	}
	return floors, nil
}

// ---- units ----

func (s *Service) ListUnits(ctx context.Context, q UnitQuery) ([]domain.Unit, error) {
	f := repository.UnitFilter{
		ProjectID:    q.ProjectID,
		TowerID:      q.TowerID,
		Status:       domain.UnitStatus(q.Status),
		PropertyType: domain.PropertyType(q.PropertyType),
		Floor:        q.Floor,
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, ErrInvalidUnitStatus
	}
	if f.PropertyType != "" && !f.PropertyType.Valid() {
		return nil, ErrInvalidPropertyType
	}
	out, err := s.repos.Units.List(ctx, f)
	return out, domain.Persistence(err)
}

func (s *Service) AvailableUnits(ctx context.Context, projectID string) ([]domain.Unit, error) {
	if _, err := s.repos.Projects.GetByID(ctx, projectID); err != nil {
		return nil, projectError(err)
	}
	out, err := s.repos.Units.List(ctx, repository.UnitFilter{ProjectID: projectID, Status: domain.UnitAvailable})
	return out, domain.Persistence(err)
}

func (s *Service) GetUnit(ctx context.Context, id string) (*domain.Unit, error) {
	u, err := s.repos.Units.GetByID(ctx, id)
	if err != nil {
		return nil, unitError(err)
	}
	return u, nil
}

// CreateUnit adds an available unit. total_price is derived from the four
// price components.
func (s *Service) CreateUnit(ctx context.Context, req UnitRequest) (*domain.Unit, error) {
	if err := req.validatePropertyType(); err != nil {
		return nil, err
	}

	var out *domain.Unit
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		tower, err := tx.Towers.GetByID(ctx, req.TowerID)
		if err != nil {
			return towerError(err)
		}
		if tower.ProjectID != req.ProjectID {
			return ErrTowerMismatch
		}
		if req.Floor < 1 || req.Floor > tower.Floors {
			return ErrFloorOutOfRange.WithDetails(map[string]any{"floor": req.Floor, "floors": tower.Floors})
		}

		u := &domain.Unit{
			TowerID:   tower.ID,
			ProjectID: tower.ProjectID,
			Status:    domain.UnitAvailable,
		}
		req.apply(u)
		if err := tx.Units.Create(ctx, u); err != nil {
			return duplicateUnit(err)
		}
		if _, err := tx.Projects.RecountUnits(ctx, u.ProjectID); err != nil {
			return domain.Persistence(err)
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(domain.EventUnitCreated, out, "", out.Status)
	return out, nil
}

// UpdateUnit rewrites the descriptive and price fields. The unit stays in
// its tower and its status is untouched.
func (s *Service) UpdateUnit(ctx context.Context, id string, req UnitDetails) (*domain.Unit, error) {
	if err := req.validatePropertyType(); err != nil {
		return nil, err
	}

	var out *domain.Unit
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		u, err := tx.Units.GetByID(ctx, id)
		if err != nil {
			return unitError(err)
		}
		tower, err := tx.Towers.GetByID(ctx, u.TowerID)
		if err != nil {
			return towerError(err)
		}
		if req.Floor < 1 || req.Floor > tower.Floors {
			return ErrFloorOutOfRange.WithDetails(map[string]any{"floor": req.Floor, "floors": tower.Floors})
		}

		req.apply(u)
		if err := tx.Units.UpdateDetails(ctx, u); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrUnitNotFound
			}
			return duplicateUnit(err)
		}
		out, err = tx.Units.GetByID(ctx, id)
		return unitError(err)
	})
	if err != nil {
		return nil, err
	}

	s.publish(domain.EventUnitUpdated, out, out.Status, out.Status)
	return out, nil
}

// DeleteUnit removes an available unit. Units that are held, booked or
// sold are kept.
func (s *Service) DeleteUnit(ctx context.Context, id string) error {
	var gone *domain.Unit
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		u, err := tx.Units.GetByID(ctx, id)
		if err != nil {
			return unitError(err)
		}
		deleted, err := tx.Units.DeleteIfStatus(ctx, id, domain.UnitAvailable)
		if err != nil {
			return domain.Persistence(err)
		}
		if !deleted {
			current, err := tx.Units.GetByID(ctx, id)
			if err != nil {
				return unitError(err)
			}
			return ErrUnitNotDeletable.WithDetails(domain.TransitionConflict{
				Entity: "unit", ID: id, Attempted: "delete", CurrentState: string(current.Status),
			})
		}
		if _, err := tx.Projects.RecountUnits(ctx, u.ProjectID); err != nil {
			return domain.Persistence(err)
		}
		gone = u
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(domain.EventUnitDeleted, gone, gone.Status, "")
	return nil
}

// Block holds an available unit for the actor. ttl overrides the
// configured hold when set.
func (s *Service) Block(ctx context.Context, actor domain.Actor, id string, ttl *time.Duration) (*domain.Unit, error) {
	return s.transition(ctx, actor, id, domain.UnitActionBlock, ttl)
}

func (s *Service) Unblock(ctx context.Context, actor domain.Actor, id string) (*domain.Unit, error) {
	return s.transition(ctx, actor, id, domain.UnitActionUnblock, nil)
}

// Sell closes the deal on a booked unit and moves its buyer to sale.
func (s *Service) Sell(ctx context.Context, actor domain.Actor, id string) (*domain.Unit, error) {
	return s.transition(ctx, actor, id, domain.UnitActionSell, nil)
}

func (s *Service) transition(ctx context.Context, actor domain.Actor, id string, action domain.UnitAction, ttl *time.Duration) (*domain.Unit, error) {
	var change *Change
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		change, err = s.lifecycle.Apply(ctx, tx, id, action, ApplyOptions{Actor: actor, BlockTTL: ttl})
		if err != nil {
			return err
		}
		if action == domain.UnitActionSell {
			return markLeadSold(ctx, tx, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(change.Event())
	return change.Unit, nil
}

func markLeadSold(ctx context.Context, tx *repository.Repositories, unitID string) error {
	b, err := tx.Bookings.LatestForUnit(ctx, unitID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return domain.Persistence(err)
	}
	err = tx.Leads.UpdateStatus(ctx, b.LeadID, domain.LeadSale)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	return domain.Persistence(err)
}

// ReleaseExpired returns every unit whose block has run out to stock and
// reports how many were released.
func (s *Service) ReleaseExpired(ctx context.Context) (int, error) {
	released := 0
	for {
		now := s.now().UTC()
		units, err := s.repos.Units.ExpiredBlocks(ctx, now, releaseBatch)
		if err != nil {
			return released, domain.Persistence(err)
		}

		for i := range units {
			u := &units[i]
			var ok bool
			err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
				var err error
				ok, err = tx.Units.ReleaseIfExpired(ctx, u.ID, now)
				if err != nil || !ok {
					return err
				}
				_, err = tx.Projects.RecountUnits(ctx, u.ProjectID)
				return err
			})
			if err != nil {
				return released, domain.Persistence(err)
			}
			if !ok {
				continue
			}
			released++
			s.events.Publish(domain.UnitEvent{
				Type:      domain.EventUnitReleased,
				UnitID:    u.ID,
				ProjectID: u.ProjectID,
				From:      domain.UnitBlocked,
				To:        domain.UnitAvailable,
				At:        now,
			})
		}

		if len(units) < releaseBatch {
			return released, nil
		}
	}
}

func (s *Service) publish(kind string, u *domain.Unit, from, to domain.UnitStatus) {
	s.events.Publish(domain.UnitEvent{
		Type:      kind,
		UnitID:    u.ID,
		ProjectID: u.ProjectID,
		From:      from,
		To:        to,
		At:        s.now().UTC(),
	})
}

func projectError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrProjectNotFound
	}
	return domain.Persistence(err)
}

func towerError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTowerNotFound
	}
	return domain.Persistence(err)
}

func duplicateUnit(err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return ErrDuplicateUnit
	}
	return domain.Persistence(err)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
