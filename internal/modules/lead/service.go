package lead

import (
	"context"
	"errors"
	"strings"
	"time"

	"realtyflow/internal/domain"
	"realtyflow/internal/repository"
)

const searchLimit = 50

type Service struct {
	repos   *repository.Repositories
	index   Index
	loggerf func(format string, args ...interface{})
	now     func() time.Time
}

func NewService(repos *repository.Repositories, index Index, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{repos: repos, index: index, loggerf: loggerf, now: time.Now}
}

func (s *Service) List(ctx context.Context, actor domain.Actor, q LeadQuery) ([]domain.Lead, error) {
	if q.Status != "" && !q.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if q.Source != "" && !q.Source.Valid() {
		return nil, ErrInvalidSource
	}
	out, err := s.repos.Leads.List(ctx, repository.LeadFilter{
		Actor:     actor,
		Status:    q.Status,
		Source:    q.Source,
		ProjectID: q.ProjectID,
	})
	return out, domain.Persistence(err)
}

// Search answers a free-text query from the search index when one is
// configured and from the database otherwise. Either way only leads the
// actor may see are returned.
func (s *Service) Search(ctx context.Context, actor domain.Actor, q SearchQuery) ([]domain.Lead, error) {
	query := strings.TrimSpace(q.Q)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	limit := q.Limit
	if limit <= 0 || limit > searchLimit {
		limit = searchLimit
	}

	if s.index != nil && s.index.Enabled() {
		ids, err := s.index.SearchLeads(ctx, query, limit)
		if err == nil {
			leads, err := s.repos.Leads.List(ctx, repository.LeadFilter{Actor: actor, IDs: ids})
			if err != nil {
				return nil, domain.Persistence(err)
			}
			return inOrder(ids, leads), nil
		}
		s.loggerf("level=warn msg=\"lead search index unavailable, using database\" err=%v", err)
	}

	out, err := s.repos.Leads.List(ctx, repository.LeadFilter{Actor: actor, Query: query, Limit: limit})
	return out, domain.Persistence(err)
}

// inOrder sorts leads by their rank in ids.
func inOrder(ids []string, leads []domain.Lead) []domain.Lead {
	byID := make(map[string]domain.Lead, len(leads))
	for _, l := range leads {
		byID[l.ID] = l
	}
	out := make([]domain.Lead, 0, len(leads))
	for _, id := range ids {
		if l, ok := byID[id]; ok {
			out = append(out, l)
			delete(byID, id)
		}
	}
	return out
}

func (s *Service) Get(ctx context.Context, actor domain.Actor, id string) (*domain.Lead, error) {
	if err := s.visible(ctx, actor, id); err != nil {
		return nil, err
	}
	l, err := s.repos.Leads.GetByID(ctx, id)
	if err != nil {
		return nil, leadError(err)
	}
	return l, nil
}

func (s *Service) Create(ctx context.Context, actor domain.Actor, req CreateLeadRequest) (*domain.Lead, error) {
	if !req.Source.Valid() {
		return nil, ErrInvalidSource
	}
	status := req.Status
	if status == "" {
		status = domain.LeadNew
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	l := &domain.Lead{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Source:      req.Source,
		Status:      status,
		ProjectID:   req.ProjectID,
		AssignedTo:  req.AssignedTo,
		Budget:      req.Budget,
		Preferences: req.Preferences,
		Notes:       req.Notes,
		IsActive:    true,
	}
	if l.AssignedTo == nil && actor.UserID != "" {
		me := actor.UserID
		l.AssignedTo = &me
	}
	if req.NextFollowUpAt != nil {
		at := req.NextFollowUpAt.UTC()
		l.NextFollowUpAt = &at
	}

	if err := s.repos.Leads.Create(ctx, l); err != nil {
		return nil, domain.Persistence(err)
	}
	s.sync(ctx, l)
	return l, nil
}

func (s *Service) Update(ctx context.Context, actor domain.Actor, id string, req UpdateLeadRequest) (*domain.Lead, error) {
	if req.Source != "" && !req.Source.Valid() {
		return nil, ErrInvalidSource
	}
	if req.Status != "" && !req.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	l, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	req.apply(l)
	if err := s.repos.Leads.Update(ctx, l); err != nil {
		return nil, leadError(err)
	}
	s.sync(ctx, l)
	return l, nil
}

func (s *Service) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if err := s.visible(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repos.Leads.Delete(ctx, id); err != nil {
		return leadError(err)
	}
	if s.index != nil && s.index.Enabled() {
		if err := s.index.DeleteLead(ctx, id); err != nil {
			s.loggerf("level=warn msg=\"lead index delete failed\" lead_id=%s err=%v", id, err)
		}
	}
	return nil
}

func (s *Service) Activities(ctx context.Context, actor domain.Actor, leadID string) ([]domain.LeadActivity, error) {
	if err := s.visible(ctx, actor, leadID); err != nil {
		return nil, err
	}
	out, err := s.repos.Activities.ListByLead(ctx, leadID)
	return out, domain.Persistence(err)
}

// AddActivity logs contact with the lead and stamps last_contacted_at, plus
// next_follow_up_at when one is given.
func (s *Service) AddActivity(ctx context.Context, actor domain.Actor, leadID string, req ActivityRequest) (*domain.LeadActivity, error) {
	if !req.Type.Valid() {
		return nil, ErrInvalidActivityType
	}
	if err := s.visible(ctx, actor, leadID); err != nil {
		return nil, err
	}

	a := &domain.LeadActivity{
		LeadID:      leadID,
		UserID:      actor.UserID,
		Type:        req.Type,
		Description: req.Description,
		Outcome:     req.Outcome,
		NextAction:  req.NextAction,
	}
	var next *time.Time
	if req.NextFollowUpAt != nil {
		at := req.NextFollowUpAt.UTC()
		next = &at
	}

	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.Activities.Create(ctx, a); err != nil {
			return domain.Persistence(err)
		}
		return leadError(tx.Leads.Touch(ctx, leadID, s.now().UTC(), next))
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// visible hides leads outside the actor's scope behind a not found.
func (s *Service) visible(ctx context.Context, actor domain.Actor, id string) error {
	ok, err := s.repos.Leads.Visible(ctx, actor, id)
	if err != nil {
		return domain.Persistence(err)
	}
	if !ok {
		return ErrLeadNotFound
	}
	return nil
}

func (s *Service) sync(ctx context.Context, l *domain.Lead) {
	if s.index == nil || !s.index.Enabled() {
		return
	}
	if err := s.index.IndexLead(ctx, l); err != nil {
		s.loggerf("level=warn msg=\"lead index sync failed\" lead_id=%s err=%v", l.ID, err)
	}
}

func leadError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return ErrLeadNotFound
	}
	return domain.Persistence(err)
}
