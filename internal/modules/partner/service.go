package partner

import (
	"context"
	"errors"
	"time"

	"realtyflow/internal/domain"
	"realtyflow/internal/repository"
)

type Service struct {
	repos *repository.Repositories
	now   func() time.Time
}

func NewService(repos *repository.Repositories) *Service {
	return &Service{repos: repos, now: time.Now}
}

func (s *Service) List(ctx context.Context) ([]domain.ChannelPartner, error) {
	out, err := s.repos.Partners.List(ctx)
	return out, domain.Persistence(err)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.ChannelPartner, error) {
	p, err := s.repos.Partners.GetByID(ctx, id)
	if err != nil {
		return nil, partnerError(err)
	}
	return p, nil
}

// Create registers a partner. Partners are active unless the request says
// otherwise.
func (s *Service) Create(ctx context.Context, req PartnerRequest) (*domain.ChannelPartner, error) {
	p := &domain.ChannelPartner{IsActive: true}
	req.apply(p)
	if err := s.repos.Partners.Create(ctx, p); err != nil {
		return nil, domain.Persistence(err)
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, id string, req PartnerRequest) (*domain.ChannelPartner, error) {
	p, err := s.repos.Partners.GetByID(ctx, id)
	if err != nil {
		return nil, partnerError(err)
	}
	req.apply(p)
	if err := s.repos.Partners.Update(ctx, p); err != nil {
		return nil, partnerError(err)
	}
	return p, nil
}

// Attribute credits leadID to the partner. A lead has at most one partner.
func (s *Service) Attribute(ctx context.Context, partnerID, leadID string) (*domain.ChannelPartnerLead, error) {
	if _, err := s.repos.Partners.GetByID(ctx, partnerID); err != nil {
		return nil, partnerError(err)
	}
	if _, err := s.repos.Leads.GetByID(ctx, leadID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, domain.Persistence(err)
	}

	a := &domain.ChannelPartnerLead{ChannelPartnerID: partnerID, LeadID: leadID}
	if err := s.repos.Partners.Attribute(ctx, a); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrLeadAttributed
		}
		return nil, domain.Persistence(err)
	}
	return a, nil
}

func (s *Service) Leads(ctx context.Context, partnerID string) ([]domain.ChannelPartnerLead, error) {
	if _, err := s.repos.Partners.GetByID(ctx, partnerID); err != nil {
		return nil, partnerError(err)
	}
	out, err := s.repos.Partners.ListAttributions(ctx, partnerID)
	return out, domain.Persistence(err)
}

// PayCommission settles the commission accrued on the partner's lead.
func (s *Service) PayCommission(ctx context.Context, partnerID, leadID string) (*domain.ChannelPartnerLead, error) {
	var out *domain.ChannelPartnerLead
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		a, err := tx.Partners.AttributionForLead(ctx, leadID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAttributionNotFound
		}
		if err != nil {
			return domain.Persistence(err)
		}
		if a.ChannelPartnerID != partnerID {
			return ErrAttributionNotFound
		}
		if a.CommissionPaid {
			return domain.ConflictError("commission", a.ID, "pay", "paid")
		}
		if a.CommissionAmount == nil || a.BookingID == nil {
			return ErrCommissionNotAccrued
		}

		at := s.now().UTC()
		a.CommissionPaid = true
		a.PaidAt = &at
		if err := tx.Partners.SaveAttribution(ctx, a); err != nil {
			return domain.Persistence(err)
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func partnerError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPartnerNotFound
	}
	return domain.Persistence(err)
}
