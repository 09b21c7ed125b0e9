package negotiation

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"realtyflow/internal/domain"
	"realtyflow/internal/modules/booking"
	"realtyflow/internal/repository"
)

type Service struct {
	repos  *repository.Repositories
	booker Booker
}

func NewService(repos *repository.Repositories, booker Booker) *Service {
	return &Service{repos: repos, booker: booker}
}

func (s *Service) List(ctx context.Context, q NegotiationQuery) ([]domain.Negotiation, error) {
	if q.Status != "" && !q.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	out, err := s.repos.Negotiations.List(ctx, repository.NegotiationFilter{LeadID: q.LeadID, Status: q.Status})
	return out, domain.Persistence(err)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Negotiation, error) {
	n, err := s.repos.Negotiations.GetByID(ctx, id)
	if err != nil {
		return nil, negotiationError(err)
	}
	return n, nil
}

func (s *Service) Create(ctx context.Context, actor domain.Actor, req CreateNegotiationRequest) (*domain.Negotiation, error) {
	if err := validatePlan(req.PaymentPlan); err != nil {
		return nil, err
	}
	if _, err := s.repos.Leads.GetByID(ctx, req.LeadID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, domain.Persistence(err)
	}

	n := &domain.Negotiation{LeadID: req.LeadID, Status: domain.NegotiationPending}
	if actor.UserID != "" {
		id := actor.UserID
		n.CreatedBy = &id
	}
	req.Terms.apply(n)
	if err := s.attachUnit(ctx, s.repos, n, req.BasePrice == nil); err != nil {
		return nil, err
	}
	n.RecomputeDiscount()

	if err := s.repos.Negotiations.Create(ctx, n); err != nil {
		return nil, domain.Persistence(err)
	}
	return n, nil
}

// Update edits an open negotiation. A status of approved or rejected is
// handed to the same review path as Approve and Reject.
func (s *Service) Update(ctx context.Context, actor domain.Actor, id string, req UpdateNegotiationRequest) (*Outcome, error) {
	if req.Status != "" && !req.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if err := validatePlan(req.PaymentPlan); err != nil {
		return nil, err
	}

	var out *Outcome
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		n, err := lockOpen(ctx, tx, id, attemptFor(req.Status))
		if err != nil {
			return err
		}

		next := n.Status
		if req.Status != "" {
			if !n.Status.CanTransition(req.Status) {
				return domain.ConflictError("negotiation", n.ID, string(req.Status), string(n.Status))
			}
			next = req.Status
		}

		unitChanged := req.UnitID != nil && (n.UnitID == nil || *n.UnitID != *req.UnitID)
		req.Terms.apply(n)
		if unitChanged {
			if err := s.attachUnit(ctx, tx, n, req.BasePrice == nil); err != nil {
				return err
			}
		}
		n.RecomputeDiscount()
		if req.AdminNotes != nil {
			n.AdminNotes = *req.AdminNotes
		}

		if next.Terminal() {
			out, err = s.review(ctx, tx, actor, n, next)
			return err
		}

		from := n.Status
		n.Status = next
		if err := save(ctx, tx, n, from, string(next)); err != nil {
			return err
		}
		out = &Outcome{Negotiation: n}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.announce(out)
	return out, nil
}

// Approve books the negotiated unit. Locking the negotiation, marking it
// approved, writing the booking and its schedule, swapping the unit, moving
// the lead and accruing partner commission all commit or roll back together.
func (s *Service) Approve(ctx context.Context, actor domain.Actor, id string, req ReviewRequest) (*Outcome, error) {
	return s.decide(ctx, actor, id, domain.NegotiationApproved, req)
}

func (s *Service) Reject(ctx context.Context, actor domain.Actor, id string, req ReviewRequest) (*Outcome, error) {
	return s.decide(ctx, actor, id, domain.NegotiationRejected, req)
}

func (s *Service) decide(ctx context.Context, actor domain.Actor, id string, to domain.NegotiationStatus, req ReviewRequest) (*Outcome, error) {
	var out *Outcome
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		n, err := lockOpen(ctx, tx, id, attemptFor(to))
		if err != nil {
			return err
		}
		if req.AdminNotes != "" {
			n.AdminNotes = req.AdminNotes
		}
		out, err = s.review(ctx, tx, actor, n, to)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.announce(out)
	return out, nil
}

// review moves n to a terminal status inside tx. On approval the booking is
// written in the same transaction.
func (s *Service) review(ctx context.Context, tx *repository.Repositories, actor domain.Actor, n *domain.Negotiation, to domain.NegotiationStatus) (*Outcome, error) {
	from := n.Status
	reviewer := actor.UserID
	n.Status = to
	n.ApprovedBy = &reviewer

	if to == domain.NegotiationRejected {
		if err := save(ctx, tx, n, from, "reject"); err != nil {
			return nil, err
		}
		return &Outcome{Negotiation: n}, nil
	}

	if n.UnitID == nil || *n.UnitID == "" {
		return nil, ErrUnitRequired
	}
	final, ok := n.AgreedPrice()
	if !ok {
		return nil, ErrNoPrice
	}
	if err := save(ctx, tx, n, from, "approve"); err != nil {
		return nil, err
	}

	token := decimal.Zero
	if n.TokenAmount != nil {
		token = *n.TokenAmount
	}
	negotiationID := n.ID
	seller, err := salesActor(ctx, tx, n, actor)
	if err != nil {
		return nil, err
	}
	res, err := s.booker.CreateInTx(ctx, tx, seller, booking.CreateBookingRequest{
		LeadID:        n.LeadID,
		UnitID:        *n.UnitID,
		TokenAmount:   token,
		TotalAmount:   n.BasePrice,
		FinalAmount:   &final,
		PaymentPlan:   n.PaymentPlan,
		NegotiationID: &negotiationID,
	})
	if err != nil {
		return nil, err
	}
	return &Outcome{Negotiation: n, Booking: res}, nil
}

func (s *Service) announce(out *Outcome) {
	if out != nil && out.Booking != nil {
		s.booker.Announce(out.Booking)
	}
}

// attachUnit points the negotiation at its unit's project and, unless a
// base price was given, takes the unit's list price.
func (s *Service) attachUnit(ctx context.Context, repos *repository.Repositories, n *domain.Negotiation, takePrice bool) error {
	if n.UnitID == nil || *n.UnitID == "" {
		n.UnitID = nil
		return nil
	}
	u, err := repos.Units.GetByID(ctx, *n.UnitID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUnitNotFound
		}
		return domain.Persistence(err)
	}
	projectID := u.ProjectID
	n.ProjectID = &projectID
	if takePrice {
		price := u.TotalPrice
		n.BasePrice = &price
	}
	return nil
}

// lockOpen loads the negotiation locked for the transaction and fails with a
// transition conflict once it is approved or rejected.
func lockOpen(ctx context.Context, tx *repository.Repositories, id, attempted string) (*domain.Negotiation, error) {
	n, err := tx.Negotiations.GetForUpdate(ctx, id)
	if err != nil {
		return nil, negotiationError(err)
	}
	if n.Status.Terminal() {
		return nil, domain.ConflictError("negotiation", n.ID, attempted, string(n.Status))
	}
	return n, nil
}

func save(ctx context.Context, tx *repository.Repositories, n *domain.Negotiation, from domain.NegotiationStatus, attempted string) error {
	ok, err := tx.Negotiations.UpdateIfStatus(ctx, n, from)
	if err != nil {
		return domain.Persistence(err)
	}
	if ok {
		return nil
	}
	current, err := tx.Negotiations.GetByID(ctx, n.ID)
	if err != nil {
		return negotiationError(err)
	}
	return domain.ConflictError("negotiation", n.ID, attempted, string(current.Status))
}

// salesActor books on behalf of the sales executive who opened the
// negotiation, and on behalf of the reviewer for anyone else.
func salesActor(ctx context.Context, tx *repository.Repositories, n *domain.Negotiation, reviewer domain.Actor) (domain.Actor, error) {
	if n.CreatedBy == nil || *n.CreatedBy == "" {
		return reviewer, nil
	}
	u, err := tx.Users.GetByID(ctx, *n.CreatedBy)
	if errors.Is(err, repository.ErrNotFound) {
		return reviewer, nil
	}
	if err != nil {
		return domain.Actor{}, domain.Persistence(err)
	}
	if u.Role != domain.RoleSalesExecutive {
		return reviewer, nil
	}
	return domain.Actor{UserID: u.ID, Role: u.Role}, nil
}

func attemptFor(status domain.NegotiationStatus) string {
	switch status {
	case domain.NegotiationApproved:
		return "approve"
	case domain.NegotiationRejected:
		return "reject"
	}
	return "update"
}

func validatePlan(p domain.PaymentPlan) error {
	if p != "" && !p.Valid() {
		return ErrInvalidPlan.WithDetails(map[string]any{"payment_plan": p})
	}
	return nil
}

func negotiationError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNegotiationNotFound
	}
	return domain.Persistence(err)
}
