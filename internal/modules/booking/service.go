package booking

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"realtyflow/internal/domain"
	"realtyflow/internal/modules/inventory"
	"realtyflow/internal/modules/schedule"
	"realtyflow/internal/repository"
)

type Service struct {
	repos     *repository.Repositories
	lifecycle UnitLifecycle
	events    inventory.Publisher
	now       func() time.Time
}

func NewService(repos *repository.Repositories, lifecycle UnitLifecycle, events inventory.Publisher) *Service {
	if events == nil {
		events = inventory.NopPublisher()
	}
	return &Service{repos: repos, lifecycle: lifecycle, events: events, now: time.Now}
}

// Result is everything one booking wrote.
type Result struct {
	Booking  *domain.Booking
	Payments []domain.Payment
	Unit     *inventory.Change
}

// Create books the unit for the lead in one transaction and announces the
// unit change once it is committed.
func (s *Service) Create(ctx context.Context, actor domain.Actor, req CreateBookingRequest) (*Result, error) {
	var res *Result
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		res, err = s.CreateInTx(ctx, tx, actor, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.Announce(res)
	return res, nil
}

// Announce publishes the unit transition of a committed booking.
func (s *Service) Announce(res *Result) {
	if s.events != nil && res != nil && res.Unit != nil {
		s.events.Publish(res.Unit.Event())
	}
}

// CreateInTx writes a booking using tx:
//   - the unit is swapped to booked, or the whole call fails with a
//     transition conflict
//   - the booking row is written with the project taken from the unit
//   - the payment schedule for the plan becomes pending payments
//   - the lead moves to booking
//   - an attributed, active channel partner accrues commission
//
// The caller owns the transaction and any rollback.
func (s *Service) CreateInTx(ctx context.Context, tx *repository.Repositories, actor domain.Actor, req CreateBookingRequest) (*Result, error) {
	if req.PaymentPlan != "" && !req.PaymentPlan.Valid() {
		return nil, ErrInvalidPlan.WithDetails(map[string]any{"payment_plan": req.PaymentPlan})
	}

	lead, err := tx.Leads.GetByID(ctx, req.LeadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, domain.Persistence(err)
	}

	change, err := s.lifecycle.Apply(ctx, tx, req.UnitID, domain.UnitActionBook, inventory.ApplyOptions{Actor: actor})
	if err != nil {
		return nil, err
	}
	unit := change.Unit

	total := unit.TotalPrice
	if req.TotalAmount != nil {
		total = *req.TotalAmount
	}
	final := total
	if req.FinalAmount != nil {
		final = *req.FinalAmount
	}
	if !final.IsPositive() || final.GreaterThan(total) || req.TokenAmount.IsNegative() || req.TokenAmount.GreaterThan(final) {
		return nil, ErrInvalidAmount.WithDetails(map[string]any{
			"total_amount": total, "final_amount": final, "token_amount": req.TokenAmount,
		})
	}

	bookedAt := s.now().UTC()
	if req.BookingDate != nil {
		bookedAt = req.BookingDate.UTC()
	}

	b := &domain.Booking{
		LeadID:         lead.ID,
		UnitID:         unit.ID,
		ProjectID:      unit.ProjectID,
		SalesPersonID:  actor.UserID,
		NegotiationID:  req.NegotiationID,
		TokenAmount:    req.TokenAmount,
		TotalAmount:    total,
		DiscountAmount: total.Sub(final),
		FinalAmount:    final,
		PaymentPlan:    req.PaymentPlan,
		BookingDate:    bookedAt,
		AgreementDate:  utcPtr(req.AgreementDate),
		PossessionDate: utcPtr(req.PossessionDate),
	}
	if err := tx.Bookings.Create(ctx, b); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyBooked
		}
		return nil, domain.Persistence(err)
	}

	var payments []domain.Payment
	if b.PaymentPlan != "" {
		items, err := schedule.Generate(schedule.Input{
			TotalAmount:        final,
			PlanType:           b.PaymentPlan,
			DownPaymentPercent: req.DownPaymentPercent,
			InstallmentCount:   req.InstallmentCount,
			StartDate:          bookedAt,
		})
		if err != nil {
			return nil, err
		}
		payments = schedule.Payments(b.ID, items)
		if err := tx.Payments.CreateBatch(ctx, payments); err != nil {
			return nil, domain.Persistence(err)
		}
	}

	if err := tx.Leads.UpdateStatus(ctx, lead.ID, domain.LeadBooking); err != nil {
		return nil, domain.Persistence(err)
	}
	if err := accrueCommission(ctx, tx, b); err != nil {
		return nil, err
	}

	return &Result{Booking: b, Payments: payments, Unit: change}, nil
}

func accrueCommission(ctx context.Context, tx *repository.Repositories, b *domain.Booking) error {
	attr, err := tx.Partners.AttributionForLead(ctx, b.LeadID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return domain.Persistence(err)
	}
	if attr.CommissionPaid {
		return nil
	}

	partner, err := tx.Partners.GetByID(ctx, attr.ChannelPartnerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return domain.Persistence(err)
	}
	if !partner.IsActive {
		return nil
	}

	amount := partner.Commission(b.FinalAmount)
	id := b.ID
	attr.BookingID = &id
	attr.CommissionAmount = &amount
	return domain.Persistence(tx.Partners.SaveAttribution(ctx, attr))
}

func (s *Service) List(ctx context.Context, q BookingQuery) ([]domain.Booking, error) {
	out, err := s.repos.Bookings.List(ctx, repository.BookingFilter{
		LeadID:    q.LeadID,
		ProjectID: q.ProjectID,
		UnitID:    q.UnitID,
	})
	return out, domain.Persistence(err)
}

func (s *Service) Get(ctx context.Context, id string) (*BookingDetails, error) {
	b, err := s.repos.Bookings.GetByID(ctx, id)
	if err != nil {
		return nil, bookingError(err)
	}
	payments, err := s.repos.Payments.List(ctx, b.ID)
	if err != nil {
		return nil, domain.Persistence(err)
	}
	return &BookingDetails{Booking: b, Payments: payments, Outstanding: Outstanding(payments)}, nil
}

// UpdateTerms changes the agreement and possession dates and the plan
// label. Amounts, unit and lead are fixed once booked.
func (s *Service) UpdateTerms(ctx context.Context, id string, req UpdateBookingRequest) (*domain.Booking, error) {
	if req.PaymentPlan != "" && !req.PaymentPlan.Valid() {
		return nil, ErrInvalidPlan.WithDetails(map[string]any{"payment_plan": req.PaymentPlan})
	}

	b, err := s.repos.Bookings.GetByID(ctx, id)
	if err != nil {
		return nil, bookingError(err)
	}
	if req.AgreementDate != nil {
		b.AgreementDate = utcPtr(req.AgreementDate)
	}
	if req.PossessionDate != nil {
		b.PossessionDate = utcPtr(req.PossessionDate)
	}
	if req.PaymentPlan != "" {
		b.PaymentPlan = req.PaymentPlan
	}
	if err := s.repos.Bookings.UpdateTerms(ctx, b); err != nil {
		return nil, domain.Persistence(err)
	}
	return b, nil
}

// ReplaceSchedule swaps the booking's payment rows for an edited schedule
// that must add up to the final amount. Nothing may have been received yet.
func (s *Service) ReplaceSchedule(ctx context.Context, id string, items []schedule.Item) ([]domain.Payment, error) {
	var out []domain.Payment
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		b, err := tx.Bookings.GetByID(ctx, id)
		if err != nil {
			return bookingError(err)
		}
		if err := schedule.Validate(b.FinalAmount, items); err != nil {
			return err
		}

		received, err := tx.Payments.HasReceipts(ctx, b.ID)
		if err != nil {
			return domain.Persistence(err)
		}
		if received {
			return ErrScheduleLocked
		}

		if err := tx.Payments.DeleteByBooking(ctx, b.ID); err != nil {
			return domain.Persistence(err)
		}
		out = schedule.Payments(b.ID, schedule.Recalculate(b.FinalAmount, items))
		return domain.Persistence(tx.Payments.CreateBatch(ctx, out))
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Payment{}
	}
	return out, nil
}

// Outstanding sums what is still owed on a booking.
func Outstanding(payments []domain.Payment) decimal.Decimal {
	sum := decimal.Zero
	for i := range payments {
		sum = sum.Add(payments[i].Outstanding())
	}
	return sum
}

func bookingError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrBookingNotFound
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
