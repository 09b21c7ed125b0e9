package payment

import (
	"context"
	"errors"
	"time"

	"realtyflow/internal/domain"
	"realtyflow/internal/modules/schedule"
	"realtyflow/internal/repository"
)

type Service struct {
	payments paymentRepo
	inTx     txRunner
	loggerf  func(format string, args ...interface{})
	now      func() time.Time
}

func NewService(repos *repository.Repositories, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		payments: repos.Payments,
		inTx: func(ctx context.Context, fn func(payments paymentRepo, bookings bookingReader) error) error {
			return repos.Transaction(ctx, func(tx *repository.Repositories) error {
				return fn(tx.Payments, tx.Bookings)
			})
		},
		loggerf: loggerf,
		now:     time.Now,
	}
}

func (s *Service) List(ctx context.Context, bookingID string) ([]domain.Payment, error) {
	out, err := s.payments.List(ctx, bookingID)
	return out, domain.Persistence(err)
}

func (s *Service) Pending(ctx context.Context) ([]domain.Payment, error) {
	out, err := s.payments.Pending(ctx)
	return out, domain.Persistence(err)
}

// Create adds an installment to a booking. The booking's installments,
// the new one included, must add up to its final amount.
func (s *Service) Create(ctx context.Context, req CreatePaymentRequest) (*domain.Payment, error) {
	p := &domain.Payment{
		BookingID:     req.BookingID,
		Milestone:     req.Milestone,
		Sequence:      req.Sequence,
		Amount:        req.Amount,
		DueDate:       req.DueDate.UTC(),
		Status:        domain.PaymentPending,
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
		Notes:         req.Notes,
	}
	err := s.inTx(ctx, func(payments paymentRepo, bookings bookingReader) error {
		if err := reconcile(ctx, payments, bookings, p); err != nil {
			return err
		}
		if err := payments.Create(ctx, p); err != nil {
			return domain.Persistence(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpdatePaymentRequest) (*domain.Payment, error) {
	if req.Status != "" && !req.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	var out *domain.Payment
	err := s.inTx(ctx, func(payments paymentRepo, bookings bookingReader) error {
		p, err := payments.GetForUpdate(ctx, id)
		if err != nil {
			return paymentError(err)
		}

		if req.Milestone != nil {
			p.Milestone = *req.Milestone
		}
		if req.Amount != nil {
			if req.Amount.LessThan(p.PaidAmount) {
				return ErrAmountBelowPaid.WithDetails(map[string]any{"paid_amount": p.PaidAmount})
			}
			p.Amount = *req.Amount
		}
		if req.DueDate != nil {
			p.DueDate = req.DueDate.UTC()
		}
		if req.Amount != nil {
			if err := reconcile(ctx, payments, bookings, p); err != nil {
				return err
			}
		}
		if req.PaymentMethod != nil {
			p.PaymentMethod = *req.PaymentMethod
		}
		if req.TransactionID != nil {
			p.TransactionID = *req.TransactionID
		}
		if req.Notes != nil {
			p.Notes = *req.Notes
		}
		if req.Status != "" {
			p.Status = req.Status
		}
		if p.Status == domain.PaymentPaid && p.PaidDate == nil {
			at := s.now().UTC()
			p.PaidDate = &at
		}

		if err := payments.Save(ctx, p); err != nil {
			return paymentError(err)
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Record books money received against a payment. A payment that is already
// paid accepts nothing more.
func (s *Service) Record(ctx context.Context, id string, req RecordRequest) (*domain.Payment, error) {
	var out *domain.Payment
	err := s.inTx(ctx, func(payments paymentRepo, _ bookingReader) error {
		p, err := payments.GetForUpdate(ctx, id)
		if err != nil {
			return paymentError(err)
		}
		if p.Status == domain.PaymentPaid {
			return domain.ConflictError("payment", p.ID, "record", string(p.Status))
		}
		if req.Amount.GreaterThan(p.Outstanding()) {
			return ErrExceedsOutstanding.WithDetails(map[string]any{"outstanding": p.Outstanding()})
		}

		at := s.now().UTC()
		if req.PaidAt != nil {
			at = req.PaidAt.UTC()
		}
		p.ApplyReceipt(req.Amount, at)
		if req.PaymentMethod != "" {
			p.PaymentMethod = req.PaymentMethod
		}
		if req.TransactionID != "" {
			p.TransactionID = req.TransactionID
		}

		if err := payments.Save(ctx, p); err != nil {
			return paymentError(err)
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.loggerf("level=info msg=payment recorded payment_id=%s booking_id=%s amount=%s status=%s",
		out.ID, out.BookingID, req.Amount.String(), out.Status)
	return out, nil
}

// MarkOverdue flags unpaid installments whose due date has passed.
func (s *Service) MarkOverdue(ctx context.Context) (int64, error) {
	n, err := s.payments.MarkOverdue(ctx, s.now().UTC())
	if err != nil {
		return 0, domain.Persistence(err)
	}
	if n > 0 {
		s.loggerf("level=info msg=payments marked overdue count=%d", n)
	}
	return n, nil
}

// reconcile checks that the booking's installments, with changed put in
// place of its stored row, still add up to the booking's final amount.
func reconcile(ctx context.Context, payments paymentRepo, bookings bookingReader, changed *domain.Payment) error {
	b, err := bookings.GetByID(ctx, changed.BookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBookingNotFound
		}
		return domain.Persistence(err)
	}
	rows, err := payments.List(ctx, b.ID)
	if err != nil {
		return domain.Persistence(err)
	}

	items := make([]schedule.Item, 0, len(rows)+1)
	for _, row := range rows {
		if row.ID == changed.ID {
			continue
		}
		items = append(items, scheduleItem(row))
	}
	items = append(items, scheduleItem(*changed))
	return schedule.Validate(b.FinalAmount, items)
}

func scheduleItem(p domain.Payment) schedule.Item {
	return schedule.Item{Milestone: p.Milestone, Amount: p.Amount, DueDate: p.DueDate, Editable: true}
}

func paymentError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPaymentNotFound
	}
	return domain.Persistence(err)
}
