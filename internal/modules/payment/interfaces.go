package payment

import (
	"context"
	"time"

	"realtyflow/internal/domain"
)

type bookingReader interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
}

type paymentRepo interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	GetForUpdate(ctx context.Context, id string) (*domain.Payment, error)
	List(ctx context.Context, bookingID string) ([]domain.Payment, error)
	Pending(ctx context.Context) ([]domain.Payment, error)
	Save(ctx context.Context, p *domain.Payment) error
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
}

// txRunner runs fn against repositories bound to one transaction.
type txRunner func(ctx context.Context, fn func(payments paymentRepo, bookings bookingReader) error) error
