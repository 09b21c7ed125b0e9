package dashboard

import (
	"context"

	"github.com/shopspring/decimal"

	"realtyflow/internal/domain"
	"realtyflow/internal/repository"
)

type MetricsRepository interface {
	CountLeads(ctx context.Context) (int64, error)
	CountBookings(ctx context.Context) (int64, error)
	Revenue(ctx context.Context) (decimal.Decimal, error)
	OutstandingPayments(ctx context.Context) (decimal.Decimal, error)
	CountPaymentsByStatus(ctx context.Context, status domain.PaymentStatus) (int64, error)
	LeadsByStatus(ctx context.Context) ([]repository.KeyCount, error)
	LeadsBySource(ctx context.Context) ([]repository.KeyCount, error)
	UnitsByStatus(ctx context.Context) ([]repository.KeyCount, error)
}
