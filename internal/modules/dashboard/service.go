package dashboard

import (
	"context"

	"realtyflow/internal/domain"
)

type Service struct {
	metrics MetricsRepository
}

func NewService(metrics MetricsRepository) *Service {
	return &Service{metrics: metrics}
}

// Metrics rolls up the sales funnel, inventory and collections.
// Units count as sold once they are booked.
func (s *Service) Metrics(ctx context.Context) (*MetricsResponse, error) {
	var (
		out MetricsResponse
		err error
	)

	if out.TotalLeads, err = s.metrics.CountLeads(ctx); err != nil {
		return nil, domain.Persistence(err)
	}
	if out.Conversions, err = s.metrics.CountBookings(ctx); err != nil {
		return nil, domain.Persistence(err)
	}
	if out.Revenue, err = s.metrics.Revenue(ctx); err != nil {
		return nil, domain.Persistence(err)
	}
	if out.LeadsByStatus, err = s.metrics.LeadsByStatus(ctx); err != nil {
		return nil, domain.Persistence(err)
	}
	if out.LeadsBySource, err = s.metrics.LeadsBySource(ctx); err != nil {
		return nil, domain.Persistence(err)
	}
	if out.UnitsByStatus, err = s.metrics.UnitsByStatus(ctx); err != nil {
		return nil, domain.Persistence(err)
	}
	if out.PendingPaymentsAmount, err = s.metrics.OutstandingPayments(ctx); err != nil {
		return nil, domain.Persistence(err)
	}
	if out.OverduePaymentsCount, err = s.metrics.CountPaymentsByStatus(ctx, domain.PaymentOverdue); err != nil {
		return nil, domain.Persistence(err)
	}

	for _, kc := range out.UnitsByStatus {
		if kc.Key == string(domain.UnitBooked) || kc.Key == string(domain.UnitSold) {
			out.UnitsSold += kc.Count
		}
	}
	return &out, nil
}
