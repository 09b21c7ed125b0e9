package dashboard

import (
	"github.com/shopspring/decimal"

	"realtyflow/internal/repository"
)

type MetricsResponse struct {
	TotalLeads            int64                 `json:"total_leads"`
	Conversions           int64                 `json:"conversions"`
	Revenue               decimal.Decimal       `json:"revenue"`
	UnitsSold             int64                 `json:"units_sold"`
	LeadsByStatus         []repository.KeyCount `json:"leads_by_status"`
	LeadsBySource         []repository.KeyCount `json:"leads_by_source"`
	UnitsByStatus         []repository.KeyCount `json:"units_by_status"`
	PendingPaymentsAmount decimal.Decimal       `json:"pending_payments_amount"`
	OverduePaymentsCount  int64                 `json:"overdue_payments_count"`
}
