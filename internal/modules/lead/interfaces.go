package lead

import (
	"context"

	"realtyflow/internal/domain"
)

// Index is the part of the search engine the lead service keeps in sync.
type Index interface {
	Enabled() bool
	IndexLead(ctx context.Context, l *domain.Lead) error
	DeleteLead(ctx context.Context, id string) error
	SearchLeads(ctx context.Context, query string, limit int) ([]string, error)
}
