// Package search keeps a full-text index of leads.
package search

import (
	"context"

	"realtyflow/internal/domain"
)

// LeadIndex mirrors leads into a search engine and answers free-text
// queries with lead ids.
type LeadIndex interface {
	Enabled() bool
	IndexLead(ctx context.Context, l *domain.Lead) error
	DeleteLead(ctx context.Context, id string) error
	SearchLeads(ctx context.Context, query string, limit int) ([]string, error)
}

// Noop is used when no search engine is configured. Callers fall back to
// database queries when Enabled is false.
type Noop struct{}

func (Noop) Enabled() bool                                              { return false }
func (Noop) IndexLead(context.Context, *domain.Lead) error              { return nil }
func (Noop) DeleteLead(context.Context, string) error                   { return nil }
func (Noop) SearchLeads(context.Context, string, int) ([]string, error) { return nil, nil }
