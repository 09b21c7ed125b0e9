package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/meilisearch/meilisearch-go"

	"realtyflow/internal/domain"
)

const defaultSearchLimit = 50

// Meili is a LeadIndex backed by a Meilisearch index.
type Meili struct {
	client *meilisearch.Client
	index  string
}

func NewMeili(host, apiKey, index string) *Meili {
	if index == "" {
		index = "leads"
	}
	return &Meili{
		client: meilisearch.NewClient(meilisearch.ClientConfig{Host: host, APIKey: apiKey}),
		index:  index,
	}
}

// leadDocument is what gets indexed for a lead.
type leadDocument struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Phone      string  `json:"phone"`
	Email      string  `json:"email,omitempty"`
	Source     string  `json:"source"`
	Status     string  `json:"status"`
	ProjectID  *string `json:"project_id,omitempty"`
	AssignedTo *string `json:"assigned_to,omitempty"`
	Notes      string  `json:"notes,omitempty"`
}

func documentFor(l *domain.Lead) leadDocument {
	doc := leadDocument{
		ID:         l.ID,
		Name:       l.Name,
		Phone:      l.Phone,
		Source:     string(l.Source),
		Status:     string(l.Status),
		ProjectID:  l.ProjectID,
		AssignedTo: l.AssignedTo,
		Notes:      l.Notes,
	}
	if l.Email != nil {
		doc.Email = *l.Email
	}
	return doc
}

func (m *Meili) Enabled() bool { return true }

// InitIndex creates the lead index and its settings. It is safe to call on
// every start.
func (m *Meili) InitIndex() error {
	_, err := m.client.CreateIndex(&meilisearch.IndexConfig{Uid: m.index, PrimaryKey: "id"})
	if err != nil && !strings.Contains(err.Error(), "index_already_exists") {
		return fmt.Errorf("create index %s: %w", m.index, err)
	}

	idx := m.client.Index(m.index)
	if _, err := idx.UpdateSearchableAttributes(&[]string{"name", "phone", "email", "notes"}); err != nil {
		return fmt.Errorf("searchable attributes: %w", err)
	}
	if _, err := idx.UpdateFilterableAttributes(&[]string{"status", "source", "project_id", "assigned_to"}); err != nil {
		return fmt.Errorf("filterable attributes: %w", err)
	}
	return nil
}

func (m *Meili) IndexLead(ctx context.Context, l *domain.Lead) error {
	_, err := m.client.Index(m.index).AddDocuments([]leadDocument{documentFor(l)}, "id")
	return err
}

// IndexLeads bulk-loads leads, used to rebuild the index.
func (m *Meili) IndexLeads(ctx context.Context, leads []domain.Lead) error {
	if len(leads) == 0 {
		return nil
	}
	docs := make([]leadDocument, 0, len(leads))
	for i := range leads {
		docs = append(docs, documentFor(&leads[i]))
	}
	_, err := m.client.Index(m.index).AddDocuments(docs, "id")
	return err
}

func (m *Meili) DeleteLead(ctx context.Context, id string) error {
	_, err := m.client.Index(m.index).DeleteDocument(id)
	return err
}

func (m *Meili) SearchLeads(ctx context.Context, query string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	res, err := m.client.Index(m.index).Search(query, &meilisearch.SearchRequest{
		Limit:                int64(limit),
		AttributesToRetrieve: []string{"id"},
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		doc, ok := hit.(map[string]interface{})
		if !ok {
			continue
		}
		if id, ok := doc["id"].(string); ok && id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
