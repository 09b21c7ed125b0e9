package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realtyflow/internal/domain"
)

type fakeMeili struct {
	mu       sync.Mutex
	requests []string
	bodies   map[string]string
}

func (f *fakeMeili) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	f.bodies[r.Method+" "+r.URL.Path] = string(body)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/indexes/leads/search":
		_ = json.NewEncoder(w).Encode(map[string]any{
			"hits":               []map[string]any{{"id": "lead-2"}, {"id": "lead-9"}, {"name": "no id"}},
			"estimatedTotalHits": 2,
			"processingTimeMs":   1,
			"query":              "asha",
		})
	default:
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"taskUid":1,"indexUid":"leads","status":"enqueued","type":"documentAdditionOrUpdate","enqueuedAt":"2026-10-01T00:00:00Z"}`))
	}
}

func newFake(t *testing.T) (*fakeMeili, *Meili) {
	t.Helper()
	fake := &fakeMeili{bodies: map[string]string{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	return fake, NewMeili(srv.URL, "test-key", "")
}

func TestMeili_SearchReturnsIDs(t *testing.T) {
	fake, idx := newFake(t)

	ids, err := idx.SearchLeads(context.Background(), "asha", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"lead-2", "lead-9"}, ids)

	var sent map[string]any
	require.NoError(t, json.Unmarshal([]byte(fake.bodies["POST /indexes/leads/search"]), &sent))
	assert.Equal(t, "asha", sent["q"])
	assert.EqualValues(t, 50, sent["limit"])
}

func TestMeili_IndexLeadSendsDocument(t *testing.T) {
	fake, idx := newFake(t)
	email := "asha@example.com"
	l := &domain.Lead{Name: "Asha", Phone: "9000000000", Email: &email, Source: domain.SourceWebsite, Status: domain.LeadNew}
	l.ID = "lead-1"

	require.NoError(t, idx.IndexLead(context.Background(), l))

	body := fake.bodies["POST /indexes/leads/documents"]
	var docs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "lead-1", docs[0]["id"])
	assert.Equal(t, "asha@example.com", docs[0]["email"])
	assert.Equal(t, "website", docs[0]["source"])
}

func TestNoopIsDisabled(t *testing.T) {
	var idx LeadIndex = Noop{}
	assert.False(t, idx.Enabled())
	ids, err := idx.SearchLeads(context.Background(), "x", 10)
	assert.NoError(t, err)
	assert.Empty(t, ids)
}
