package lead

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"realtyflow/internal/database/dbtest"
	"realtyflow/internal/domain"
	"realtyflow/internal/repository"
)

type MockIndex struct {
	mock.Mock
	enabled bool
}

func (m *MockIndex) Enabled() bool { return m.enabled }

func (m *MockIndex) IndexLead(ctx context.Context, l *domain.Lead) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockIndex) DeleteLead(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockIndex) SearchLeads(ctx context.Context, query string, limit int) ([]string, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type team struct {
	exec1, exec2, admin1, admin2, hq domain.Actor
}

func seedTeam(t *testing.T, repos *repository.Repositories) team {
	t.Helper()
	ctx := context.Background()
	mk := func(name string, role domain.UserRole) domain.Actor {
		u := &domain.User{Username: name, Email: name + "@example.com", PasswordHash: "x", Role: role, IsActive: true}
		require.NoError(t, repos.Users.Create(ctx, u))
		return domain.Actor{UserID: u.ID, Role: role}
	}
	return team{
		exec1:  mk("exec1", domain.RoleSalesExecutive),
		exec2:  mk("exec2", domain.RoleSalesExecutive),
		admin1: mk("admin1", domain.RoleSalesAdmin),
		admin2: mk("admin2", domain.RoleSalesAdmin),
		hq:     mk("hq", domain.RoleDeveloperHQ),
	}
}

func newService(t *testing.T, index Index) (*Service, *repository.Repositories) {
	t.Helper()
	repos := repository.New(dbtest.Open(t))
	return NewService(repos, index, func(string, ...interface{}) {}), repos
}

func (tm team) seedLeads(t *testing.T, svc *Service) map[string]*domain.Lead {
	t.Helper()
	out := map[string]*domain.Lead{}
	for name, owner := range map[string]domain.Actor{"Anil": tm.exec1, "Bela": tm.exec2, "Chetan": tm.admin1, "Divya": tm.admin2} {
		l, err := svc.Create(context.Background(), owner, CreateLeadRequest{Name: name, Phone: "98" + name, Source: domain.SourceWalkIn})
		require.NoError(t, err)
		out[name] = l
	}
	return out
}

func names(leads []domain.Lead) []string {
	out := make([]string, 0, len(leads))
	for _, l := range leads {
		out = append(out, l.Name)
	}
	return out
}

func TestList_RoleVisibility(t *testing.T) {
	svc, repos := newService(t, Noop())
	tm := seedTeam(t, repos)
	tm.seedLeads(t, svc)
	ctx := context.Background()

	got, err := svc.List(ctx, tm.exec1, LeadQuery{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Anil"}, names(got))

	got, err = svc.List(ctx, tm.admin1, LeadQuery{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Anil", "Bela", "Chetan"}, names(got))

	got, err = svc.List(ctx, tm.hq, LeadQuery{})
	require.NoError(t, err)
	assert.Len(t, got, 4)

	got, err = svc.List(ctx, tm.admin2, LeadQuery{Status: domain.LeadNew})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Anil", "Bela", "Divya"}, names(got))

	_, err = svc.List(ctx, tm.hq, LeadQuery{Status: "hot"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = svc.List(ctx, tm.hq, LeadQuery{Source: "billboard"})
	assert.ErrorIs(t, err, ErrInvalidSource)
}

func TestGet_HidesOtherTeams(t *testing.T) {
	svc, repos := newService(t, Noop())
	tm := seedTeam(t, repos)
	leads := tm.seedLeads(t, svc)
	ctx := context.Background()

	_, err := svc.Get(ctx, tm.exec1, leads["Bela"].ID)
	assert.ErrorIs(t, err, ErrLeadNotFound)

	l, err := svc.Get(ctx, tm.admin1, leads["Bela"].ID)
	require.NoError(t, err)
	assert.Equal(t, "Bela", l.Name)

	_, err = svc.Update(ctx, tm.exec2, leads["Anil"].ID, UpdateLeadRequest{Status: domain.LeadLost})
	assert.ErrorIs(t, err, ErrLeadNotFound)
}

func TestCreate_DefaultsAndIndexSync(t *testing.T) {
	idx := &MockIndex{enabled: true}
	idx.On("IndexLead", mock.Anything, mock.AnythingOfType("*domain.Lead")).Return(errors.New("meili down")).Once()
	svc, _ := newService(t, idx)
	actor := domain.Actor{UserID: "exec-9", Role: domain.RoleSalesExecutive}

	l, err := svc.Create(context.Background(), actor, CreateLeadRequest{Name: "Farah", Phone: "9700000000", Source: domain.SourceMetaAds})
	require.NoError(t, err, "index failures are not request failures")
	assert.Equal(t, domain.LeadNew, l.Status)
	assert.True(t, l.IsActive)
	require.NotNil(t, l.AssignedTo)
	assert.Equal(t, "exec-9", *l.AssignedTo)
	idx.AssertExpectations(t)

	_, err = svc.Create(context.Background(), actor, CreateLeadRequest{Name: "X", Phone: "1", Source: "billboard"})
	assert.ErrorIs(t, err, ErrInvalidSource)
}

func TestSearch_UsesIndexWithinScope(t *testing.T) {
	idx := &MockIndex{enabled: true}
	idx.On("IndexLead", mock.Anything, mock.Anything).Return(nil)
	svc, repos := newService(t, idx)
	tm := seedTeam(t, repos)
	leads := tm.seedLeads(t, svc)
	ctx := context.Background()

	ranked := []string{leads["Divya"].ID, leads["Bela"].ID, leads["Anil"].ID}
	idx.On("SearchLeads", mock.Anything, "a", 50).Return(ranked, nil).Once()

	got, err := svc.Search(ctx, tm.admin1, SearchQuery{Q: " a "})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bela", "Anil"}, names(got))

	idx.On("SearchLeads", mock.Anything, "anil", 5).Return(nil, errors.New("timeout")).Once()
	got, err = svc.Search(ctx, tm.exec1, SearchQuery{Q: "anil", Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, []string{"Anil"}, names(got))

	_, err = svc.Search(ctx, tm.exec1, SearchQuery{Q: "  "})
	assert.ErrorIs(t, err, ErrEmptyQuery)
	idx.AssertExpectations(t)
}

func TestSearch_DatabaseFallback(t *testing.T) {
	svc, repos := newService(t, Noop())
	tm := seedTeam(t, repos)
	tm.seedLeads(t, svc)

	got, err := svc.Search(context.Background(), tm.hq, SearchQuery{Q: "CHE"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Chetan"}, names(got))
}

func TestAddActivity_TouchesLead(t *testing.T) {
	svc, repos := newService(t, Noop())
	tm := seedTeam(t, repos)
	leads := tm.seedLeads(t, svc)
	ctx := context.Background()
	now := time.Date(2026, time.October, 10, 11, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	follow := now.Add(72 * time.Hour)
	a, err := svc.AddActivity(ctx, tm.exec1, leads["Anil"].ID, ActivityRequest{
		Type: domain.CommSiteVisit, Description: "Visited sample flat", NextFollowUpAt: &follow,
	})
	require.NoError(t, err)
	assert.Equal(t, tm.exec1.UserID, a.UserID)

	l, err := repos.Leads.GetByID(ctx, leads["Anil"].ID)
	require.NoError(t, err)
	require.NotNil(t, l.LastContactedAt)
	assert.True(t, l.LastContactedAt.Equal(now))
	require.NotNil(t, l.NextFollowUpAt)
	assert.True(t, l.NextFollowUpAt.Equal(follow))

	list, err := svc.Activities(ctx, tm.exec1, leads["Anil"].ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.AddActivity(ctx, tm.exec1, leads["Anil"].ID, ActivityRequest{Type: "fax", Description: "x"})
	assert.ErrorIs(t, err, ErrInvalidActivityType)
	_, err = svc.AddActivity(ctx, tm.exec1, leads["Bela"].ID, ActivityRequest{Type: domain.CommCall, Description: "x"})
	assert.ErrorIs(t, err, ErrLeadNotFound)
}

func TestDelete_RemovesFromIndex(t *testing.T) {
	idx := &MockIndex{enabled: true}
	idx.On("IndexLead", mock.Anything, mock.Anything).Return(nil)
	svc, repos := newService(t, idx)
	tm := seedTeam(t, repos)
	leads := tm.seedLeads(t, svc)
	id := leads["Bela"].ID
	idx.On("DeleteLead", mock.Anything, id).Return(nil).Once()

	require.NoError(t, svc.Delete(context.Background(), tm.admin1, id))
	_, err := repos.Leads.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(context.Background(), tm.admin1, id), ErrLeadNotFound)
	idx.AssertExpectations(t)
}

// Noop returns a disabled index.
func Noop() Index { return &MockIndex{} }
