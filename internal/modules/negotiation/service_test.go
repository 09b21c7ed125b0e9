package negotiation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realtyflow/internal/database/dbtest"
	"realtyflow/internal/domain"
	"realtyflow/internal/modules/booking"
	"realtyflow/internal/modules/inventory"
	"realtyflow/internal/repository"
)

type recorder struct {
	mu     sync.Mutex
	events []domain.UnitEvent
}

func (r *recorder) Publish(e domain.UnitEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

type fixture struct {
	repos  *repository.Repositories
	svc    *Service
	events *recorder
	unit   *domain.Unit
	lead   *domain.Lead
	exec   domain.Actor
	admin  domain.Actor
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	repos := repository.New(dbtest.Open(t))
	events := &recorder{}
	bookings := booking.NewService(repos, inventory.NewLifecycle(48*time.Hour), events)

	p := &domain.Project{Name: "Skyline", Location: "Pune", Status: domain.ProjectActive}
	require.NoError(t, repos.Projects.Create(ctx, p))
	tw := &domain.Tower{ProjectID: p.ID, Name: "A", Floors: 10, UnitsPerFloor: 4}
	require.NoError(t, repos.Towers.Create(ctx, tw))
	u := &domain.Unit{
		TowerID: tw.ID, ProjectID: p.ID, UnitNumber: "A-702", Floor: 7,
		PropertyType: domain.PropertyFlat, Status: domain.UnitAvailable,
		Size:     decimal.NewFromInt(1200),
		BaseRate: decimal.NewFromInt(9_000_000), PLC: decimal.NewFromInt(500_000),
		GST: decimal.NewFromInt(450_000), StampDuty: decimal.NewFromInt(50_000),
	}
	require.NoError(t, repos.Units.Create(ctx, u))

	for id, role := range map[string]domain.UserRole{"exec-1": domain.RoleSalesExecutive, "admin-1": domain.RoleSalesAdmin, "admin-2": domain.RoleSalesAdmin} {
		u := &domain.User{Username: id, Email: id + "@example.com", PasswordHash: "x", Role: role, IsActive: true}
		u.ID = id
		require.NoError(t, repos.Users.Create(ctx, u))
	}

	lead := &domain.Lead{Name: "Meera", Phone: "9100000000", Source: domain.SourceReferral, Status: domain.LeadNegotiation, IsActive: true}
	require.NoError(t, repos.Leads.Create(ctx, lead))

	return &fixture{
		repos: repos, svc: NewService(repos, bookings), events: events, unit: u, lead: lead,
		exec:  domain.Actor{UserID: "exec-1", Role: domain.RoleSalesExecutive},
		admin: domain.Actor{UserID: "admin-1", Role: domain.RoleSalesAdmin},
	}
}

func (f *fixture) open(t *testing.T, offered int64) *domain.Negotiation {
	t.Helper()
	unitID := f.unit.ID
	price := decimal.NewFromInt(offered)
	token := decimal.NewFromInt(200_000)
	n, err := f.svc.Create(context.Background(), f.exec, CreateNegotiationRequest{
		LeadID: f.lead.ID,
		Terms: Terms{
			UnitID:       &unitID,
			OfferedPrice: &price,
			TokenAmount:  &token,
			PaymentPlan:  domain.PlanTLP,
		},
	})
	require.NoError(t, err)
	return n
}

func TestCreate_TakesUnitPriceAndProject(t *testing.T) {
	f := setup(t)
	n := f.open(t, 9_500_000)

	assert.Equal(t, domain.NegotiationPending, n.Status)
	require.NotNil(t, n.ProjectID)
	assert.Equal(t, f.unit.ProjectID, *n.ProjectID)
	require.NotNil(t, n.BasePrice)
	assert.True(t, n.BasePrice.Equal(decimal.NewFromInt(10_000_000)))
	require.NotNil(t, n.DiscountPercent)
	assert.Equal(t, "5", n.DiscountPercent.String())
	require.NotNil(t, n.CreatedBy)
	assert.Equal(t, "exec-1", *n.CreatedBy)
}

func TestCreate_Validation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.exec, CreateNegotiationRequest{LeadID: "ghost"})
	assert.ErrorIs(t, err, ErrLeadNotFound)

	missing := "no-such-unit"
	_, err = f.svc.Create(ctx, f.exec, CreateNegotiationRequest{LeadID: f.lead.ID, Terms: Terms{UnitID: &missing}})
	assert.ErrorIs(t, err, ErrUnitNotFound)

	_, err = f.svc.Create(ctx, f.exec, CreateNegotiationRequest{LeadID: f.lead.ID, Terms: Terms{PaymentPlan: "barter"}})
	assert.ErrorIs(t, err, ErrInvalidPlan)
}

func TestUpdate_EditsAndMovesToNegotiating(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	n := f.open(t, 9_500_000)

	counter := decimal.NewFromInt(9_800_000)
	out, err := f.svc.Update(ctx, f.exec, n.ID, UpdateNegotiationRequest{
		Status: domain.NegotiationNegotiating,
		Terms:  Terms{OfferedPrice: &counter},
	})
	require.NoError(t, err)
	assert.Nil(t, out.Booking)
	assert.Equal(t, domain.NegotiationNegotiating, out.Negotiation.Status)

	got, err := f.svc.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.NegotiationNegotiating, got.Status)
	require.NotNil(t, got.DiscountPercent)
	assert.Equal(t, "2", got.DiscountPercent.String())

	_, err = f.svc.Update(ctx, f.exec, n.ID, UpdateNegotiationRequest{Status: domain.NegotiationPending})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	state, _ := domain.CurrentState(err)
	assert.Equal(t, "negotiating", state)
}

func TestApprove_BooksUnitAtAgreedPrice(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	n := f.open(t, 9_500_000)

	out, err := f.svc.Approve(ctx, f.admin, n.ID, ReviewRequest{AdminNotes: "ok by HQ"})
	require.NoError(t, err)
	require.NotNil(t, out.Booking)

	b := out.Booking.Booking
	require.NotNil(t, b.NegotiationID)
	assert.Equal(t, n.ID, *b.NegotiationID)
	assert.Equal(t, "exec-1", b.SalesPersonID)
	assert.True(t, b.TotalAmount.Equal(decimal.NewFromInt(10_000_000)))
	assert.True(t, b.FinalAmount.Equal(decimal.NewFromInt(9_500_000)))
	assert.True(t, b.DiscountAmount.Equal(decimal.NewFromInt(500_000)))
	assert.True(t, b.TokenAmount.Equal(decimal.NewFromInt(200_000)))
	assert.Len(t, out.Booking.Payments, 13)

	stored, err := f.svc.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.NegotiationApproved, stored.Status)
	assert.Equal(t, "ok by HQ", stored.AdminNotes)
	require.NotNil(t, stored.ApprovedBy)
	assert.Equal(t, "admin-1", *stored.ApprovedBy)

	unit, err := f.repos.Units.GetByID(ctx, f.unit.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UnitBooked, unit.Status)

	lead, err := f.repos.Leads.GetByID(ctx, f.lead.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LeadBooking, lead.Status)

	require.Len(t, f.events.events, 1)
	assert.Equal(t, domain.EventUnitBooked, f.events.events[0].Type)

	_, err = f.svc.Approve(ctx, f.admin, n.ID, ReviewRequest{})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	state, _ := domain.CurrentState(err)
	assert.Equal(t, "approved", state)
}

func TestApprove_RollsBackWhenUnitTaken(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	first := f.open(t, 9_500_000)
	second := f.open(t, 9_700_000)

	_, err := f.svc.Approve(ctx, f.admin, first.ID, ReviewRequest{})
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, f.admin, second.ID, ReviewRequest{AdminNotes: "late"})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	state, _ := domain.CurrentState(err)
	assert.Equal(t, "booked", state)

	stored, err := f.svc.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.NegotiationPending, stored.Status, "approval must roll back with the booking")
	assert.Empty(t, stored.AdminNotes)
	assert.Nil(t, stored.ApprovedBy)

	n, err := f.repos.Bookings.Count(ctx, f.unit.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Len(t, f.events.events, 1)
}

func TestApprove_NeedsUnitAndPrice(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	n, err := f.svc.Create(ctx, f.exec, CreateNegotiationRequest{LeadID: f.lead.ID})
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, f.admin, n.ID, ReviewRequest{})
	assert.ErrorIs(t, err, ErrUnitRequired)

	stored, err := f.svc.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.NegotiationPending, stored.Status)

	_, err = f.svc.Approve(ctx, f.admin, "missing", ReviewRequest{})
	assert.ErrorIs(t, err, ErrNegotiationNotFound)
}

func TestUpdate_ApprovedStatusBooks(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	n := f.open(t, 9_900_000)

	out, err := f.svc.Update(ctx, f.admin, n.ID, UpdateNegotiationRequest{Status: domain.NegotiationApproved})
	require.NoError(t, err)
	require.NotNil(t, out.Booking)
	assert.True(t, out.Booking.Booking.FinalAmount.Equal(decimal.NewFromInt(9_900_000)))
	assert.Equal(t, domain.NegotiationApproved, out.Negotiation.Status)
}

func TestReject_ClosesNegotiation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	n := f.open(t, 9_000_000)

	out, err := f.svc.Reject(ctx, f.admin, n.ID, ReviewRequest{AdminNotes: "too low"})
	require.NoError(t, err)
	assert.Nil(t, out.Booking)
	assert.Equal(t, domain.NegotiationRejected, out.Negotiation.Status)

	unit, err := f.repos.Units.GetByID(ctx, f.unit.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UnitAvailable, unit.Status)

	price := decimal.NewFromInt(9_999_000)
	_, err = f.svc.Update(ctx, f.exec, n.ID, UpdateNegotiationRequest{Terms: Terms{OfferedPrice: &price}})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	state, _ := domain.CurrentState(err)
	assert.Equal(t, "rejected", state)

	list, err := f.svc.List(ctx, NegotiationQuery{Status: domain.NegotiationRejected})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, n.ID, list[0].ID)

	_, err = f.svc.List(ctx, NegotiationQuery{Status: "stalled"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestApprove_ReviewerBooksWhenCreatorIsNotExecutive(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	unitID := f.unit.ID
	price := decimal.NewFromInt(9_600_000)

	opener := domain.Actor{UserID: "admin-2", Role: domain.RoleSalesAdmin}
	n, err := f.svc.Create(ctx, opener, CreateNegotiationRequest{LeadID: f.lead.ID, Terms: Terms{UnitID: &unitID, OfferedPrice: &price}})
	require.NoError(t, err)

	out, err := f.svc.Approve(ctx, f.admin, n.ID, ReviewRequest{})
	require.NoError(t, err)
	assert.Equal(t, "admin-1", out.Booking.Booking.SalesPersonID)
}
