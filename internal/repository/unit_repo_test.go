package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realtyflow/internal/database/dbtest"
	"realtyflow/internal/domain"
)

func seedTower(t *testing.T, repos *Repositories) (*domain.Project, *domain.Tower) {
	t.Helper()
	ctx := context.Background()

	p := &domain.Project{Name: "Skyline", Location: "Pune", TotalUnits: 10, AvailableUnits: 10, Status: domain.ProjectActive}
	require.NoError(t, repos.Projects.Create(ctx, p))
	tw := &domain.Tower{ProjectID: p.ID, Name: "A", Floors: 10, UnitsPerFloor: 4}
	require.NoError(t, repos.Towers.Create(ctx, tw))
	return p, tw
}

func newUnit(p *domain.Project, tw *domain.Tower, number string, floor int) *domain.Unit {
	return &domain.Unit{
		TowerID:      tw.ID,
		ProjectID:    p.ID,
		UnitNumber:   number,
		Floor:        floor,
		PropertyType: domain.PropertyFlat,
		Size:         decimal.NewFromInt(1100),
		BaseRate:     decimal.NewFromInt(4_800_000),
		PLC:          decimal.NewFromInt(200_000),
		GST:          decimal.NewFromInt(240_000),
		StampDuty:    decimal.NewFromInt(100_000),
		Status:       domain.UnitAvailable,
	}
}

func TestUnitRepository_CreateRecomputesTotal(t *testing.T) {
	repos := New(dbtest.Open(t))
	ctx := context.Background()
	p, tw := seedTower(t, repos)

	u := newUnit(p, tw, "A-101", 1)
	u.TotalPrice = decimal.NewFromInt(1)
	require.NoError(t, repos.Units.Create(ctx, u))

	got, err := repos.Units.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalPrice.Equal(decimal.NewFromInt(5_340_000)), "got %s", got.TotalPrice)
}

func TestUnitRepository_DuplicateNumberInTower(t *testing.T) {
	repos := New(dbtest.Open(t))
	ctx := context.Background()
	p, tw := seedTower(t, repos)

	require.NoError(t, repos.Units.Create(ctx, newUnit(p, tw, "A-101", 1)))
	err := repos.Units.Create(ctx, newUnit(p, tw, "A-101", 1))
	assert.True(t, errors.Is(err, ErrDuplicate), "got %v", err)

	other := &domain.Tower{ProjectID: p.ID, Name: "B", Floors: 5, UnitsPerFloor: 2}
	require.NoError(t, repos.Towers.Create(ctx, other))
	assert.NoError(t, repos.Units.Create(ctx, newUnit(p, other, "A-101", 1)))
}

func TestUnitRepository_UpdateStatusIf(t *testing.T) {
	repos := New(dbtest.Open(t))
	ctx := context.Background()
	p, tw := seedTower(t, repos)
	u := newUnit(p, tw, "A-101", 1)
	require.NoError(t, repos.Units.Create(ctx, u))

	ok, err := repos.Units.UpdateStatusIf(ctx, u.ID, []domain.UnitStatus{domain.UnitAvailable, domain.UnitBlocked},
		map[string]any{"status": domain.UnitBooked})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repos.Units.UpdateStatusIf(ctx, u.ID, []domain.UnitStatus{domain.UnitAvailable, domain.UnitBlocked},
		map[string]any{"status": domain.UnitBooked})
	require.NoError(t, err)
	assert.False(t, ok, "second swap must not match")

	got, err := repos.Units.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UnitBooked, got.Status)
}

func TestUnitRepository_UpdateDetailsKeepsStatus(t *testing.T) {
	repos := New(dbtest.Open(t))
	ctx := context.Background()
	p, tw := seedTower(t, repos)
	u := newUnit(p, tw, "A-101", 1)
	require.NoError(t, repos.Units.Create(ctx, u))

	_, err := repos.Units.UpdateStatusIf(ctx, u.ID, []domain.UnitStatus{domain.UnitAvailable}, map[string]any{"status": domain.UnitBlocked})
	require.NoError(t, err)

	// caller's copy is stale: it still says available
	u.PLC = decimal.NewFromInt(300_000)
	require.NoError(t, repos.Units.UpdateDetails(ctx, u))

	got, err := repos.Units.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UnitBlocked, got.Status)
	assert.True(t, got.TotalPrice.Equal(decimal.NewFromInt(5_440_000)), "got %s", got.TotalPrice)
}

func TestUnitRepository_ReleaseExpired(t *testing.T) {
	repos := New(dbtest.Open(t))
	ctx := context.Background()
	p, tw := seedTower(t, repos)
	now := time.Now().UTC()

	expired := newUnit(p, tw, "A-101", 1)
	fresh := newUnit(p, tw, "A-102", 1)
	require.NoError(t, repos.Units.Create(ctx, expired))
	require.NoError(t, repos.Units.Create(ctx, fresh))

	block := func(id string, until time.Time) {
		ok, err := repos.Units.UpdateStatusIf(ctx, id, []domain.UnitStatus{domain.UnitAvailable}, map[string]any{
			"status": domain.UnitBlocked, "blocked_at": now.Add(-time.Hour), "block_expiry_at": until,
		})
		require.NoError(t, err)
		require.True(t, ok)
	}
	block(expired.ID, now.Add(-time.Minute))
	block(fresh.ID, now.Add(time.Hour))

	units, err := repos.Units.ExpiredBlocks(ctx, now, 100)
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, expired.ID, units[0].ID)

	ok, err := repos.Units.ReleaseIfExpired(ctx, expired.ID, now)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repos.Units.ReleaseIfExpired(ctx, fresh.ID, now)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repos.Units.GetByID(ctx, expired.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UnitAvailable, got.Status)
	assert.Nil(t, got.BlockedAt)
	assert.Nil(t, got.BlockExpiryAt)
}

func TestUnitRepository_FloorsAndCounts(t *testing.T) {
	repos := New(dbtest.Open(t))
	ctx := context.Background()
	p, tw := seedTower(t, repos)

	for i, n := range []string{"A-301", "A-101", "A-102", "A-201"} {
		u := newUnit(p, tw, n, int(n[2]-'0'))
		require.NoError(t, repos.Units.Create(ctx, u), i)
		if n == "A-102" {
			_, err := repos.Units.UpdateStatusIf(ctx, u.ID, []domain.UnitStatus{domain.UnitAvailable}, map[string]any{"status": domain.UnitBooked})
			require.NoError(t, err)
		}
	}

	floors, err := repos.Units.Floors(ctx, tw.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, floors)

	counts, err := repos.Units.CountByStatus(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UnitCounts{Available: 3, Booked: 1}, counts)

	project, err := repos.Projects.RecountUnits(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, project.AvailableUnits)
	assert.Equal(t, 1, project.SoldUnits)

	stored, err := repos.Projects.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.AvailableUnits)
	assert.Equal(t, 1, stored.SoldUnits)
}

func TestRepositories_TransactionRollsBack(t *testing.T) {
	repos := New(dbtest.Open(t))
	ctx := context.Background()
	p, tw := seedTower(t, repos)
	u := newUnit(p, tw, "A-101", 1)
	require.NoError(t, repos.Units.Create(ctx, u))

	boom := errors.New("boom")
	err := repos.Transaction(ctx, func(tx *Repositories) error {
		ok, err := tx.Units.UpdateStatusIf(ctx, u.ID, []domain.UnitStatus{domain.UnitAvailable}, map[string]any{"status": domain.UnitBooked})
		require.NoError(t, err)
		require.True(t, ok)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := repos.Units.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UnitAvailable, got.Status)
}
