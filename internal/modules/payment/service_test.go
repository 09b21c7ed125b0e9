package payment

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realtyflow/internal/domain"
	"realtyflow/internal/modules/schedule"
	"realtyflow/internal/repository"
)

type mockBookingReader struct {
	finals map[string]int64
}

func (m *mockBookingReader) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	final, ok := m.finals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	b := &domain.Booking{FinalAmount: decimal.NewFromInt(final)}
	b.ID = id
	return b, nil
}

type mockPaymentRepo struct {
	payments    map[string]*domain.Payment
	saveCalls   int
	overdueSeen time.Time
}

func newMockRepo(ps ...domain.Payment) *mockPaymentRepo {
	m := &mockPaymentRepo{payments: map[string]*domain.Payment{}}
	for i := range ps {
		p := ps[i]
		m.payments[p.ID] = &p
	}
	return m
}

func (m *mockPaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	p.ID = "new"
	m.payments[p.ID] = p
	return nil
}

func (m *mockPaymentRepo) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	return m.GetForUpdate(ctx, id)
}

func (m *mockPaymentRepo) GetForUpdate(ctx context.Context, id string) (*domain.Payment, error) {
	p, ok := m.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockPaymentRepo) List(ctx context.Context, bookingID string) ([]domain.Payment, error) {
	var out []domain.Payment
	for _, p := range m.payments {
		if bookingID == "" || p.BookingID == bookingID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockPaymentRepo) Pending(ctx context.Context) ([]domain.Payment, error) {
	return nil, nil
}

func (m *mockPaymentRepo) Save(ctx context.Context, p *domain.Payment) error {
	m.saveCalls++
	cp := *p
	m.payments[p.ID] = &cp
	return nil
}

func (m *mockPaymentRepo) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	m.overdueSeen = now
	return 2, nil
}

var fixedNow = time.Date(2026, time.October, 1, 9, 30, 0, 0, time.UTC)

func newTestService(repo *mockPaymentRepo) *Service {
	bookings := &mockBookingReader{finals: map[string]int64{"b1": 100_000}}
	return &Service{
		payments: repo,
		inTx: func(ctx context.Context, fn func(payments paymentRepo, bookings bookingReader) error) error {
			return fn(repo, bookings)
		},
		loggerf: func(string, ...interface{}) {},
		now:     func() time.Time { return fixedNow },
	}
}

func installment(id string, amount int64) domain.Payment {
	p := domain.Payment{
		BookingID: "b1",
		Amount:    decimal.NewFromInt(amount),
		DueDate:   fixedNow.AddDate(0, 1, 0),
		Status:    domain.PaymentPending,
	}
	p.ID = id
	return p
}

func TestRecord_PartialThenPaid(t *testing.T) {
	repo := newMockRepo(installment("p1", 100_000))
	svc := newTestService(repo)
	ctx := context.Background()

	p, err := svc.Record(ctx, "p1", RecordRequest{Amount: decimal.NewFromInt(40_000), PaymentMethod: "upi"})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPartial, p.Status)
	assert.Nil(t, p.PaidDate)
	assert.Equal(t, "upi", p.PaymentMethod)

	p, err = svc.Record(ctx, "p1", RecordRequest{Amount: decimal.NewFromInt(60_000), TransactionID: "TXN-9"})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, p.Status)
	require.NotNil(t, p.PaidDate)
	assert.True(t, p.PaidDate.Equal(fixedNow))
	assert.True(t, p.PaidAmount.Equal(decimal.NewFromInt(100_000)))
	assert.Equal(t, "upi", p.PaymentMethod)
	assert.Equal(t, "TXN-9", p.TransactionID)
	assert.Equal(t, 2, repo.saveCalls)
}

func TestRecord_PaidConflicts(t *testing.T) {
	paid := installment("p1", 100_000)
	paid.PaidAmount = paid.Amount
	paid.Status = domain.PaymentPaid
	repo := newMockRepo(paid)
	svc := newTestService(repo)

	_, err := svc.Record(context.Background(), "p1", RecordRequest{Amount: decimal.NewFromInt(1)})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	state, ok := domain.CurrentState(err)
	require.True(t, ok)
	assert.Equal(t, "paid", state)
	assert.Zero(t, repo.saveCalls)
}

func TestRecord_RejectsOverpaymentAndUnknown(t *testing.T) {
	repo := newMockRepo(installment("p1", 100_000))
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.Record(ctx, "p1", RecordRequest{Amount: decimal.NewFromInt(100_001)})
	assert.ErrorIs(t, err, ErrExceedsOutstanding)

	_, err = svc.Record(ctx, "missing", RecordRequest{Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ErrPaymentNotFound)
	assert.Zero(t, repo.saveCalls)
}

func TestRecord_OverdueCanStillBePaid(t *testing.T) {
	late := installment("p1", 50_000)
	late.Status = domain.PaymentOverdue
	svc := newTestService(newMockRepo(late))

	paidAt := time.Date(2026, time.September, 30, 18, 0, 0, 0, time.FixedZone("IST", 19800))
	p, err := svc.Record(context.Background(), "p1", RecordRequest{Amount: decimal.NewFromInt(50_000), PaidAt: &paidAt})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, p.Status)
	assert.Equal(t, time.UTC, p.PaidDate.Location())
}

func TestCreate(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreatePaymentRequest{BookingID: "b1", Milestone: "Full Payment", Amount: decimal.NewFromInt(100_000), DueDate: fixedNow})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPending, p.Status)
	assert.Contains(t, repo.payments, "new")

	_, err = svc.Create(ctx, CreatePaymentRequest{BookingID: "nope", Amount: decimal.NewFromInt(1), DueDate: fixedNow})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestUpdate(t *testing.T) {
	partial := installment("p1", 100_000)
	partial.PaidAmount = decimal.NewFromInt(30_000)
	partial.Status = domain.PaymentPartial
	repo := newMockRepo(partial)
	svc := newTestService(repo)
	ctx := context.Background()

	low := decimal.NewFromInt(20_000)
	_, err := svc.Update(ctx, "p1", UpdatePaymentRequest{Amount: &low})
	assert.ErrorIs(t, err, ErrAmountBelowPaid)

	_, err = svc.Update(ctx, "p1", UpdatePaymentRequest{Status: "refunded"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	note := "waived remainder"
	p, err := svc.Update(ctx, "p1", UpdatePaymentRequest{Status: domain.PaymentPaid, Notes: &note})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, p.Status)
	require.NotNil(t, p.PaidDate)
	assert.Equal(t, note, repo.payments["p1"].Notes)
}

func TestMarkOverdue(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	n, err := svc.MarkOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.True(t, repo.overdueSeen.Equal(fixedNow))
}

func TestCreate_RejectsRowThatBreaksSchedule(t *testing.T) {
	repo := newMockRepo(installment("p1", 70_000))
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreatePaymentRequest{BookingID: "b1", Milestone: "Extra", Amount: decimal.NewFromInt(50_000), DueDate: fixedNow})
	require.ErrorIs(t, err, schedule.ErrScheduleMismatch)
	assert.NotContains(t, repo.payments, "new")

	p, err := svc.Create(ctx, CreatePaymentRequest{BookingID: "b1", Milestone: "Balance", Amount: decimal.NewFromInt(30_000), DueDate: fixedNow})
	require.NoError(t, err)
	assert.True(t, p.Amount.Equal(decimal.NewFromInt(30_000)))
}

func TestUpdate_AmountMustKeepScheduleBalanced(t *testing.T) {
	repo := newMockRepo(installment("p1", 60_000), installment("p2", 40_000))
	svc := newTestService(repo)
	ctx := context.Background()

	one := decimal.NewFromInt(1)
	_, err := svc.Update(ctx, "p1", UpdatePaymentRequest{Amount: &one})
	require.ErrorIs(t, err, schedule.ErrScheduleMismatch)
	assert.Zero(t, repo.saveCalls)
	assert.True(t, repo.payments["p1"].Amount.Equal(decimal.NewFromInt(60_000)))

	same := decimal.NewFromInt(60_000)
	method := "cheque"
	p, err := svc.Update(ctx, "p1", UpdatePaymentRequest{Amount: &same, PaymentMethod: &method})
	require.NoError(t, err)
	assert.Equal(t, "cheque", p.PaymentMethod)
}
