package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"realtyflow/internal/domain"
)

type DashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// KeyCount is one bucket of a group-by-count rollup.
type KeyCount struct {
	Key   string `json:"key" gorm:"column:label"`
	Count int64  `json:"count" gorm:"column:count"`
}

func (r *DashboardRepository) CountLeads(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Lead{}).Count(&n).Error
	return n, translate(err)
}

func (r *DashboardRepository) CountBookings(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).Count(&n).Error
	return n, translate(err)
}

func (r *DashboardRepository) Revenue(ctx context.Context) (decimal.Decimal, error) {
	return r.sum(ctx, &domain.Booking{}, "final_amount", "")
}

func (r *DashboardRepository) OutstandingPayments(ctx context.Context) (decimal.Decimal, error) {
	return r.sum(ctx, &domain.Payment{}, "amount - paid_amount", "status IN ?", unpaidStatuses)
}

func (r *DashboardRepository) CountPaymentsByStatus(ctx context.Context, status domain.PaymentStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Payment{}).Where("status = ?", status).Count(&n).Error
	return n, translate(err)
}

func (r *DashboardRepository) LeadsByStatus(ctx context.Context) ([]KeyCount, error) {
	return r.groupCount(ctx, &domain.Lead{}, "status")
}

func (r *DashboardRepository) LeadsBySource(ctx context.Context) ([]KeyCount, error) {
	return r.groupCount(ctx, &domain.Lead{}, "source")
}

func (r *DashboardRepository) UnitsByStatus(ctx context.Context) ([]KeyCount, error) {
	return r.groupCount(ctx, &domain.Unit{}, "status")
}

// column is always a package constant, never caller input.
func (r *DashboardRepository) groupCount(ctx context.Context, model any, column string) ([]KeyCount, error) {
	out := []KeyCount{}
	err := r.db.WithContext(ctx).Model(model).
		Select(column + " AS label, COUNT(*) AS count").
		Group(column).
		Order(column).
		Scan(&out).Error
	return out, translate(err)
}

func (r *DashboardRepository) sum(ctx context.Context, model any, expr string, where string, args ...any) (decimal.Decimal, error) {
	var total decimal.Decimal
	q := r.db.WithContext(ctx).Model(model).Select("COALESCE(SUM(" + expr + "), 0)")
	if where != "" {
		q = q.Where(where, args...)
	}
	if err := q.Row().Scan(&total); err != nil {
		return decimal.Zero, translate(err)
	}
	return total, nil
}
