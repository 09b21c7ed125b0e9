package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"realtyflow/internal/domain"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

var unpaidStatuses = []domain.PaymentStatus{domain.PaymentPending, domain.PaymentPartial, domain.PaymentOverdue}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *PaymentRepository) CreateBatch(ctx context.Context, ps []domain.Payment) error {
	if len(ps) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Create(&ps).Error)
}

func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	var p domain.Payment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *PaymentRepository) GetForUpdate(ctx context.Context, id string) (*domain.Payment, error) {
	var p domain.Payment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *PaymentRepository) List(ctx context.Context, bookingID string) ([]domain.Payment, error) {
	q := r.db.WithContext(ctx).Model(&domain.Payment{})
	if bookingID != "" {
		q = q.Where("booking_id = ?", bookingID)
	}
	var out []domain.Payment
	err := q.Order("due_date, sequence").Find(&out).Error
	return out, translate(err)
}

// Pending lists every payment that still expects money.
func (r *PaymentRepository) Pending(ctx context.Context) ([]domain.Payment, error) {
	var out []domain.Payment
	err := r.db.WithContext(ctx).
		Where("status IN ?", unpaidStatuses).
		Order("due_date, sequence").
		Find(&out).Error
	return out, translate(err)
}

func (r *PaymentRepository) Save(ctx context.Context, p *domain.Payment) error {
	res := r.db.WithContext(ctx).Model(&domain.Payment{}).Where("id = ?", p.ID).
		Select("milestone", "amount", "paid_amount", "due_date", "paid_date", "status",
			"payment_method", "transaction_id", "notes").
		Updates(p)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// HasReceipts reports whether any money was recorded against the booking.
func (r *PaymentRepository) HasReceipts(ctx context.Context, bookingID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Payment{}).
		Where("booking_id = ? AND (status IN ? OR paid_amount > 0)", bookingID,
			[]domain.PaymentStatus{domain.PaymentPaid, domain.PaymentPartial}).
		Count(&n).Error
	return n > 0, translate(err)
}

func (r *PaymentRepository) DeleteByBooking(ctx context.Context, bookingID string) error {
	return translate(r.db.WithContext(ctx).Where("booking_id = ?", bookingID).Delete(&domain.Payment{}).Error)
}

// MarkOverdue flags unpaid installments whose due date passed before now.
func (r *PaymentRepository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Payment{}).
		Where("status IN ? AND due_date < ?", []domain.PaymentStatus{domain.PaymentPending, domain.PaymentPartial}, now).
		Update("status", domain.PaymentOverdue)
	return res.RowsAffected, translate(res.Error)
}
