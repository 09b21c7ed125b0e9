package repository

import (
	"context"

	"gorm.io/gorm"

	"realtyflow/internal/domain"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type BookingFilter struct {
	LeadID    string
	ProjectID string
	UnitID    string
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return translate(r.db.WithContext(ctx).Create(b).Error)
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&b).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

// LatestForUnit returns the most recent booking written against the unit.
func (r *BookingRepository) LatestForUnit(ctx context.Context, unitID string) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).Where("unit_id = ?", unitID).Order("booking_date DESC").First(&b).Error
	if err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (r *BookingRepository) List(ctx context.Context, f BookingFilter) ([]domain.Booking, error) {
	q := r.db.WithContext(ctx).Model(&domain.Booking{})
	if f.LeadID != "" {
		q = q.Where("lead_id = ?", f.LeadID)
	}
	if f.ProjectID != "" {
		q = q.Where("project_id = ?", f.ProjectID)
	}
	if f.UnitID != "" {
		q = q.Where("unit_id = ?", f.UnitID)
	}
	var out []domain.Booking
	err := q.Order("booking_date DESC").Find(&out).Error
	return out, translate(err)
}

// UpdateTerms writes the fields a booking may change after creation.
func (r *BookingRepository) UpdateTerms(ctx context.Context, b *domain.Booking) error {
	res := r.db.WithContext(ctx).Model(&domain.Booking{}).Where("id = ?", b.ID).
		Select("agreement_date", "possession_date", "payment_plan").
		Updates(b)
	if res.Error != nil {
		return translate(res.Error)
	}
	return nil
}

func (r *BookingRepository) Count(ctx context.Context, unitID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).Where("unit_id = ?", unitID).Count(&n).Error
	return n, translate(err)
}
