package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"realtyflow/internal/domain"
)

type UnitRepository struct {
	db *gorm.DB
}

func NewUnitRepository(db *gorm.DB) *UnitRepository {
	return &UnitRepository{db: db}
}

type UnitFilter struct {
	ProjectID    string
	TowerID      string
	Status       domain.UnitStatus
	PropertyType domain.PropertyType
	Floor        *int
}

func (r *UnitRepository) Create(ctx context.Context, u *domain.Unit) error {
	u.RecomputeTotal()
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *UnitRepository) GetByID(ctx context.Context, id string) (*domain.Unit, error) {
	var u domain.Unit
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UnitRepository) List(ctx context.Context, f UnitFilter) ([]domain.Unit, error) {
	q := r.db.WithContext(ctx).Model(&domain.Unit{})
	if f.ProjectID != "" {
		q = q.Where("project_id = ?", f.ProjectID)
	}
	if f.TowerID != "" {
		q = q.Where("tower_id = ?", f.TowerID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.PropertyType != "" {
		q = q.Where("property_type = ?", f.PropertyType)
	}
	if f.Floor != nil {
		q = q.Where("floor = ?", *f.Floor)
	}

	var out []domain.Unit
	err := q.Order("unit_number").Find(&out).Error
	return out, translate(err)
}

// UpdateDetails writes the descriptive and price columns. Status and block
// columns only change through UpdateStatusIf.
func (r *UnitRepository) UpdateDetails(ctx context.Context, u *domain.Unit) error {
	u.RecomputeTotal()
	u.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&domain.Unit{}).Where("id = ?", u.ID).
		Select("unit_number", "floor", "property_type", "size", "base_rate", "plc", "gst",
			"stamp_duty", "total_price", "view", "facing", "updated_at").
		Updates(u)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStatusIf is the compare-and-swap on unit status: the row is written
// only while its status is one of from. It reports whether a row changed.
func (r *UnitRepository) UpdateStatusIf(ctx context.Context, id string, from []domain.UnitStatus, fields map[string]any) (bool, error) {
	fields["updated_at"] = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&domain.Unit{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(fields)
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}

// DeleteIfStatus removes the unit only while it is in status.
func (r *UnitRepository) DeleteIfStatus(ctx context.Context, id string, status domain.UnitStatus) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND status = ?", id, status).Delete(&domain.Unit{})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}

// ExpiredBlocks lists blocked units whose hold ran out before now.
func (r *UnitRepository) ExpiredBlocks(ctx context.Context, now time.Time, limit int) ([]domain.Unit, error) {
	var out []domain.Unit
	err := r.db.WithContext(ctx).
		Where("status = ? AND block_expiry_at IS NOT NULL AND block_expiry_at < ?", domain.UnitBlocked, now).
		Order("block_expiry_at").
		Limit(limit).
		Find(&out).Error
	return out, translate(err)
}

// ReleaseIfExpired returns a blocked unit to stock provided its hold is still
// the expired one that was observed.
func (r *UnitRepository) ReleaseIfExpired(ctx context.Context, id string, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Unit{}).
		Where("id = ? AND status = ? AND block_expiry_at IS NOT NULL AND block_expiry_at < ?", id, domain.UnitBlocked, now).
		Updates(map[string]any{
			"status":          domain.UnitAvailable,
			"blocked_at":      nil,
			"block_expiry_at": nil,
			"blocked_by":      nil,
			"updated_at":      now,
		})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}

// Floors returns the distinct floors that have units in the tower.
func (r *UnitRepository) Floors(ctx context.Context, towerID string) ([]int, error) {
	var floors []int
	err := r.db.WithContext(ctx).Model(&domain.Unit{}).
		Where("tower_id = ?", towerID).
		Distinct("floor").
		Order("floor").
		Pluck("floor", &floors).Error
	return floors, translate(err)
}

type statusCount struct {
	Status domain.UnitStatus
	Count  int
}

func (r *UnitRepository) CountByStatus(ctx context.Context, projectID string) (domain.UnitCounts, error) {
	var rows []statusCount
	err := r.db.WithContext(ctx).Model(&domain.Unit{}).
		Select("status, COUNT(*) AS count").
		Where("project_id = ?", projectID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return domain.UnitCounts{}, translate(err)
	}

	var c domain.UnitCounts
	for _, row := range rows {
		switch row.Status {
		case domain.UnitAvailable:
			c.Available = row.Count
		case domain.UnitBlocked:
			c.Blocked = row.Count
		case domain.UnitBooked:
			c.Booked = row.Count
		case domain.UnitSold:
			c.Sold = row.Count
		}
	}
	return c, nil
}
