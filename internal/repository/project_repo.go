package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"realtyflow/internal/domain"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	var p domain.Project
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *ProjectRepository) List(ctx context.Context) ([]domain.Project, error) {
	var out []domain.Project
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, translate(err)
}

// Update writes the editable project fields. Unit counters are owned by
// RecountUnits and are left alone.
func (r *ProjectRepository) Update(ctx context.Context, p *domain.Project) error {
	p.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&domain.Project{}).Where("id = ?", p.ID).
		Select("name", "location", "description", "total_units", "base_price", "status",
			"image_url", "launch_date", "completion_date", "updated_at").
		Updates(p)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Project{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RecountUnits reconciles the project's counters with its unit rows. Call it
// inside the transaction that changed the units.
func (r *ProjectRepository) RecountUnits(ctx context.Context, projectID string) (*domain.Project, error) {
	var p domain.Project
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", projectID).
		First(&p).Error
	if err != nil {
		return nil, translate(err)
	}

	counts, err := NewUnitRepository(r.db).CountByStatus(ctx, projectID)
	if err != nil {
		return nil, err
	}
	p.ApplyCounts(counts)
	p.UpdatedAt = time.Now().UTC()

	err = r.db.WithContext(ctx).Model(&domain.Project{}).Where("id = ?", p.ID).
		Select("total_units", "available_units", "blocked_units", "sold_units", "status", "updated_at").
		Updates(&p).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

type TowerRepository struct {
	db *gorm.DB
}

func NewTowerRepository(db *gorm.DB) *TowerRepository {
	return &TowerRepository{db: db}
}

func (r *TowerRepository) Create(ctx context.Context, t *domain.Tower) error {
	return translate(r.db.WithContext(ctx).Create(t).Error)
}

func (r *TowerRepository) GetByID(ctx context.Context, id string) (*domain.Tower, error) {
	var t domain.Tower
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *TowerRepository) ListByProject(ctx context.Context, projectID string) ([]domain.Tower, error) {
	var out []domain.Tower
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("name").Find(&out).Error
	return out, translate(err)
}

func (r *TowerRepository) CountByProject(ctx context.Context, projectID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Tower{}).Where("project_id = ?", projectID).Count(&n).Error
	return n, translate(err)
}
