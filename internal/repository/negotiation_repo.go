package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"realtyflow/internal/domain"
)

type NegotiationRepository struct {
	db *gorm.DB
}

func NewNegotiationRepository(db *gorm.DB) *NegotiationRepository {
	return &NegotiationRepository{db: db}
}

type NegotiationFilter struct {
	LeadID string
	Status domain.NegotiationStatus
}

func (r *NegotiationRepository) Create(ctx context.Context, n *domain.Negotiation) error {
	return translate(r.db.WithContext(ctx).Create(n).Error)
}

func (r *NegotiationRepository) GetByID(ctx context.Context, id string) (*domain.Negotiation, error) {
	var n domain.Negotiation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&n).Error; err != nil {
		return nil, translate(err)
	}
	return &n, nil
}

// GetForUpdate loads the negotiation holding a row lock until the
// surrounding transaction ends.
func (r *NegotiationRepository) GetForUpdate(ctx context.Context, id string) (*domain.Negotiation, error) {
	var n domain.Negotiation
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&n).Error
	if err != nil {
		return nil, translate(err)
	}
	return &n, nil
}

func (r *NegotiationRepository) List(ctx context.Context, f NegotiationFilter) ([]domain.Negotiation, error) {
	q := r.db.WithContext(ctx).Model(&domain.Negotiation{})
	if f.LeadID != "" {
		q = q.Where("lead_id = ?", f.LeadID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var out []domain.Negotiation
	err := q.Order("created_at DESC").Find(&out).Error
	return out, translate(err)
}

// UpdateIfStatus saves the negotiation only while its stored status is still
// from, so concurrent reviewers cannot both move it.
func (r *NegotiationRepository) UpdateIfStatus(ctx context.Context, n *domain.Negotiation, from domain.NegotiationStatus) (bool, error) {
	n.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&domain.Negotiation{}).
		Where("id = ? AND status = ?", n.ID, from).
		Select("unit_id", "project_id", "status", "base_price", "requested_price", "offered_price",
			"discount_percent", "token_amount", "payment_plan", "is_token_ready", "notes",
			"admin_notes", "approved_by", "updated_at").
		Updates(n)
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}
