package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"realtyflow/internal/domain"
)

type PartnerRepository struct {
	db *gorm.DB
}

func NewPartnerRepository(db *gorm.DB) *PartnerRepository {
	return &PartnerRepository{db: db}
}

func (r *PartnerRepository) Create(ctx context.Context, p *domain.ChannelPartner) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *PartnerRepository) GetByID(ctx context.Context, id string) (*domain.ChannelPartner, error) {
	var p domain.ChannelPartner
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *PartnerRepository) List(ctx context.Context) ([]domain.ChannelPartner, error) {
	var out []domain.ChannelPartner
	err := r.db.WithContext(ctx).Order("name").Find(&out).Error
	return out, translate(err)
}

func (r *PartnerRepository) Update(ctx context.Context, p *domain.ChannelPartner) error {
	res := r.db.WithContext(ctx).Model(&domain.ChannelPartner{}).Where("id = ?", p.ID).
		Select("name", "email", "phone", "company", "address", "commission_rate",
			"kyc_status", "agreement_date", "is_active").
		Updates(p)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PartnerRepository) Attribute(ctx context.Context, a *domain.ChannelPartnerLead) error {
	return translate(r.db.WithContext(ctx).Create(a).Error)
}

func (r *PartnerRepository) ListAttributions(ctx context.Context, partnerID string) ([]domain.ChannelPartnerLead, error) {
	var out []domain.ChannelPartnerLead
	err := r.db.WithContext(ctx).Where("channel_partner_id = ?", partnerID).Order("created_at DESC").Find(&out).Error
	return out, translate(err)
}

// AttributionForLead returns the lead's partner attribution, locked for the
// rest of the transaction.
func (r *PartnerRepository) AttributionForLead(ctx context.Context, leadID string) (*domain.ChannelPartnerLead, error) {
	var a domain.ChannelPartnerLead
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("lead_id = ?", leadID).
		First(&a).Error
	if err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *PartnerRepository) SaveAttribution(ctx context.Context, a *domain.ChannelPartnerLead) error {
	res := r.db.WithContext(ctx).Model(&domain.ChannelPartnerLead{}).Where("id = ?", a.ID).
		Select("booking_id", "commission_amount", "commission_paid", "paid_at").
		Updates(a)
	return translate(res.Error)
}
