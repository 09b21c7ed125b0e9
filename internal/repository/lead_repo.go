package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"realtyflow/internal/domain"
)

type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

// LeadFilter narrows a lead listing. Actor drives role-based visibility.
type LeadFilter struct {
	Actor     domain.Actor
	Status    domain.LeadStatus
	Source    domain.LeadSource
	ProjectID string
	Query     string
	IDs       []string
	Limit     int
}

func (r *LeadRepository) Create(ctx context.Context, l *domain.Lead) error {
	return translate(r.db.WithContext(ctx).Create(l).Error)
}

func (r *LeadRepository) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	var l domain.Lead
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&l).Error; err != nil {
		return nil, translate(err)
	}
	return &l, nil
}

func (r *LeadRepository) Update(ctx context.Context, l *domain.Lead) error {
	l.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&domain.Lead{}).Where("id = ?", l.ID).
		Select("name", "email", "phone", "source", "status", "project_id", "assigned_to", "budget",
			"preferences", "notes", "last_contacted_at", "next_follow_up_at", "is_active", "updated_at").
		Updates(l)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, id string, status domain.LeadStatus) error {
	res := r.db.WithContext(ctx).Model(&domain.Lead{}).Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Touch records contact with the lead.
func (r *LeadRepository) Touch(ctx context.Context, id string, contactedAt time.Time, nextFollowUp *time.Time) error {
	fields := map[string]any{"last_contacted_at": contactedAt, "updated_at": time.Now().UTC()}
	if nextFollowUp != nil {
		fields["next_follow_up_at"] = *nextFollowUp
	}
	res := r.db.WithContext(ctx).Model(&domain.Lead{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Lead{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *LeadRepository) List(ctx context.Context, f LeadFilter) ([]domain.Lead, error) {
	q := r.scoped(r.db.WithContext(ctx).Model(&domain.Lead{}), f.Actor)

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Source != "" {
		q = q.Where("source = ?", f.Source)
	}
	if f.ProjectID != "" {
		q = q.Where("project_id = ?", f.ProjectID)
	}
	if f.IDs != nil {
		if len(f.IDs) == 0 {
			return []domain.Lead{}, nil
		}
		q = q.Where("id IN ?", f.IDs)
	}
	if s := strings.TrimSpace(f.Query); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("(LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?)", like, like, like)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var out []domain.Lead
	err := q.Order("created_at DESC").Find(&out).Error
	return out, translate(err)
}

// Visible reports whether actor may see the lead.
func (r *LeadRepository) Visible(ctx context.Context, actor domain.Actor, leadID string) (bool, error) {
	var n int64
	err := r.scoped(r.db.WithContext(ctx).Model(&domain.Lead{}), actor).
		Where("id = ?", leadID).
		Count(&n).Error
	return n > 0, translate(err)
}

// scoped applies role visibility: master and developer_hq see everything, a
// sales_admin sees their own leads plus those of sales executives, a sales
// executive only their own.
func (r *LeadRepository) scoped(q *gorm.DB, actor domain.Actor) *gorm.DB {
	switch {
	case actor.SeesAllLeads():
		return q
	case actor.Role == domain.RoleSalesAdmin:
		execs := r.db.Model(&domain.User{}).Select("id").Where("role = ?", domain.RoleSalesExecutive)
		return q.Where("(assigned_to = ? OR assigned_to IN (?))", actor.UserID, execs)
	default:
		return q.Where("assigned_to = ?", actor.UserID)
	}
}

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, a *domain.LeadActivity) error {
	return translate(r.db.WithContext(ctx).Create(a).Error)
}

func (r *ActivityRepository) ListByLead(ctx context.Context, leadID string) ([]domain.LeadActivity, error) {
	var out []domain.LeadActivity
	err := r.db.WithContext(ctx).Where("lead_id = ?", leadID).Order("created_at DESC").Find(&out).Error
	return out, translate(err)
}

type CommunicationRepository struct {
	db *gorm.DB
}

func NewCommunicationRepository(db *gorm.DB) *CommunicationRepository {
	return &CommunicationRepository{db: db}
}

func (r *CommunicationRepository) Create(ctx context.Context, c *domain.Communication) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *CommunicationRepository) List(ctx context.Context, leadID string) ([]domain.Communication, error) {
	q := r.db.WithContext(ctx).Model(&domain.Communication{})
	if leadID != "" {
		q = q.Where("lead_id = ?", leadID)
	}
	var out []domain.Communication
	err := q.Order("sent_at DESC").Find(&out).Error
	return out, translate(err)
}
