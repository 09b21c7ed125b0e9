package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"realtyflow/internal/database"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// Repositories bundles every repository over one connection or transaction.
type Repositories struct {
	db *gorm.DB

	Users          *UserRepository
	Projects       *ProjectRepository
	Towers         *TowerRepository
	Units          *UnitRepository
	Leads          *LeadRepository
	Activities     *ActivityRepository
	Communications *CommunicationRepository
	Negotiations   *NegotiationRepository
	Bookings       *BookingRepository
	Payments       *PaymentRepository
	Partners       *PartnerRepository
	Dashboard      *DashboardRepository
}

func New(db *gorm.DB) *Repositories {
	return &Repositories{
		db:             db,
		Users:          NewUserRepository(db),
		Projects:       NewProjectRepository(db),
		Towers:         NewTowerRepository(db),
		Units:          NewUnitRepository(db),
		Leads:          NewLeadRepository(db),
		Activities:     NewActivityRepository(db),
		Communications: NewCommunicationRepository(db),
		Negotiations:   NewNegotiationRepository(db),
		Bookings:       NewBookingRepository(db),
		Payments:       NewPaymentRepository(db),
		Partners:       NewPartnerRepository(db),
		Dashboard:      NewDashboardRepository(db),
	}
}

func (r *Repositories) DB() *gorm.DB { return r.db }

// Transaction runs fn with repositories bound to a single database
// transaction. Returning an error from fn rolls everything back.
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case database.IsUniqueViolation(err):
		return errors.Join(ErrDuplicate, err)
	}
	return err
}
