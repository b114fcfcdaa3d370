package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lifeos/backend/internal/domain/crm"
)

// GormLeadRepository implements LeadRepository using GORM
type GormLeadRepository struct {
	ownedRepository[crm.Lead]
}

// NewGormLeadRepository creates a new GormLeadRepository
func NewGormLeadRepository(db *gorm.DB) *GormLeadRepository {
	return &GormLeadRepository{newOwnedRepository[crm.Lead](db, "name", "email", "note")}
}

// FindByStageForOwner returns the owner's leads in a workflow stage
func (r *GormLeadRepository) FindByStageForOwner(ctx context.Context, ownerID uuid.UUID, workflowID uuid.UUID, stage string) ([]crm.Lead, error) {
	var leads []crm.Lead
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND workflow_id = ? AND stage = ?", ownerID, workflowID, stage).
		Order("updated_at DESC").
		Find(&leads).Error
	if err != nil {
		return nil, err
	}
	return leads, nil
}

// FindActiveForOwner returns the owner's non-archived leads
func (r *GormLeadRepository) FindActiveForOwner(ctx context.Context, ownerID uuid.UUID) ([]crm.Lead, error) {
	var leads []crm.Lead
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND archived = ?", ownerID, false).
		Order("updated_at DESC").
		Find(&leads).Error
	if err != nil {
		return nil, err
	}
	return leads, nil
}

// GormWorkflowRepository implements WorkflowRepository using GORM
type GormWorkflowRepository struct {
	ownedRepository[crm.Workflow]
}

// NewGormWorkflowRepository creates a new GormWorkflowRepository
func NewGormWorkflowRepository(db *gorm.DB) *GormWorkflowRepository {
	return &GormWorkflowRepository{newOwnedRepository[crm.Workflow](db, "name")}
}

// GormBookingRepository implements BookingRepository using GORM
type GormBookingRepository struct {
	ownedRepository[crm.Booking]
}

// NewGormBookingRepository creates a new GormBookingRepository
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{newOwnedRepository[crm.Booking](db, "client_name", "client_email")}
}

// FindInRangeForOwner returns non-cancelled bookings intersecting [from, to),
// ordered by start time
func (r *GormBookingRepository) FindInRangeForOwner(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]crm.Booking, error) {
	// End times are derived, not stored, so pull a widened window and
	// filter precisely in memory. No booking runs longer than a day.
	var candidates []crm.Booking
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND status <> ?", ownerID, crm.BookingStatusCancelled).
		Where("starts_at < ? AND starts_at > ?", to, from.Add(-24*time.Hour)).
		Order("starts_at ASC").
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}
	bookings := make([]crm.Booking, 0, len(candidates))
	for _, b := range candidates {
		if b.EndsAt().After(from) {
			bookings = append(bookings, b)
		}
	}
	return bookings, nil
}

// FindUpcomingForOwner returns confirmed bookings starting within the window
func (r *GormBookingRepository) FindUpcomingForOwner(ctx context.Context, ownerID uuid.UUID, within time.Duration) ([]crm.Booking, error) {
	now := time.Now()
	var bookings []crm.Booking
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND status = ? AND starts_at >= ? AND starts_at < ?",
			ownerID, crm.BookingStatusConfirmed, now, now.Add(within)).
		Order("starts_at ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}
