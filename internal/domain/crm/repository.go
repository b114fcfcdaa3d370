package crm

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lifeos/backend/internal/domain/shared"
)

// LeadRepository provides access to leads, always scoped to an owner
type LeadRepository interface {
	shared.OwnedRepository[Lead]
	FindByStageForOwner(ctx context.Context, ownerID uuid.UUID, workflowID uuid.UUID, stage string) ([]Lead, error)
	FindActiveForOwner(ctx context.Context, ownerID uuid.UUID) ([]Lead, error)
}

// WorkflowRepository provides access to workflows
type WorkflowRepository interface {
	shared.OwnedRepository[Workflow]
}

// BookingRepository provides access to bookings
type BookingRepository interface {
	shared.OwnedRepository[Booking]
	// FindInRangeForOwner returns non-cancelled bookings intersecting
	// [from, to), ordered by start time. Used for availability checks.
	FindInRangeForOwner(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]Booking, error)
	FindUpcomingForOwner(ctx context.Context, ownerID uuid.UUID, within time.Duration) ([]Booking, error)
}
