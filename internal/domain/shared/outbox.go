package shared

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// OutboxRepository provides access to outbox entries
type OutboxRepository interface {
	Save(ctx context.Context, entry *OutboxEntry) error
	// FindDue returns up to limit entries ready for delivery, oldest first.
	FindDue(ctx context.Context, now time.Time, limit int) ([]OutboxEntry, error)
	FindByID(ctx context.Context, id uuid.UUID) (*OutboxEntry, error)
	CountByStatus(ctx context.Context, status OutboxStatus) (int64, error)
	// DeleteSentBefore prunes delivered entries older than the cutoff.
	DeleteSentBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// SideEffectKind identifies the kind of best-effort side effect an outbox
// entry carries. Side effects never block or fail the primary operation that
// enqueued them; delivery is retried by the outbox processor.
type SideEffectKind string

const (
	SideEffectEmail         SideEffectKind = "email"
	SideEffectCalendarEvent SideEffectKind = "calendar_event"
	SideEffectTaskboardCard SideEffectKind = "taskboard_card"
)

// OutboxStatus represents the delivery status of an outbox entry
type OutboxStatus string

const (
	OutboxStatusPending    OutboxStatus = "PENDING"
	OutboxStatusProcessing OutboxStatus = "PROCESSING"
	OutboxStatusSent       OutboxStatus = "SENT"
	OutboxStatusFailed     OutboxStatus = "FAILED"
	OutboxStatusDead       OutboxStatus = "DEAD"
)

// Default retry configuration
const (
	DefaultMaxRetries  = 5
	DefaultBaseBackoff = time.Second
)

// OutboxEntry is a durable record of a pending side effect (an email to send,
// a calendar event to create, a task-board card to mirror). Entries are
// written in the same transaction as the primary operation where possible and
// delivered asynchronously.
type OutboxEntry struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind        SideEffectKind
	Payload     []byte `gorm:"type:jsonb"`
	Status      OutboxStatus
	RetryCount  int
	MaxRetries  int
	LastError   string
	NextRetryAt *time.Time
	ProcessedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM
func (OutboxEntry) TableName() string {
	return "outbox_entries"
}

// NewOutboxEntry creates a pending outbox entry for an owner
func NewOutboxEntry(ownerID uuid.UUID, kind SideEffectKind, payload []byte) *OutboxEntry {
	now := time.Now()
	return &OutboxEntry{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		Kind:       kind,
		Payload:    payload,
		Status:     OutboxStatusPending,
		MaxRetries: DefaultMaxRetries,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// CanRetry returns true if the entry can be retried
func (e *OutboxEntry) CanRetry() bool {
	return e.Status == OutboxStatusFailed && e.RetryCount < e.MaxRetries
}

// MarkProcessing marks the entry as being processed
func (e *OutboxEntry) MarkProcessing() error {
	if e.Status != OutboxStatusPending && e.Status != OutboxStatusFailed {
		return errors.New("can only mark pending or failed entries as processing")
	}
	e.Status = OutboxStatusProcessing
	e.UpdatedAt = time.Now()
	return nil
}

// MarkSent marks the entry as successfully delivered
func (e *OutboxEntry) MarkSent() {
	now := time.Now()
	e.Status = OutboxStatusSent
	e.ProcessedAt = &now
	e.UpdatedAt = now
}

// MarkFailed records a delivery failure and schedules the next retry with
// exponential backoff. After MaxRetries failures the entry goes dead.
func (e *OutboxEntry) MarkFailed(deliveryErr error) {
	now := time.Now()
	e.RetryCount++
	e.LastError = deliveryErr.Error()
	e.UpdatedAt = now

	if e.RetryCount >= e.MaxRetries {
		e.Status = OutboxStatusDead
		e.NextRetryAt = nil
		return
	}

	e.Status = OutboxStatusFailed
	backoff := DefaultBaseBackoff * time.Duration(1<<uint(e.RetryCount))
	next := now.Add(backoff)
	e.NextRetryAt = &next
}

// IsDue reports whether the entry is ready for a delivery attempt
func (e *OutboxEntry) IsDue(now time.Time) bool {
	switch e.Status {
	case OutboxStatusPending:
		return true
	case OutboxStatusFailed:
		return e.NextRetryAt == nil || !e.NextRetryAt.After(now)
	default:
		return false
	}
}
