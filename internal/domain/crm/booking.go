package crm

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lifeos/backend/internal/domain/shared"
)

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusDone      BookingStatus = "done"
)

// Booking is a scheduled session with a client. CalendarEventID is filled
// in once the outbox worker has created the event with the calendar
// provider.
type Booking struct {
	shared.OwnedAggregateRoot
	LeadID          *uuid.UUID      `gorm:"type:uuid;index" json:"lead_id,omitempty"`
	ClientName      string          `gorm:"type:varchar(200);not null" json:"client_name"`
	ClientEmail     string          `gorm:"type:varchar(255)" json:"client_email"`
	StartsAt        time.Time       `gorm:"not null;index" json:"starts_at"`
	DurationMinutes int             `gorm:"not null" json:"duration_minutes"`
	Price           decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
	Currency        string          `gorm:"type:varchar(3);default:'CZK'" json:"currency"`
	Status          BookingStatus   `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	Note            string          `gorm:"type:text" json:"note"`
	CalendarEventID string          `gorm:"type:varchar(255)" json:"calendar_event_id,omitempty"`
}

// TableName returns the table name for GORM
func (Booking) TableName() string {
	return "bookings"
}

// NewBooking creates a pending booking
func NewBooking(ownerID uuid.UUID, clientName string, startsAt time.Time, durationMinutes int) (*Booking, error) {
	if strings.TrimSpace(clientName) == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client name cannot be empty")
	}
	if durationMinutes <= 0 {
		return nil, shared.NewDomainError("INVALID_DURATION", "Duration must be positive")
	}
	return &Booking{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		ClientName:         clientName,
		StartsAt:           startsAt,
		DurationMinutes:    durationMinutes,
		Currency:           "CZK",
		Status:             BookingStatusPending,
		Price:              decimal.Zero,
	}, nil
}

// EndsAt returns the exclusive end of the booked slot
func (b *Booking) EndsAt() time.Time {
	return b.StartsAt.Add(time.Duration(b.DurationMinutes) * time.Minute)
}

// BusySlot is an occupied time range on an external calendar
type BusySlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Blocks reports whether the slot intersects the given time range
func (s BusySlot) Blocks(start, end time.Time) bool {
	return s.Start.Before(end) && start.Before(s.End)
}

// Overlaps reports whether two bookings occupy intersecting time ranges
func (b *Booking) Overlaps(other *Booking) bool {
	return b.StartsAt.Before(other.EndsAt()) && other.StartsAt.Before(b.EndsAt())
}

// SetPrice updates the session price. Negative prices are rejected.
func (b *Booking) SetPrice(price decimal.Decimal, currency string) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if len(currency) != 3 {
		return shared.NewDomainError("INVALID_PRICE", "Currency must be a 3-letter code")
	}
	b.Price = price
	b.Currency = strings.ToUpper(currency)
	b.Touch()
	b.IncrementVersion()
	return nil
}

// Confirm moves a pending booking to confirmed
func (b *Booking) Confirm() error {
	if b.Status != BookingStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending bookings can be confirmed")
	}
	b.Status = BookingStatusConfirmed
	b.Touch()
	b.IncrementVersion()
	return nil
}

// Cancel aborts a booking that has not happened yet
func (b *Booking) Cancel() error {
	if b.Status == BookingStatusDone || b.Status == BookingStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Booking is already finished")
	}
	b.Status = BookingStatusCancelled
	b.Touch()
	b.IncrementVersion()
	return nil
}

// MarkDone closes out a confirmed booking after the session took place
func (b *Booking) MarkDone() error {
	if b.Status != BookingStatusConfirmed {
		return shared.NewDomainError("INVALID_STATE", "Only confirmed bookings can be completed")
	}
	b.Status = BookingStatusDone
	b.Touch()
	b.IncrementVersion()
	return nil
}

// AttachCalendarEvent records the external calendar event id
func (b *Booking) AttachCalendarEvent(eventID string) {
	b.CalendarEventID = eventID
	b.Touch()
}
