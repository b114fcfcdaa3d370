package shared

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EmailPayload is the payload of an email side effect
type EmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Locale  string `json:"locale,omitempty"`
}

// Calendar event actions
const (
	CalendarActionCreate = "create"
	CalendarActionDelete = "delete"
)

// CalendarEventPayload is the payload of a calendar event side effect. The
// BookingID lets the worker write the created event's id back. A delete
// carries the provider event id instead of the event fields.
type CalendarEventPayload struct {
	Action    string    `json:"action"`
	BookingID uuid.UUID `json:"booking_id"`
	EventID   string    `json:"event_id,omitempty"`
	Title     string    `json:"title,omitempty"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Attendee  string    `json:"attendee,omitempty"`
}

// Task-board card actions
const (
	TaskboardActionCreate = "create"
	TaskboardActionMove   = "move"
)

// TaskboardCardPayload is the payload of a task-board card side effect. The
// LeadID lets the worker write the created card's id back; a move carries
// the existing card id and the target list.
type TaskboardCardPayload struct {
	Action      string    `json:"action"`
	LeadID      uuid.UUID `json:"lead_id"`
	CardID      string    `json:"card_id,omitempty"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	List        string    `json:"list,omitempty"`
}

// NewEmailEntry builds an outbox entry carrying an email
func NewEmailEntry(ownerID uuid.UUID, p EmailPayload) (*OutboxEntry, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return NewOutboxEntry(ownerID, SideEffectEmail, raw), nil
}

// NewCalendarEventEntry builds an outbox entry carrying a calendar event
func NewCalendarEventEntry(ownerID uuid.UUID, p CalendarEventPayload) (*OutboxEntry, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return NewOutboxEntry(ownerID, SideEffectCalendarEvent, raw), nil
}

// NewTaskboardCardEntry builds an outbox entry carrying a task-board card
func NewTaskboardCardEntry(ownerID uuid.UUID, p TaskboardCardPayload) (*OutboxEntry, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return NewOutboxEntry(ownerID, SideEffectTaskboardCard, raw), nil
}
