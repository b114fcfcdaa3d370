package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lifeos/backend/internal/domain/crm"
	"github.com/lifeos/backend/internal/domain/shared"
)

// EmailSender is the slice of the mailer client the email handler needs
type EmailSender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// EventManager is the slice of the calendar client the calendar handler needs
type EventManager interface {
	CreateEvent(ctx context.Context, title string, startsAt, endsAt time.Time, attendee string) (string, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// CardManager is the slice of the task-board client the card handler needs
type CardManager interface {
	CreateCard(ctx context.Context, title, description, list string) (string, error)
	MoveCard(ctx context.Context, cardID, list string) error
}

// NewEmailHandler delivers email entries through the mailer
func NewEmailHandler(sender EmailSender) Handler {
	return HandlerFunc(func(ctx context.Context, entry *shared.OutboxEntry) error {
		var p shared.EmailPayload
		if err := json.Unmarshal(entry.Payload, &p); err != nil {
			return fmt.Errorf("malformed email payload: %w", err)
		}
		return sender.Send(ctx, p.To, p.Subject, p.HTML)
	})
}

// NewCalendarHandler creates or deletes the provider event; a create writes
// the event id back onto the booking
func NewCalendarHandler(events EventManager, bookings crm.BookingRepository) Handler {
	return HandlerFunc(func(ctx context.Context, entry *shared.OutboxEntry) error {
		var p shared.CalendarEventPayload
		if err := json.Unmarshal(entry.Payload, &p); err != nil {
			return fmt.Errorf("malformed calendar payload: %w", err)
		}

		if p.Action == shared.CalendarActionDelete {
			return events.DeleteEvent(ctx, p.EventID)
		}

		eventID, err := events.CreateEvent(ctx, p.Title, p.StartsAt, p.EndsAt, p.Attendee)
		if err != nil {
			return err
		}

		booking, err := bookings.FindByIDForOwner(ctx, entry.OwnerID, p.BookingID)
		if err != nil {
			// Booking deleted between enqueue and delivery; the event
			// exists but has nothing to attach to.
			return nil
		}
		booking.AttachCalendarEvent(eventID)
		return bookings.Save(ctx, booking)
	})
}

// NewTaskboardHandler mirrors a lead onto the external board; a create
// writes the card id back onto the lead
func NewTaskboardHandler(cards CardManager, leads crm.LeadRepository) Handler {
	return HandlerFunc(func(ctx context.Context, entry *shared.OutboxEntry) error {
		var p shared.TaskboardCardPayload
		if err := json.Unmarshal(entry.Payload, &p); err != nil {
			return fmt.Errorf("malformed task-board payload: %w", err)
		}

		if p.Action == shared.TaskboardActionMove {
			return cards.MoveCard(ctx, p.CardID, p.List)
		}

		cardID, err := cards.CreateCard(ctx, p.Title, p.Description, p.List)
		if err != nil {
			return err
		}

		lead, err := leads.FindByIDForOwner(ctx, entry.OwnerID, p.LeadID)
		if err != nil {
			// Lead deleted between enqueue and delivery; the card exists
			// but has nothing to attach to.
			return nil
		}
		lead.AttachTaskboardCard(cardID)
		return leads.Save(ctx, lead)
	})
}
