package crm

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lifeos/backend/internal/domain/crm"
	"github.com/lifeos/backend/internal/domain/game"
	"github.com/lifeos/backend/internal/domain/shared"
	"github.com/lifeos/backend/internal/infrastructure/logger"
)

// ProgressionAwarder hands out XP for handled bookings
type ProgressionAwarder interface {
	Award(ctx context.Context, ownerID uuid.UUID, amount int) (levelsGained int, err error)
}

// CalendarAvailability is the slice of the calendar client availability
// checks consult
type CalendarAvailability interface {
	FreeBusy(ctx context.Context, from, to time.Time) ([]crm.BusySlot, error)
}

// BookingService manages client bookings. Confirmation queues the calendar
// event and the confirmation email through the outbox; the only external
// call on the request path is the best-effort free/busy lookup.
type BookingService struct {
	bookingRepo crm.BookingRepository
	outboxRepo  shared.OutboxRepository
	awarder     ProgressionAwarder
	calendar    CalendarAvailability
}

// NewBookingService creates a new BookingService. The calendar may be nil;
// availability then comes from local bookings alone.
func NewBookingService(
	bookingRepo crm.BookingRepository,
	outboxRepo shared.OutboxRepository,
	awarder ProgressionAwarder,
	calendar CalendarAvailability,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		outboxRepo:  outboxRepo,
		awarder:     awarder,
		calendar:    calendar,
	}
}

// Create creates a pending booking after checking the slot is free
func (s *BookingService) Create(ctx context.Context, ownerID uuid.UUID, req CreateBookingRequest) (*BookingResponse, error) {
	booking, err := crm.NewBooking(ownerID, req.ClientName, req.StartsAt, req.DurationMinutes)
	if err != nil {
		return nil, err
	}
	booking.LeadID = req.LeadID
	booking.ClientEmail = req.ClientEmail
	booking.Note = req.Note
	if !req.Price.IsZero() || req.Currency != "" {
		currency := req.Currency
		if currency == "" {
			currency = booking.Currency
		}
		if err := booking.SetPrice(req.Price, currency); err != nil {
			return nil, err
		}
	}

	conflicts, err := s.findConflicts(ctx, ownerID, booking)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, shared.ErrAlreadyExists
	}
	if len(s.externalBusy(ctx, booking.StartsAt, booking.EndsAt())) > 0 {
		return nil, shared.ErrAlreadyExists
	}

	if err := s.bookingRepo.Save(ctx, booking); err != nil {
		return nil, err
	}
	resp := ToBookingResponse(booking)
	return &resp, nil
}

// Get returns one of the owner's bookings
func (s *BookingService) Get(ctx context.Context, ownerID, id uuid.UUID) (*BookingResponse, error) {
	booking, err := s.bookingRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	resp := ToBookingResponse(booking)
	return &resp, nil
}

// List returns the owner's bookings
func (s *BookingService) List(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]BookingResponse, int64, error) {
	bookings, err := s.bookingRepo.FindAllForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.bookingRepo.CountForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, err
	}
	return toBookingResponses(bookings), total, nil
}

// ListInRange returns the owner's non-cancelled bookings intersecting
// [from, to)
func (s *BookingService) ListInRange(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]BookingResponse, error) {
	bookings, err := s.bookingRepo.FindInRangeForOwner(ctx, ownerID, from, to)
	if err != nil {
		return nil, err
	}
	return toBookingResponses(bookings), nil
}

// ListUpcoming returns the owner's confirmed bookings starting within the
// given window
func (s *BookingService) ListUpcoming(ctx context.Context, ownerID uuid.UUID, within time.Duration) ([]BookingResponse, error) {
	bookings, err := s.bookingRepo.FindUpcomingForOwner(ctx, ownerID, within)
	if err != nil {
		return nil, err
	}
	return toBookingResponses(bookings), nil
}

// CheckAvailability reports whether a slot is free, which bookings conflict
// with it, and any busy ranges the external calendar reports
func (s *BookingService) CheckAvailability(ctx context.Context, ownerID uuid.UUID, req AvailabilityRequest) (*AvailabilityResponse, error) {
	candidate := &crm.Booking{
		StartsAt:        req.StartsAt,
		DurationMinutes: req.DurationMinutes,
	}
	conflicts, err := s.findConflicts(ctx, ownerID, candidate)
	if err != nil {
		return nil, err
	}
	busy := s.externalBusy(ctx, candidate.StartsAt, candidate.EndsAt())
	return &AvailabilityResponse{
		Available: len(conflicts) == 0 && len(busy) == 0,
		Conflicts: toBookingResponses(conflicts),
		Busy:      busy,
	}, nil
}

// externalBusy returns the external calendar's busy slots intersecting the
// range. The lookup is best effort; a provider failure is logged and
// treated as no busy slots.
func (s *BookingService) externalBusy(ctx context.Context, start, end time.Time) []crm.BusySlot {
	if s.calendar == nil {
		return nil
	}
	slots, err := s.calendar.FreeBusy(ctx, start, end)
	if err != nil {
		logger.FromContext(ctx).Warn("free/busy lookup failed", zap.Error(err))
		return nil
	}
	blocking := make([]crm.BusySlot, 0, len(slots))
	for _, slot := range slots {
		if slot.Blocks(start, end) {
			blocking = append(blocking, slot)
		}
	}
	return blocking
}

// Update applies a partial update to one of the owner's bookings. Moving the
// slot re-checks availability.
func (s *BookingService) Update(ctx context.Context, ownerID, id uuid.UUID, req UpdateBookingRequest) (*BookingResponse, error) {
	booking, err := s.bookingRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if req.ClientName != nil {
		booking.ClientName = *req.ClientName
		booking.Touch()
	}
	if req.ClientEmail != nil {
		booking.ClientEmail = *req.ClientEmail
		booking.Touch()
	}
	if req.Note != nil {
		booking.Note = *req.Note
		booking.Touch()
	}
	if req.Price != nil || req.Currency != nil {
		price := booking.Price
		if req.Price != nil {
			price = *req.Price
		}
		currency := booking.Currency
		if req.Currency != nil {
			currency = *req.Currency
		}
		if err := booking.SetPrice(price, currency); err != nil {
			return nil, err
		}
	}
	if req.StartsAt != nil || req.DurationMinutes != nil {
		if req.StartsAt != nil {
			booking.StartsAt = *req.StartsAt
		}
		if req.DurationMinutes != nil {
			booking.DurationMinutes = *req.DurationMinutes
		}
		booking.Touch()

		conflicts, err := s.findConflicts(ctx, ownerID, booking)
		if err != nil {
			return nil, err
		}
		if len(conflicts) > 0 {
			return nil, shared.ErrAlreadyExists
		}
		if len(s.externalBusy(ctx, booking.StartsAt, booking.EndsAt())) > 0 {
			return nil, shared.ErrAlreadyExists
		}
	}

	if err := s.bookingRepo.Save(ctx, booking); err != nil {
		return nil, err
	}
	resp := ToBookingResponse(booking)
	return &resp, nil
}

// Confirm confirms a pending booking and queues the calendar event and the
// confirmation email
func (s *BookingService) Confirm(ctx context.Context, ownerID, id uuid.UUID) (*BookingResponse, error) {
	booking, err := s.bookingRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := booking.Confirm(); err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Save(ctx, booking); err != nil {
		return nil, err
	}

	s.queueConfirmationEffects(ctx, ownerID, booking)

	resp := ToBookingResponse(booking)
	return &resp, nil
}

// Cancel cancels a booking
func (s *BookingService) Cancel(ctx context.Context, ownerID, id uuid.UUID) (*BookingResponse, error) {
	booking, err := s.bookingRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := booking.Cancel(); err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Save(ctx, booking); err != nil {
		return nil, err
	}

	if booking.CalendarEventID != "" {
		event, err := shared.NewCalendarEventEntry(ownerID, shared.CalendarEventPayload{
			Action:    shared.CalendarActionDelete,
			BookingID: booking.ID,
			EventID:   booking.CalendarEventID,
		})
		if err == nil {
			err = s.outboxRepo.Save(ctx, event)
		}
		if err != nil {
			logger.FromContext(ctx).Warn("failed to queue calendar event removal",
				zap.String("booking_id", booking.ID.String()),
				zap.Error(err))
		}
	}

	resp := ToBookingResponse(booking)
	return &resp, nil
}

// MarkDone closes out a confirmed booking and awards XP for handling it
func (s *BookingService) MarkDone(ctx context.Context, ownerID, id uuid.UUID) (*BookingResponse, error) {
	booking, err := s.bookingRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := booking.MarkDone(); err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Save(ctx, booking); err != nil {
		return nil, err
	}

	if s.awarder != nil {
		_, _ = s.awarder.Award(ctx, ownerID, game.XPBookingHandled)
	}

	resp := ToBookingResponse(booking)
	return &resp, nil
}

// QueueReminders enqueues a reminder email for every confirmed booking
// starting within the window. Duplicate suppression is the caller's job,
// the cron dedup window covers it.
func (s *BookingService) QueueReminders(ctx context.Context, ownerID uuid.UUID, within time.Duration) (int, error) {
	now := time.Now()
	bookings, err := s.bookingRepo.FindInRangeForOwner(ctx, ownerID, now, now.Add(within))
	if err != nil {
		return 0, err
	}

	queued := 0
	for i := range bookings {
		b := &bookings[i]
		if b.Status != crm.BookingStatusConfirmed || b.ClientEmail == "" {
			continue
		}
		email, err := shared.NewEmailEntry(ownerID, shared.EmailPayload{
			To:      b.ClientEmail,
			Subject: "Reminder: your upcoming session",
			HTML: fmt.Sprintf("<p>Hi %s,</p><p>this is a reminder of your session on %s.</p>",
				b.ClientName, b.StartsAt.Format("2.1.2006 15:04")),
		})
		if err == nil {
			err = s.outboxRepo.Save(ctx, email)
		}
		if err != nil {
			logger.FromContext(ctx).Warn("failed to queue booking reminder",
				zap.String("booking_id", b.ID.String()),
				zap.Error(err))
			continue
		}
		queued++
	}
	return queued, nil
}

// Delete removes one of the owner's bookings
func (s *BookingService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.bookingRepo.DeleteForOwner(ctx, ownerID, id)
}

func (s *BookingService) findConflicts(ctx context.Context, ownerID uuid.UUID, booking *crm.Booking) ([]crm.Booking, error) {
	others, err := s.bookingRepo.FindInRangeForOwner(ctx, ownerID, booking.StartsAt.Add(-24*time.Hour), booking.EndsAt())
	if err != nil {
		return nil, err
	}
	conflicts := make([]crm.Booking, 0)
	for i := range others {
		if others[i].ID == booking.ID {
			continue
		}
		if others[i].Status == crm.BookingStatusCancelled {
			continue
		}
		if booking.Overlaps(&others[i]) {
			conflicts = append(conflicts, others[i])
		}
	}
	return conflicts, nil
}

func (s *BookingService) queueConfirmationEffects(ctx context.Context, ownerID uuid.UUID, booking *crm.Booking) {
	log := logger.FromContext(ctx)

	event, err := shared.NewCalendarEventEntry(ownerID, shared.CalendarEventPayload{
		Action:    shared.CalendarActionCreate,
		BookingID: booking.ID,
		Title:     fmt.Sprintf("Session: %s", booking.ClientName),
		StartsAt:  booking.StartsAt,
		EndsAt:    booking.EndsAt(),
		Attendee:  booking.ClientEmail,
	})
	if err == nil {
		err = s.outboxRepo.Save(ctx, event)
	}
	if err != nil {
		log.Warn("failed to queue calendar event",
			zap.String("booking_id", booking.ID.String()),
			zap.Error(err))
	}

	if booking.ClientEmail == "" {
		return
	}
	email, err := shared.NewEmailEntry(ownerID, shared.EmailPayload{
		To:      booking.ClientEmail,
		Subject: "Your booking is confirmed",
		HTML: fmt.Sprintf("<p>Hi %s,</p><p>your session on %s is confirmed.</p>",
			booking.ClientName, booking.StartsAt.Format("2.1.2006 15:04")),
	})
	if err == nil {
		err = s.outboxRepo.Save(ctx, email)
	}
	if err != nil {
		log.Warn("failed to queue confirmation email",
			zap.String("booking_id", booking.ID.String()),
			zap.Error(err))
	}
}

func toBookingResponses(bookings []crm.Booking) []BookingResponse {
	responses := make([]BookingResponse, len(bookings))
	for i := range bookings {
		responses[i] = ToBookingResponse(&bookings[i])
	}
	return responses
}
