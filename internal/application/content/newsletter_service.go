package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lifeos/backend/internal/domain/content"
	"github.com/lifeos/backend/internal/domain/shared"
)

// NewsletterService manages double opt-in subscriptions and broadcasts.
// Every outgoing mail goes through the outbox.
type NewsletterService struct {
	subscriberRepo content.SubscriberRepository
	outboxRepo     shared.OutboxRepository
	publicBaseURL  string
}

// NewNewsletterService creates a new NewsletterService. publicBaseURL is the
// site origin the confirmation link points at.
func NewNewsletterService(subscriberRepo content.SubscriberRepository, outboxRepo shared.OutboxRepository, publicBaseURL string) *NewsletterService {
	return &NewsletterService{
		subscriberRepo: subscriberRepo,
		outboxRepo:     outboxRepo,
		publicBaseURL:  publicBaseURL,
	}
}

// Subscribe signs an address up and queues the confirmation email. Repeating
// a signup for a known address is a no-op so the endpoint leaks nothing
// about existing subscribers.
func (s *NewsletterService) Subscribe(ctx context.Context, ownerID uuid.UUID, req SubscribeRequest) (*SubscriberResponse, error) {
	existing, err := s.subscriberRepo.FindByEmailForOwner(ctx, ownerID, req.Email)
	if err == nil {
		resp := ToSubscriberResponse(existing)
		return &resp, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	subscriber, err := content.NewSubscriber(ownerID, req.Email, req.Locale)
	if err != nil {
		return nil, err
	}
	if err := s.subscriberRepo.Save(ctx, subscriber); err != nil {
		return nil, err
	}

	entry, err := shared.NewEmailEntry(ownerID, shared.EmailPayload{
		To:      subscriber.Email,
		Subject: confirmSubject(subscriber.Locale),
		HTML:    s.confirmBody(subscriber),
		Locale:  subscriber.Locale,
	})
	if err != nil {
		return nil, err
	}
	if err := s.outboxRepo.Save(ctx, entry); err != nil {
		return nil, err
	}

	resp := ToSubscriberResponse(subscriber)
	return &resp, nil
}

// Confirm completes the double opt-in with an emailed token
func (s *NewsletterService) Confirm(ctx context.Context, token string) (*SubscriberResponse, error) {
	subscriber, err := s.subscriberRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := subscriber.Confirm(token, time.Now()); err != nil {
		return nil, err
	}
	if err := s.subscriberRepo.Save(ctx, subscriber); err != nil {
		return nil, err
	}
	resp := ToSubscriberResponse(subscriber)
	return &resp, nil
}

// Unsubscribe removes a subscriber by token; unknown tokens succeed silently
func (s *NewsletterService) Unsubscribe(ctx context.Context, token string) error {
	subscriber, err := s.subscriberRepo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	return s.subscriberRepo.DeleteForOwner(ctx, subscriber.OwnerID, subscriber.ID)
}

// List returns the owner's subscribers
func (s *NewsletterService) List(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]SubscriberResponse, int64, error) {
	subscribers, err := s.subscriberRepo.FindAllForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.subscriberRepo.CountForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]SubscriberResponse, len(subscribers))
	for i := range subscribers {
		responses[i] = ToSubscriberResponse(&subscribers[i])
	}
	return responses, total, nil
}

// Delete removes one of the owner's subscribers
func (s *NewsletterService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.subscriberRepo.DeleteForOwner(ctx, ownerID, id)
}

// Broadcast queues an email for every confirmed subscriber
func (s *NewsletterService) Broadcast(ctx context.Context, ownerID uuid.UUID, req BroadcastRequest) (*BroadcastResponse, error) {
	subscribers, err := s.subscriberRepo.FindConfirmedForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	queued := 0
	for i := range subscribers {
		entry, err := shared.NewEmailEntry(ownerID, shared.EmailPayload{
			To:      subscribers[i].Email,
			Subject: req.Subject,
			HTML:    req.HTML + s.unsubscribeFooter(&subscribers[i]),
			Locale:  subscribers[i].Locale,
		})
		if err != nil {
			return nil, err
		}
		if err := s.outboxRepo.Save(ctx, entry); err != nil {
			return nil, err
		}
		queued++
	}
	return &BroadcastResponse{Queued: queued}, nil
}

func (s *NewsletterService) confirmBody(sub *content.Subscriber) string {
	link := fmt.Sprintf("%s/newsletter/confirm?token=%s", s.publicBaseURL, sub.ConfirmToken)
	if sub.Locale == "cs" {
		return fmt.Sprintf("<p>Potvrďte prosím odběr kliknutím na odkaz:</p><p><a href=%q>%s</a></p>", link, link)
	}
	return fmt.Sprintf("<p>Please confirm your subscription by clicking the link:</p><p><a href=%q>%s</a></p>", link, link)
}

func (s *NewsletterService) unsubscribeFooter(sub *content.Subscriber) string {
	link := fmt.Sprintf("%s/newsletter/unsubscribe?token=%s", s.publicBaseURL, sub.ConfirmToken)
	return fmt.Sprintf("<p><a href=%q>Unsubscribe</a></p>", link)
}

func confirmSubject(locale string) string {
	if locale == "cs" {
		return "Potvrďte odběr novinek"
	}
	return "Confirm your subscription"
}
