package content

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lifeos/backend/internal/domain/shared"
)

var subscriberEmailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Subscriber is a newsletter recipient using double opt-in: a subscription
// stays unconfirmed until the token from the confirmation email comes back.
type Subscriber struct {
	shared.OwnedAggregateRoot
	Email        string     `gorm:"type:varchar(255);not null;index" json:"email"`
	Locale       string     `gorm:"type:varchar(10);default:'cs'" json:"locale"`
	ConfirmToken string     `gorm:"type:varchar(64);uniqueIndex" json:"-"`
	ConfirmedAt  *time.Time `json:"confirmed_at,omitempty"`
}

// TableName returns the table name for GORM
func (Subscriber) TableName() string {
	return "subscribers"
}

// NewSubscriber creates an unconfirmed subscriber with a fresh token
func NewSubscriber(ownerID uuid.UUID, email, locale string) (*Subscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !subscriberEmailPattern.MatchString(email) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid email address")
	}
	token, err := newConfirmToken()
	if err != nil {
		return nil, err
	}
	if locale == "" {
		locale = "cs"
	}
	return &Subscriber{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Email:              email,
		Locale:             locale,
		ConfirmToken:       token,
	}, nil
}

// IsConfirmed reports whether the double opt-in completed
func (s *Subscriber) IsConfirmed() bool {
	return s.ConfirmedAt != nil
}

// Confirm completes the double opt-in with the emailed token
func (s *Subscriber) Confirm(token string, now time.Time) error {
	if s.IsConfirmed() {
		return shared.NewDomainError("INVALID_STATE", "Subscription is already confirmed")
	}
	if token == "" || token != s.ConfirmToken {
		return shared.ErrForbidden
	}
	s.ConfirmedAt = &now
	s.Touch()
	s.IncrementVersion()
	return nil
}

func newConfirmToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", shared.NewDomainError("INTERNAL", "Failed to generate token")
	}
	return hex.EncodeToString(buf), nil
}
