package identity

import (
	"crypto/rand"
	"regexp"
	"strings"
	"time"

	"github.com/lifeos/backend/internal/domain/shared"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User is a local account mirroring an identity-provider principal. Users are
// auto-provisioned on the first authenticated request that carries an unknown
// provider subject; the provider remains the source of truth for credentials.
type User struct {
	shared.BaseAggregateRoot
	Subject     string `gorm:"type:varchar(200);not null;uniqueIndex"`
	Email       string `gorm:"type:varchar(200);not null;index"`
	DisplayName string `gorm:"type:varchar(200)"`
	Admin       bool   `gorm:"not null;default:false"`
	Settings    string `gorm:"type:jsonb;default:'{}'"`
	// KeySalt seeds per-user key derivation for field encryption.
	KeySalt     []byte `gorm:"type:bytea;not null"`
	LastSeenAt  time.Time
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser provisions a local user for a provider subject
func NewUser(subject, email, displayName string) (*User, error) {
	if strings.TrimSpace(subject) == "" {
		return nil, shared.NewDomainError("INVALID_SUBJECT", "Provider subject cannot be empty")
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Subject:           subject,
		Email:             strings.ToLower(email),
		DisplayName:       displayName,
		Settings:          "{}",
		KeySalt:           salt,
		LastSeenAt:        time.Now(),
	}, nil
}

// Refresh updates the mutable profile fields from a fresh provider token
func (u *User) Refresh(email, displayName string) error {
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
		u.Email = strings.ToLower(email)
	}
	if displayName != "" {
		u.DisplayName = displayName
	}
	u.LastSeenAt = time.Now()
	u.Touch()
	u.IncrementVersion()
	return nil
}

// SetSettings replaces the settings blob
func (u *User) SetSettings(settings string) error {
	if settings == "" {
		settings = "{}"
	}
	trimmed := strings.TrimSpace(settings)
	if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
		return shared.NewDomainError("INVALID_SETTINGS", "Settings must be a JSON object")
	}
	u.Settings = trimmed
	u.Touch()
	u.IncrementVersion()
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
