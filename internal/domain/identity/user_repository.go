package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the persistence interface for users
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindBySubject(ctx context.Context, subject string) (*User, error)
	Save(ctx context.Context, user *User) error
	// AllIDs returns the ids of every user; used by owner-agnostic batch jobs.
	AllIDs(ctx context.Context) ([]uuid.UUID, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
