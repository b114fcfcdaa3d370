package content

import (
	"context"

	"github.com/google/uuid"

	"github.com/lifeos/backend/internal/domain/shared"
)

// ArticleRepository provides access to articles
type ArticleRepository interface {
	shared.OwnedRepository[Article]
	// FindPublishedBySlug looks up across all owners; the public site is
	// not authenticated.
	FindPublishedBySlug(ctx context.Context, slug string) (*Article, error)
	FindPublished(ctx context.Context, filter shared.Filter) ([]Article, error)
}

// SubscriberRepository provides access to newsletter subscribers
type SubscriberRepository interface {
	shared.OwnedRepository[Subscriber]
	FindByEmailForOwner(ctx context.Context, ownerID uuid.UUID, email string) (*Subscriber, error)
	FindByToken(ctx context.Context, token string) (*Subscriber, error)
	FindConfirmedForOwner(ctx context.Context, ownerID uuid.UUID) ([]Subscriber, error)
}
