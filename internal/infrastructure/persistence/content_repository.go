package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lifeos/backend/internal/domain/content"
	"github.com/lifeos/backend/internal/domain/shared"
)

// GormArticleRepository implements ArticleRepository using GORM
type GormArticleRepository struct {
	ownedRepository[content.Article]
}

// NewGormArticleRepository creates a new GormArticleRepository
func NewGormArticleRepository(db *gorm.DB) *GormArticleRepository {
	return &GormArticleRepository{newOwnedRepository[content.Article](db, "slug")}
}

// FindPublishedBySlug looks a published article up across all owners; the
// public site is not authenticated
func (r *GormArticleRepository) FindPublishedBySlug(ctx context.Context, slug string) (*content.Article, error) {
	var article content.Article
	err := r.db.WithContext(ctx).
		Where("slug = ? AND published = ?", slug, true).
		First(&article).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &article, nil
}

// FindPublished returns published articles across all owners
func (r *GormArticleRepository) FindPublished(ctx context.Context, filter shared.Filter) ([]content.Article, error) {
	var articles []content.Article
	query := r.db.WithContext(ctx).Model(&content.Article{}).Where("published = ?", true)
	query = applySearch(query, filter.Search, "slug")
	query = applyFilter(query, filter)
	if err := query.Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

// GormSubscriberRepository implements SubscriberRepository using GORM
type GormSubscriberRepository struct {
	ownedRepository[content.Subscriber]
}

// NewGormSubscriberRepository creates a new GormSubscriberRepository
func NewGormSubscriberRepository(db *gorm.DB) *GormSubscriberRepository {
	return &GormSubscriberRepository{newOwnedRepository[content.Subscriber](db, "email")}
}

// FindByEmailForOwner finds the owner's subscriber with the given email
func (r *GormSubscriberRepository) FindByEmailForOwner(ctx context.Context, ownerID uuid.UUID, email string) (*content.Subscriber, error) {
	var sub content.Subscriber
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND email = ?", ownerID, strings.ToLower(email)).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// FindByToken finds a subscriber by confirmation token
func (r *GormSubscriberRepository) FindByToken(ctx context.Context, token string) (*content.Subscriber, error) {
	var sub content.Subscriber
	err := r.db.WithContext(ctx).
		Where("confirm_token = ?", token).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// FindConfirmedForOwner returns the owner's confirmed subscribers
func (r *GormSubscriberRepository) FindConfirmedForOwner(ctx context.Context, ownerID uuid.UUID) ([]content.Subscriber, error) {
	var subs []content.Subscriber
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND confirmed_at IS NOT NULL", ownerID).
		Order("created_at ASC").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}
