package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appcontent "github.com/lifeos/backend/internal/application/content"
	"github.com/lifeos/backend/internal/domain/content"
	"github.com/lifeos/backend/internal/domain/shared"
)

// MockArticleRepository is a mock implementation of content.ArticleRepository
type MockArticleRepository struct {
	mock.Mock
}

func (m *MockArticleRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*content.Article, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.Article), args.Error(1)
}

func (m *MockArticleRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]content.Article, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).([]content.Article), args.Error(1)
}

func (m *MockArticleRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockArticleRepository) Save(ctx context.Context, article *content.Article) error {
	args := m.Called(ctx, article)
	return args.Error(0)
}

func (m *MockArticleRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockArticleRepository) FindPublishedBySlug(ctx context.Context, slug string) (*content.Article, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.Article), args.Error(1)
}

func (m *MockArticleRepository) FindPublished(ctx context.Context, filter shared.Filter) ([]content.Article, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]content.Article), args.Error(1)
}

// MockSubscriberRepository is a mock implementation of content.SubscriberRepository
type MockSubscriberRepository struct {
	mock.Mock
}

func (m *MockSubscriberRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*content.Subscriber, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.Subscriber), args.Error(1)
}

func (m *MockSubscriberRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]content.Subscriber, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).([]content.Subscriber), args.Error(1)
}

func (m *MockSubscriberRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubscriberRepository) Save(ctx context.Context, subscriber *content.Subscriber) error {
	args := m.Called(ctx, subscriber)
	return args.Error(0)
}

func (m *MockSubscriberRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockSubscriberRepository) FindByEmailForOwner(ctx context.Context, ownerID uuid.UUID, email string) (*content.Subscriber, error) {
	args := m.Called(ctx, ownerID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.Subscriber), args.Error(1)
}

func (m *MockSubscriberRepository) FindByToken(ctx context.Context, token string) (*content.Subscriber, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.Subscriber), args.Error(1)
}

func (m *MockSubscriberRepository) FindConfirmedForOwner(ctx context.Context, ownerID uuid.UUID) ([]content.Subscriber, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]content.Subscriber), args.Error(1)
}

// MockOutboxRepository records queued side effects
type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) Save(ctx context.Context, entry *shared.OutboxEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockOutboxRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]shared.OutboxEntry, error) {
	args := m.Called(ctx, now, limit)
	return args.Get(0).([]shared.OutboxEntry), args.Error(1)
}

func (m *MockOutboxRepository) FindByID(ctx context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.OutboxEntry), args.Error(1)
}

func (m *MockOutboxRepository) CountByStatus(ctx context.Context, status shared.OutboxStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOutboxRepository) DeleteSentBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func newPublicRouter(articleRepo *MockArticleRepository, subscriberRepo *MockSubscriberRepository, outboxRepo *MockOutboxRepository, siteOwnerID uuid.UUID) *gin.Engine {
	articleService := appcontent.NewArticleService(articleRepo)
	newsletterService := appcontent.NewNewsletterService(subscriberRepo, outboxRepo, "https://example.com")
	h := NewPublicHandler(articleService, newsletterService, siteOwnerID)

	router := gin.New()
	api := router.Group("")
	h.RegisterRoutes(api)
	return router
}

func publishedArticle(t *testing.T, slug string) *content.Article {
	t.Helper()
	article, err := content.NewArticle(uuid.New(), slug,
		content.LocalizedText{"cs": "Titulek", "en": "Title"},
		content.LocalizedText{"cs": "Obsah", "en": "Body"})
	require.NoError(t, err)
	require.NoError(t, article.Publish(time.Now()))
	return article
}

func TestPublicArticlePicksLanguageFromQuery(t *testing.T) {
	articleRepo := new(MockArticleRepository)
	articleRepo.On("FindPublishedBySlug", mock.Anything, "first-post").
		Return(publishedArticle(t, "first-post"), nil)
	router := newPublicRouter(articleRepo, new(MockSubscriberRepository), new(MockOutboxRepository), uuid.New())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/public/articles/first-post?lang=en", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Title")
	assert.NotContains(t, w.Body.String(), "Titulek")
}

func TestPublicArticleNegotiatesAcceptLanguage(t *testing.T) {
	articleRepo := new(MockArticleRepository)
	articleRepo.On("FindPublishedBySlug", mock.Anything, "first-post").
		Return(publishedArticle(t, "first-post"), nil)
	router := newPublicRouter(articleRepo, new(MockSubscriberRepository), new(MockOutboxRepository), uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/public/articles/first-post", nil)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Title")
}

func TestPublicArticleDefaultsToCzech(t *testing.T) {
	articleRepo := new(MockArticleRepository)
	articleRepo.On("FindPublishedBySlug", mock.Anything, "first-post").
		Return(publishedArticle(t, "first-post"), nil)
	router := newPublicRouter(articleRepo, new(MockSubscriberRepository), new(MockOutboxRepository), uuid.New())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/public/articles/first-post", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Titulek")
}

func TestPublicSubscribeQueuesConfirmation(t *testing.T) {
	siteOwnerID := uuid.New()
	subscriberRepo := new(MockSubscriberRepository)
	subscriberRepo.On("FindByEmailForOwner", mock.Anything, siteOwnerID, "jana@example.com").
		Return(nil, shared.ErrNotFound)
	subscriberRepo.On("Save", mock.Anything, mock.AnythingOfType("*content.Subscriber")).Return(nil)
	outboxRepo := new(MockOutboxRepository)
	outboxRepo.On("Save", mock.Anything, mock.AnythingOfType("*shared.OutboxEntry")).Return(nil)
	router := newPublicRouter(new(MockArticleRepository), subscriberRepo, outboxRepo, siteOwnerID)

	body, _ := json.Marshal(map[string]string{"email": "jana@example.com", "locale": "cs"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/public/newsletter/subscribe", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	subscriberRepo.AssertExpectations(t)
	outboxRepo.AssertExpectations(t)
}

func TestPublicSubscribeWithoutSiteOwnerUnavailable(t *testing.T) {
	subscriberRepo := new(MockSubscriberRepository)
	router := newPublicRouter(new(MockArticleRepository), subscriberRepo, new(MockOutboxRepository), uuid.Nil)

	body, _ := json.Marshal(map[string]string{"email": "jana@example.com"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/public/newsletter/subscribe", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	subscriberRepo.AssertNotCalled(t, "Save")
}

func TestPublicConfirmRequiresToken(t *testing.T) {
	router := newPublicRouter(new(MockArticleRepository), new(MockSubscriberRepository), new(MockOutboxRepository), uuid.New())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/public/newsletter/confirm", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResolveLanguageQueryBeatsHeader(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/?lang=cs", nil)
	c.Request.Header.Set("Accept-Language", "en")

	assert.Equal(t, "cs", resolveLanguage(c))
}
