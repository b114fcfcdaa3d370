package content

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/lifeos/backend/internal/domain/content"
)

// =============================================================================
// Article DTOs
// =============================================================================

// CreateArticleRequest represents a request to create an article
type CreateArticleRequest struct {
	Slug  string            `json:"slug" binding:"required,min=1,max=200"`
	Title map[string]string `json:"title" binding:"required,min=1"`
	Body  map[string]string `json:"body" binding:"required,min=1"`
	Tags  []string          `json:"tags" binding:"omitempty,dive,max=50"`
}

// UpdateArticleRequest represents a partial update to an article
type UpdateArticleRequest struct {
	Title map[string]string `json:"title" binding:"omitempty,min=1"`
	Body  map[string]string `json:"body" binding:"omitempty,min=1"`
	Tags  []string          `json:"tags" binding:"omitempty,dive,max=50"`
}

// ArticleResponse represents an article with all its translations
type ArticleResponse struct {
	ID          uuid.UUID         `json:"id"`
	Slug        string            `json:"slug"`
	Title       map[string]string `json:"title"`
	Body        map[string]string `json:"body"`
	Tags        []string          `json:"tags"`
	Published   bool              `json:"published"`
	PublishedAt *time.Time        `json:"published_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ToArticleResponse converts a domain Article to ArticleResponse
func ToArticleResponse(a *content.Article) ArticleResponse {
	var tags []string
	_ = json.Unmarshal([]byte(a.Tags), &tags)
	return ArticleResponse{
		ID:          a.ID,
		Slug:        a.Slug,
		Title:       a.TitleText(),
		Body:        a.BodyText(),
		Tags:        tags,
		Published:   a.Published,
		PublishedAt: a.PublishedAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// PublicArticleResponse is an article rendered in one language for the
// public site
type PublicArticleResponse struct {
	Slug        string     `json:"slug"`
	Language    string     `json:"language"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	Tags        []string   `json:"tags"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// =============================================================================
// Newsletter DTOs
// =============================================================================

// SubscribeRequest represents a public newsletter signup
type SubscribeRequest struct {
	Email  string `json:"email" binding:"required,email,max=255"`
	Locale string `json:"locale" binding:"omitempty,max=10"`
}

// BroadcastRequest sends an email to every confirmed subscriber
type BroadcastRequest struct {
	Subject string `json:"subject" binding:"required,min=1,max=200"`
	HTML    string `json:"html" binding:"required,min=1"`
}

// BroadcastResponse reports how many subscribers were queued
type BroadcastResponse struct {
	Queued int `json:"queued"`
}

// SubscriberResponse represents a subscriber in API responses
type SubscriberResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Locale      string     `json:"locale"`
	Confirmed   bool       `json:"confirmed"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToSubscriberResponse converts a domain Subscriber to SubscriberResponse
func ToSubscriberResponse(s *content.Subscriber) SubscriberResponse {
	return SubscriberResponse{
		ID:          s.ID,
		Email:       s.Email,
		Locale:      s.Locale,
		Confirmed:   s.IsConfirmed(),
		ConfirmedAt: s.ConfirmedAt,
		CreatedAt:   s.CreatedAt,
	}
}
