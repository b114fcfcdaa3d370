package content

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/lifeos/backend/internal/domain/content"
	"github.com/lifeos/backend/internal/domain/shared"
)

// ArticleService manages localized articles and their public rendering
type ArticleService struct {
	articleRepo content.ArticleRepository
}

// NewArticleService creates a new ArticleService
func NewArticleService(articleRepo content.ArticleRepository) *ArticleService {
	return &ArticleService{articleRepo: articleRepo}
}

// Create creates an unpublished article
func (s *ArticleService) Create(ctx context.Context, ownerID uuid.UUID, req CreateArticleRequest) (*ArticleResponse, error) {
	article, err := content.NewArticle(ownerID, req.Slug, content.LocalizedText(req.Title), content.LocalizedText(req.Body))
	if err != nil {
		return nil, err
	}
	if len(req.Tags) > 0 {
		if err := article.SetTags(req.Tags); err != nil {
			return nil, err
		}
	}
	if err := s.articleRepo.Save(ctx, article); err != nil {
		return nil, err
	}
	resp := ToArticleResponse(article)
	return &resp, nil
}

// Get returns one of the owner's articles with all translations
func (s *ArticleService) Get(ctx context.Context, ownerID, id uuid.UUID) (*ArticleResponse, error) {
	article, err := s.articleRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	resp := ToArticleResponse(article)
	return &resp, nil
}

// List returns the owner's articles
func (s *ArticleService) List(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]ArticleResponse, int64, error) {
	articles, err := s.articleRepo.FindAllForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.articleRepo.CountForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]ArticleResponse, len(articles))
	for i := range articles {
		responses[i] = ToArticleResponse(&articles[i])
	}
	return responses, total, nil
}

// Update applies a partial update to one of the owner's articles
func (s *ArticleService) Update(ctx context.Context, ownerID, id uuid.UUID, req UpdateArticleRequest) (*ArticleResponse, error) {
	article, err := s.articleRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	title := article.TitleText()
	body := article.BodyText()
	if req.Title != nil {
		title = content.LocalizedText(req.Title)
	}
	if req.Body != nil {
		body = content.LocalizedText(req.Body)
	}
	if req.Title != nil || req.Body != nil {
		if err := article.UpdateContent(title, body); err != nil {
			return nil, err
		}
	}
	if req.Tags != nil {
		if err := article.SetTags(req.Tags); err != nil {
			return nil, err
		}
	}

	if err := s.articleRepo.Save(ctx, article); err != nil {
		return nil, err
	}
	resp := ToArticleResponse(article)
	return &resp, nil
}

// Publish makes an article visible on the public site
func (s *ArticleService) Publish(ctx context.Context, ownerID, id uuid.UUID) (*ArticleResponse, error) {
	article, err := s.articleRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := article.Publish(time.Now()); err != nil {
		return nil, err
	}
	if err := s.articleRepo.Save(ctx, article); err != nil {
		return nil, err
	}
	resp := ToArticleResponse(article)
	return &resp, nil
}

// Unpublish takes an article off the public site
func (s *ArticleService) Unpublish(ctx context.Context, ownerID, id uuid.UUID) (*ArticleResponse, error) {
	article, err := s.articleRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := article.Unpublish(); err != nil {
		return nil, err
	}
	if err := s.articleRepo.Save(ctx, article); err != nil {
		return nil, err
	}
	resp := ToArticleResponse(article)
	return &resp, nil
}

// Delete removes one of the owner's articles
func (s *ArticleService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.articleRepo.DeleteForOwner(ctx, ownerID, id)
}

// GetPublic returns a published article rendered in the best language for
// the requested tag
func (s *ArticleService) GetPublic(ctx context.Context, slug, lang string) (*PublicArticleResponse, error) {
	article, err := s.articleRepo.FindPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return renderPublic(article, lang), nil
}

// ListPublic returns published articles rendered in the best language for
// the requested tag
func (s *ArticleService) ListPublic(ctx context.Context, lang string, filter shared.Filter) ([]PublicArticleResponse, error) {
	articles, err := s.articleRepo.FindPublished(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]PublicArticleResponse, len(articles))
	for i := range articles {
		responses[i] = *renderPublic(&articles[i], lang)
	}
	return responses, nil
}

func renderPublic(article *content.Article, lang string) *PublicArticleResponse {
	title := article.TitleText()
	var tags []string
	_ = json.Unmarshal([]byte(article.Tags), &tags)
	return &PublicArticleResponse{
		Slug:        article.Slug,
		Language:    lang,
		Title:       title.Pick(lang),
		Body:        article.BodyText().Pick(lang),
		Tags:        tags,
		PublishedAt: article.PublishedAt,
	}
}
