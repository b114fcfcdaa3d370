package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/text/language"

	appcontent "github.com/lifeos/backend/internal/application/content"
	"github.com/lifeos/backend/internal/interfaces/http/dto"
)

// supportedLanguages drives Accept-Language negotiation for public pages.
// The first entry is the fallback.
var supportedLanguages = language.NewMatcher([]language.Tag{
	language.Czech,
	language.English,
})

// PublicHandler serves the unauthenticated site surface: published
// articles and the newsletter opt-in flow
type PublicHandler struct {
	BaseHandler
	articleService    *appcontent.ArticleService
	newsletterService *appcontent.NewsletterService
	siteOwnerID       uuid.UUID
}

// NewPublicHandler creates a new PublicHandler. siteOwnerID identifies the
// account whose newsletter the public signup feeds.
func NewPublicHandler(articleService *appcontent.ArticleService, newsletterService *appcontent.NewsletterService, siteOwnerID uuid.UUID) *PublicHandler {
	return &PublicHandler{
		articleService:    articleService,
		newsletterService: newsletterService,
		siteOwnerID:       siteOwnerID,
	}
}

// resolveLanguage picks the content language from the lang query parameter,
// falling back to Accept-Language negotiation
func resolveLanguage(c *gin.Context) string {
	if lang := c.Query("lang"); lang != "" {
		return lang
	}
	tags, _, err := language.ParseAcceptLanguage(c.GetHeader("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return "cs"
	}
	tag, _, _ := supportedLanguages.Match(tags...)
	base, _ := tag.Base()
	return base.String()
}

// ListArticles lists published articles in the requested language
func (h *PublicHandler) ListArticles(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	articles, err := h.articleService.ListPublic(c.Request.Context(), resolveLanguage(c), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, articles)
}

// GetArticle renders one published article by slug
func (h *PublicHandler) GetArticle(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		h.BadRequest(c, "Missing article slug")
		return
	}

	article, err := h.articleService.GetPublic(c.Request.Context(), slug, resolveLanguage(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, article)
}

// Subscribe signs an address up for the newsletter. Without a configured
// site owner there is no list to join.
func (h *PublicHandler) Subscribe(c *gin.Context) {
	if h.siteOwnerID == uuid.Nil {
		c.JSON(http.StatusServiceUnavailable,
			dto.NewErrorResponse(dto.ErrCodeUnavailable, "Newsletter signup is not available"))
		return
	}

	var req appcontent.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.newsletterService.Subscribe(c.Request.Context(), h.siteOwnerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ConfirmSubscription completes the double opt-in with the emailed token
func (h *PublicHandler) ConfirmSubscription(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		h.BadRequest(c, "Missing confirmation token")
		return
	}

	resp, err := h.newsletterService.Confirm(c.Request.Context(), token)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Unsubscribe removes an address from the list
func (h *PublicHandler) Unsubscribe(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		h.BadRequest(c, "Missing unsubscribe token")
		return
	}

	if err := h.newsletterService.Unsubscribe(c.Request.Context(), token); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers the public routes
func (h *PublicHandler) RegisterRoutes(rg *gin.RouterGroup) {
	public := rg.Group("/public")
	{
		public.GET("/articles", h.ListArticles)
		public.GET("/articles/:slug", h.GetArticle)
		public.POST("/newsletter/subscribe", h.Subscribe)
		public.GET("/newsletter/confirm", h.ConfirmSubscription)
		public.GET("/newsletter/unsubscribe", h.Unsubscribe)
	}
}
