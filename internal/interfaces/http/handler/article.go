package handler

import (
	"github.com/gin-gonic/gin"

	appcontent "github.com/lifeos/backend/internal/application/content"
	"github.com/lifeos/backend/internal/interfaces/http/dto"
)

// ArticleHandler serves the authoring side of localized articles
type ArticleHandler struct {
	BaseHandler
	articleService *appcontent.ArticleService
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(articleService *appcontent.ArticleService) *ArticleHandler {
	return &ArticleHandler{articleService: articleService}
}

// Create creates an article draft
func (h *ArticleHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appcontent.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.articleService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get retrieves a single article with all translations
func (h *ArticleHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid article ID")
		return
	}

	resp, err := h.articleService.Get(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List lists articles with pagination
func (h *ArticleHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	filter := req.ToFilter()

	articles, total, err := h.articleService.List(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, articles, total, filter.Page, filter.PageSize)
}

// Update updates an article
func (h *ArticleHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid article ID")
		return
	}

	var req appcontent.UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.articleService.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Publish makes an article publicly visible
func (h *ArticleHandler) Publish(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid article ID")
		return
	}

	resp, err := h.articleService.Publish(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Unpublish takes an article off the public site
func (h *ArticleHandler) Unpublish(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid article ID")
		return
	}

	resp, err := h.articleService.Unpublish(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes an article
func (h *ArticleHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid article ID")
		return
	}

	if err := h.articleService.Delete(c.Request.Context(), userID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers article routes
func (h *ArticleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	articles := rg.Group("/articles")
	{
		articles.POST("", h.Create)
		articles.GET("", h.List)
		articles.GET("/:id", h.Get)
		articles.PUT("/:id", h.Update)
		articles.DELETE("/:id", h.Delete)
		articles.POST("/:id/publish", h.Publish)
		articles.POST("/:id/unpublish", h.Unpublish)
	}
}
