package handler

import (
	"github.com/gin-gonic/gin"

	appcontent "github.com/lifeos/backend/internal/application/content"
	"github.com/lifeos/backend/internal/interfaces/http/dto"
)

// NewsletterHandler serves the authenticated side of the newsletter:
// subscriber administration and broadcasts
type NewsletterHandler struct {
	BaseHandler
	newsletterService *appcontent.NewsletterService
}

// NewNewsletterHandler creates a new NewsletterHandler
func NewNewsletterHandler(newsletterService *appcontent.NewsletterService) *NewsletterHandler {
	return &NewsletterHandler{newsletterService: newsletterService}
}

// List lists subscribers with pagination
func (h *NewsletterHandler) List(c *gin.Context) {
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

	subscribers, total, err := h.newsletterService.List(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, subscribers, total, filter.Page, filter.PageSize)
}

// Broadcast queues a newsletter issue for every confirmed subscriber
func (h *NewsletterHandler) Broadcast(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appcontent.BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.newsletterService.Broadcast(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes a subscriber
func (h *NewsletterHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid subscriber ID")
		return
	}

	if err := h.newsletterService.Delete(c.Request.Context(), userID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers newsletter admin routes
func (h *NewsletterHandler) RegisterRoutes(rg *gin.RouterGroup) {
	newsletter := rg.Group("/newsletter")
	{
		newsletter.GET("/subscribers", h.List)
		newsletter.POST("/broadcast", h.Broadcast)
		newsletter.DELETE("/subscribers/:id", h.Delete)
	}
}
