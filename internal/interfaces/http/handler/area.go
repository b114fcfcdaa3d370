package handler

import (
	"github.com/gin-gonic/gin"

	appplanner "github.com/lifeos/backend/internal/application/planner"
	"github.com/lifeos/backend/internal/interfaces/http/dto"
)

// AreaHandler serves life-area endpoints
type AreaHandler struct {
	BaseHandler
	areaService *appplanner.AreaService
}

// NewAreaHandler creates a new AreaHandler
func NewAreaHandler(areaService *appplanner.AreaService) *AreaHandler {
	return &AreaHandler{areaService: areaService}
}

// Create creates a life area
func (h *AreaHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appplanner.CreateAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.areaService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get returns a single area
func (h *AreaHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid area ID")
		return
	}

	resp, err := h.areaService.Get(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List returns the user's areas
func (h *AreaHandler) List(c *gin.Context) {
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

	responses, total, err := h.areaService.List(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, responses, total, filter.Page, filter.PageSize)
}

// Update applies a partial update to an area
func (h *AreaHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid area ID")
		return
	}

	var req appplanner.UpdateAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.areaService.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes an area
func (h *AreaHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid area ID")
		return
	}

	if err := h.areaService.Delete(c.Request.Context(), userID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers area routes
func (h *AreaHandler) RegisterRoutes(rg *gin.RouterGroup) {
	areas := rg.Group("/areas")
	{
		areas.POST("", h.Create)
		areas.GET("", h.List)
		areas.GET("/:id", h.Get)
		areas.PUT("/:id", h.Update)
		areas.DELETE("/:id", h.Delete)
	}
}
