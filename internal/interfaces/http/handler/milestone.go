package handler

import (
	"github.com/gin-gonic/gin"

	appplanner "github.com/lifeos/backend/internal/application/planner"
)

// MilestoneHandler serves standalone milestone endpoints
type MilestoneHandler struct {
	BaseHandler
	milestoneService *appplanner.MilestoneService
}

// NewMilestoneHandler creates a new MilestoneHandler
func NewMilestoneHandler(milestoneService *appplanner.MilestoneService) *MilestoneHandler {
	return &MilestoneHandler{milestoneService: milestoneService}
}

// Complete marks a milestone reached
func (h *MilestoneHandler) Complete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid milestone ID")
		return
	}

	resp, err := h.milestoneService.Complete(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes a milestone
func (h *MilestoneHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid milestone ID")
		return
	}

	if err := h.milestoneService.Delete(c.Request.Context(), userID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers milestone routes
func (h *MilestoneHandler) RegisterRoutes(rg *gin.RouterGroup) {
	milestones := rg.Group("/milestones")
	{
		milestones.POST("/:id/complete", h.Complete)
		milestones.DELETE("/:id", h.Delete)
	}
}
