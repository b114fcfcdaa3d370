package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	appplanner "github.com/lifeos/backend/internal/application/planner"
	"github.com/lifeos/backend/internal/interfaces/http/dto"
)

// GoalHandler serves goal and focus-list endpoints
type GoalHandler struct {
	BaseHandler
	goalService      *appplanner.GoalService
	milestoneService *appplanner.MilestoneService
}

// NewGoalHandler creates a new GoalHandler
func NewGoalHandler(goalService *appplanner.GoalService, milestoneService *appplanner.MilestoneService) *GoalHandler {
	return &GoalHandler{goalService: goalService, milestoneService: milestoneService}
}

// Create creates a goal in the backlog
func (h *GoalHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appplanner.CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.goalService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get returns a single goal
func (h *GoalHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid goal ID")
		return
	}

	resp, err := h.goalService.Get(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List returns the user's goals
func (h *GoalHandler) List(c *gin.Context) {
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

	responses, total, err := h.goalService.List(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, responses, total, filter.Page, filter.PageSize)
}

// ListFocused returns the focus list, rank ascending
func (h *GoalHandler) ListFocused(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	responses, err := h.goalService.ListFocused(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, responses)
}

// Update applies a partial update to a goal
func (h *GoalHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid goal ID")
		return
	}

	var req appplanner.UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.goalService.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Complete marks a goal achieved
func (h *GoalHandler) Complete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid goal ID")
		return
	}

	resp, err := h.goalService.Complete(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Promote moves a goal into the focus list
func (h *GoalHandler) Promote(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid goal ID")
		return
	}

	// An empty body means "append at the end of the focus list".
	var req appplanner.PromoteGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.ValidationError(c, err)
		return
	}

	responses, err := h.goalService.Promote(c.Request.Context(), userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, responses)
}

// Demote moves a goal back to the backlog
func (h *GoalHandler) Demote(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid goal ID")
		return
	}

	responses, err := h.goalService.Demote(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, responses)
}

// Reorder replaces the focus list ordering
func (h *GoalHandler) Reorder(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appplanner.ReorderFocusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	responses, err := h.goalService.Reorder(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, responses)
}

// Delete removes a goal
func (h *GoalHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid goal ID")
		return
	}

	if err := h.goalService.Delete(c.Request.Context(), userID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateMilestone adds a milestone under a goal
func (h *GoalHandler) CreateMilestone(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	goalID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid goal ID")
		return
	}

	var req appplanner.CreateMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.milestoneService.Create(c.Request.Context(), userID, goalID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListMilestones returns the milestones of a goal
func (h *GoalHandler) ListMilestones(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	goalID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid goal ID")
		return
	}

	responses, err := h.milestoneService.ListByGoal(c.Request.Context(), userID, goalID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, responses)
}

// RegisterRoutes registers goal and focus routes
func (h *GoalHandler) RegisterRoutes(rg *gin.RouterGroup) {
	goals := rg.Group("/goals")
	{
		goals.POST("", h.Create)
		goals.GET("", h.List)
		goals.GET("/:id", h.Get)
		goals.PUT("/:id", h.Update)
		goals.DELETE("/:id", h.Delete)
		goals.POST("/:id/complete", h.Complete)
		goals.POST("/:id/promote", h.Promote)
		goals.POST("/:id/demote", h.Demote)
		goals.POST("/:id/milestones", h.CreateMilestone)
		goals.GET("/:id/milestones", h.ListMilestones)
	}
	focus := rg.Group("/focus")
	{
		focus.GET("", h.ListFocused)
		focus.PUT("", h.Reorder)
	}
}
