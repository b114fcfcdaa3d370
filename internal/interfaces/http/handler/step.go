package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	appplanner "github.com/lifeos/backend/internal/application/planner"
	"github.com/lifeos/backend/internal/interfaces/http/dto"
)

// StepHandler serves step and step-template endpoints
type StepHandler struct {
	BaseHandler
	stepService *appplanner.StepService
}

// NewStepHandler creates a new StepHandler
func NewStepHandler(stepService *appplanner.StepService) *StepHandler {
	return &StepHandler{stepService: stepService}
}

// Create creates a step, or a template when a recurrence rule is given
func (h *StepHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appplanner.CreateStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.stepService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get retrieves a single step
func (h *StepHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid step ID")
		return
	}

	resp, err := h.stepService.Get(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List lists steps with pagination
func (h *StepHandler) List(c *gin.Context) {
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

	steps, total, err := h.stepService.List(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, steps, total, filter.Page, filter.PageSize)
}

// ListTemplates lists the owner's recurring step templates
func (h *StepHandler) ListTemplates(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	steps, err := h.stepService.ListTemplates(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, steps)
}

// ListScheduled lists steps scheduled for a given day, defaulting to today
func (h *StepHandler) ListScheduled(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
			return
		}
		day = parsed
	}

	steps, err := h.stepService.ListScheduled(c.Request.Context(), userID, day)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, steps)
}

// Update updates a step
func (h *StepHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid step ID")
		return
	}

	var req appplanner.UpdateStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.stepService.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Complete marks a step done
func (h *StepHandler) Complete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid step ID")
		return
	}

	resp, err := h.stepService.Complete(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Reopen puts a completed step back into the open state
func (h *StepHandler) Reopen(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid step ID")
		return
	}

	resp, err := h.stepService.Reopen(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Expand materializes the next due instance of each of the owner's templates
func (h *StepHandler) Expand(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.stepService.ExpandAll(c.Request.Context(), userID, time.Now())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Delete removes a step
func (h *StepHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid step ID")
		return
	}

	if err := h.stepService.Delete(c.Request.Context(), userID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers step routes
func (h *StepHandler) RegisterRoutes(rg *gin.RouterGroup) {
	steps := rg.Group("/steps")
	{
		steps.POST("", h.Create)
		steps.GET("", h.List)
		steps.GET("/templates", h.ListTemplates)
		steps.GET("/scheduled", h.ListScheduled)
		steps.POST("/expand", h.Expand)
		steps.GET("/:id", h.Get)
		steps.PUT("/:id", h.Update)
		steps.DELETE("/:id", h.Delete)
		steps.POST("/:id/complete", h.Complete)
		steps.POST("/:id/reopen", h.Reopen)
	}
}
