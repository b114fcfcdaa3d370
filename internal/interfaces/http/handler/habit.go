package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	appplanner "github.com/lifeos/backend/internal/application/planner"
	"github.com/lifeos/backend/internal/interfaces/http/dto"
)

// HabitHandler serves habit endpoints
type HabitHandler struct {
	BaseHandler
	habitService *appplanner.HabitService
}

// NewHabitHandler creates a new HabitHandler
func NewHabitHandler(habitService *appplanner.HabitService) *HabitHandler {
	return &HabitHandler{habitService: habitService}
}

// Create creates a habit
func (h *HabitHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appplanner.CreateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.habitService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get retrieves a single habit
func (h *HabitHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid habit ID")
		return
	}

	resp, err := h.habitService.Get(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List lists habits with pagination
func (h *HabitHandler) List(c *gin.Context) {
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

	habits, total, err := h.habitService.List(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, habits, total, filter.Page, filter.PageSize)
}

// ListDue lists habits due on a given day, defaulting to today
func (h *HabitHandler) ListDue(c *gin.Context) {
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

	habits, err := h.habitService.ListDue(c.Request.Context(), userID, day)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, habits)
}

// Update updates a habit
func (h *HabitHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid habit ID")
		return
	}

	var req appplanner.UpdateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.habitService.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CheckIn records today's check-in for a habit
func (h *HabitHandler) CheckIn(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid habit ID")
		return
	}

	resp, err := h.habitService.CheckIn(c.Request.Context(), userID, id, time.Now())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes a habit
func (h *HabitHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid habit ID")
		return
	}

	if err := h.habitService.Delete(c.Request.Context(), userID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers habit routes
func (h *HabitHandler) RegisterRoutes(rg *gin.RouterGroup) {
	habits := rg.Group("/habits")
	{
		habits.POST("", h.Create)
		habits.GET("", h.List)
		habits.GET("/due", h.ListDue)
		habits.GET("/:id", h.Get)
		habits.PUT("/:id", h.Update)
		habits.DELETE("/:id", h.Delete)
		habits.POST("/:id/checkin", h.CheckIn)
	}
}
