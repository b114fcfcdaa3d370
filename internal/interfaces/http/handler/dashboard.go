package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	appcrm "github.com/lifeos/backend/internal/application/crm"
	appplanner "github.com/lifeos/backend/internal/application/planner"
)

// upcomingWindow bounds how far ahead the dashboard looks for bookings
const upcomingWindow = 7 * 24 * time.Hour

// DashboardHandler aggregates the day view served to the app's home screen
type DashboardHandler struct {
	BaseHandler
	stepService    *appplanner.StepService
	habitService   *appplanner.HabitService
	goalService    *appplanner.GoalService
	bookingService *appcrm.BookingService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(
	stepService *appplanner.StepService,
	habitService *appplanner.HabitService,
	goalService *appplanner.GoalService,
	bookingService *appcrm.BookingService,
) *DashboardHandler {
	return &DashboardHandler{
		stepService:    stepService,
		habitService:   habitService,
		goalService:    goalService,
		bookingService: bookingService,
	}
}

// DashboardResponse is the aggregated day view
type DashboardResponse struct {
	Date             string                       `json:"date"`
	ScheduledSteps   []appplanner.StepResponse    `json:"scheduled_steps"`
	HabitsDue        []appplanner.HabitResponse   `json:"habits_due"`
	FocusedGoals     []appplanner.GoalResponse    `json:"focused_goals"`
	UpcomingBookings []appcrm.BookingResponse     `json:"upcoming_bookings"`
}

// Today assembles the dashboard. The four sections load concurrently and
// any single failure fails the whole request.
func (h *DashboardHandler) Today(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	now := time.Now()
	resp := DashboardResponse{Date: now.Format("2006-01-02")}

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		steps, err := h.stepService.ListScheduled(ctx, userID, now)
		if err != nil {
			return err
		}
		resp.ScheduledSteps = steps
		return nil
	})
	g.Go(func() error {
		habits, err := h.habitService.ListDue(ctx, userID, now)
		if err != nil {
			return err
		}
		resp.HabitsDue = habits
		return nil
	})
	g.Go(func() error {
		goals, err := h.goalService.ListFocused(ctx, userID)
		if err != nil {
			return err
		}
		resp.FocusedGoals = goals
		return nil
	})
	g.Go(func() error {
		bookings, err := h.bookingService.ListUpcoming(ctx, userID, upcomingWindow)
		if err != nil {
			return err
		}
		resp.UpcomingBookings = bookings
		return nil
	})
	if err := g.Wait(); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// RegisterRoutes registers dashboard routes
func (h *DashboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.Today)
}
