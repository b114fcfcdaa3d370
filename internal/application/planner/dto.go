package planner

import (
	"time"

	"github.com/google/uuid"

	"github.com/lifeos/backend/internal/application/patch"
	"github.com/lifeos/backend/internal/domain/planner"
)

// =============================================================================
// Area DTOs
// =============================================================================

// CreateAreaRequest represents a request to create a life area
type CreateAreaRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=100"`
	Color string `json:"color" binding:"max=20"`
	Icon  string `json:"icon" binding:"max=50"`
}

// UpdateAreaRequest represents a partial update to an area
type UpdateAreaRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=100"`
	Color    *string `json:"color" binding:"omitempty,max=20"`
	Icon     *string `json:"icon" binding:"omitempty,max=50"`
	Archived *bool   `json:"archived"`
}

// AreaResponse represents an area in API responses
type AreaResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Icon      string    `json:"icon"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToAreaResponse converts a domain Area to AreaResponse
func ToAreaResponse(a *planner.Area) AreaResponse {
	return AreaResponse{
		ID:        a.ID,
		Name:      a.Name,
		Color:     a.Color,
		Icon:      a.Icon,
		Archived:  a.Archived,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// =============================================================================
// Goal DTOs
// =============================================================================

// CreateGoalRequest represents a request to create a goal
type CreateGoalRequest struct {
	Title       string     `json:"title" binding:"required,min=1,max=200"`
	Description string     `json:"description" binding:"max=2000"`
	AreaID      *uuid.UUID `json:"area_id"`
	TargetDate  *time.Time `json:"target_date"`
}

// UpdateGoalRequest represents a partial update to a goal. Nullable fields
// use patch.Field: an omitted key leaves the value alone, an explicit null
// clears it.
type UpdateGoalRequest struct {
	Title       *string                `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string                `json:"description" binding:"omitempty,max=2000"`
	AreaID      patch.Field[uuid.UUID] `json:"area_id"`
	TargetDate  patch.Field[time.Time] `json:"target_date"`
}

// PromoteGoalRequest asks for a goal to join the focus list, optionally at a
// specific rank. Without a rank the goal lands at the end.
type PromoteGoalRequest struct {
	Rank *int `json:"rank" binding:"omitempty,min=1"`
}

// ReorderFocusRequest supplies the complete new ordering of the focus list
type ReorderFocusRequest struct {
	GoalIDs []uuid.UUID `json:"goal_ids" binding:"required,min=1"`
}

// GoalResponse represents a goal in API responses
type GoalResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AreaID      *uuid.UUID `json:"area_id,omitempty"`
	TargetDate  *time.Time `json:"target_date,omitempty"`
	Completed   bool       `json:"completed"`
	FocusState  string     `json:"focus_state"`
	FocusRank   *int       `json:"focus_rank,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToGoalResponse converts a domain Goal to GoalResponse
func ToGoalResponse(g *planner.Goal) GoalResponse {
	return GoalResponse{
		ID:          g.ID,
		Title:       g.Title,
		Description: g.Description,
		AreaID:      g.AreaID,
		TargetDate:  g.TargetDate,
		Completed:   g.Completed,
		FocusState:  string(g.FocusState),
		FocusRank:   g.FocusRank,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

// =============================================================================
// Step DTOs
// =============================================================================

// RecurrenceRequest carries a weekly recurrence rule
type RecurrenceRequest struct {
	DaysOfWeek []int `json:"days_of_week" binding:"required,min=1,max=7,dive,min=0,max=6"`
}

// ToDomain converts the rule to its domain form
func (r *RecurrenceRequest) ToDomain() planner.Recurrence {
	days := make([]time.Weekday, len(r.DaysOfWeek))
	for i, d := range r.DaysOfWeek {
		days[i] = time.Weekday(d)
	}
	return planner.Recurrence{DaysOfWeek: days}
}

// CreateStepRequest represents a request to create a step. With a recurrence
// rule the step is a template; instances are minted by expansion.
type CreateStepRequest struct {
	Title            string             `json:"title" binding:"required,min=1,max=300"`
	Description      string             `json:"description" binding:"max=2000"`
	ScheduledDate    *time.Time         `json:"scheduled_date"`
	GoalID           *uuid.UUID         `json:"goal_id"`
	AreaID           *uuid.UUID         `json:"area_id"`
	Important        bool               `json:"important"`
	Urgent           bool               `json:"urgent"`
	EstimatedMinutes int                `json:"estimated_minutes" binding:"min=0"`
	Reward           string             `json:"reward" binding:"max=200"`
	Checklist        string             `json:"checklist"`
	Recurrence       *RecurrenceRequest `json:"recurrence"`
}

// UpdateStepRequest represents a partial update to a step. Nullable fields
// follow the same omitted/null convention as UpdateGoalRequest.
type UpdateStepRequest struct {
	Title            *string                `json:"title" binding:"omitempty,min=1,max=300"`
	Description      *string                `json:"description" binding:"omitempty,max=2000"`
	ScheduledDate    patch.Field[time.Time] `json:"scheduled_date"`
	GoalID           patch.Field[uuid.UUID] `json:"goal_id"`
	AreaID           patch.Field[uuid.UUID] `json:"area_id"`
	Important        *bool                  `json:"important"`
	Urgent           *bool                  `json:"urgent"`
	EstimatedMinutes *int                   `json:"estimated_minutes" binding:"omitempty,min=0"`
	Reward           *string                `json:"reward" binding:"omitempty,max=200"`
	Checklist        *string                `json:"checklist"`
	Recurrence       *RecurrenceRequest     `json:"recurrence"`
}

// StepResponse represents a step in API responses
type StepResponse struct {
	ID               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	ScheduledDate    *time.Time `json:"scheduled_date,omitempty"`
	Completed        bool       `json:"completed"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	IsTemplate       bool       `json:"is_template"`
	RecurrenceDays   []int      `json:"recurrence_days,omitempty"`
	GoalID           *uuid.UUID `json:"goal_id,omitempty"`
	AreaID           *uuid.UUID `json:"area_id,omitempty"`
	Important        bool       `json:"important"`
	Urgent           bool       `json:"urgent"`
	EstimatedMinutes int        `json:"estimated_minutes"`
	Reward           string     `json:"reward,omitempty"`
	Checklist        string     `json:"checklist"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ToStepResponse converts a domain Step to StepResponse
func ToStepResponse(s *planner.Step) StepResponse {
	resp := StepResponse{
		ID:               s.ID,
		Title:            s.Title,
		Description:      s.Description,
		ScheduledDate:    s.ScheduledDate,
		Completed:        s.Completed,
		CompletedAt:      s.CompletedAt,
		IsTemplate:       s.IsTemplate(),
		GoalID:           s.GoalID,
		AreaID:           s.AreaID,
		Important:        s.Important,
		Urgent:           s.Urgent,
		EstimatedMinutes: s.EstimatedMinutes,
		Reward:           s.Reward,
		Checklist:        s.Checklist,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
	if s.Recurrence != nil {
		days := make([]int, len(s.Recurrence.DaysOfWeek))
		for i, d := range s.Recurrence.DaysOfWeek {
			days[i] = int(d)
		}
		resp.RecurrenceDays = days
	}
	return resp
}

// ExpansionResult reports the outcome of one expansion run
type ExpansionResult struct {
	TemplatesSeen    int      `json:"templates_seen"`
	InstancesCreated int      `json:"instances_created"`
	Errors           []string `json:"errors,omitempty"`
}

// =============================================================================
// Habit DTOs
// =============================================================================

// CreateHabitRequest represents a request to create a habit
type CreateHabitRequest struct {
	Name     string             `json:"name" binding:"required,min=1,max=100"`
	AreaID   *uuid.UUID         `json:"area_id"`
	Schedule *RecurrenceRequest `json:"schedule"`
}

// UpdateHabitRequest represents a partial update to a habit. AreaID follows
// the omitted/null convention of the other update requests.
type UpdateHabitRequest struct {
	Name     *string                `json:"name" binding:"omitempty,min=1,max=100"`
	AreaID   patch.Field[uuid.UUID] `json:"area_id"`
	Schedule *RecurrenceRequest     `json:"schedule"`
	Archived *bool                  `json:"archived"`
}

// HabitResponse represents a habit in API responses
type HabitResponse struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	AreaID        *uuid.UUID `json:"area_id,omitempty"`
	ScheduleDays  []int      `json:"schedule_days,omitempty"`
	Streak        int        `json:"streak"`
	BestStreak    int        `json:"best_streak"`
	LastCheckInAt *time.Time `json:"last_check_in_at,omitempty"`
	Archived      bool       `json:"archived"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ToHabitResponse converts a domain Habit to HabitResponse
func ToHabitResponse(h *planner.Habit) HabitResponse {
	resp := HabitResponse{
		ID:            h.ID,
		Name:          h.Name,
		AreaID:        h.AreaID,
		Streak:        h.Streak,
		BestStreak:    h.BestStreak,
		LastCheckInAt: h.LastCheckInAt,
		Archived:      h.Archived,
		CreatedAt:     h.CreatedAt,
		UpdatedAt:     h.UpdatedAt,
	}
	if h.Schedule != nil {
		days := make([]int, len(h.Schedule.DaysOfWeek))
		for i, d := range h.Schedule.DaysOfWeek {
			days[i] = int(d)
		}
		resp.ScheduleDays = days
	}
	return resp
}

// CheckInResponse reports a habit check-in and any progression it earned
type CheckInResponse struct {
	Habit        HabitResponse `json:"habit"`
	XPAwarded    int           `json:"xp_awarded"`
	LevelsGained int           `json:"levels_gained"`
}

// =============================================================================
// Milestone DTOs
// =============================================================================

// CreateMilestoneRequest represents a request to create a milestone
type CreateMilestoneRequest struct {
	Title   string     `json:"title" binding:"required,min=1,max=200"`
	DueDate *time.Time `json:"due_date"`
}

// MilestoneResponse represents a milestone in API responses
type MilestoneResponse struct {
	ID        uuid.UUID  `json:"id"`
	GoalID    uuid.UUID  `json:"goal_id"`
	Title     string     `json:"title"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	Completed bool       `json:"completed"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ToMilestoneResponse converts a domain Milestone to MilestoneResponse
func ToMilestoneResponse(m *planner.Milestone) MilestoneResponse {
	return MilestoneResponse{
		ID:        m.ID,
		GoalID:    m.GoalID,
		Title:     m.Title,
		DueDate:   m.DueDate,
		Completed: m.Completed,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// ListFilter represents common list filter options
type ListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}
