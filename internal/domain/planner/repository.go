package planner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lifeos/backend/internal/domain/shared"
)

// AreaRepository defines the persistence interface for areas
type AreaRepository interface {
	shared.OwnedRepository[Area]
}

// StepRepository defines the persistence interface for steps
type StepRepository interface {
	shared.OwnedRepository[Step]
	// FindTemplatesForOwner returns the owner's recurring templates.
	FindTemplatesForOwner(ctx context.Context, ownerID uuid.UUID) ([]Step, error)
	// FindInstancesForOwner returns the owner's non-template steps.
	FindInstancesForOwner(ctx context.Context, ownerID uuid.UUID) ([]Step, error)
	// FindScheduledForOwner returns non-template steps scheduled on the day.
	FindScheduledForOwner(ctx context.Context, ownerID uuid.UUID, day time.Time) ([]Step, error)
}

// GoalRepository defines the persistence interface for goals
type GoalRepository interface {
	shared.OwnedRepository[Goal]
	// FindFocusedForOwner returns the owner's focus list, rank ascending.
	FindFocusedForOwner(ctx context.Context, ownerID uuid.UUID) ([]Goal, error)
	// MutateFocus loads and row-locks all of the owner's goals inside one
	// transaction, lets fn plan the new focus assignments against that
	// snapshot, and applies them before committing. Concurrent focus
	// mutations for the same owner serialize on the lock, which is what
	// keeps the dense-rank invariant.
	MutateFocus(ctx context.Context, ownerID uuid.UUID, fn func(goals []Goal) ([]FocusAssignment, error)) error
}

// HabitRepository defines the persistence interface for habits
type HabitRepository interface {
	shared.OwnedRepository[Habit]
	FindActiveForOwner(ctx context.Context, ownerID uuid.UUID) ([]Habit, error)
}

// MilestoneRepository defines the persistence interface for milestones
type MilestoneRepository interface {
	shared.OwnedRepository[Milestone]
	FindByGoalForOwner(ctx context.Context, ownerID, goalID uuid.UUID) ([]Milestone, error)
}
