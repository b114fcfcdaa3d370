package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lifeos/backend/internal/domain/planner"
)

// GormAreaRepository implements AreaRepository using GORM
type GormAreaRepository struct {
	ownedRepository[planner.Area]
}

// NewGormAreaRepository creates a new GormAreaRepository
func NewGormAreaRepository(db *gorm.DB) *GormAreaRepository {
	return &GormAreaRepository{newOwnedRepository[planner.Area](db, "name")}
}

// GormStepRepository implements StepRepository using GORM
type GormStepRepository struct {
	ownedRepository[planner.Step]
}

// NewGormStepRepository creates a new GormStepRepository
func NewGormStepRepository(db *gorm.DB) *GormStepRepository {
	return &GormStepRepository{newOwnedRepository[planner.Step](db, "title", "description")}
}

// FindTemplatesForOwner returns the owner's recurring templates
func (r *GormStepRepository) FindTemplatesForOwner(ctx context.Context, ownerID uuid.UUID) ([]planner.Step, error) {
	var steps []planner.Step
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND recurrence IS NOT NULL", ownerID).
		Order("created_at ASC").
		Find(&steps).Error
	if err != nil {
		return nil, err
	}
	return steps, nil
}

// FindInstancesForOwner returns the owner's non-template steps
func (r *GormStepRepository) FindInstancesForOwner(ctx context.Context, ownerID uuid.UUID) ([]planner.Step, error) {
	var steps []planner.Step
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND recurrence IS NULL", ownerID).
		Order("created_at ASC").
		Find(&steps).Error
	if err != nil {
		return nil, err
	}
	return steps, nil
}

// FindScheduledForOwner returns non-template steps scheduled on the day
func (r *GormStepRepository) FindScheduledForOwner(ctx context.Context, ownerID uuid.UUID, day time.Time) ([]planner.Step, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var steps []planner.Step
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND recurrence IS NULL AND scheduled_date >= ? AND scheduled_date < ?",
			ownerID, start, end).
		Order("scheduled_date ASC").
		Find(&steps).Error
	if err != nil {
		return nil, err
	}
	return steps, nil
}

// GormGoalRepository implements GoalRepository using GORM
type GormGoalRepository struct {
	ownedRepository[planner.Goal]
}

// NewGormGoalRepository creates a new GormGoalRepository
func NewGormGoalRepository(db *gorm.DB) *GormGoalRepository {
	return &GormGoalRepository{newOwnedRepository[planner.Goal](db, "title", "description")}
}

// FindFocusedForOwner returns the owner's focus list, rank ascending
func (r *GormGoalRepository) FindFocusedForOwner(ctx context.Context, ownerID uuid.UUID) ([]planner.Goal, error) {
	var goals []planner.Goal
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND focus_state = ?", ownerID, planner.FocusStateFocused).
		Order("focus_rank ASC").
		Find(&goals).Error
	if err != nil {
		return nil, err
	}
	return goals, nil
}

// MutateFocus loads and row-locks all of the owner's goals inside one
// transaction, lets fn plan new focus assignments against that snapshot, and
// applies them before committing. Concurrent focus mutations for the same
// owner serialize on the row locks.
func (r *GormGoalRepository) MutateFocus(ctx context.Context, ownerID uuid.UUID, fn func(goals []planner.Goal) ([]planner.FocusAssignment, error)) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Where("owner_id = ?", ownerID).Order("created_at ASC")
		// SQLite has no row locks; its writes serialize anyway.
		if tx.Dialector.Name() == "postgres" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var goals []planner.Goal
		if err := query.Find(&goals).Error; err != nil {
			return err
		}

		assignments, err := fn(goals)
		if err != nil {
			return err
		}

		for _, a := range assignments {
			updates := map[string]any{
				"focus_state": a.State,
				"focus_rank":  a.Rank,
				"updated_at":  time.Now(),
			}
			res := tx.Model(&planner.Goal{}).
				Where("owner_id = ? AND id = ?", ownerID, a.GoalID).
				Updates(updates)
			if res.Error != nil {
				return res.Error
			}
		}
		return nil
	})
}

// GormHabitRepository implements HabitRepository using GORM
type GormHabitRepository struct {
	ownedRepository[planner.Habit]
}

// NewGormHabitRepository creates a new GormHabitRepository
func NewGormHabitRepository(db *gorm.DB) *GormHabitRepository {
	return &GormHabitRepository{newOwnedRepository[planner.Habit](db, "name")}
}

// FindActiveForOwner returns the owner's non-archived habits
func (r *GormHabitRepository) FindActiveForOwner(ctx context.Context, ownerID uuid.UUID) ([]planner.Habit, error) {
	var habits []planner.Habit
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND archived = ?", ownerID, false).
		Order("created_at ASC").
		Find(&habits).Error
	if err != nil {
		return nil, err
	}
	return habits, nil
}

// GormMilestoneRepository implements MilestoneRepository using GORM
type GormMilestoneRepository struct {
	ownedRepository[planner.Milestone]
}

// NewGormMilestoneRepository creates a new GormMilestoneRepository
func NewGormMilestoneRepository(db *gorm.DB) *GormMilestoneRepository {
	return &GormMilestoneRepository{newOwnedRepository[planner.Milestone](db, "title")}
}

// FindByGoalForOwner returns the milestones of one of the owner's goals
func (r *GormMilestoneRepository) FindByGoalForOwner(ctx context.Context, ownerID, goalID uuid.UUID) ([]planner.Milestone, error) {
	var milestones []planner.Milestone
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND goal_id = ?", ownerID, goalID).
		Order("due_date ASC").
		Find(&milestones).Error
	if err != nil {
		return nil, err
	}
	return milestones, nil
}
