package planner

import (
	"context"

	"github.com/google/uuid"

	"github.com/lifeos/backend/internal/domain/game"
	"github.com/lifeos/backend/internal/domain/planner"
	"github.com/lifeos/backend/internal/domain/shared"
)

// ProgressionAwarder hands out XP for planner accomplishments
type ProgressionAwarder interface {
	Award(ctx context.Context, ownerID uuid.UUID, amount int) (levelsGained int, err error)
}

// GoalService handles goal CRUD and the focus list. All focus mutations run
// inside the repository's locked transaction so concurrent requests cannot
// break the dense 1..N ranking.
type GoalService struct {
	goalRepo planner.GoalRepository
	awarder  ProgressionAwarder
}

// NewGoalService creates a new GoalService
func NewGoalService(goalRepo planner.GoalRepository, awarder ProgressionAwarder) *GoalService {
	return &GoalService{goalRepo: goalRepo, awarder: awarder}
}

// Create creates a new goal in the backlog
func (s *GoalService) Create(ctx context.Context, ownerID uuid.UUID, req CreateGoalRequest) (*GoalResponse, error) {
	goal, err := planner.NewGoal(ownerID, req.Title)
	if err != nil {
		return nil, err
	}
	goal.Description = req.Description
	goal.AreaID = req.AreaID
	goal.TargetDate = req.TargetDate

	if err := s.goalRepo.Save(ctx, goal); err != nil {
		return nil, err
	}
	resp := ToGoalResponse(goal)
	return &resp, nil
}

// Get returns one of the owner's goals
func (s *GoalService) Get(ctx context.Context, ownerID, id uuid.UUID) (*GoalResponse, error) {
	goal, err := s.goalRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	resp := ToGoalResponse(goal)
	return &resp, nil
}

// List returns the owner's goals
func (s *GoalService) List(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]GoalResponse, int64, error) {
	goals, err := s.goalRepo.FindAllForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.goalRepo.CountForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]GoalResponse, len(goals))
	for i := range goals {
		responses[i] = ToGoalResponse(&goals[i])
	}
	return responses, total, nil
}

// ListFocused returns the owner's focus list, rank ascending
func (s *GoalService) ListFocused(ctx context.Context, ownerID uuid.UUID) ([]GoalResponse, error) {
	goals, err := s.goalRepo.FindFocusedForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	responses := make([]GoalResponse, len(goals))
	for i := range goals {
		responses[i] = ToGoalResponse(&goals[i])
	}
	return responses, nil
}

// Update applies a partial update to one of the owner's goals
func (s *GoalService) Update(ctx context.Context, ownerID, id uuid.UUID, req UpdateGoalRequest) (*GoalResponse, error) {
	goal, err := s.goalRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if err := goal.Retitle(*req.Title); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		goal.Description = *req.Description
		goal.Touch()
	}
	if req.AreaID.Present() {
		goal.AreaID = req.AreaID.Ptr()
		goal.Touch()
	}
	if req.TargetDate.Present() {
		goal.SetTargetDate(req.TargetDate.Ptr())
	}

	if err := s.goalRepo.Save(ctx, goal); err != nil {
		return nil, err
	}
	resp := ToGoalResponse(goal)
	return &resp, nil
}

// Complete marks a goal achieved. A focused goal leaves the focus list and
// the remaining ranks close up; completion also earns XP.
func (s *GoalService) Complete(ctx context.Context, ownerID, id uuid.UUID) (*GoalResponse, error) {
	err := s.goalRepo.MutateFocus(ctx, ownerID, func(goals []planner.Goal) ([]planner.FocusAssignment, error) {
		target := findGoal(goals, id)
		if target == nil {
			return nil, shared.ErrNotFound
		}
		if !target.IsFocused() {
			return nil, nil
		}
		return planner.PlanDemote(goals, id)
	})
	if err != nil {
		return nil, err
	}

	goal, err := s.goalRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := goal.Complete(); err != nil {
		return nil, err
	}
	if err := s.goalRepo.Save(ctx, goal); err != nil {
		return nil, err
	}

	if s.awarder != nil {
		// Progression is best effort; losing XP never fails the operation.
		_, _ = s.awarder.Award(ctx, ownerID, game.XPGoalCompleted)
	}

	resp := ToGoalResponse(goal)
	return &resp, nil
}

// Promote moves a goal into the focus list, optionally at a given rank.
// Neighbors shift to keep ranks dense.
func (s *GoalService) Promote(ctx context.Context, ownerID, id uuid.UUID, req PromoteGoalRequest) ([]GoalResponse, error) {
	err := s.goalRepo.MutateFocus(ctx, ownerID, func(goals []planner.Goal) ([]planner.FocusAssignment, error) {
		target := findGoal(goals, id)
		if target == nil {
			return nil, shared.ErrNotFound
		}
		if target.Completed {
			return nil, shared.NewDomainError("INVALID_STATE", "Completed goals cannot be focused")
		}
		return planner.PlanPromote(goals, id, req.Rank)
	})
	if err != nil {
		return nil, err
	}
	return s.ListFocused(ctx, ownerID)
}

// Demote moves a goal back to the backlog, closing the rank gap
func (s *GoalService) Demote(ctx context.Context, ownerID, id uuid.UUID) ([]GoalResponse, error) {
	err := s.goalRepo.MutateFocus(ctx, ownerID, func(goals []planner.Goal) ([]planner.FocusAssignment, error) {
		if findGoal(goals, id) == nil {
			return nil, shared.ErrNotFound
		}
		return planner.PlanDemote(goals, id)
	})
	if err != nil {
		return nil, err
	}
	return s.ListFocused(ctx, ownerID)
}

// Reorder replaces the focus list with the supplied ordering. Focused goals
// omitted from the list drop to the backlog.
func (s *GoalService) Reorder(ctx context.Context, ownerID uuid.UUID, req ReorderFocusRequest) ([]GoalResponse, error) {
	err := s.goalRepo.MutateFocus(ctx, ownerID, func(goals []planner.Goal) ([]planner.FocusAssignment, error) {
		return planner.PlanReorder(goals, req.GoalIDs)
	})
	if err != nil {
		return nil, err
	}
	return s.ListFocused(ctx, ownerID)
}

// Delete removes one of the owner's goals. A focused goal is demoted first
// so the remaining ranks stay dense.
func (s *GoalService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	err := s.goalRepo.MutateFocus(ctx, ownerID, func(goals []planner.Goal) ([]planner.FocusAssignment, error) {
		target := findGoal(goals, id)
		if target == nil {
			return nil, shared.ErrNotFound
		}
		if !target.IsFocused() {
			return nil, nil
		}
		return planner.PlanDemote(goals, id)
	})
	if err != nil {
		return err
	}
	return s.goalRepo.DeleteForOwner(ctx, ownerID, id)
}

func findGoal(goals []planner.Goal, id uuid.UUID) *planner.Goal {
	for i := range goals {
		if goals[i].ID == id {
			return &goals[i]
		}
	}
	return nil
}
