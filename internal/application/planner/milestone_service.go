package planner

import (
	"context"

	"github.com/google/uuid"

	"github.com/lifeos/backend/internal/domain/game"
	"github.com/lifeos/backend/internal/domain/planner"
)

// MilestoneService handles milestones underneath goals
type MilestoneService struct {
	milestoneRepo planner.MilestoneRepository
	goalRepo      planner.GoalRepository
	awarder       ProgressionAwarder
}

// NewMilestoneService creates a new MilestoneService
func NewMilestoneService(milestoneRepo planner.MilestoneRepository, goalRepo planner.GoalRepository, awarder ProgressionAwarder) *MilestoneService {
	return &MilestoneService{milestoneRepo: milestoneRepo, goalRepo: goalRepo, awarder: awarder}
}

// Create adds a milestone to one of the owner's goals
func (s *MilestoneService) Create(ctx context.Context, ownerID, goalID uuid.UUID, req CreateMilestoneRequest) (*MilestoneResponse, error) {
	// A milestone always hangs off a goal the owner can see.
	if _, err := s.goalRepo.FindByIDForOwner(ctx, ownerID, goalID); err != nil {
		return nil, err
	}

	milestone, err := planner.NewMilestone(ownerID, goalID, req.Title)
	if err != nil {
		return nil, err
	}
	milestone.DueDate = req.DueDate

	if err := s.milestoneRepo.Save(ctx, milestone); err != nil {
		return nil, err
	}
	resp := ToMilestoneResponse(milestone)
	return &resp, nil
}

// ListByGoal returns the milestones of one of the owner's goals
func (s *MilestoneService) ListByGoal(ctx context.Context, ownerID, goalID uuid.UUID) ([]MilestoneResponse, error) {
	if _, err := s.goalRepo.FindByIDForOwner(ctx, ownerID, goalID); err != nil {
		return nil, err
	}
	milestones, err := s.milestoneRepo.FindByGoalForOwner(ctx, ownerID, goalID)
	if err != nil {
		return nil, err
	}
	responses := make([]MilestoneResponse, len(milestones))
	for i := range milestones {
		responses[i] = ToMilestoneResponse(&milestones[i])
	}
	return responses, nil
}

// Complete marks a milestone done and awards XP
func (s *MilestoneService) Complete(ctx context.Context, ownerID, id uuid.UUID) (*MilestoneResponse, error) {
	milestone, err := s.milestoneRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := milestone.Complete(); err != nil {
		return nil, err
	}
	if err := s.milestoneRepo.Save(ctx, milestone); err != nil {
		return nil, err
	}

	if s.awarder != nil {
		_, _ = s.awarder.Award(ctx, ownerID, game.XPMilestoneDone)
	}

	resp := ToMilestoneResponse(milestone)
	return &resp, nil
}

// Delete removes one of the owner's milestones
func (s *MilestoneService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.milestoneRepo.DeleteForOwner(ctx, ownerID, id)
}
