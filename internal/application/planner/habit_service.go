package planner

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lifeos/backend/internal/domain/game"
	"github.com/lifeos/backend/internal/domain/planner"
	"github.com/lifeos/backend/internal/domain/shared"
)

// HabitService handles habit CRUD and daily check-ins
type HabitService struct {
	habitRepo planner.HabitRepository
	awarder   ProgressionAwarder
}

// NewHabitService creates a new HabitService
func NewHabitService(habitRepo planner.HabitRepository, awarder ProgressionAwarder) *HabitService {
	return &HabitService{habitRepo: habitRepo, awarder: awarder}
}

// Create creates a new habit
func (s *HabitService) Create(ctx context.Context, ownerID uuid.UUID, req CreateHabitRequest) (*HabitResponse, error) {
	habit, err := planner.NewHabit(ownerID, req.Name)
	if err != nil {
		return nil, err
	}
	habit.AreaID = req.AreaID
	if req.Schedule != nil {
		rule := req.Schedule.ToDomain()
		if err := habit.SetSchedule(&rule); err != nil {
			return nil, err
		}
	}

	if err := s.habitRepo.Save(ctx, habit); err != nil {
		return nil, err
	}
	resp := ToHabitResponse(habit)
	return &resp, nil
}

// Get returns one of the owner's habits
func (s *HabitService) Get(ctx context.Context, ownerID, id uuid.UUID) (*HabitResponse, error) {
	habit, err := s.habitRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	resp := ToHabitResponse(habit)
	return &resp, nil
}

// List returns the owner's habits
func (s *HabitService) List(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]HabitResponse, int64, error) {
	habits, err := s.habitRepo.FindAllForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.habitRepo.CountForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]HabitResponse, len(habits))
	for i := range habits {
		responses[i] = ToHabitResponse(&habits[i])
	}
	return responses, total, nil
}

// ListDue returns the owner's active habits due on a day
func (s *HabitService) ListDue(ctx context.Context, ownerID uuid.UUID, day time.Time) ([]HabitResponse, error) {
	habits, err := s.habitRepo.FindActiveForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	responses := make([]HabitResponse, 0, len(habits))
	for i := range habits {
		if habits[i].DueOn(day) {
			responses = append(responses, ToHabitResponse(&habits[i]))
		}
	}
	return responses, nil
}

// Update applies a partial update to one of the owner's habits
func (s *HabitService) Update(ctx context.Context, ownerID, id uuid.UUID, req UpdateHabitRequest) (*HabitResponse, error) {
	habit, err := s.habitRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := habit.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.AreaID.Present() {
		habit.AreaID = req.AreaID.Ptr()
		habit.Touch()
	}
	if req.Schedule != nil {
		rule := req.Schedule.ToDomain()
		if err := habit.SetSchedule(&rule); err != nil {
			return nil, err
		}
	}
	if req.Archived != nil && *req.Archived {
		habit.Archive()
	}

	if err := s.habitRepo.Save(ctx, habit); err != nil {
		return nil, err
	}
	resp := ToHabitResponse(habit)
	return &resp, nil
}

// CheckIn records today's completion for a habit and awards XP
func (s *HabitService) CheckIn(ctx context.Context, ownerID, id uuid.UUID, day time.Time) (*CheckInResponse, error) {
	habit, err := s.habitRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := habit.CheckIn(day); err != nil {
		return nil, err
	}
	if err := s.habitRepo.Save(ctx, habit); err != nil {
		return nil, err
	}

	result := &CheckInResponse{Habit: ToHabitResponse(habit), XPAwarded: game.XPHabitCheckIn}
	if s.awarder != nil {
		levels, err := s.awarder.Award(ctx, ownerID, game.XPHabitCheckIn)
		if err == nil {
			result.LevelsGained = levels
		}
	}
	return result, nil
}

// Delete removes one of the owner's habits
func (s *HabitService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.habitRepo.DeleteForOwner(ctx, ownerID, id)
}
