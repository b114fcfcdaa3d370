package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lifeos/backend/internal/domain/game"
	"github.com/lifeos/backend/internal/domain/planner"
	"github.com/lifeos/backend/internal/domain/shared"
	"github.com/lifeos/backend/internal/infrastructure/logger"
)

// StepService handles step CRUD, completion, and instance expansion of
// recurring templates.
type StepService struct {
	stepRepo planner.StepRepository
	awarder  ProgressionAwarder
}

// NewStepService creates a new StepService
func NewStepService(stepRepo planner.StepRepository, awarder ProgressionAwarder) *StepService {
	return &StepService{stepRepo: stepRepo, awarder: awarder}
}

// Create creates a one-off step, or a recurring template when the request
// carries a recurrence rule
func (s *StepService) Create(ctx context.Context, ownerID uuid.UUID, req CreateStepRequest) (*StepResponse, error) {
	var step *planner.Step
	var err error
	if req.Recurrence != nil {
		step, err = planner.NewTemplate(ownerID, req.Title, req.Recurrence.ToDomain())
	} else {
		step, err = planner.NewStep(ownerID, req.Title)
	}
	if err != nil {
		return nil, err
	}

	step.Description = req.Description
	step.GoalID = req.GoalID
	step.AreaID = req.AreaID
	step.Important = req.Important
	step.Urgent = req.Urgent
	step.EstimatedMinutes = req.EstimatedMinutes
	step.Reward = req.Reward
	if req.ScheduledDate != nil {
		step.Schedule(req.ScheduledDate)
	}
	if req.Checklist != "" {
		if err := step.SetChecklist(req.Checklist); err != nil {
			return nil, err
		}
	}

	if err := s.stepRepo.Save(ctx, step); err != nil {
		return nil, err
	}
	resp := ToStepResponse(step)
	return &resp, nil
}

// Get returns one of the owner's steps
func (s *StepService) Get(ctx context.Context, ownerID, id uuid.UUID) (*StepResponse, error) {
	step, err := s.stepRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	resp := ToStepResponse(step)
	return &resp, nil
}

// List returns the owner's steps
func (s *StepService) List(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]StepResponse, int64, error) {
	steps, err := s.stepRepo.FindAllForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.stepRepo.CountForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, err
	}
	return toStepResponses(steps), total, nil
}

// ListTemplates returns the owner's recurring templates
func (s *StepService) ListTemplates(ctx context.Context, ownerID uuid.UUID) ([]StepResponse, error) {
	steps, err := s.stepRepo.FindTemplatesForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return toStepResponses(steps), nil
}

// ListScheduled returns the owner's non-template steps scheduled on a day
func (s *StepService) ListScheduled(ctx context.Context, ownerID uuid.UUID, day time.Time) ([]StepResponse, error) {
	steps, err := s.stepRepo.FindScheduledForOwner(ctx, ownerID, day)
	if err != nil {
		return nil, err
	}
	return toStepResponses(steps), nil
}

// Update applies a partial update to one of the owner's steps
func (s *StepService) Update(ctx context.Context, ownerID, id uuid.UUID, req UpdateStepRequest) (*StepResponse, error) {
	step, err := s.stepRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if err := step.Retitle(*req.Title); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		step.Description = *req.Description
		step.Touch()
	}
	if req.ScheduledDate.Present() {
		step.Schedule(req.ScheduledDate.Ptr())
	}
	if req.GoalID.Present() {
		step.GoalID = req.GoalID.Ptr()
		step.Touch()
	}
	if req.AreaID.Present() {
		step.AreaID = req.AreaID.Ptr()
		step.Touch()
	}
	if req.Important != nil {
		step.Important = *req.Important
		step.Touch()
	}
	if req.Urgent != nil {
		step.Urgent = *req.Urgent
		step.Touch()
	}
	if req.EstimatedMinutes != nil {
		step.EstimatedMinutes = *req.EstimatedMinutes
		step.Touch()
	}
	if req.Reward != nil {
		step.Reward = *req.Reward
		step.Touch()
	}
	if req.Checklist != nil {
		if err := step.SetChecklist(*req.Checklist); err != nil {
			return nil, err
		}
	}
	if req.Recurrence != nil {
		if !step.IsTemplate() {
			return nil, shared.NewDomainError("INVALID_STATE", "Only a template carries a recurrence rule")
		}
		rule := req.Recurrence.ToDomain()
		if err := rule.Validate(); err != nil {
			return nil, err
		}
		step.Recurrence = &rule
		step.Touch()
	}

	if err := s.stepRepo.Save(ctx, step); err != nil {
		return nil, err
	}
	resp := ToStepResponse(step)
	return &resp, nil
}

// Complete marks a step done and awards XP for it
func (s *StepService) Complete(ctx context.Context, ownerID, id uuid.UUID) (*StepResponse, error) {
	step, err := s.stepRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := step.Complete(); err != nil {
		return nil, err
	}
	if err := s.stepRepo.Save(ctx, step); err != nil {
		return nil, err
	}

	if s.awarder != nil {
		_, _ = s.awarder.Award(ctx, ownerID, game.XPStepCompleted)
	}

	resp := ToStepResponse(step)
	return &resp, nil
}

// Reopen clears a step's completed flag
func (s *StepService) Reopen(ctx context.Context, ownerID, id uuid.UUID) (*StepResponse, error) {
	step, err := s.stepRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	step.Reopen()
	if err := s.stepRepo.Save(ctx, step); err != nil {
		return nil, err
	}
	resp := ToStepResponse(step)
	return &resp, nil
}

// Delete removes one of the owner's steps
func (s *StepService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.stepRepo.DeleteForOwner(ctx, ownerID, id)
}

// ExpandAll walks the owner's templates and materializes the next due
// instance for each. A failing template is reported and skipped; the rest
// of the run continues.
func (s *StepService) ExpandAll(ctx context.Context, ownerID uuid.UUID, today time.Time) (*ExpansionResult, error) {
	templates, err := s.stepRepo.FindTemplatesForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	existing, err := s.stepRepo.FindInstancesForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	result := &ExpansionResult{TemplatesSeen: len(templates)}
	for i := range templates {
		tmpl := &templates[i]
		inst, err := planner.ExpandNext(tmpl, today, existing)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", tmpl.Title, err))
			log.Warn("template expansion failed",
				zap.String("template_id", tmpl.ID.String()),
				zap.Error(err))
			continue
		}
		if inst == nil {
			continue
		}
		if err := s.stepRepo.Save(ctx, inst); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", tmpl.Title, err))
			continue
		}
		existing = append(existing, *inst)
		result.InstancesCreated++
	}
	return result, nil
}

func toStepResponses(steps []planner.Step) []StepResponse {
	responses := make([]StepResponse, len(steps))
	for i := range steps {
		responses[i] = ToStepResponse(&steps[i])
	}
	return responses
}
