package crm

import (
	"context"

	"github.com/google/uuid"

	"github.com/lifeos/backend/internal/domain/crm"
	"github.com/lifeos/backend/internal/domain/shared"
)

// WorkflowService manages the owner's stage workflows
type WorkflowService struct {
	workflowRepo crm.WorkflowRepository
}

// NewWorkflowService creates a new WorkflowService
func NewWorkflowService(workflowRepo crm.WorkflowRepository) *WorkflowService {
	return &WorkflowService{workflowRepo: workflowRepo}
}

// Create creates a new workflow
func (s *WorkflowService) Create(ctx context.Context, ownerID uuid.UUID, req CreateWorkflowRequest) (*WorkflowResponse, error) {
	wf, err := crm.NewWorkflow(ownerID, req.Name, req.Stages)
	if err != nil {
		return nil, err
	}
	if err := s.workflowRepo.Save(ctx, wf); err != nil {
		return nil, err
	}
	resp := ToWorkflowResponse(wf)
	return &resp, nil
}

// Get returns one of the owner's workflows
func (s *WorkflowService) Get(ctx context.Context, ownerID, id uuid.UUID) (*WorkflowResponse, error) {
	wf, err := s.workflowRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	resp := ToWorkflowResponse(wf)
	return &resp, nil
}

// List returns the owner's workflows
func (s *WorkflowService) List(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]WorkflowResponse, int64, error) {
	workflows, err := s.workflowRepo.FindAllForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.workflowRepo.CountForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]WorkflowResponse, len(workflows))
	for i := range workflows {
		responses[i] = ToWorkflowResponse(&workflows[i])
	}
	return responses, total, nil
}

// Update applies a partial update to one of the owner's workflows
func (s *WorkflowService) Update(ctx context.Context, ownerID, id uuid.UUID, req UpdateWorkflowRequest) (*WorkflowResponse, error) {
	wf, err := s.workflowRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := wf.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Stages != nil {
		if err := wf.SetStages(req.Stages); err != nil {
			return nil, err
		}
	}

	if err := s.workflowRepo.Save(ctx, wf); err != nil {
		return nil, err
	}
	resp := ToWorkflowResponse(wf)
	return &resp, nil
}

// Delete removes one of the owner's workflows
func (s *WorkflowService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.workflowRepo.DeleteForOwner(ctx, ownerID, id)
}
