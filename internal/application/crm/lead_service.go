package crm

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lifeos/backend/internal/domain/crm"
	"github.com/lifeos/backend/internal/domain/identity"
	"github.com/lifeos/backend/internal/domain/shared"
	"github.com/lifeos/backend/internal/infrastructure/crypto"
	"github.com/lifeos/backend/internal/infrastructure/logger"
)

// LeadService manages leads. Phone numbers are encrypted with the owner's
// derived key before they reach the repository and decrypted on the way out.
type LeadService struct {
	leadRepo     crm.LeadRepository
	workflowRepo crm.WorkflowRepository
	userRepo     identity.UserRepository
	outboxRepo   shared.OutboxRepository
	cipher       *crypto.FieldCipher
}

// NewLeadService creates a new LeadService
func NewLeadService(
	leadRepo crm.LeadRepository,
	workflowRepo crm.WorkflowRepository,
	userRepo identity.UserRepository,
	outboxRepo shared.OutboxRepository,
	cipher *crypto.FieldCipher,
) *LeadService {
	return &LeadService{
		leadRepo:     leadRepo,
		workflowRepo: workflowRepo,
		userRepo:     userRepo,
		outboxRepo:   outboxRepo,
		cipher:       cipher,
	}
}

// Create creates a new lead, optionally placing it into a workflow, and
// queues a welcome email when the lead has an address
func (s *LeadService) Create(ctx context.Context, ownerID uuid.UUID, req CreateLeadRequest) (*LeadResponse, error) {
	lead, err := crm.NewLead(ownerID, req.Name)
	if err != nil {
		return nil, err
	}
	lead.Email = req.Email
	lead.Note = req.Note
	lead.Source = req.Source

	owner, err := s.userRepo.FindByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if req.Phone != "" {
		encrypted, err := s.cipher.Encrypt(ownerID, owner.KeySalt, req.Phone)
		if err != nil {
			return nil, err
		}
		lead.PhoneEncrypted = encrypted
	}

	if req.WorkflowID != nil {
		wf, err := s.workflowRepo.FindByIDForOwner(ctx, ownerID, *req.WorkflowID)
		if err != nil {
			return nil, err
		}
		stage := req.Stage
		if stage == "" {
			stage = wf.StageList()[0]
		}
		if err := lead.AssignWorkflow(wf, stage); err != nil {
			return nil, err
		}
	}

	if err := s.leadRepo.Save(ctx, lead); err != nil {
		return nil, err
	}

	if lead.Email != "" {
		entry, err := shared.NewEmailEntry(ownerID, shared.EmailPayload{
			To:      lead.Email,
			Subject: fmt.Sprintf("Welcome, %s", lead.Name),
			HTML:    welcomeEmailBody(lead.Name),
		})
		if err == nil {
			err = s.outboxRepo.Save(ctx, entry)
		}
		if err != nil {
			logger.FromContext(ctx).Warn("failed to queue welcome email",
				zap.String("lead_id", lead.ID.String()),
				zap.Error(err))
		}
	}

	s.queueCardEffect(ctx, ownerID, shared.TaskboardCardPayload{
		Action:      shared.TaskboardActionCreate,
		LeadID:      lead.ID,
		Title:       lead.Name,
		Description: lead.Note,
		List:        lead.Stage,
	})

	resp := ToLeadResponse(lead, req.Phone)
	return &resp, nil
}

// Get returns one of the owner's leads with the phone decrypted
func (s *LeadService) Get(ctx context.Context, ownerID, id uuid.UUID) (*LeadResponse, error) {
	lead, err := s.leadRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	resp, err := s.toResponse(ctx, ownerID, lead)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// List returns the owner's leads
func (s *LeadService) List(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]LeadResponse, int64, error) {
	leads, err := s.leadRepo.FindAllForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.leadRepo.CountForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, err
	}
	responses, err := s.toResponses(ctx, ownerID, leads)
	if err != nil {
		return nil, 0, err
	}
	return responses, total, nil
}

// ListByStage returns the owner's leads at one stage of a workflow
func (s *LeadService) ListByStage(ctx context.Context, ownerID, workflowID uuid.UUID, stage string) ([]LeadResponse, error) {
	leads, err := s.leadRepo.FindByStageForOwner(ctx, ownerID, workflowID, stage)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, ownerID, leads)
}

// Update applies a partial update to one of the owner's leads
func (s *LeadService) Update(ctx context.Context, ownerID, id uuid.UUID, req UpdateLeadRequest) (*LeadResponse, error) {
	lead, err := s.leadRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := lead.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Email != nil {
		lead.Email = *req.Email
		lead.Touch()
	}
	if req.Note != nil {
		lead.Note = *req.Note
		lead.Touch()
	}
	if req.Source != nil {
		lead.Source = *req.Source
		lead.Touch()
	}
	if req.Phone != nil {
		owner, err := s.userRepo.FindByID(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		encrypted, err := s.cipher.Encrypt(ownerID, owner.KeySalt, *req.Phone)
		if err != nil {
			return nil, err
		}
		lead.PhoneEncrypted = encrypted
		lead.Touch()
	}
	if req.WorkflowID.Present() {
		if id := req.WorkflowID.Ptr(); id == nil {
			lead.LeaveWorkflow()
		} else {
			wf, err := s.workflowRepo.FindByIDForOwner(ctx, ownerID, *id)
			if err != nil {
				return nil, err
			}
			stage := wf.StageList()[0]
			if req.Stage != nil {
				stage = *req.Stage
			}
			if err := lead.AssignWorkflow(wf, stage); err != nil {
				return nil, err
			}
		}
	}
	if req.Archived != nil {
		if *req.Archived {
			lead.Archive()
		} else {
			lead.Unarchive()
		}
	}

	if err := s.leadRepo.Save(ctx, lead); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, ownerID, lead)
}

// AssignWorkflow places a lead into a workflow at a stage
func (s *LeadService) AssignWorkflow(ctx context.Context, ownerID, id uuid.UUID, req AssignWorkflowRequest) (*LeadResponse, error) {
	lead, err := s.leadRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	wf, err := s.workflowRepo.FindByIDForOwner(ctx, ownerID, req.WorkflowID)
	if err != nil {
		return nil, err
	}
	if err := lead.AssignWorkflow(wf, req.Stage); err != nil {
		return nil, err
	}
	if err := s.leadRepo.Save(ctx, lead); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, ownerID, lead)
}

// Move advances a lead to another stage of its current workflow
func (s *LeadService) Move(ctx context.Context, ownerID, id uuid.UUID, req MoveLeadRequest) (*LeadResponse, error) {
	lead, err := s.leadRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if lead.WorkflowID == nil {
		return nil, shared.NewDomainError("INVALID_STATE", "Lead is not in a workflow")
	}
	wf, err := s.workflowRepo.FindByIDForOwner(ctx, ownerID, *lead.WorkflowID)
	if err != nil {
		return nil, err
	}
	if err := lead.MoveToStage(wf, req.Stage); err != nil {
		return nil, err
	}
	if err := s.leadRepo.Save(ctx, lead); err != nil {
		return nil, err
	}

	if lead.TaskboardCardID != "" {
		s.queueCardEffect(ctx, ownerID, shared.TaskboardCardPayload{
			Action: shared.TaskboardActionMove,
			LeadID: lead.ID,
			CardID: lead.TaskboardCardID,
			List:   lead.Stage,
		})
	}

	return s.toResponse(ctx, ownerID, lead)
}

// Delete removes one of the owner's leads
func (s *LeadService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.leadRepo.DeleteForOwner(ctx, ownerID, id)
}

func (s *LeadService) toResponse(ctx context.Context, ownerID uuid.UUID, lead *crm.Lead) (*LeadResponse, error) {
	phone := ""
	if len(lead.PhoneEncrypted) > 0 {
		owner, err := s.userRepo.FindByID(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		phone, err = s.cipher.Decrypt(ownerID, owner.KeySalt, lead.PhoneEncrypted)
		if err != nil {
			return nil, err
		}
	}
	resp := ToLeadResponse(lead, phone)
	return &resp, nil
}

func (s *LeadService) toResponses(ctx context.Context, ownerID uuid.UUID, leads []crm.Lead) ([]LeadResponse, error) {
	var owner *identity.User
	responses := make([]LeadResponse, len(leads))
	for i := range leads {
		phone := ""
		if len(leads[i].PhoneEncrypted) > 0 {
			if owner == nil {
				var err error
				owner, err = s.userRepo.FindByID(ctx, ownerID)
				if err != nil {
					return nil, err
				}
			}
			var err error
			phone, err = s.cipher.Decrypt(ownerID, owner.KeySalt, leads[i].PhoneEncrypted)
			if err != nil {
				return nil, err
			}
		}
		responses[i] = ToLeadResponse(&leads[i], phone)
	}
	return responses, nil
}

// queueCardEffect enqueues a task-board mirror entry. Mirroring is best
// effort; a queue failure never fails the primary operation.
func (s *LeadService) queueCardEffect(ctx context.Context, ownerID uuid.UUID, p shared.TaskboardCardPayload) {
	entry, err := shared.NewTaskboardCardEntry(ownerID, p)
	if err == nil {
		err = s.outboxRepo.Save(ctx, entry)
	}
	if err != nil {
		logger.FromContext(ctx).Warn("failed to queue task-board card",
			zap.String("lead_id", p.LeadID.String()),
			zap.Error(err))
	}
}

func welcomeEmailBody(name string) string {
	return fmt.Sprintf("<p>Hi %s,</p><p>thanks for reaching out. We will get back to you shortly.</p>", name)
}
