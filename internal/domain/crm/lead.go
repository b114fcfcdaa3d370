package crm

import (
	"strings"

	"github.com/google/uuid"

	"github.com/lifeos/backend/internal/domain/shared"
)

// Lead represents a prospective client moving through a workflow's stages.
// PhoneEncrypted holds the AES-GCM ciphertext of the phone number; the
// plaintext never reaches the database.
type Lead struct {
	shared.OwnedAggregateRoot
	Name           string     `gorm:"type:varchar(200);not null" json:"name"`
	Email          string     `gorm:"type:varchar(255)" json:"email"`
	PhoneEncrypted []byte     `gorm:"type:bytea" json:"-"`
	Note           string     `gorm:"type:text" json:"note"`
	Source         string     `gorm:"type:varchar(100)" json:"source"`
	WorkflowID     *uuid.UUID `gorm:"type:uuid;index" json:"workflow_id,omitempty"`
	Stage          string     `gorm:"type:varchar(100)" json:"stage"`
	Archived       bool       `gorm:"default:false" json:"archived"`
	// TaskboardCardID links the lead to its mirrored card on the external
	// board. Set by the outbox worker after the card is created.
	TaskboardCardID string `gorm:"type:varchar(255)" json:"taskboard_card_id,omitempty"`
}

// TableName returns the table name for GORM
func (Lead) TableName() string {
	return "leads"
}

// NewLead creates a new lead owned by the given user
func NewLead(ownerID uuid.UUID, name string) (*Lead, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Lead name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Lead name cannot exceed 200 characters")
	}
	return &Lead{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Name:               name,
	}, nil
}

// Rename updates the lead's display name
func (l *Lead) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Lead name cannot be empty")
	}
	l.Name = name
	l.Touch()
	l.IncrementVersion()
	return nil
}

// AssignWorkflow places the lead into a workflow at the given stage. The
// stage must be one of the workflow's configured stages.
func (l *Lead) AssignWorkflow(wf *Workflow, stage string) error {
	if !wf.HasStage(stage) {
		return shared.NewDomainError("INVALID_STAGE", "Stage does not exist in workflow")
	}
	id := wf.ID
	l.WorkflowID = &id
	l.Stage = stage
	l.Touch()
	l.IncrementVersion()
	return nil
}

// MoveToStage advances or rewinds the lead within its current workflow
func (l *Lead) MoveToStage(wf *Workflow, stage string) error {
	if l.WorkflowID == nil || *l.WorkflowID != wf.ID {
		return shared.NewDomainError("INVALID_STATE", "Lead is not in this workflow")
	}
	if !wf.HasStage(stage) {
		return shared.NewDomainError("INVALID_STAGE", "Stage does not exist in workflow")
	}
	l.Stage = stage
	l.Touch()
	l.IncrementVersion()
	return nil
}

// LeaveWorkflow detaches the lead from its workflow and clears the stage
func (l *Lead) LeaveWorkflow() {
	l.WorkflowID = nil
	l.Stage = ""
	l.Touch()
	l.IncrementVersion()
}

// AttachTaskboardCard records the external board card backing this lead
func (l *Lead) AttachTaskboardCard(cardID string) {
	l.TaskboardCardID = cardID
	l.Touch()
}

// Archive hides the lead from active views
func (l *Lead) Archive() {
	l.Archived = true
	l.Touch()
	l.IncrementVersion()
}

// Unarchive restores an archived lead
func (l *Lead) Unarchive() {
	l.Archived = false
	l.Touch()
	l.IncrementVersion()
}
