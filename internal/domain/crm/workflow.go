package crm

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/lifeos/backend/internal/domain/shared"
)

// Workflow is an ordered pipeline of named stages that leads move through.
// Stages are stored as a JSON array of strings.
type Workflow struct {
	shared.OwnedAggregateRoot
	Name   string `gorm:"type:varchar(200);not null" json:"name"`
	Stages string `gorm:"type:jsonb;default:'[]'" json:"stages"`
}

// TableName returns the table name for GORM
func (Workflow) TableName() string {
	return "workflows"
}

// NewWorkflow creates a workflow with the given ordered stages
func NewWorkflow(ownerID uuid.UUID, name string, stages []string) (*Workflow, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Workflow name cannot be empty")
	}
	wf := &Workflow{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Name:               name,
		Stages:             "[]",
	}
	if err := wf.SetStages(stages); err != nil {
		return nil, err
	}
	return wf, nil
}

// StageList decodes the stage array. A corrupt column yields an empty list.
func (w *Workflow) StageList() []string {
	var stages []string
	if err := json.Unmarshal([]byte(w.Stages), &stages); err != nil {
		return nil
	}
	return stages
}

// HasStage reports whether the named stage exists in this workflow
func (w *Workflow) HasStage(stage string) bool {
	for _, s := range w.StageList() {
		if s == stage {
			return true
		}
	}
	return false
}

// SetStages replaces the ordered stage list. Stages must be non-empty,
// unique names.
func (w *Workflow) SetStages(stages []string) error {
	if len(stages) == 0 {
		return shared.NewDomainError("INVALID_STAGES", "Workflow needs at least one stage")
	}
	seen := make(map[string]bool, len(stages))
	for _, s := range stages {
		if strings.TrimSpace(s) == "" {
			return shared.NewDomainError("INVALID_STAGES", "Stage name cannot be empty")
		}
		if seen[s] {
			return shared.NewDomainError("INVALID_STAGES", "Stage names must be unique")
		}
		seen[s] = true
	}
	raw, err := json.Marshal(stages)
	if err != nil {
		return shared.NewDomainError("INVALID_STAGES", "Stages must be serializable")
	}
	w.Stages = string(raw)
	w.Touch()
	w.IncrementVersion()
	return nil
}

// Rename updates the workflow's name
func (w *Workflow) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Workflow name cannot be empty")
	}
	w.Name = name
	w.Touch()
	w.IncrementVersion()
	return nil
}
