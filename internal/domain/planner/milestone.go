package planner

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lifeos/backend/internal/domain/shared"
)

// Milestone is an intermediate checkpoint on the way to a goal
type Milestone struct {
	shared.OwnedAggregateRoot
	GoalID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Title     string    `gorm:"type:varchar(200);not null"`
	DueDate   *time.Time
	Completed bool `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Milestone) TableName() string {
	return "milestones"
}

// NewMilestone creates a milestone under a goal
func NewMilestone(ownerID, goalID uuid.UUID, title string) (*Milestone, error) {
	if strings.TrimSpace(title) == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Milestone title cannot be empty")
	}
	if len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Milestone title cannot exceed 200 characters")
	}
	return &Milestone{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		GoalID:             goalID,
		Title:              title,
	}, nil
}

// Complete marks the milestone reached
func (m *Milestone) Complete() error {
	if m.Completed {
		return shared.NewDomainError("INVALID_STATE", "Milestone is already completed")
	}
	m.Completed = true
	m.Touch()
	m.IncrementVersion()
	return nil
}
