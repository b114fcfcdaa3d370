package planner

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lifeos/backend/internal/domain/shared"
)

// FocusState marks whether a goal participates in the owner's ordered focus
// list. Focused goals carry a dense rank 1..N; everything else has no rank.
type FocusState string

const (
	FocusStateFocused FocusState = "focused"
	FocusStateBacklog FocusState = "backlog"
)

// Goal is a long-running objective, optionally linked to an area
type Goal struct {
	shared.OwnedAggregateRoot
	Title       string     `gorm:"type:varchar(200);not null"`
	Description string     `gorm:"type:text"`
	AreaID      *uuid.UUID `gorm:"type:uuid;index"`
	TargetDate  *time.Time
	Completed   bool       `gorm:"not null;default:false"`
	FocusState  FocusState `gorm:"type:varchar(20);index"`
	FocusRank   *int
}

// TableName returns the table name for GORM
func (Goal) TableName() string {
	return "goals"
}

// NewGoal creates a new goal for an owner
func NewGoal(ownerID uuid.UUID, title string) (*Goal, error) {
	if err := validateGoalTitle(title); err != nil {
		return nil, err
	}
	return &Goal{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Title:              title,
	}, nil
}

// IsFocused reports whether the goal is in the ranked focus subset
func (g *Goal) IsFocused() bool {
	return g.FocusState == FocusStateFocused
}

// Retitle changes the goal title
func (g *Goal) Retitle(title string) error {
	if err := validateGoalTitle(title); err != nil {
		return err
	}
	g.Title = title
	g.Touch()
	g.IncrementVersion()
	return nil
}

// SetTargetDate sets or clears the target date
func (g *Goal) SetTargetDate(day *time.Time) {
	g.TargetDate = day
	g.Touch()
	g.IncrementVersion()
}

// Complete marks the goal achieved. A completed goal leaves the focus list;
// re-ranking of the remaining focused goals is the caller's job.
func (g *Goal) Complete() error {
	if g.Completed {
		return shared.NewDomainError("INVALID_STATE", "Goal is already completed")
	}
	g.Completed = true
	g.FocusState = FocusStateBacklog
	g.FocusRank = nil
	g.Touch()
	g.IncrementVersion()
	return nil
}

func validateGoalTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return shared.NewDomainError("INVALID_TITLE", "Goal title cannot be empty")
	}
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Goal title cannot exceed 200 characters")
	}
	return nil
}
