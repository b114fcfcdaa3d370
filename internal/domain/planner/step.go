package planner

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lifeos/backend/internal/domain/shared"
)

// Recurrence describes when a recurring step template produces instances.
// A step carrying a recurrence is a template and is never shown as an
// actionable to-do; a step without one is a concrete instance or a plain
// one-off step.
type Recurrence struct {
	DaysOfWeek []time.Weekday `json:"days_of_week"`
}

// Validate checks the recurrence rule for well-formedness
func (r *Recurrence) Validate() error {
	if len(r.DaysOfWeek) == 0 {
		return shared.NewDomainError("INVALID_RECURRENCE", "Recurrence must name at least one weekday")
	}
	seen := make(map[time.Weekday]bool, len(r.DaysOfWeek))
	for _, d := range r.DaysOfWeek {
		if d < time.Sunday || d > time.Saturday {
			return shared.NewDomainError("INVALID_RECURRENCE", "Recurrence contains an invalid weekday")
		}
		if seen[d] {
			return shared.NewDomainError("INVALID_RECURRENCE", "Recurrence contains a duplicate weekday")
		}
		seen[d] = true
	}
	return nil
}

// Matches reports whether the rule fires on the given day
func (r *Recurrence) Matches(day time.Time) bool {
	for _, d := range r.DaysOfWeek {
		if day.Weekday() == d {
			return true
		}
	}
	return false
}

// Step is either a recurring template (Recurrence != nil) or a concrete,
// dated to-do item. Instances generated from a template reference template
// metadata by value; there is no foreign key back to the template.
type Step struct {
	shared.OwnedAggregateRoot
	Title            string      `gorm:"type:varchar(300);not null"`
	Description      string      `gorm:"type:text"`
	ScheduledDate    *time.Time  `gorm:"index"`
	Completed        bool        `gorm:"not null;default:false"`
	CompletedAt      *time.Time
	Recurrence       *Recurrence `gorm:"serializer:json"`
	GoalID           *uuid.UUID  `gorm:"type:uuid;index"`
	AreaID           *uuid.UUID  `gorm:"type:uuid;index"`
	Important        bool        `gorm:"not null;default:false"`
	Urgent           bool        `gorm:"not null;default:false"`
	EstimatedMinutes int         `gorm:"not null;default:0"`
	Reward           string      `gorm:"type:varchar(200)"`
	Checklist        string      `gorm:"type:jsonb;default:'[]'"`
}

// TableName returns the table name for GORM
func (Step) TableName() string {
	return "steps"
}

// NewStep creates a one-off step for an owner
func NewStep(ownerID uuid.UUID, title string) (*Step, error) {
	if err := validateStepTitle(title); err != nil {
		return nil, err
	}
	return &Step{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Title:              title,
		Checklist:          "[]",
	}, nil
}

// NewTemplate creates a recurring step template for an owner
func NewTemplate(ownerID uuid.UUID, title string, recurrence Recurrence) (*Step, error) {
	if err := recurrence.Validate(); err != nil {
		return nil, err
	}
	step, err := NewStep(ownerID, title)
	if err != nil {
		return nil, err
	}
	step.Recurrence = &recurrence
	return step, nil
}

// IsTemplate reports whether the step is a recurring template
func (s *Step) IsTemplate() bool {
	return s.Recurrence != nil
}

// FormatInstanceDate renders a date the way instance titles embed it: D.M.YYYY
// without leading zeros.
func FormatInstanceDate(day time.Time) string {
	return fmt.Sprintf("%d.%d.%d", day.Day(), int(day.Month()), day.Year())
}

// InstanceTitle derives the title an instance of this template carries on the
// given day. The suffix makes (template title, date) pairs unique.
func (s *Step) InstanceTitle(day time.Time) string {
	return s.Title + " - " + FormatInstanceDate(day)
}

// InstancePrefix is the title prefix shared by every instance of this template
func (s *Step) InstancePrefix() string {
	return s.Title + " - "
}

// NewInstance materializes a dated instance from this template, copying the
// template metadata and clearing the recurrence on the copy.
func (s *Step) NewInstance(day time.Time) (*Step, error) {
	if !s.IsTemplate() {
		return nil, shared.NewDomainError("INVALID_STATE", "Only a template can produce instances")
	}
	date := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	inst := &Step{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(s.OwnerID),
		Title:              s.InstanceTitle(day),
		Description:        s.Description,
		ScheduledDate:      &date,
		Recurrence:         nil,
		GoalID:             s.GoalID,
		AreaID:             s.AreaID,
		Important:          s.Important,
		Urgent:             s.Urgent,
		EstimatedMinutes:   s.EstimatedMinutes,
		Reward:             s.Reward,
		Checklist:          s.Checklist,
	}
	return inst, nil
}

// Complete marks the step done
func (s *Step) Complete() error {
	if s.IsTemplate() {
		return shared.NewDomainError("INVALID_STATE", "A template cannot be completed")
	}
	if s.Completed {
		return shared.NewDomainError("INVALID_STATE", "Step is already completed")
	}
	now := time.Now()
	s.Completed = true
	s.CompletedAt = &now
	s.Touch()
	s.IncrementVersion()
	return nil
}

// Reopen clears the completed flag
func (s *Step) Reopen() {
	s.Completed = false
	s.CompletedAt = nil
	s.Touch()
	s.IncrementVersion()
}

// Retitle changes the step title
func (s *Step) Retitle(title string) error {
	if err := validateStepTitle(title); err != nil {
		return err
	}
	s.Title = title
	s.Touch()
	s.IncrementVersion()
	return nil
}

// Schedule sets or clears the scheduled date
func (s *Step) Schedule(day *time.Time) {
	s.ScheduledDate = day
	s.Touch()
	s.IncrementVersion()
}

// SetChecklist replaces the checklist blob
func (s *Step) SetChecklist(checklist string) error {
	if checklist == "" {
		checklist = "[]"
	}
	trimmed := strings.TrimSpace(checklist)
	if !strings.HasPrefix(trimmed, "[") || !strings.HasSuffix(trimmed, "]") {
		return shared.NewDomainError("INVALID_CHECKLIST", "Checklist must be a JSON array")
	}
	s.Checklist = trimmed
	s.Touch()
	s.IncrementVersion()
	return nil
}

// SameCalendarDay reports whether both times fall on the same calendar day
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func validateStepTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return shared.NewDomainError("INVALID_TITLE", "Step title cannot be empty")
	}
	if len(title) > 300 {
		return shared.NewDomainError("INVALID_TITLE", "Step title cannot exceed 300 characters")
	}
	return nil
}
