package planner

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lifeos/backend/internal/domain/shared"
)

// Habit is a lightweight daily practice with a streak counter. Unlike a
// recurring step template, a habit never materializes instances; a check-in
// on the day is the record.
type Habit struct {
	shared.OwnedAggregateRoot
	Name          string      `gorm:"type:varchar(200);not null"`
	Schedule      *Recurrence `gorm:"serializer:json"`
	Streak        int         `gorm:"not null;default:0"`
	BestStreak    int         `gorm:"not null;default:0"`
	LastCheckInAt *time.Time
	AreaID        *uuid.UUID `gorm:"type:uuid;index"`
	Archived      bool       `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Habit) TableName() string {
	return "habits"
}

// NewHabit creates a new habit for an owner
func NewHabit(ownerID uuid.UUID, name string) (*Habit, error) {
	if err := validateHabitName(name); err != nil {
		return nil, err
	}
	return &Habit{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Name:               name,
	}, nil
}

// Rename changes the habit name
func (h *Habit) Rename(name string) error {
	if err := validateHabitName(name); err != nil {
		return err
	}
	h.Name = name
	h.Touch()
	h.IncrementVersion()
	return nil
}

// SetSchedule sets or clears the weekday schedule
func (h *Habit) SetSchedule(schedule *Recurrence) error {
	if schedule != nil {
		if err := schedule.Validate(); err != nil {
			return err
		}
	}
	h.Schedule = schedule
	h.Touch()
	h.IncrementVersion()
	return nil
}

// DueOn reports whether the habit is scheduled for the given day. A habit
// without a schedule is due every day.
func (h *Habit) DueOn(day time.Time) bool {
	if h.Archived {
		return false
	}
	if h.Schedule == nil {
		return true
	}
	return h.Schedule.Matches(day)
}

// CheckIn records a completion for the given day. A second check-in on the
// same day is rejected; a gap of more than one day resets the streak.
func (h *Habit) CheckIn(day time.Time) error {
	if h.Archived {
		return shared.NewDomainError("INVALID_STATE", "Cannot check in an archived habit")
	}
	if h.LastCheckInAt != nil && SameCalendarDay(*h.LastCheckInAt, day) {
		return shared.NewDomainError("INVALID_STATE", "Habit already checked in today")
	}

	if h.LastCheckInAt != nil && SameCalendarDay(h.LastCheckInAt.AddDate(0, 0, 1), day) {
		h.Streak++
	} else {
		h.Streak = 1
	}
	if h.Streak > h.BestStreak {
		h.BestStreak = h.Streak
	}

	checkedIn := day
	h.LastCheckInAt = &checkedIn
	h.Touch()
	h.IncrementVersion()
	return nil
}

// Archive retires the habit while keeping its history
func (h *Habit) Archive() {
	h.Archived = true
	h.Touch()
	h.IncrementVersion()
}

func validateHabitName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Habit name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Habit name cannot exceed 200 characters")
	}
	return nil
}
