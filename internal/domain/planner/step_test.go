package planner

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecurrenceValidate(t *testing.T) {
	tests := []struct {
		name    string
		days    []time.Weekday
		wantErr bool
	}{
		{"valid", []time.Weekday{time.Monday, time.Friday}, false},
		{"empty", nil, true},
		{"duplicate", []time.Weekday{time.Monday, time.Monday}, true},
		{"out of range", []time.Weekday{time.Weekday(7)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Recurrence{DaysOfWeek: tt.days}
			err := r.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewStep_ValidatesTitle(t *testing.T) {
	_, err := NewStep(uuid.New(), "")
	assert.Error(t, err)

	_, err = NewStep(uuid.New(), "   ")
	assert.Error(t, err)

	s, err := NewStep(uuid.New(), "Write report")
	require.NoError(t, err)
	assert.False(t, s.IsTemplate())
	assert.Equal(t, "[]", s.Checklist)
}

func TestStepComplete(t *testing.T) {
	s, err := NewStep(uuid.New(), "Write report")
	require.NoError(t, err)

	require.NoError(t, s.Complete())
	assert.True(t, s.Completed)
	require.NotNil(t, s.CompletedAt)

	assert.Error(t, s.Complete())

	s.Reopen()
	assert.False(t, s.Completed)
	assert.Nil(t, s.CompletedAt)
}

func TestTemplateCannotBeCompleted(t *testing.T) {
	tmpl := newTestTemplate(t, uuid.New(), "Ranní běh", time.Monday)
	assert.Error(t, tmpl.Complete())
}

func TestStepSetChecklist(t *testing.T) {
	s, err := NewStep(uuid.New(), "Pack bags")
	require.NoError(t, err)

	require.NoError(t, s.SetChecklist(`[{"text":"passport","done":true}]`))
	assert.Error(t, s.SetChecklist("not json"))
}

func TestHabitCheckIn(t *testing.T) {
	h, err := NewHabit(uuid.New(), "Meditation")
	require.NoError(t, err)

	day1 := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, h.CheckIn(day1))
	assert.Equal(t, 1, h.Streak)

	// Same calendar day again is rejected.
	assert.Error(t, h.CheckIn(day1.Add(4 * time.Hour)))

	// Consecutive day extends the streak.
	require.NoError(t, h.CheckIn(day1.AddDate(0, 0, 1)))
	assert.Equal(t, 2, h.Streak)
	assert.Equal(t, 2, h.BestStreak)

	// A gap resets the streak but keeps the best.
	require.NoError(t, h.CheckIn(day1.AddDate(0, 0, 5)))
	assert.Equal(t, 1, h.Streak)
	assert.Equal(t, 2, h.BestStreak)
}

func TestHabitDueOn(t *testing.T) {
	h, err := NewHabit(uuid.New(), "Run")
	require.NoError(t, err)

	monday := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	// No schedule means due every day.
	assert.True(t, h.DueOn(monday))

	require.NoError(t, h.SetSchedule(&Recurrence{DaysOfWeek: []time.Weekday{time.Monday}}))
	assert.True(t, h.DueOn(monday))
	assert.False(t, h.DueOn(monday.AddDate(0, 0, 1)))
}

func TestGoalComplete(t *testing.T) {
	g, err := NewGoal(uuid.New(), "Learn piano")
	require.NoError(t, err)

	one := 1
	g.FocusState = FocusStateFocused
	g.FocusRank = &one

	require.NoError(t, g.Complete())
	assert.True(t, g.Completed)
	// Completion drops the goal out of the focus list.
	assert.Equal(t, FocusStateBacklog, g.FocusState)
	assert.Nil(t, g.FocusRank)

	assert.Error(t, g.Complete())
}
