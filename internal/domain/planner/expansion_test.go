package planner

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTemplate(t *testing.T, ownerID uuid.UUID, title string, days ...time.Weekday) *Step {
	t.Helper()
	tmpl, err := NewTemplate(ownerID, title, Recurrence{DaysOfWeek: days})
	require.NoError(t, err)
	return tmpl
}

func TestExpandNext_CreatesNextOccurrenceOnly(t *testing.T) {
	ownerID := uuid.New()
	// 2026-09-01 is a Tuesday.
	tuesday := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	tmpl := newTestTemplate(t, ownerID, "Ranní běh", time.Monday, time.Wednesday, time.Friday)

	inst, err := ExpandNext(tmpl, tuesday, nil)
	require.NoError(t, err)
	require.NotNil(t, inst)

	// Next matching day is Wednesday 2.9.2026; only that single instance
	// is produced even though Friday and Monday also fall in the window.
	assert.Equal(t, "Ranní běh - 2.9.2026", inst.Title)
	require.NotNil(t, inst.ScheduledDate)
	assert.Equal(t, time.Wednesday, inst.ScheduledDate.Weekday())
	assert.Nil(t, inst.Recurrence)
	assert.Equal(t, ownerID, inst.OwnerID)
}

func TestExpandNext_MatchesToday(t *testing.T) {
	ownerID := uuid.New()
	monday := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	tmpl := newTestTemplate(t, ownerID, "Stretch", time.Monday)

	inst, err := ExpandNext(tmpl, monday, nil)
	require.NoError(t, err)
	require.NotNil(t, inst)
	assert.Equal(t, "Stretch - 31.8.2026", inst.Title)
}

func TestExpandNext_IdempotentSameDay(t *testing.T) {
	ownerID := uuid.New()
	tuesday := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	tmpl := newTestTemplate(t, ownerID, "Ranní běh", time.Wednesday)

	first, err := ExpandNext(tmpl, tuesday, nil)
	require.NoError(t, err)
	require.NotNil(t, first)

	// A second run the same day sees the created instance and produces
	// nothing: (title, date) pairs never duplicate.
	second, err := ExpandNext(tmpl, tuesday, []Step{*first})
	require.NoError(t, err)
	assert.Nil(t, second)
}

func TestExpandNext_CompletedOccurrenceNotResurrected(t *testing.T) {
	ownerID := uuid.New()
	tuesday := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	tmpl := newTestTemplate(t, ownerID, "Ranní běh", time.Wednesday)

	done, err := ExpandNext(tmpl, tuesday, nil)
	require.NoError(t, err)
	require.NoError(t, done.Complete())

	again, err := ExpandNext(tmpl, tuesday, []Step{*done})
	require.NoError(t, err)
	assert.Nil(t, again)
}

func TestExpandNext_CompletedOccurrenceMatchedByPrefix(t *testing.T) {
	ownerID := uuid.New()
	tuesday := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	tmpl := newTestTemplate(t, ownerID, "Ranní běh", time.Wednesday)

	// A completed instance whose title was edited after the date suffix
	// still blocks recreation as long as the template prefix survives.
	wednesday := tuesday.AddDate(0, 0, 1)
	edited, err := NewStep(ownerID, "Ranní běh - v parku")
	require.NoError(t, err)
	edited.ScheduledDate = &wednesday
	require.NoError(t, edited.Complete())

	inst, err := ExpandNext(tmpl, tuesday, []Step{*edited})
	require.NoError(t, err)
	assert.Nil(t, inst)
}

func TestExpandNext_NoMatchInWindow(t *testing.T) {
	ownerID := uuid.New()
	today := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	tmpl := newTestTemplate(t, ownerID, "Weekly review", time.Sunday)
	// Narrow the rule after construction to something that never fires.
	tmpl.Recurrence = &Recurrence{DaysOfWeek: []time.Weekday{}}

	_, err := ExpandNext(tmpl, today, nil)
	assert.Error(t, err)
}

func TestExpandNext_RejectsNonTemplate(t *testing.T) {
	ownerID := uuid.New()
	step, err := NewStep(ownerID, "One-off")
	require.NoError(t, err)

	_, err = ExpandNext(step, time.Now(), nil)
	assert.Error(t, err)
}

func TestExpandNext_InstanceOfOtherTemplateDoesNotBlock(t *testing.T) {
	ownerID := uuid.New()
	tuesday := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	tmpl := newTestTemplate(t, ownerID, "Ranní běh", time.Wednesday)
	other := newTestTemplate(t, ownerID, "Večerní čtení", time.Wednesday)

	otherInst, err := ExpandNext(other, tuesday, nil)
	require.NoError(t, err)

	inst, err := ExpandNext(tmpl, tuesday, []Step{*otherInst})
	require.NoError(t, err)
	require.NotNil(t, inst)
	assert.Equal(t, "Ranní běh - 2.9.2026", inst.Title)
}

func TestFormatInstanceDate_NoLeadingZeros(t *testing.T) {
	day := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "7.3.2026", FormatInstanceDate(day))
}

func TestNewInstance_CopiesTemplateMetadata(t *testing.T) {
	ownerID := uuid.New()
	goalID := uuid.New()
	tmpl := newTestTemplate(t, ownerID, "Deep work", time.Monday)
	tmpl.Description = "90 minutes, no phone"
	tmpl.GoalID = &goalID
	tmpl.Important = true
	tmpl.EstimatedMinutes = 90
	tmpl.Reward = "coffee"
	tmpl.Checklist = `[{"text":"close slack","done":false}]`

	monday := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	inst, err := tmpl.NewInstance(monday)
	require.NoError(t, err)

	assert.Equal(t, tmpl.Description, inst.Description)
	assert.Equal(t, tmpl.GoalID, inst.GoalID)
	assert.True(t, inst.Important)
	assert.Equal(t, 90, inst.EstimatedMinutes)
	assert.Equal(t, "coffee", inst.Reward)
	assert.Equal(t, tmpl.Checklist, inst.Checklist)
	assert.Nil(t, inst.Recurrence)
	assert.NotEqual(t, tmpl.ID, inst.ID)
}
