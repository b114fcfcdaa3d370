package crm

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingLifecycle(t *testing.T) {
	b, err := NewBooking(uuid.New(), "Jana Nováková", time.Now().Add(24*time.Hour), 60)
	require.NoError(t, err)
	assert.Equal(t, BookingStatusPending, b.Status)

	require.NoError(t, b.SetPrice(decimal.NewFromInt(1200), "czk"))
	assert.Equal(t, "CZK", b.Currency)

	require.NoError(t, b.Confirm())
	assert.Error(t, b.Confirm())

	require.NoError(t, b.MarkDone())
	assert.Error(t, b.Cancel())
}

func TestBookingRejectsNegativePrice(t *testing.T) {
	b, err := NewBooking(uuid.New(), "Jana", time.Now(), 30)
	require.NoError(t, err)
	assert.Error(t, b.SetPrice(decimal.NewFromInt(-1), "CZK"))
}

func TestBookingOverlaps(t *testing.T) {
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	a, err := NewBooking(uuid.New(), "A", start, 60)
	require.NoError(t, err)

	back2back, err := NewBooking(uuid.New(), "B", start.Add(time.Hour), 60)
	require.NoError(t, err)
	assert.False(t, a.Overlaps(back2back))

	overlapping, err := NewBooking(uuid.New(), "C", start.Add(30*time.Minute), 60)
	require.NoError(t, err)
	assert.True(t, a.Overlaps(overlapping))
}

func TestLeadWorkflowStages(t *testing.T) {
	ownerID := uuid.New()
	wf, err := NewWorkflow(ownerID, "Sales", []string{"new", "contacted", "won"})
	require.NoError(t, err)

	lead, err := NewLead(ownerID, "Petr Svoboda")
	require.NoError(t, err)

	assert.Error(t, lead.AssignWorkflow(wf, "lost"))
	require.NoError(t, lead.AssignWorkflow(wf, "new"))
	require.NoError(t, lead.MoveToStage(wf, "contacted"))
	assert.Equal(t, "contacted", lead.Stage)

	other, err := NewWorkflow(ownerID, "Other", []string{"a"})
	require.NoError(t, err)
	assert.Error(t, lead.MoveToStage(other, "a"))
}

func TestWorkflowStageValidation(t *testing.T) {
	ownerID := uuid.New()
	_, err := NewWorkflow(ownerID, "Bad", nil)
	assert.Error(t, err)

	_, err = NewWorkflow(ownerID, "Dup", []string{"a", "a"})
	assert.Error(t, err)
}
