package planner

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifeos/backend/internal/domain/shared"
)

func newFocusedGoal(t *testing.T, ownerID uuid.UUID, title string, rank int) Goal {
	t.Helper()
	g, err := NewGoal(ownerID, title)
	require.NoError(t, err)
	r := rank
	g.FocusState = FocusStateFocused
	g.FocusRank = &r
	return *g
}

func newBacklogGoal(t *testing.T, ownerID uuid.UUID, title string) Goal {
	t.Helper()
	g, err := NewGoal(ownerID, title)
	require.NoError(t, err)
	return *g
}

func rankOf(t *testing.T, assignments []FocusAssignment, id uuid.UUID) *int {
	t.Helper()
	for _, a := range assignments {
		if a.GoalID == id {
			return a.Rank
		}
	}
	t.Fatalf("no assignment for goal %s", id)
	return nil
}

func assertDense(t *testing.T, assignments []FocusAssignment) {
	t.Helper()
	seen := map[int]bool{}
	n := 0
	for _, a := range assignments {
		if a.State != FocusStateFocused {
			continue
		}
		require.NotNil(t, a.Rank)
		seen[*a.Rank] = true
		n++
	}
	for i := 1; i <= n; i++ {
		assert.True(t, seen[i], "rank %d missing from focused set", i)
	}
}

func TestPlanPromote_InsertsAtRankAndShifts(t *testing.T) {
	ownerID := uuid.New()
	a := newFocusedGoal(t, ownerID, "a", 1)
	b := newFocusedGoal(t, ownerID, "b", 2)
	c := newBacklogGoal(t, ownerID, "c")

	one := 1
	assignments, err := PlanPromote([]Goal{a, b, c}, c.ID, &one)
	require.NoError(t, err)

	assert.Equal(t, 1, *rankOf(t, assignments, c.ID))
	assert.Equal(t, 2, *rankOf(t, assignments, a.ID))
	assert.Equal(t, 3, *rankOf(t, assignments, b.ID))
	assertDense(t, assignments)
}

func TestPlanPromote_AlreadyFocusedMoves(t *testing.T) {
	ownerID := uuid.New()
	a := newFocusedGoal(t, ownerID, "a", 1)
	b := newFocusedGoal(t, ownerID, "b", 2)
	c := newFocusedGoal(t, ownerID, "c", 3)

	one := 1
	assignments, err := PlanPromote([]Goal{a, b, c}, c.ID, &one)
	require.NoError(t, err)

	assert.Equal(t, 1, *rankOf(t, assignments, c.ID))
	assert.Equal(t, 2, *rankOf(t, assignments, a.ID))
	assert.Equal(t, 3, *rankOf(t, assignments, b.ID))
	assertDense(t, assignments)
}

func TestPlanPromote_RankClampedToEnd(t *testing.T) {
	ownerID := uuid.New()
	a := newFocusedGoal(t, ownerID, "a", 1)
	c := newBacklogGoal(t, ownerID, "c")

	big := 99
	assignments, err := PlanPromote([]Goal{a, c}, c.ID, &big)
	require.NoError(t, err)

	assert.Equal(t, 1, *rankOf(t, assignments, a.ID))
	assert.Equal(t, 2, *rankOf(t, assignments, c.ID))
}

func TestPlanPromote_UnknownGoal(t *testing.T) {
	ownerID := uuid.New()
	a := newFocusedGoal(t, ownerID, "a", 1)

	_, err := PlanPromote([]Goal{a}, uuid.New(), nil)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestPlanDemote_ClosesGap(t *testing.T) {
	ownerID := uuid.New()
	a := newFocusedGoal(t, ownerID, "a", 1)
	b := newFocusedGoal(t, ownerID, "b", 2)
	c := newFocusedGoal(t, ownerID, "c", 3)

	assignments, err := PlanDemote([]Goal{a, b, c}, b.ID)
	require.NoError(t, err)

	for _, asg := range assignments {
		if asg.GoalID == b.ID {
			assert.Equal(t, FocusStateBacklog, asg.State)
			assert.Nil(t, asg.Rank)
		}
	}
	assert.Equal(t, 1, *rankOf(t, assignments, a.ID))
	assert.Equal(t, 2, *rankOf(t, assignments, c.ID))
	assertDense(t, assignments)
}

func TestPlanDemote_BacklogGoalIsNoop(t *testing.T) {
	ownerID := uuid.New()
	a := newFocusedGoal(t, ownerID, "a", 1)
	c := newBacklogGoal(t, ownerID, "c")

	assignments, err := PlanDemote([]Goal{a, c}, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, *rankOf(t, assignments, a.ID))
	assertDense(t, assignments)
}

func TestPlanReorder_AssignsSequentialRanks(t *testing.T) {
	ownerID := uuid.New()
	a := newFocusedGoal(t, ownerID, "a", 1)
	b := newFocusedGoal(t, ownerID, "b", 2)
	c := newBacklogGoal(t, ownerID, "c")

	assignments, err := PlanReorder([]Goal{a, b, c}, []uuid.UUID{c.ID, b.ID, a.ID})
	require.NoError(t, err)

	assert.Equal(t, 1, *rankOf(t, assignments, c.ID))
	assert.Equal(t, 2, *rankOf(t, assignments, b.ID))
	assert.Equal(t, 3, *rankOf(t, assignments, a.ID))
	assertDense(t, assignments)
}

func TestPlanReorder_DemotesOmittedGoals(t *testing.T) {
	ownerID := uuid.New()
	a := newFocusedGoal(t, ownerID, "a", 1)
	b := newFocusedGoal(t, ownerID, "b", 2)

	assignments, err := PlanReorder([]Goal{a, b}, []uuid.UUID{b.ID})
	require.NoError(t, err)

	assert.Equal(t, 1, *rankOf(t, assignments, b.ID))
	for _, asg := range assignments {
		if asg.GoalID == a.ID {
			assert.Equal(t, FocusStateBacklog, asg.State)
			assert.Nil(t, asg.Rank)
		}
	}
}

func TestPlanReorder_ForeignGoalRejected(t *testing.T) {
	ownerID := uuid.New()
	a := newFocusedGoal(t, ownerID, "a", 1)

	_, err := PlanReorder([]Goal{a}, []uuid.UUID{a.ID, uuid.New()})
	assert.True(t, errors.Is(err, shared.ErrForbidden))
}

func TestPlanReorder_DuplicateRejected(t *testing.T) {
	ownerID := uuid.New()
	a := newFocusedGoal(t, ownerID, "a", 1)

	_, err := PlanReorder([]Goal{a}, []uuid.UUID{a.ID, a.ID})
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
}

func TestCheckFocusDensity(t *testing.T) {
	ownerID := uuid.New()
	a := newFocusedGoal(t, ownerID, "a", 1)
	b := newFocusedGoal(t, ownerID, "b", 3)

	assert.Error(t, CheckFocusDensity([]Goal{a, b}))

	two := 2
	b.FocusRank = &two
	assert.NoError(t, CheckFocusDensity([]Goal{a, b}))
}
