package planner

import (
	"sort"

	"github.com/google/uuid"
	"github.com/lifeos/backend/internal/domain/shared"
)

// FocusAssignment is one row update produced by a focus-list mutation: the
// goal's new state and rank. Assignments from a single plan are applied
// atomically; the invariant is that focused ranks afterwards are exactly
// 1..N with no gaps or duplicates.
type FocusAssignment struct {
	GoalID uuid.UUID
	State  FocusState
	Rank   *int
}

// focusedByRank returns the focused subset of the goals sorted by rank.
// Goals with a nil rank sort last; ties keep input order.
func focusedByRank(goals []Goal) []Goal {
	focused := make([]Goal, 0, len(goals))
	for _, g := range goals {
		if g.IsFocused() {
			focused = append(focused, g)
		}
	}
	sort.SliceStable(focused, func(i, j int) bool {
		ri, rj := focused[i].FocusRank, focused[j].FocusRank
		if ri == nil {
			return false
		}
		if rj == nil {
			return true
		}
		return *ri < *rj
	})
	return focused
}

// PlanPromote computes the assignments for promoting a goal into the focus
// list. With desiredRank nil the goal lands at the end; otherwise neighbors
// at and above desiredRank shift up by one. Promoting an already-focused goal
// moves it.
func PlanPromote(goals []Goal, targetID uuid.UUID, desiredRank *int) ([]FocusAssignment, error) {
	if !containsGoal(goals, targetID) {
		return nil, shared.ErrNotFound
	}

	order := make([]uuid.UUID, 0)
	for _, g := range focusedByRank(goals) {
		if g.ID != targetID {
			order = append(order, g.ID)
		}
	}

	pos := len(order)
	if desiredRank != nil {
		pos = *desiredRank - 1
		if pos < 0 {
			pos = 0
		}
		if pos > len(order) {
			pos = len(order)
		}
	}
	order = append(order[:pos], append([]uuid.UUID{targetID}, order[pos:]...)...)

	return denseAssignments(order), nil
}

// PlanDemote computes the assignments for removing a goal from the focus
// list: the goal moves to the backlog with no rank and higher-ranked
// neighbors shift down to close the gap.
func PlanDemote(goals []Goal, targetID uuid.UUID) ([]FocusAssignment, error) {
	if !containsGoal(goals, targetID) {
		return nil, shared.ErrNotFound
	}

	order := make([]uuid.UUID, 0)
	for _, g := range focusedByRank(goals) {
		if g.ID != targetID {
			order = append(order, g.ID)
		}
	}

	assignments := denseAssignments(order)
	assignments = append(assignments, FocusAssignment{
		GoalID: targetID,
		State:  FocusStateBacklog,
		Rank:   nil,
	})
	return assignments, nil
}

// PlanReorder computes the assignments for a caller-supplied full ordering:
// every listed goal becomes focused with rank equal to its list position, and
// focused goals missing from the list move to the backlog. Every id must
// belong to the supplied goal set.
func PlanReorder(goals []Goal, orderedIDs []uuid.UUID) ([]FocusAssignment, error) {
	seen := make(map[uuid.UUID]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if !containsGoal(goals, id) {
			return nil, shared.ErrForbidden
		}
		if seen[id] {
			return nil, shared.ErrInvalidInput
		}
		seen[id] = true
	}

	assignments := denseAssignments(orderedIDs)
	for _, g := range goals {
		if g.IsFocused() && !seen[g.ID] {
			assignments = append(assignments, FocusAssignment{
				GoalID: g.ID,
				State:  FocusStateBacklog,
				Rank:   nil,
			})
		}
	}
	return assignments, nil
}

// CheckFocusDensity verifies the focused subset carries ranks exactly 1..N.
// Used by tests and the repository's post-mutation assertion.
func CheckFocusDensity(goals []Goal) error {
	focused := focusedByRank(goals)
	for i, g := range focused {
		if g.FocusRank == nil || *g.FocusRank != i+1 {
			return shared.NewDomainError("INVALID_STATE", "Focus ranks are not dense")
		}
	}
	for _, g := range goals {
		if !g.IsFocused() && g.FocusRank != nil {
			return shared.NewDomainError("INVALID_STATE", "Unfocused goal carries a rank")
		}
	}
	return nil
}

func denseAssignments(order []uuid.UUID) []FocusAssignment {
	assignments := make([]FocusAssignment, 0, len(order))
	for i, id := range order {
		rank := i + 1
		assignments = append(assignments, FocusAssignment{
			GoalID: id,
			State:  FocusStateFocused,
			Rank:   &rank,
		})
	}
	return assignments
}

func containsGoal(goals []Goal, id uuid.UUID) bool {
	for i := range goals {
		if goals[i].ID == id {
			return true
		}
	}
	return false
}
