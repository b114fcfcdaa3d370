package planner

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/lifeos/backend/internal/domain/planner"
	"github.com/lifeos/backend/internal/domain/shared"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockGoalRepository is a mock implementation of GoalRepository. MutateFocus
// runs the plan function against the goals field and records the applied
// assignments instead of going through testify, so tests can assert on the
// planned outcome directly.
type MockGoalRepository struct {
	mock.Mock
	goals   []planner.Goal
	applied []planner.FocusAssignment
}

func (m *MockGoalRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*planner.Goal, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*planner.Goal), args.Error(1)
}

func (m *MockGoalRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]planner.Goal, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).([]planner.Goal), args.Error(1)
}

func (m *MockGoalRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGoalRepository) Save(ctx context.Context, goal *planner.Goal) error {
	args := m.Called(ctx, goal)
	return args.Error(0)
}

func (m *MockGoalRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockGoalRepository) FindFocusedForOwner(ctx context.Context, ownerID uuid.UUID) ([]planner.Goal, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]planner.Goal), args.Error(1)
}

func (m *MockGoalRepository) MutateFocus(ctx context.Context, ownerID uuid.UUID, fn func(goals []planner.Goal) ([]planner.FocusAssignment, error)) error {
	assignments, err := fn(m.goals)
	if err != nil {
		return err
	}
	m.applied = assignments
	return nil
}

// MockAwarder is a mock implementation of ProgressionAwarder
type MockAwarder struct {
	mock.Mock
}

func (m *MockAwarder) Award(ctx context.Context, ownerID uuid.UUID, amount int) (int, error) {
	args := m.Called(ctx, ownerID, amount)
	return args.Get(0).(int), args.Error(1)
}

func seedServiceGoal(t *testing.T, ownerID uuid.UUID, title string, rank *int) planner.Goal {
	t.Helper()
	goal, err := planner.NewGoal(ownerID, title)
	assert.NoError(t, err)
	if rank != nil {
		goal.FocusState = planner.FocusStateFocused
		r := *rank
		goal.FocusRank = &r
	}
	return *goal
}

// =============================================================================
// Tests
// =============================================================================

func TestGoalServiceCreate(t *testing.T) {
	repo := new(MockGoalRepository)
	service := NewGoalService(repo, nil)
	ownerID := uuid.New()

	repo.On("Save", mock.Anything, mock.AnythingOfType("*planner.Goal")).Return(nil)

	resp, err := service.Create(context.Background(), ownerID, CreateGoalRequest{
		Title:       "Run a marathon",
		Description: "Prague, next spring",
	})

	assert.NoError(t, err)
	assert.Equal(t, "Run a marathon", resp.Title)
	assert.Equal(t, string(planner.FocusStateBacklog), resp.FocusState)
	assert.Nil(t, resp.FocusRank)
	repo.AssertExpectations(t)
}

func TestGoalServiceCreateRejectsEmptyTitle(t *testing.T) {
	repo := new(MockGoalRepository)
	service := NewGoalService(repo, nil)

	_, err := service.Create(context.Background(), uuid.New(), CreateGoalRequest{Title: "   "})

	assert.Error(t, err)
	repo.AssertNotCalled(t, "Save")
}

func TestGoalServiceUpdateNullClearsArea(t *testing.T) {
	ownerID := uuid.New()
	areaID := uuid.New()
	goal, err := planner.NewGoal(ownerID, "Run a marathon")
	assert.NoError(t, err)
	goal.AreaID = &areaID
	target := time.Date(2027, 4, 1, 0, 0, 0, 0, time.UTC)
	goal.SetTargetDate(&target)

	repo := new(MockGoalRepository)
	repo.On("FindByIDForOwner", mock.Anything, ownerID, goal.ID).Return(goal, nil)
	var saved *planner.Goal
	repo.On("Save", mock.Anything, mock.AnythingOfType("*planner.Goal")).Run(func(args mock.Arguments) {
		saved = args.Get(1).(*planner.Goal)
	}).Return(nil)

	service := NewGoalService(repo, nil)

	var req UpdateGoalRequest
	assert.NoError(t, json.Unmarshal([]byte(`{"area_id":null,"target_date":null}`), &req))
	_, err = service.Update(context.Background(), ownerID, goal.ID, req)

	assert.NoError(t, err)
	assert.Nil(t, saved.AreaID)
	assert.Nil(t, saved.TargetDate)
}

func TestGoalServiceUpdateOmittedAreaUntouched(t *testing.T) {
	ownerID := uuid.New()
	areaID := uuid.New()
	goal, err := planner.NewGoal(ownerID, "Run a marathon")
	assert.NoError(t, err)
	goal.AreaID = &areaID

	repo := new(MockGoalRepository)
	repo.On("FindByIDForOwner", mock.Anything, ownerID, goal.ID).Return(goal, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*planner.Goal")).Return(nil)

	service := NewGoalService(repo, nil)

	var req UpdateGoalRequest
	assert.NoError(t, json.Unmarshal([]byte(`{"description":"in Prague"}`), &req))
	resp, err := service.Update(context.Background(), ownerID, goal.ID, req)

	assert.NoError(t, err)
	assert.NotNil(t, resp.AreaID)
	assert.Equal(t, areaID, *resp.AreaID)
}

func TestGoalServicePromoteAppendsAtEnd(t *testing.T) {
	ownerID := uuid.New()
	one := 1
	focused := seedServiceGoal(t, ownerID, "First", &one)
	backlog := seedServiceGoal(t, ownerID, "Second", nil)

	repo := new(MockGoalRepository)
	repo.goals = []planner.Goal{focused, backlog}
	repo.On("FindFocusedForOwner", mock.Anything, ownerID).Return([]planner.Goal{focused, backlog}, nil)

	service := NewGoalService(repo, nil)
	_, err := service.Promote(context.Background(), ownerID, backlog.ID, PromoteGoalRequest{})

	assert.NoError(t, err)
	var promoted *planner.FocusAssignment
	for i := range repo.applied {
		if repo.applied[i].GoalID == backlog.ID {
			promoted = &repo.applied[i]
		}
	}
	assert.NotNil(t, promoted)
	assert.Equal(t, planner.FocusStateFocused, promoted.State)
	assert.Equal(t, 2, *promoted.Rank)
}

func TestGoalServicePromoteCompletedGoalFails(t *testing.T) {
	ownerID := uuid.New()
	goal := seedServiceGoal(t, ownerID, "Done already", nil)
	goal.Completed = true

	repo := new(MockGoalRepository)
	repo.goals = []planner.Goal{goal}

	service := NewGoalService(repo, nil)
	_, err := service.Promote(context.Background(), ownerID, goal.ID, PromoteGoalRequest{})

	assert.Error(t, err)
	var domainErr *shared.DomainError
	assert.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestGoalServicePromoteUnknownGoal(t *testing.T) {
	repo := new(MockGoalRepository)
	service := NewGoalService(repo, nil)

	_, err := service.Promote(context.Background(), uuid.New(), uuid.New(), PromoteGoalRequest{})

	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestGoalServiceCompleteClosesRankGap(t *testing.T) {
	ownerID := uuid.New()
	one, two, three := 1, 2, 3
	first := seedServiceGoal(t, ownerID, "First", &one)
	second := seedServiceGoal(t, ownerID, "Second", &two)
	third := seedServiceGoal(t, ownerID, "Third", &three)

	repo := new(MockGoalRepository)
	repo.goals = []planner.Goal{first, second, third}
	found := second
	repo.On("FindByIDForOwner", mock.Anything, ownerID, second.ID).Return(&found, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*planner.Goal")).Return(nil)

	awarder := new(MockAwarder)
	awarder.On("Award", mock.Anything, ownerID, mock.AnythingOfType("int")).Return(1, nil)

	service := NewGoalService(repo, awarder)
	resp, err := service.Complete(context.Background(), ownerID, second.ID)

	assert.NoError(t, err)
	assert.True(t, resp.Completed)
	assert.Equal(t, string(planner.FocusStateBacklog), resp.FocusState)

	// The third goal slides into the vacated rank.
	ranks := map[uuid.UUID]*int{}
	for i := range repo.applied {
		ranks[repo.applied[i].GoalID] = repo.applied[i].Rank
	}
	assert.Equal(t, 2, *ranks[third.ID])
	awarder.AssertExpectations(t)
}

func TestGoalServiceReorderDropsOmittedGoals(t *testing.T) {
	ownerID := uuid.New()
	one, two := 1, 2
	first := seedServiceGoal(t, ownerID, "First", &one)
	second := seedServiceGoal(t, ownerID, "Second", &two)

	repo := new(MockGoalRepository)
	repo.goals = []planner.Goal{first, second}
	repo.On("FindFocusedForOwner", mock.Anything, ownerID).Return([]planner.Goal{second}, nil)

	service := NewGoalService(repo, nil)
	_, err := service.Reorder(context.Background(), ownerID, ReorderFocusRequest{GoalIDs: []uuid.UUID{second.ID}})

	assert.NoError(t, err)
	states := map[uuid.UUID]planner.FocusState{}
	for i := range repo.applied {
		states[repo.applied[i].GoalID] = repo.applied[i].State
	}
	assert.Equal(t, planner.FocusStateFocused, states[second.ID])
	assert.Equal(t, planner.FocusStateBacklog, states[first.ID])
}

func TestGoalServiceDeleteDemotesFirst(t *testing.T) {
	ownerID := uuid.New()
	one := 1
	goal := seedServiceGoal(t, ownerID, "Focused", &one)

	repo := new(MockGoalRepository)
	repo.goals = []planner.Goal{goal}
	repo.On("DeleteForOwner", mock.Anything, ownerID, goal.ID).Return(nil)

	service := NewGoalService(repo, nil)
	err := service.Delete(context.Background(), ownerID, goal.ID)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}
