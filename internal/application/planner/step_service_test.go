package planner

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/lifeos/backend/internal/domain/game"
	"github.com/lifeos/backend/internal/domain/planner"
	"github.com/lifeos/backend/internal/domain/shared"
)

// MockStepRepository is a mock implementation of StepRepository
type MockStepRepository struct {
	mock.Mock
}

func (m *MockStepRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*planner.Step, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*planner.Step), args.Error(1)
}

func (m *MockStepRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]planner.Step, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).([]planner.Step), args.Error(1)
}

func (m *MockStepRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStepRepository) Save(ctx context.Context, step *planner.Step) error {
	args := m.Called(ctx, step)
	return args.Error(0)
}

func (m *MockStepRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockStepRepository) FindTemplatesForOwner(ctx context.Context, ownerID uuid.UUID) ([]planner.Step, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]planner.Step), args.Error(1)
}

func (m *MockStepRepository) FindInstancesForOwner(ctx context.Context, ownerID uuid.UUID) ([]planner.Step, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]planner.Step), args.Error(1)
}

func (m *MockStepRepository) FindScheduledForOwner(ctx context.Context, ownerID uuid.UUID, day time.Time) ([]planner.Step, error) {
	args := m.Called(ctx, ownerID, day)
	return args.Get(0).([]planner.Step), args.Error(1)
}

func newServiceTemplate(t *testing.T, ownerID uuid.UUID, title string, days ...time.Weekday) planner.Step {
	t.Helper()
	tmpl, err := planner.NewTemplate(ownerID, title, planner.Recurrence{DaysOfWeek: days})
	assert.NoError(t, err)
	return *tmpl
}

func TestStepServiceCreateTemplate(t *testing.T) {
	repo := new(MockStepRepository)
	service := NewStepService(repo, nil)
	ownerID := uuid.New()

	repo.On("Save", mock.Anything, mock.AnythingOfType("*planner.Step")).Return(nil)

	resp, err := service.Create(context.Background(), ownerID, CreateStepRequest{
		Title:      "Morning run",
		Recurrence: &RecurrenceRequest{DaysOfWeek: []int{1, 3, 5}},
	})

	assert.NoError(t, err)
	assert.True(t, resp.IsTemplate)
	assert.Equal(t, []int{1, 3, 5}, resp.RecurrenceDays)
}

func TestStepServiceCompleteAwardsXP(t *testing.T) {
	ownerID := uuid.New()
	step, err := planner.NewStep(ownerID, "Write report")
	assert.NoError(t, err)

	repo := new(MockStepRepository)
	repo.On("FindByIDForOwner", mock.Anything, ownerID, step.ID).Return(step, nil)
	repo.On("Save", mock.Anything, step).Return(nil)

	awarder := new(MockAwarder)
	awarder.On("Award", mock.Anything, ownerID, game.XPStepCompleted).Return(0, nil)

	service := NewStepService(repo, awarder)
	resp, err := service.Complete(context.Background(), ownerID, step.ID)

	assert.NoError(t, err)
	assert.True(t, resp.Completed)
	awarder.AssertExpectations(t)
}

func TestStepServiceUpdateNullClearsSchedule(t *testing.T) {
	ownerID := uuid.New()
	step, err := planner.NewStep(ownerID, "Write report")
	assert.NoError(t, err)
	day := time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)
	step.Schedule(&day)

	repo := new(MockStepRepository)
	repo.On("FindByIDForOwner", mock.Anything, ownerID, step.ID).Return(step, nil)
	var saved *planner.Step
	repo.On("Save", mock.Anything, mock.AnythingOfType("*planner.Step")).Run(func(args mock.Arguments) {
		saved = args.Get(1).(*planner.Step)
	}).Return(nil)

	service := NewStepService(repo, nil)

	var req UpdateStepRequest
	assert.NoError(t, json.Unmarshal([]byte(`{"scheduled_date":null}`), &req))
	_, err = service.Update(context.Background(), ownerID, step.ID, req)

	assert.NoError(t, err)
	assert.Nil(t, saved.ScheduledDate)

	// Omitting the key keeps the existing date.
	step2, err := planner.NewStep(ownerID, "Send invoice")
	assert.NoError(t, err)
	step2.Schedule(&day)
	repo.On("FindByIDForOwner", mock.Anything, ownerID, step2.ID).Return(step2, nil)

	var rename UpdateStepRequest
	assert.NoError(t, json.Unmarshal([]byte(`{"title":"Send the invoice"}`), &rename))
	resp, err := service.Update(context.Background(), ownerID, step2.ID, rename)

	assert.NoError(t, err)
	assert.NotNil(t, resp.ScheduledDate)
	assert.True(t, day.Equal(*resp.ScheduledDate))
}

func TestStepServiceExpandAllCreatesInstances(t *testing.T) {
	ownerID := uuid.New()
	// Tuesday.
	today := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	run := newServiceTemplate(t, ownerID, "Morning run", time.Wednesday)
	journal := newServiceTemplate(t, ownerID, "Journal", time.Tuesday)

	repo := new(MockStepRepository)
	repo.On("FindTemplatesForOwner", mock.Anything, ownerID).Return([]planner.Step{run, journal}, nil)
	repo.On("FindInstancesForOwner", mock.Anything, ownerID).Return([]planner.Step{}, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*planner.Step")).Return(nil)

	service := NewStepService(repo, nil)
	result, err := service.ExpandAll(context.Background(), ownerID, today)

	assert.NoError(t, err)
	assert.Equal(t, 2, result.TemplatesSeen)
	assert.Equal(t, 2, result.InstancesCreated)
	assert.Empty(t, result.Errors)
}

func TestStepServiceExpandAllIsolatesBrokenTemplate(t *testing.T) {
	ownerID := uuid.New()
	today := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	broken := newServiceTemplate(t, ownerID, "Broken", time.Monday)
	broken.Recurrence = &planner.Recurrence{}
	healthy := newServiceTemplate(t, ownerID, "Journal", time.Tuesday)

	repo := new(MockStepRepository)
	repo.On("FindTemplatesForOwner", mock.Anything, ownerID).Return([]planner.Step{broken, healthy}, nil)
	repo.On("FindInstancesForOwner", mock.Anything, ownerID).Return([]planner.Step{}, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*planner.Step")).Return(nil)

	service := NewStepService(repo, nil)
	result, err := service.ExpandAll(context.Background(), ownerID, today)

	assert.NoError(t, err)
	assert.Equal(t, 1, result.InstancesCreated)
	assert.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Broken")
}

func TestStepServiceExpandAllIdempotent(t *testing.T) {
	ownerID := uuid.New()
	today := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	journal := newServiceTemplate(t, ownerID, "Journal", time.Tuesday)
	existing, err := journal.NewInstance(today)
	assert.NoError(t, err)

	repo := new(MockStepRepository)
	repo.On("FindTemplatesForOwner", mock.Anything, ownerID).Return([]planner.Step{journal}, nil)
	repo.On("FindInstancesForOwner", mock.Anything, ownerID).Return([]planner.Step{*existing}, nil)

	service := NewStepService(repo, nil)
	result, err := service.ExpandAll(context.Background(), ownerID, today)

	assert.NoError(t, err)
	assert.Equal(t, 0, result.InstancesCreated)
	repo.AssertNotCalled(t, "Save")
}
