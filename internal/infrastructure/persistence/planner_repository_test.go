package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lifeos/backend/internal/domain/planner"
	"github.com/lifeos/backend/internal/domain/shared"
)

func setupPlannerTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&planner.Area{}, &planner.Step{}, &planner.Goal{}, &planner.Habit{}, &planner.Milestone{})
	require.NoError(t, err)

	return db
}

func seedGoal(t *testing.T, repo *GormGoalRepository, ownerID uuid.UUID, title string, rank *int) *planner.Goal {
	t.Helper()
	g, err := planner.NewGoal(ownerID, title)
	require.NoError(t, err)
	if rank != nil {
		g.FocusState = planner.FocusStateFocused
		g.FocusRank = rank
	}
	require.NoError(t, repo.Save(context.Background(), g))
	return g
}

func intp(v int) *int { return &v }

func TestGoalRepository_OwnershipIsolation(t *testing.T) {
	db := setupPlannerTestDB(t)
	repo := NewGormGoalRepository(db)
	ctx := context.Background()

	alice := uuid.New()
	bob := uuid.New()
	g := seedGoal(t, repo, alice, "Alice's goal", nil)

	// Bob cannot see, list, or delete Alice's goal.
	_, err := repo.FindByIDForOwner(ctx, bob, g.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	goals, err := repo.FindAllForOwner(ctx, bob, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Empty(t, goals)

	err = repo.DeleteForOwner(ctx, bob, g.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	// Alice still can.
	found, err := repo.FindByIDForOwner(ctx, alice, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice's goal", found.Title)
}

func TestGoalRepository_MutateFocusAppliesPlan(t *testing.T) {
	db := setupPlannerTestDB(t)
	repo := NewGormGoalRepository(db)
	ctx := context.Background()

	ownerID := uuid.New()
	a := seedGoal(t, repo, ownerID, "a", intp(1))
	b := seedGoal(t, repo, ownerID, "b", intp(2))
	c := seedGoal(t, repo, ownerID, "c", nil)

	err := repo.MutateFocus(ctx, ownerID, func(goals []planner.Goal) ([]planner.FocusAssignment, error) {
		assert.Len(t, goals, 3)
		one := 1
		return planner.PlanPromote(goals, c.ID, &one)
	})
	require.NoError(t, err)

	focused, err := repo.FindFocusedForOwner(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, focused, 3)
	assert.Equal(t, c.ID, focused[0].ID)
	assert.Equal(t, a.ID, focused[1].ID)
	assert.Equal(t, b.ID, focused[2].ID)
	assert.NoError(t, planner.CheckFocusDensity(focused))
}

func TestGoalRepository_MutateFocusRollsBackOnPlanError(t *testing.T) {
	db := setupPlannerTestDB(t)
	repo := NewGormGoalRepository(db)
	ctx := context.Background()

	ownerID := uuid.New()
	seedGoal(t, repo, ownerID, "a", intp(1))

	err := repo.MutateFocus(ctx, ownerID, func(goals []planner.Goal) ([]planner.FocusAssignment, error) {
		return nil, shared.ErrInvalidInput
	})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	focused, err := repo.FindFocusedForOwner(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, focused, 1)
	assert.Equal(t, 1, *focused[0].FocusRank)
}

func TestGoalRepository_MutateFocusScopedToOwner(t *testing.T) {
	db := setupPlannerTestDB(t)
	repo := NewGormGoalRepository(db)
	ctx := context.Background()

	alice := uuid.New()
	bob := uuid.New()
	seedGoal(t, repo, alice, "alice goal", intp(1))
	seedGoal(t, repo, bob, "bob goal", intp(1))

	err := repo.MutateFocus(ctx, alice, func(goals []planner.Goal) ([]planner.FocusAssignment, error) {
		require.Len(t, goals, 1)
		assert.Equal(t, "alice goal", goals[0].Title)
		return planner.PlanDemote(goals, goals[0].ID)
	})
	require.NoError(t, err)

	bobFocused, err := repo.FindFocusedForOwner(ctx, bob)
	require.NoError(t, err)
	assert.Len(t, bobFocused, 1)
}

func TestStepRepository_TemplateAndInstanceQueries(t *testing.T) {
	db := setupPlannerTestDB(t)
	repo := NewGormStepRepository(db)
	ctx := context.Background()

	ownerID := uuid.New()
	tmpl, err := planner.NewTemplate(ownerID, "Ranní běh", planner.Recurrence{
		DaysOfWeek: []time.Weekday{time.Monday},
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, tmpl))

	day := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	inst, err := tmpl.NewInstance(day)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, inst))

	templates, err := repo.FindTemplatesForOwner(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, tmpl.ID, templates[0].ID)
	require.NotNil(t, templates[0].Recurrence)
	assert.Equal(t, []time.Weekday{time.Monday}, templates[0].Recurrence.DaysOfWeek)

	instances, err := repo.FindInstancesForOwner(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.Equal(t, inst.ID, instances[0].ID)

	scheduled, err := repo.FindScheduledForOwner(ctx, ownerID, day)
	require.NoError(t, err)
	require.Len(t, scheduled, 1)

	scheduled, err = repo.FindScheduledForOwner(ctx, ownerID, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, scheduled)
}

func TestHabitRepository_FindActiveForOwner(t *testing.T) {
	db := setupPlannerTestDB(t)
	repo := NewGormHabitRepository(db)
	ctx := context.Background()

	ownerID := uuid.New()
	active, err := planner.NewHabit(ownerID, "Run")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, active))

	archived, err := planner.NewHabit(ownerID, "Old habit")
	require.NoError(t, err)
	archived.Archive()
	require.NoError(t, repo.Save(ctx, archived))

	habits, err := repo.FindActiveForOwner(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, "Run", habits[0].Name)
}
