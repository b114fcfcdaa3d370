package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appplanner "github.com/lifeos/backend/internal/application/planner"
	"github.com/lifeos/backend/internal/domain/planner"
	"github.com/lifeos/backend/internal/domain/shared"
	"github.com/lifeos/backend/internal/interfaces/http/dto"
)

// MockGoalRepository backs goal routes in tests. MutateFocus runs the plan
// function against the goals field so focus endpoints exercise real planning.
type MockGoalRepository struct {
	mock.Mock
	goals []planner.Goal
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
	_, err := fn(m.goals)
	return err
}

func newGoalRouter(repo *MockGoalRepository, userID uuid.UUID) *gin.Engine {
	service := appplanner.NewGoalService(repo, nil)
	h := NewGoalHandler(service, nil)

	router := gin.New()
	router.Use(authMiddleware(userID))
	api := router.Group("")
	h.RegisterRoutes(api)
	return router
}

func TestGoalCreateEndpoint(t *testing.T) {
	ownerID := uuid.New()
	repo := new(MockGoalRepository)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*planner.Goal")).Return(nil)
	router := newGoalRouter(repo, ownerID)

	body, _ := json.Marshal(map[string]string{"title": "Run a marathon"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/goals", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	repo.AssertExpectations(t)
}

func TestGoalCreateEndpointValidatesBody(t *testing.T) {
	ownerID := uuid.New()
	repo := new(MockGoalRepository)
	router := newGoalRouter(repo, ownerID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/goals", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	repo.AssertNotCalled(t, "Save")
}

func TestGoalGetEndpointNotFound(t *testing.T) {
	ownerID := uuid.New()
	goalID := uuid.New()
	repo := new(MockGoalRepository)
	repo.On("FindByIDForOwner", mock.Anything, ownerID, goalID).Return(nil, shared.ErrNotFound)
	router := newGoalRouter(repo, ownerID)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/goals/"+goalID.String(), nil))

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestGoalGetEndpointRejectsBadID(t *testing.T) {
	router := newGoalRouter(new(MockGoalRepository), uuid.New())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/goals/not-a-uuid", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGoalEndpointsRequireUser(t *testing.T) {
	service := appplanner.NewGoalService(new(MockGoalRepository), nil)
	h := NewGoalHandler(service, nil)

	router := gin.New()
	api := router.Group("")
	h.RegisterRoutes(api)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/goals", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFocusReorderEndpoint(t *testing.T) {
	ownerID := uuid.New()
	one, two := 1, 2
	first := seedGoal(t, ownerID, "First", &one)
	second := seedGoal(t, ownerID, "Second", &two)

	repo := new(MockGoalRepository)
	repo.goals = []planner.Goal{first, second}
	repo.On("FindFocusedForOwner", mock.Anything, ownerID).
		Return([]planner.Goal{second, first}, nil)
	router := newGoalRouter(repo, ownerID)

	body, _ := json.Marshal(map[string][]uuid.UUID{
		"goal_ids": {second.ID, first.ID},
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/focus", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	repo.AssertExpectations(t)
}

func TestGoalPromoteEndpointUnknownGoal(t *testing.T) {
	ownerID := uuid.New()
	repo := new(MockGoalRepository)
	router := newGoalRouter(repo, ownerID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/goals/"+uuid.NewString()+"/promote", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGoalPromoteEndpointAcceptsEmptyBody(t *testing.T) {
	ownerID := uuid.New()
	backlog := seedGoal(t, ownerID, "Run a marathon", nil)

	repo := new(MockGoalRepository)
	repo.goals = []planner.Goal{backlog}
	repo.On("FindFocusedForOwner", mock.Anything, ownerID).
		Return([]planner.Goal{backlog}, nil)
	router := newGoalRouter(repo, ownerID)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/goals/"+backlog.ID.String()+"/promote", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func seedGoal(t *testing.T, ownerID uuid.UUID, title string, rank *int) planner.Goal {
	t.Helper()
	goal, err := planner.NewGoal(ownerID, title)
	require.NoError(t, err)
	if rank != nil {
		goal.FocusState = planner.FocusStateFocused
		r := *rank
		goal.FocusRank = &r
	}
	return *goal
}
