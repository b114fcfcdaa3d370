package game

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/lifeos/backend/internal/domain/game"
	"github.com/lifeos/backend/internal/domain/identity"
	"github.com/lifeos/backend/internal/domain/shared"
)

// MockPlayerRepository is a mock implementation of PlayerRepository
type MockPlayerRepository struct {
	mock.Mock
}

func (m *MockPlayerRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*game.Player, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*game.Player), args.Error(1)
}

func (m *MockPlayerRepository) Save(ctx context.Context, player *game.Player) error {
	args := m.Called(ctx, player)
	return args.Error(0)
}

func (m *MockPlayerRepository) Top(ctx context.Context, limit int) ([]game.Player, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]game.Player), args.Error(1)
}

func (m *MockPlayerRepository) Delete(ctx context.Context, ownerID uuid.UUID) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindBySubject(ctx context.Context, subject string) (*identity.User, error) {
	args := m.Called(ctx, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) AllIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// =============================================================================
// Tests
// =============================================================================

func TestPlayerServiceAwardProvisionsOnFirstUse(t *testing.T) {
	user, err := identity.NewUser("auth0|x", "petr@example.com", "Petr")
	assert.NoError(t, err)

	playerRepo := new(MockPlayerRepository)
	playerRepo.On("FindByOwner", mock.Anything, user.ID).Return(nil, shared.ErrNotFound)
	var saved *game.Player
	playerRepo.On("Save", mock.Anything, mock.AnythingOfType("*game.Player")).Run(func(args mock.Arguments) {
		saved = args.Get(1).(*game.Player)
	}).Return(nil)

	userRepo := new(MockUserRepository)
	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	service := NewPlayerService(playerRepo, userRepo)
	gained, err := service.Award(context.Background(), user.ID, game.XPStepCompleted)

	assert.NoError(t, err)
	assert.Equal(t, 0, gained)
	assert.NotNil(t, saved)
	assert.Contains(t, saved.Handle, "Petr")
	assert.Equal(t, game.XPStepCompleted, saved.XP)
}

func TestPlayerServiceAwardLevelsUp(t *testing.T) {
	ownerID := uuid.New()
	player, err := game.NewPlayer(ownerID, "petr-12345678")
	assert.NoError(t, err)
	player.XP = 95

	playerRepo := new(MockPlayerRepository)
	playerRepo.On("FindByOwner", mock.Anything, ownerID).Return(player, nil)
	playerRepo.On("Save", mock.Anything, player).Return(nil)

	service := NewPlayerService(playerRepo, new(MockUserRepository))
	gained, err := service.Award(context.Background(), ownerID, 10)

	assert.NoError(t, err)
	assert.Equal(t, 1, gained)
	assert.Equal(t, 2, player.Level)
}

func TestPlayerServiceAwardRejectsNonPositive(t *testing.T) {
	ownerID := uuid.New()
	player, err := game.NewPlayer(ownerID, "petr-12345678")
	assert.NoError(t, err)

	playerRepo := new(MockPlayerRepository)
	playerRepo.On("FindByOwner", mock.Anything, ownerID).Return(player, nil)

	service := NewPlayerService(playerRepo, new(MockUserRepository))
	_, err = service.Award(context.Background(), ownerID, 0)

	assert.Error(t, err)
	playerRepo.AssertNotCalled(t, "Save")
}

func TestPlayerServiceLeaderboard(t *testing.T) {
	first, err := game.NewPlayer(uuid.New(), "alpha")
	assert.NoError(t, err)
	first.XP = 500
	first.Level = 4
	second, err := game.NewPlayer(uuid.New(), "beta")
	assert.NoError(t, err)
	second.XP = 120

	playerRepo := new(MockPlayerRepository)
	playerRepo.On("Top", mock.Anything, 10).Return([]game.Player{*first, *second}, nil)

	service := NewPlayerService(playerRepo, new(MockUserRepository))
	entries, err := service.Leaderboard(context.Background(), 10)

	assert.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, "alpha", entries[0].Handle)
	assert.Equal(t, 4, entries[0].Level)
}
