package game

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/lifeos/backend/internal/domain/game"
	"github.com/lifeos/backend/internal/domain/identity"
	"github.com/lifeos/backend/internal/domain/shared"
)

// PlayerService manages progression. Players are provisioned lazily on the
// first XP award or profile read.
type PlayerService struct {
	playerRepo game.PlayerRepository
	userRepo   identity.UserRepository
}

// NewPlayerService creates a new PlayerService
func NewPlayerService(playerRepo game.PlayerRepository, userRepo identity.UserRepository) *PlayerService {
	return &PlayerService{playerRepo: playerRepo, userRepo: userRepo}
}

// Award adds XP to the owner's player, creating the player on first award.
// Returns the number of levels gained.
func (s *PlayerService) Award(ctx context.Context, ownerID uuid.UUID, amount int) (int, error) {
	player, err := s.ensurePlayer(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	gained, err := player.AwardXP(amount)
	if err != nil {
		return 0, err
	}
	if err := s.playerRepo.Save(ctx, player); err != nil {
		return 0, err
	}
	return gained, nil
}

// Me returns the owner's progression record
func (s *PlayerService) Me(ctx context.Context, ownerID uuid.UUID) (*PlayerResponse, error) {
	player, err := s.ensurePlayer(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	resp := ToPlayerResponse(player)
	return &resp, nil
}

// Leaderboard returns the highest-XP players
func (s *PlayerService) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	players, err := s.playerRepo.Top(ctx, limit)
	if err != nil {
		return nil, err
	}
	entries := make([]LeaderboardEntry, len(players))
	for i := range players {
		entries[i] = LeaderboardEntry{
			Handle: players[i].Handle,
			Level:  players[i].Level,
			XP:     players[i].XP,
		}
	}
	return entries, nil
}

func (s *PlayerService) ensurePlayer(ctx context.Context, ownerID uuid.UUID) (*game.Player, error) {
	player, err := s.playerRepo.FindByOwner(ctx, ownerID)
	if err == nil {
		return player, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	player, err = game.NewPlayer(ownerID, defaultHandle(user))
	if err != nil {
		return nil, err
	}
	if err := s.playerRepo.Save(ctx, player); err != nil {
		return nil, err
	}
	return player, nil
}

// defaultHandle derives a stable, unique-enough handle from the user profile
func defaultHandle(user *identity.User) string {
	base := user.DisplayName
	if base == "" {
		base = strings.SplitN(user.Email, "@", 2)[0]
	}
	base = strings.TrimSpace(base)
	if len(base) > 40 {
		base = base[:40]
	}
	return fmt.Sprintf("%s-%s", base, user.ID.String()[:8])
}
