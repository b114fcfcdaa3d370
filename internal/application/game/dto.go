package game

import (
	"github.com/google/uuid"

	"github.com/lifeos/backend/internal/domain/game"
)

// PlayerResponse represents a player in API responses
type PlayerResponse struct {
	ID          uuid.UUID `json:"id"`
	Handle      string    `json:"handle"`
	Level       int       `json:"level"`
	XP          int       `json:"xp"`
	NextLevelXP int       `json:"next_level_xp"`
}

// ToPlayerResponse converts a domain Player to PlayerResponse
func ToPlayerResponse(p *game.Player) PlayerResponse {
	return PlayerResponse{
		ID:          p.ID,
		Handle:      p.Handle,
		Level:       p.Level,
		XP:          p.XP,
		NextLevelXP: p.NextLevelXP(),
	}
}

// LeaderboardEntry is one row of the public leaderboard. Only the handle
// leaves the owner's account.
type LeaderboardEntry struct {
	Handle string `json:"handle"`
	Level  int    `json:"level"`
	XP     int    `json:"xp"`
}
