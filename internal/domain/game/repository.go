package game

import (
	"context"

	"github.com/google/uuid"
)

// PlayerRepository provides access to player progression records
type PlayerRepository interface {
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*Player, error)
	Save(ctx context.Context, player *Player) error
	// Top returns the highest-XP players for the leaderboard.
	Top(ctx context.Context, limit int) ([]Player, error)
	Delete(ctx context.Context, ownerID uuid.UUID) error
}
