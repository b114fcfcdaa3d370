package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lifeos/backend/internal/domain/game"
	"github.com/lifeos/backend/internal/domain/shared"
)

// GormPlayerRepository implements PlayerRepository using GORM
type GormPlayerRepository struct {
	db *gorm.DB
}

// NewGormPlayerRepository creates a new GormPlayerRepository
func NewGormPlayerRepository(db *gorm.DB) *GormPlayerRepository {
	return &GormPlayerRepository{db: db}
}

// FindByOwner finds a user's player record
func (r *GormPlayerRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*game.Player, error) {
	var player game.Player
	if err := r.db.WithContext(ctx).First(&player, "owner_id = ?", ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &player, nil
}

// Save persists a player
func (r *GormPlayerRepository) Save(ctx context.Context, player *game.Player) error {
	return r.db.WithContext(ctx).Save(player).Error
}

// Top returns the highest-XP players for the leaderboard
func (r *GormPlayerRepository) Top(ctx context.Context, limit int) ([]game.Player, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}
	var players []game.Player
	err := r.db.WithContext(ctx).
		Order("xp DESC").
		Limit(limit).
		Find(&players).Error
	if err != nil {
		return nil, err
	}
	return players, nil
}

// Delete removes a user's player record
func (r *GormPlayerRepository) Delete(ctx context.Context, ownerID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&game.Player{}, "owner_id = ?", ownerID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
