package game

import (
	"strings"

	"github.com/google/uuid"

	"github.com/lifeos/backend/internal/domain/shared"
)

// XP awards for the actions that feed the progression system
const (
	XPStepCompleted  = 10
	XPHabitCheckIn   = 5
	XPGoalCompleted  = 50
	XPMilestoneDone  = 25
	XPBookingHandled = 15
)

// xpForLevel is the cumulative XP needed to reach a level: 100 for level 2,
// then 50% more per level.
func xpForLevel(level int) int {
	xp := 0
	step := 100
	for l := 2; l <= level; l++ {
		xp += step
		step = step * 3 / 2
	}
	return xp
}

// Player is the per-user progression record
type Player struct {
	shared.OwnedAggregateRoot
	Handle string `gorm:"type:varchar(50);uniqueIndex;not null" json:"handle"`
	Level  int    `gorm:"default:1;not null" json:"level"`
	XP     int    `gorm:"default:0;not null" json:"xp"`
}

// TableName returns the table name for GORM
func (Player) TableName() string {
	return "players"
}

// NewPlayer creates a level 1 player
func NewPlayer(ownerID uuid.UUID, handle string) (*Player, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, shared.NewDomainError("INVALID_HANDLE", "Handle cannot be empty")
	}
	if len(handle) > 50 {
		return nil, shared.NewDomainError("INVALID_HANDLE", "Handle cannot exceed 50 characters")
	}
	return &Player{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Handle:             handle,
		Level:              1,
	}, nil
}

// AwardXP adds experience and applies any level-ups. Returns the number of
// levels gained.
func (p *Player) AwardXP(amount int) (int, error) {
	if amount <= 0 {
		return 0, shared.NewDomainError("INVALID_XP", "XP award must be positive")
	}
	p.XP += amount
	gained := 0
	for p.XP >= xpForLevel(p.Level+1) {
		p.Level++
		gained++
	}
	p.Touch()
	p.IncrementVersion()
	return gained, nil
}

// NextLevelXP returns the cumulative XP threshold for the next level
func (p *Player) NextLevelXP() int {
	return xpForLevel(p.Level + 1)
}
