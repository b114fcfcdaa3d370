package planner

import (
	"strings"

	"github.com/google/uuid"
	"github.com/lifeos/backend/internal/domain/shared"
)

// Area groups goals and steps into a life domain (health, work, family)
type Area struct {
	shared.OwnedAggregateRoot
	Name     string `gorm:"type:varchar(100);not null"`
	Color    string `gorm:"type:varchar(20)"`
	Icon     string `gorm:"type:varchar(50)"`
	Archived bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Area) TableName() string {
	return "areas"
}

// NewArea creates a new area for an owner
func NewArea(ownerID uuid.UUID, name string) (*Area, error) {
	if err := validateAreaName(name); err != nil {
		return nil, err
	}
	return &Area{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Name:               name,
	}, nil
}

// Rename changes the area name
func (a *Area) Rename(name string) error {
	if err := validateAreaName(name); err != nil {
		return err
	}
	a.Name = name
	a.Touch()
	a.IncrementVersion()
	return nil
}

// SetAppearance sets the display color and icon
func (a *Area) SetAppearance(color, icon string) error {
	if len(color) > 20 {
		return shared.NewDomainError("INVALID_COLOR", "Color cannot exceed 20 characters")
	}
	if len(icon) > 50 {
		return shared.NewDomainError("INVALID_ICON", "Icon cannot exceed 50 characters")
	}
	a.Color = color
	a.Icon = icon
	a.Touch()
	a.IncrementVersion()
	return nil
}

// Archive hides the area from active views
func (a *Area) Archive() {
	a.Archived = true
	a.Touch()
	a.IncrementVersion()
}

// Unarchive restores the area to active views
func (a *Area) Unarchive() {
	a.Archived = false
	a.Touch()
	a.IncrementVersion()
}

func validateAreaName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Area name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Area name cannot exceed 100 characters")
	}
	return nil
}
