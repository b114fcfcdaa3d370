package planner

import (
	"context"

	"github.com/google/uuid"

	"github.com/lifeos/backend/internal/domain/planner"
	"github.com/lifeos/backend/internal/domain/shared"
)

// AreaService handles life-area operations
type AreaService struct {
	areaRepo planner.AreaRepository
}

// NewAreaService creates a new AreaService
func NewAreaService(areaRepo planner.AreaRepository) *AreaService {
	return &AreaService{areaRepo: areaRepo}
}

// Create creates a new area for the owner
func (s *AreaService) Create(ctx context.Context, ownerID uuid.UUID, req CreateAreaRequest) (*AreaResponse, error) {
	area, err := planner.NewArea(ownerID, req.Name)
	if err != nil {
		return nil, err
	}
	if req.Color != "" || req.Icon != "" {
		if err := area.SetAppearance(req.Color, req.Icon); err != nil {
			return nil, err
		}
	}
	if err := s.areaRepo.Save(ctx, area); err != nil {
		return nil, err
	}
	resp := ToAreaResponse(area)
	return &resp, nil
}

// Get returns one of the owner's areas
func (s *AreaService) Get(ctx context.Context, ownerID, id uuid.UUID) (*AreaResponse, error) {
	area, err := s.areaRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	resp := ToAreaResponse(area)
	return &resp, nil
}

// List returns the owner's areas
func (s *AreaService) List(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]AreaResponse, int64, error) {
	areas, err := s.areaRepo.FindAllForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.areaRepo.CountForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]AreaResponse, len(areas))
	for i := range areas {
		responses[i] = ToAreaResponse(&areas[i])
	}
	return responses, total, nil
}

// Update applies a partial update to one of the owner's areas
func (s *AreaService) Update(ctx context.Context, ownerID, id uuid.UUID, req UpdateAreaRequest) (*AreaResponse, error) {
	area, err := s.areaRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := area.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Color != nil || req.Icon != nil {
		color := area.Color
		icon := area.Icon
		if req.Color != nil {
			color = *req.Color
		}
		if req.Icon != nil {
			icon = *req.Icon
		}
		if err := area.SetAppearance(color, icon); err != nil {
			return nil, err
		}
	}
	if req.Archived != nil {
		if *req.Archived {
			area.Archive()
		} else {
			area.Unarchive()
		}
	}

	if err := s.areaRepo.Save(ctx, area); err != nil {
		return nil, err
	}
	resp := ToAreaResponse(area)
	return &resp, nil
}

// Delete removes one of the owner's areas
func (s *AreaService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.areaRepo.DeleteForOwner(ctx, ownerID, id)
}
