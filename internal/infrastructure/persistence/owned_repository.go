package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lifeos/backend/internal/domain/shared"
)

// ownedRepository implements shared.OwnedRepository for any owner-scoped
// aggregate. Concrete repositories embed it and add their own finders.
// searchColumns lists the columns the filter's Search term matches against.
type ownedRepository[T any] struct {
	db            *gorm.DB
	searchColumns []string
}

func newOwnedRepository[T any](db *gorm.DB, searchColumns ...string) ownedRepository[T] {
	return ownedRepository[T]{db: db, searchColumns: searchColumns}
}

// FindByIDForOwner finds an aggregate by id, scoped to the owner. Records of
// other owners surface as not found.
func (r *ownedRepository[T]) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*T, error) {
	var entity T
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// FindAllForOwner finds all of the owner's aggregates matching the filter
func (r *ownedRepository[T]) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]T, error) {
	var entities []T
	var model T
	query := r.db.WithContext(ctx).Model(&model).Where("owner_id = ?", ownerID)
	query = applySearch(query, filter.Search, r.searchColumns...)
	query = applyFilter(query, filter)
	if err := query.Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// CountForOwner counts the owner's aggregates matching the filter
func (r *ownedRepository[T]) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	var model T
	query := r.db.WithContext(ctx).Model(&model).Where("owner_id = ?", ownerID)
	query = applySearch(query, filter.Search, r.searchColumns...)
	for column, value := range filter.Filters {
		if !isSafeColumn(column) {
			continue
		}
		query = query.Where(column+" = ?", value)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save persists the aggregate, inserting or updating as needed
func (r *ownedRepository[T]) Save(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Save(entity).Error
}

// DeleteForOwner deletes the aggregate if it belongs to the owner
func (r *ownedRepository[T]) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	var model T
	result := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Delete(&model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
