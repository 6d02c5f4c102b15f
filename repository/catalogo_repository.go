package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/caribelex/expedientes/models"
	"github.com/caribelex/expedientes/utils"
	"gorm.io/gorm"
)

// CatalogoRepositoryImpl implements CatalogoRepository interface
type CatalogoRepositoryImpl struct {
	*BaseRepository[models.Catalogo, models.CatalogoFilter]
}

// NewCatalogoRepository creates a new catalog repository
func NewCatalogoRepository(db *gorm.DB) CatalogoRepository {
	return &CatalogoRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Catalogo, models.CatalogoFilter](db),
	}
}

// ListByKind lists catalog entries of one kind, ordered by name
func (r *CatalogoRepositoryImpl) ListByKind(ctx context.Context, kind string, activeOnly bool) ([]*models.Catalogo, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Catalogo{}).Where("kind = ?", kind)

	if activeOnly {
		query = query.Where("activo = ?", true)
	}

	var catalogos []*models.Catalogo
	err := query.Order("nombre ASC").Find(&catalogos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog entries of kind %s: %w", kind, err)
	}

	return catalogos, nil
}

// ByKindAndNombre retrieves a single catalog entry by kind and display name
func (r *CatalogoRepositoryImpl) ByKindAndNombre(ctx context.Context, kind, nombre string) (*models.Catalogo, error) {
	db := r.getDB(ctx)

	var catalogo models.Catalogo
	err := db.Where("kind = ? AND nombre = ?", kind, nombre).Last(&catalogo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find catalog entry %s/%s: %w", kind, nombre, err)
	}

	return &catalogo, nil
}

// SetActivo toggles the active flag of a catalog entry
func (r *CatalogoRepositoryImpl) SetActivo(ctx context.Context, id uint, activo bool) error {
	db := r.getDB(ctx)

	result := db.Model(&models.Catalogo{}).
		Where("id = ?", id).
		Updates(map[string]any{"activo": activo, "updated_at": utils.UTCNow()})
	if result.Error != nil {
		return fmt.Errorf("failed to toggle catalog entry %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *CatalogoRepositoryImpl) applyFilter(query *gorm.DB, filter models.CatalogoFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}
	if filter.Nombre != nil {
		query = query.Where("nombre = ?", *filter.Nombre)
	}
	if filter.Activo != nil {
		query = query.Where("activo = ?", *filter.Activo)
	}
	return query
}

// ByFilter retrieves catalog entries based on filter criteria
func (r *CatalogoRepositoryImpl) ByFilter(ctx context.Context, filter models.CatalogoFilter, orderBy string, limit, offset int) ([]*models.Catalogo, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Catalogo{}), filter)

	if orderBy == "" {
		orderBy = "nombre ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var catalogos []*models.Catalogo
	err := query.Find(&catalogos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find catalog entries by filter: %w", err)
	}

	return catalogos, nil
}

// Count returns the number of catalog entries matching the filter
func (r *CatalogoRepositoryImpl) Count(ctx context.Context, filter models.CatalogoFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Catalogo{}), filter)

	var count int64
	err := query.Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count catalog entries: %w", err)
	}

	return count, nil
}

// Exists checks if any catalog entry matching the filter exists
func (r *CatalogoRepositoryImpl) Exists(ctx context.Context, filter models.CatalogoFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
