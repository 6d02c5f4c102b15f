package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/caribelex/expedientes/models"
	"github.com/caribelex/expedientes/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExpedienteRepositoryImpl implements ExpedienteRepository interface
type ExpedienteRepositoryImpl struct {
	*BaseRepository[models.Expediente, models.ExpedienteFilter]
}

// NewExpedienteRepository creates a new expediente repository
func NewExpedienteRepository(db *gorm.DB) ExpedienteRepository {
	return &ExpedienteRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Expediente, models.ExpedienteFilter](db),
	}
}

// ByUUID retrieves an expediente by its UUID
func (r *ExpedienteRepositoryImpl) ByUUID(ctx context.Context, id uuid.UUID) (*models.Expediente, error) {
	db := r.getDB(ctx)

	var expediente models.Expediente
	err := db.Where("uuid = ?", id).Last(&expediente).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find expediente by UUID: %w", err)
	}

	return &expediente, nil
}

// ByRadicacionUnica retrieves an expediente by its unique filing number
func (r *ExpedienteRepositoryImpl) ByRadicacionUnica(ctx context.Context, radicacion string) (*models.Expediente, error) {
	db := r.getDB(ctx)

	var expediente models.Expediente
	err := db.Where("radicacion_unica = ?", radicacion).Last(&expediente).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find expediente by radicación: %w", err)
	}

	return &expediente, nil
}

// Update persists changes to an existing expediente and bumps its modification stamp
func (r *ExpedienteRepositoryImpl) Update(ctx context.Context, expediente *models.Expediente) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	expediente.UpdatedAt = utils.UTCNow()
	err = db.Save(expediente).Error
	if err != nil {
		return fmt.Errorf("failed to update expediente: %w", err)
	}

	return nil
}

// ListExcludingEstados returns all expedientes whose estado is not in estadoIDs.
// Used by the alerts subsystem to enumerate open cases.
func (r *ExpedienteRepositoryImpl) ListExcludingEstados(ctx context.Context, estadoIDs []uint) ([]*models.Expediente, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Expediente{})

	if len(estadoIDs) > 0 {
		query = query.Where("estado_id NOT IN ?", estadoIDs)
	}

	var expedientes []*models.Expediente
	err := query.Order("created_at ASC").Find(&expedientes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list open expedientes: %w", err)
	}

	return expedientes, nil
}

func (r *ExpedienteRepositoryImpl) applyFilter(query *gorm.DB, filter models.ExpedienteFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.RadicacionUnica != nil {
		query = query.Where("radicacion_unica = ?", *filter.RadicacionUnica)
	}
	if filter.ClaseID != nil {
		query = query.Where("clase_id = ?", *filter.ClaseID)
	}
	if filter.EstadoID != nil {
		query = query.Where("estado_id = ?", *filter.EstadoID)
	}
	if filter.OrigenID != nil {
		query = query.Where("origen_id = ?", *filter.OrigenID)
	}
	if filter.DespachoID != nil {
		query = query.Where("despacho_id = ?", *filter.DespachoID)
	}
	if filter.UbicacionID != nil {
		query = query.Where("ubicacion_id = ?", *filter.UbicacionID)
	}
	if filter.Prioridad != nil {
		query = query.Where("prioridad = ?", *filter.Prioridad)
	}
	if filter.ResponsableUserID != nil {
		query = query.Where("responsable_user_id = ?", *filter.ResponsableUserID)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves expedientes based on filter criteria
func (r *ExpedienteRepositoryImpl) ByFilter(ctx context.Context, filter models.ExpedienteFilter, orderBy string, limit, offset int) ([]*models.Expediente, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Expediente{}), filter)

	// Apply ordering (default to most recently modified first, like the UI)
	if orderBy == "" {
		orderBy = "updated_at DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var expedientes []*models.Expediente
	err := query.Find(&expedientes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find expedientes by filter: %w", err)
	}

	return expedientes, nil
}

// Count returns the number of expedientes matching the filter
func (r *ExpedienteRepositoryImpl) Count(ctx context.Context, filter models.ExpedienteFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Expediente{}), filter)

	var count int64
	err := query.Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count expedientes: %w", err)
	}

	return count, nil
}

// Exists checks if any expediente matching the filter exists
func (r *ExpedienteRepositoryImpl) Exists(ctx context.Context, filter models.ExpedienteFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
