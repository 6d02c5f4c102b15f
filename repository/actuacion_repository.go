package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/caribelex/expedientes/models"
	"gorm.io/gorm"
)

// ActuacionRepositoryImpl implements ActuacionRepository interface
type ActuacionRepositoryImpl struct {
	*BaseRepository[models.Actuacion, models.ActuacionFilter]
}

// NewActuacionRepository creates a new actuación repository
func NewActuacionRepository(db *gorm.DB) ActuacionRepository {
	return &ActuacionRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Actuacion, models.ActuacionFilter](db),
	}
}

// ListByExpediente lists actuaciones for one expediente, most recent first
func (r *ActuacionRepositoryImpl) ListByExpediente(ctx context.Context, expedienteID uint, limit, offset int) ([]*models.Actuacion, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Actuacion{}).
		Where("expediente_id = ?", expedienteID).
		Order("fecha DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var actuaciones []*models.Actuacion
	err := query.Find(&actuaciones).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list actuaciones for expediente %d: %w", expedienteID, err)
	}

	return actuaciones, nil
}

// LatestFecha returns the date of the most recent actuación for the expediente.
// A single descending, limit-1 query; nil means the case has no actuaciones.
func (r *ActuacionRepositoryImpl) LatestFecha(ctx context.Context, expedienteID uint) (*time.Time, error) {
	db := r.getDB(ctx)

	var actuacion models.Actuacion
	err := db.Where("expediente_id = ?", expedienteID).
		Order("fecha DESC").
		Limit(1).
		Take(&actuacion).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find latest actuación for expediente %d: %w", expedienteID, err)
	}

	fecha := actuacion.Fecha
	return &fecha, nil
}

// CountByExpediente returns the number of actuaciones logged against the expediente
func (r *ActuacionRepositoryImpl) CountByExpediente(ctx context.Context, expedienteID uint) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	err := db.Model(&models.Actuacion{}).
		Where("expediente_id = ?", expedienteID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count actuaciones: %w", err)
	}

	return count, nil
}

func (r *ActuacionRepositoryImpl) applyFilter(query *gorm.DB, filter models.ActuacionFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.ExpedienteID != nil {
		query = query.Where("expediente_id = ?", *filter.ExpedienteID)
	}
	if filter.UsuarioID != nil {
		query = query.Where("usuario_id = ?", *filter.UsuarioID)
	}
	if filter.Tipo != nil {
		query = query.Where("tipo = ?", *filter.Tipo)
	}
	if filter.FechaDesde != nil {
		query = query.Where("fecha >= ?", *filter.FechaDesde)
	}
	if filter.FechaHasta != nil {
		query = query.Where("fecha <= ?", *filter.FechaHasta)
	}
	return query
}

// ByFilter retrieves actuaciones based on filter criteria
func (r *ActuacionRepositoryImpl) ByFilter(ctx context.Context, filter models.ActuacionFilter, orderBy string, limit, offset int) ([]*models.Actuacion, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Actuacion{}), filter)

	if orderBy == "" {
		orderBy = "fecha DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var actuaciones []*models.Actuacion
	err := query.Find(&actuaciones).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find actuaciones by filter: %w", err)
	}

	return actuaciones, nil
}

// Count returns the number of actuaciones matching the filter
func (r *ActuacionRepositoryImpl) Count(ctx context.Context, filter models.ActuacionFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Actuacion{}), filter)

	var count int64
	err := query.Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count actuaciones: %w", err)
	}

	return count, nil
}

// Exists checks if any actuación matching the filter exists
func (r *ActuacionRepositoryImpl) Exists(ctx context.Context, filter models.ActuacionFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
