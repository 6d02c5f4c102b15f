package repository

import (
	"context"
	"fmt"

	"github.com/caribelex/expedientes/models"
	"gorm.io/gorm"
)

// NotificacionRepositoryImpl implements NotificacionRepository interface
type NotificacionRepositoryImpl struct {
	*BaseRepository[models.Notificacion, models.NotificacionFilter]
}

// NewNotificacionRepository creates a new notification repository
func NewNotificacionRepository(db *gorm.DB) NotificacionRepository {
	return &NotificacionRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Notificacion, models.NotificacionFilter](db),
	}
}

// ListByUser lists notifications for one user, most recent first
func (r *NotificacionRepositoryImpl) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Notificacion, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Notificacion{}).
		Where("user_id = ?", userID).
		Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var notificaciones []*models.Notificacion
	err := query.Find(&notificaciones).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications for user %d: %w", userID, err)
	}

	return notificaciones, nil
}

// CountUnread returns the number of unread notifications for the user
func (r *NotificacionRepositoryImpl) CountUnread(ctx context.Context, userID uint) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	err := db.Model(&models.Notificacion{}).
		Where("user_id = ? AND leida = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return count, nil
}

// MarkRead marks a single notification as read. The userID guard keeps a user
// from marking someone else's notification.
func (r *NotificacionRepositoryImpl) MarkRead(ctx context.Context, id, userID uint) error {
	db := r.getDB(ctx)

	result := db.Model(&models.Notificacion{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("leida", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification %d read: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// MarkAllRead marks every unread notification of the user as read
func (r *NotificacionRepositoryImpl) MarkAllRead(ctx context.Context, userID uint) error {
	db := r.getDB(ctx)

	err := db.Model(&models.Notificacion{}).
		Where("user_id = ? AND leida = ?", userID, false).
		Update("leida", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark notifications read for user %d: %w", userID, err)
	}

	return nil
}

func (r *NotificacionRepositoryImpl) applyFilter(query *gorm.DB, filter models.NotificacionFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.ExpedienteID != nil {
		query = query.Where("expediente_id = ?", *filter.ExpedienteID)
	}
	if filter.Tipo != nil {
		query = query.Where("tipo = ?", *filter.Tipo)
	}
	if filter.Leida != nil {
		query = query.Where("leida = ?", *filter.Leida)
	}
	return query
}

// ByFilter retrieves notifications based on filter criteria
func (r *NotificacionRepositoryImpl) ByFilter(ctx context.Context, filter models.NotificacionFilter, orderBy string, limit, offset int) ([]*models.Notificacion, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Notificacion{}), filter)

	if orderBy == "" {
		orderBy = "created_at DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var notificaciones []*models.Notificacion
	err := query.Find(&notificaciones).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find notifications by filter: %w", err)
	}

	return notificaciones, nil
}

// Count returns the number of notifications matching the filter
func (r *NotificacionRepositoryImpl) Count(ctx context.Context, filter models.NotificacionFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Notificacion{}), filter)

	var count int64
	err := query.Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	return count, nil
}

// Exists checks if any notification matching the filter exists
func (r *NotificacionRepositoryImpl) Exists(ctx context.Context, filter models.NotificacionFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
