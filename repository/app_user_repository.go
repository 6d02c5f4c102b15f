package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/caribelex/expedientes/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppUserRepositoryImpl implements AppUserRepository interface
type AppUserRepositoryImpl struct {
	*BaseRepository[models.AppUser, models.AppUserFilter]
}

// NewAppUserRepository creates a new user repository
func NewAppUserRepository(db *gorm.DB) AppUserRepository {
	return &AppUserRepositoryImpl{
		BaseRepository: NewBaseRepository[models.AppUser, models.AppUserFilter](db),
	}
}

// ByEmail retrieves a user by email address
func (r *AppUserRepositoryImpl) ByEmail(ctx context.Context, email string) (*models.AppUser, error) {
	db := r.getDB(ctx)

	var user models.AppUser
	err := db.Where("email = ?", email).Last(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	return &user, nil
}

// ByUUID retrieves a user by UUID
func (r *AppUserRepositoryImpl) ByUUID(ctx context.Context, id uuid.UUID) (*models.AppUser, error) {
	db := r.getDB(ctx)

	var user models.AppUser
	err := db.Where("uuid = ?", id).Last(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by UUID: %w", err)
	}

	return &user, nil
}

// ListActive lists all active users ordered by display name
func (r *AppUserRepositoryImpl) ListActive(ctx context.Context) ([]*models.AppUser, error) {
	db := r.getDB(ctx)

	var users []*models.AppUser
	err := db.Where("is_active = ?", true).Order("display_name ASC").Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}

	return users, nil
}

func (r *AppUserRepositoryImpl) applyFilter(query *gorm.DB, filter models.AppUserFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Email != nil {
		query = query.Where("email = ?", *filter.Email)
	}
	if filter.Rol != nil {
		query = query.Where("rol = ?", *filter.Rol)
	}
	if filter.Equipo != nil {
		query = query.Where("equipo = ?", *filter.Equipo)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	return query
}

// ByFilter retrieves users based on filter criteria
func (r *AppUserRepositoryImpl) ByFilter(ctx context.Context, filter models.AppUserFilter, orderBy string, limit, offset int) ([]*models.AppUser, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.AppUser{}), filter)

	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var users []*models.AppUser
	err := query.Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find users by filter: %w", err)
	}

	return users, nil
}

// Count returns the number of users matching the filter
func (r *AppUserRepositoryImpl) Count(ctx context.Context, filter models.AppUserFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.AppUser{}), filter)

	var count int64
	err := query.Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return count, nil
}

// Exists checks if any user matching the filter exists
func (r *AppUserRepositoryImpl) Exists(ctx context.Context, filter models.AppUserFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
