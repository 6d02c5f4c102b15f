// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/caribelex/expedientes/models"
	"github.com/google/uuid"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// SequenceCounterRepository owns the year-scoped named counters.
// NextValue must run inside a transaction (see WithTransaction); the row is
// read locked so two concurrent transactions never observe the same value.
type SequenceCounterRepository interface {
	// NextValue atomically advances the counter for key and returns the new
	// value together with the calendar year it is scoped to. When the stored
	// year differs from the current one the value restarts at 1.
	NextValue(ctx context.Context, key string) (value int64, year int, err error)

	// Current returns the stored counter row, or nil when the key was never used
	Current(ctx context.Context, key string) (*models.SequenceCounter, error)
}

// ExpedienteRepository defines operations for expedientes
type ExpedienteRepository interface {
	Repository[models.Expediente, models.ExpedienteFilter]
	ByUUID(ctx context.Context, uuid uuid.UUID) (*models.Expediente, error)
	ByRadicacionUnica(ctx context.Context, radicacion string) (*models.Expediente, error)
	Update(ctx context.Context, expediente *models.Expediente) error
	ListExcludingEstados(ctx context.Context, estadoIDs []uint) ([]*models.Expediente, error)
}

// ActuacionRepository defines operations for actuaciones
type ActuacionRepository interface {
	Repository[models.Actuacion, models.ActuacionFilter]
	ListByExpediente(ctx context.Context, expedienteID uint, limit, offset int) ([]*models.Actuacion, error)
	// LatestFecha returns the most recent actuación date for the expediente,
	// or nil when the case has no actuaciones yet.
	LatestFecha(ctx context.Context, expedienteID uint) (*time.Time, error)
	CountByExpediente(ctx context.Context, expedienteID uint) (int64, error)
}

// CatalogoRepository defines operations for the case catalogs
type CatalogoRepository interface {
	Repository[models.Catalogo, models.CatalogoFilter]
	ListByKind(ctx context.Context, kind string, activeOnly bool) ([]*models.Catalogo, error)
	ByKindAndNombre(ctx context.Context, kind, nombre string) (*models.Catalogo, error)
	SetActivo(ctx context.Context, id uint, activo bool) error
}

// AppUserRepository defines operations for application users
type AppUserRepository interface {
	Repository[models.AppUser, models.AppUserFilter]
	ByEmail(ctx context.Context, email string) (*models.AppUser, error)
	ByUUID(ctx context.Context, uuid uuid.UUID) (*models.AppUser, error)
	ListActive(ctx context.Context) ([]*models.AppUser, error)
}

// UserSessionRepository defines operations for user sessions
type UserSessionRepository interface {
	Repository[models.UserSession, models.UserSessionFilter]
	BySessionToken(ctx context.Context, token string) (*models.UserSession, error)
	ByRefreshToken(ctx context.Context, token string) (*models.UserSession, error)
	ExpireSession(ctx context.Context, sessionID uint) error
	ExpireAllUserSessions(ctx context.Context, userID uint) error
}

// NotificacionRepository defines operations for in-app notifications
type NotificacionRepository interface {
	Repository[models.Notificacion, models.NotificacionFilter]
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Notificacion, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
	MarkRead(ctx context.Context, id, userID uint) error
	MarkAllRead(ctx context.Context, userID uint) error
}

// AuditLogRepository defines operations for audit logs
type AuditLogRepository interface {
	Repository[models.AuditLog, models.AuditLogFilter]
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.AuditLog, error)
	ListFailedActions(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)
}
