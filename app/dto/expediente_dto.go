package dto

import "time"

// CreateExpedienteRequest is the payload for opening a new case.
// UserID is injected from the authenticated session, never from the body.
type CreateExpedienteRequest struct {
	UserID uint `json:"-"`

	ClaseID     uint `json:"clase_id" validate:"required"`
	EstadoID    uint `json:"estado_id" validate:"required"`
	OrigenID    uint `json:"origen_id" validate:"required"`
	DespachoID  uint `json:"despacho_id" validate:"required"`
	UbicacionID uint `json:"ubicacion_id" validate:"required"`

	Repositorio         *string `json:"repositorio,omitempty" validate:"omitempty,max=255"`
	Demandante          *string `json:"demandante,omitempty" validate:"omitempty,max=255"`
	ApoderadoDemandante *string `json:"apoderado_demandante,omitempty" validate:"omitempty,max=255"`
	Demandado           *string `json:"demandado,omitempty" validate:"omitempty,max=255"`
	ApoderadoDemandado  *string `json:"apoderado_demandado,omitempty" validate:"omitempty,max=255"`

	Prioridad         string `json:"prioridad" validate:"required,oneof=Alta Media Baja"`
	ResponsableUserID uint   `json:"responsable_user_id" validate:"required"`
}

// CreateExpedienteResponse carries the server-generated identifiers back
type CreateExpedienteResponse struct {
	Message         string  `json:"message"`
	ID              uint    `json:"id"`
	UUID            string  `json:"uuid"`
	RadicacionUnica string  `json:"radicacion_unica"`
	RadicadoInterno *string `json:"radicado_interno,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

// ExpedienteDTO is the full case representation with resolved display names
type ExpedienteDTO struct {
	ID              uint    `json:"id"`
	UUID            string  `json:"uuid"`
	RadicacionUnica string  `json:"radicacion_unica"`
	RadicadoInterno *string `json:"radicado_interno,omitempty"`

	ClaseID     uint   `json:"clase_id"`
	Clase       string `json:"clase"`
	EstadoID    uint   `json:"estado_id"`
	Estado      string `json:"estado"`
	OrigenID    uint   `json:"origen_id"`
	Origen      string `json:"origen"`
	DespachoID  uint   `json:"despacho_id"`
	Despacho    string `json:"despacho"`
	UbicacionID uint   `json:"ubicacion_id"`
	Ubicacion   string `json:"ubicacion"`

	Repositorio         *string `json:"repositorio,omitempty"`
	Demandante          *string `json:"demandante,omitempty"`
	ApoderadoDemandante *string `json:"apoderado_demandante,omitempty"`
	Demandado           *string `json:"demandado,omitempty"`
	ApoderadoDemandado  *string `json:"apoderado_demandado,omitempty"`

	Prioridad         string `json:"prioridad"`
	ResponsableUserID uint   `json:"responsable_user_id"`
	Responsable       string `json:"responsable"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ListExpedientesRequest is the filtered, paged case listing query.
// UserID and Rol are injected from the authenticated session; non-admin,
// non-auditor callers are restricted to their own cases regardless of filters.
type ListExpedientesRequest struct {
	UserID uint   `json:"-"`
	Rol    string `json:"-"`

	ClaseID           *uint      `json:"clase_id,omitempty"`
	EstadoID          *uint      `json:"estado_id,omitempty"`
	OrigenID          *uint      `json:"origen_id,omitempty"`
	DespachoID        *uint      `json:"despacho_id,omitempty"`
	UbicacionID       *uint      `json:"ubicacion_id,omitempty"`
	Prioridad         *string    `json:"prioridad,omitempty" validate:"omitempty,oneof=Alta Media Baja"`
	ResponsableUserID *uint      `json:"responsable_user_id,omitempty"`
	CreatedAfter      *time.Time `json:"created_after,omitempty"`
	CreatedBefore     *time.Time `json:"created_before,omitempty"`

	Page     int    `json:"page" validate:"omitempty,min=1"`
	PageSize int    `json:"page_size" validate:"omitempty,min=1,max=100"`
	OrderBy  string `json:"order_by" validate:"omitempty,oneof=created_at updated_at radicacion_unica prioridad"`
}

// ListExpedientesResponse is the paged case listing result
type ListExpedientesResponse struct {
	Items    []ExpedienteDTO `json:"items"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// UpdateExpedienteRequest updates mutable attributes of a case.
// Nil fields are left untouched. Identifiers are never updatable.
type UpdateExpedienteRequest struct {
	UserID uint   `json:"-"`
	UUID   string `json:"-" validate:"required,uuid"`

	ClaseID     *uint `json:"clase_id,omitempty"`
	EstadoID    *uint `json:"estado_id,omitempty"`
	DespachoID  *uint `json:"despacho_id,omitempty"`
	UbicacionID *uint `json:"ubicacion_id,omitempty"`

	Repositorio         *string `json:"repositorio,omitempty" validate:"omitempty,max=255"`
	Demandante          *string `json:"demandante,omitempty" validate:"omitempty,max=255"`
	ApoderadoDemandante *string `json:"apoderado_demandante,omitempty" validate:"omitempty,max=255"`
	Demandado           *string `json:"demandado,omitempty" validate:"omitempty,max=255"`
	ApoderadoDemandado  *string `json:"apoderado_demandado,omitempty" validate:"omitempty,max=255"`

	Prioridad *string `json:"prioridad,omitempty" validate:"omitempty,oneof=Alta Media Baja"`
}

// UpdateExpedienteResponse confirms an update
type UpdateExpedienteResponse struct {
	Message   string `json:"message"`
	UUID      string `json:"uuid"`
	UpdatedAt string `json:"updated_at"`
}

// ReassignExpedienteRequest moves a case to another responsible user
type ReassignExpedienteRequest struct {
	UserID uint   `json:"-"`
	UUID   string `json:"-" validate:"required,uuid"`

	NuevoResponsableID uint `json:"nuevo_responsable_id" validate:"required"`
}

// ReassignExpedienteResponse confirms a reassignment
type ReassignExpedienteResponse struct {
	Message            string `json:"message"`
	UUID               string `json:"uuid"`
	NuevoResponsableID uint   `json:"nuevo_responsable_id"`
}
