package dto

import "time"

// CreateActuacionRequest logs a new entry against a case. Attachment paths and
// names are filled by the handler after it stores the uploaded files.
type CreateActuacionRequest struct {
	UserID         uint   `json:"-"`
	ExpedienteUUID string `json:"-" validate:"required,uuid"`

	Fecha     *time.Time `json:"fecha,omitempty"`
	Tipo      *string    `json:"tipo,omitempty" validate:"omitempty,max=64"`
	Anotacion string     `json:"anotacion" validate:"required"`

	Adjuntos       []string `json:"-"`
	AdjuntoNombres []string `json:"-"`
}

// CreateActuacionResponse confirms the logged entry
type CreateActuacionResponse struct {
	Message string `json:"message"`
	ID      uint   `json:"id"`
	UUID    string `json:"uuid"`
	Fecha   string `json:"fecha"`
}

// ActuacionDTO is an entry in a case's activity history
type ActuacionDTO struct {
	ID        uint    `json:"id"`
	UUID      string  `json:"uuid"`
	Fecha     string  `json:"fecha"`
	Tipo      *string `json:"tipo,omitempty"`
	Anotacion string  `json:"anotacion"`
	UsuarioID uint    `json:"usuario_id"`
	Usuario   string  `json:"usuario"`

	Adjuntos       []string `json:"adjuntos"`
	AdjuntoNombres []string `json:"adjunto_nombres"`
}

// ListActuacionesRequest pages through a case's activity history
type ListActuacionesRequest struct {
	UserID         uint   `json:"-"`
	Rol            string `json:"-"`
	ExpedienteUUID string `json:"-" validate:"required,uuid"`

	Page     int `json:"page" validate:"omitempty,min=1"`
	PageSize int `json:"page_size" validate:"omitempty,min=1,max=100"`
}

// ListActuacionesResponse is the paged activity history
type ListActuacionesResponse struct {
	Items    []ActuacionDTO `json:"items"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}
