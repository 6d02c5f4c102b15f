package models

import (
	"time"
)

// Notification types
const (
	NotificacionAsignacion    = "asignacion"
	NotificacionEscalamiento  = "escalamiento"
	NotificacionActualizacion = "actualizacion"
	NotificacionVencimiento   = "vencimiento"
)

// Notificacion is an in-app notification delivered to a single user,
// always tied to an expediente.
type Notificacion struct {
	ID           uint `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       uint `gorm:"not null;index:idx_notificaciones_user" json:"user_id"`
	ExpedienteID uint `gorm:"not null;index" json:"expediente_id"`

	Tipo            string  `gorm:"type:varchar(16);not null" json:"tipo"`
	Titulo          string  `gorm:"type:varchar(255);not null" json:"titulo"`
	Mensaje         string  `gorm:"type:text;not null" json:"mensaje"`
	RadicacionUnica *string `gorm:"type:varchar(64)" json:"radicacion_unica,omitempty"`
	Leida           *bool   `gorm:"not null;default:false;index" json:"leida"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`

	// Relations
	User       *AppUser    `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Expediente *Expediente `gorm:"foreignKey:ExpedienteID;references:ID;constraint:OnDelete:CASCADE" json:"expediente,omitempty"`
}

func (Notificacion) TableName() string { return "notificaciones" }

// NotificacionFilter represents filter criteria for notification queries
type NotificacionFilter struct {
	ID           *uint   `json:"id,omitempty"`
	UserID       *uint   `json:"user_id,omitempty"`
	ExpedienteID *uint   `json:"expediente_id,omitempty"`
	Tipo         *string `json:"tipo,omitempty"`
	Leida        *bool   `json:"leida,omitempty"`
}
