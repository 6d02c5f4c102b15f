// Package models contains domain entities and business models for the docket management system
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Priority levels for expedientes. These drive the SLA deadline policy.
const (
	PriorityAlta  = "Alta"
	PriorityMedia = "Media"
	PriorityBaja  = "Baja"
)

// ValidPriority reports whether p is one of the configured priority levels.
func ValidPriority(p string) bool {
	return p == PriorityAlta || p == PriorityMedia || p == PriorityBaja
}

// Expediente represents a legal case file.
// RadicacionUnica is the legally significant identifier, globally sequential per year.
// RadicadoInterno is a secondary per-origin sequential identifier, present only when
// the case origin maps to a configured prefix.
type Expediente struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID            uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	RadicacionUnica string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"radicacion_unica"`
	RadicadoInterno *string   `gorm:"type:varchar(32);index" json:"radicado_interno,omitempty"`

	ClaseID     uint `gorm:"not null;index" json:"clase_id"`
	EstadoID    uint `gorm:"not null;index" json:"estado_id"`
	OrigenID    uint `gorm:"not null;index" json:"origen_id"`
	DespachoID  uint `gorm:"not null;index" json:"despacho_id"`
	UbicacionID uint `gorm:"not null;index" json:"ubicacion_id"`

	Repositorio         *string `gorm:"type:varchar(255)" json:"repositorio,omitempty"`
	Demandante          *string `gorm:"type:varchar(255)" json:"demandante,omitempty"`
	ApoderadoDemandante *string `gorm:"type:varchar(255)" json:"apoderado_demandante,omitempty"`
	Demandado           *string `gorm:"type:varchar(255)" json:"demandado,omitempty"`
	ApoderadoDemandado  *string `gorm:"type:varchar(255)" json:"apoderado_demandado,omitempty"`

	Prioridad string `gorm:"type:varchar(16);not null;default:'Media';index" json:"prioridad"`

	ResponsableUserID uint `gorm:"not null;index" json:"responsable_user_id"`
	CreadoPorID       uint `gorm:"not null" json:"creado_por_id"`
	ModificadoPorID   uint `gorm:"not null" json:"modificado_por_id"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"updated_at"`

	// Relations
	Clase       *Catalogo `gorm:"foreignKey:ClaseID;references:ID" json:"clase,omitempty"`
	Estado      *Catalogo `gorm:"foreignKey:EstadoID;references:ID" json:"estado,omitempty"`
	Origen      *Catalogo `gorm:"foreignKey:OrigenID;references:ID" json:"origen,omitempty"`
	Despacho    *Catalogo `gorm:"foreignKey:DespachoID;references:ID" json:"despacho,omitempty"`
	Ubicacion   *Catalogo `gorm:"foreignKey:UbicacionID;references:ID" json:"ubicacion,omitempty"`
	Responsable *AppUser  `gorm:"foreignKey:ResponsableUserID;references:ID" json:"responsable,omitempty"`
}

func (Expediente) TableName() string { return "expedientes" }

// BeforeCreate ensures UUID and timestamps are set
func (e *Expediente) BeforeCreate(tx *gorm.DB) error {
	if e.UUID == uuid.Nil {
		e.UUID = uuid.New()
	}
	return nil
}

// ExpedienteFilter represents filter criteria for expediente queries
type ExpedienteFilter struct {
	ID                *uint      `json:"id,omitempty"`
	UUID              *uuid.UUID `json:"uuid,omitempty"`
	RadicacionUnica   *string    `json:"radicacion_unica,omitempty"`
	ClaseID           *uint      `json:"clase_id,omitempty"`
	EstadoID          *uint      `json:"estado_id,omitempty"`
	OrigenID          *uint      `json:"origen_id,omitempty"`
	DespachoID        *uint      `json:"despacho_id,omitempty"`
	UbicacionID       *uint      `json:"ubicacion_id,omitempty"`
	Prioridad         *string    `json:"prioridad,omitempty"`
	ResponsableUserID *uint      `json:"responsable_user_id,omitempty"`
	CreatedAfter      *time.Time `json:"created_after,omitempty"`
	CreatedBefore     *time.Time `json:"created_before,omitempty"`
}
