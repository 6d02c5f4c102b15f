package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Actuacion represents a dated entry/event logged against an expediente.
// Adjuntos holds the stored file paths of the attachments; AdjuntoNombres
// keeps the original file names in the same order.
type Actuacion struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID         uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	ExpedienteID uint      `gorm:"not null;index:idx_actuaciones_expediente" json:"expediente_id"`

	Fecha     time.Time `gorm:"not null;index:idx_actuaciones_fecha" json:"fecha"`
	Tipo      *string   `gorm:"type:varchar(64)" json:"tipo,omitempty"`
	Anotacion string    `gorm:"type:text;not null" json:"anotacion"`
	UsuarioID uint      `gorm:"not null;index" json:"usuario_id"`

	Adjuntos       pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"adjuntos"`
	AdjuntoNombres pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"adjunto_nombres"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	// Relations
	Expediente *Expediente `gorm:"foreignKey:ExpedienteID;references:ID;constraint:OnDelete:CASCADE" json:"expediente,omitempty"`
	Usuario    *AppUser    `gorm:"foreignKey:UsuarioID;references:ID" json:"usuario,omitempty"`
}

func (Actuacion) TableName() string { return "actuaciones" }

// BeforeCreate ensures UUID and Fecha are set
func (a *Actuacion) BeforeCreate(tx *gorm.DB) error {
	if a.UUID == uuid.Nil {
		a.UUID = uuid.New()
	}
	if a.Fecha.IsZero() {
		a.Fecha = time.Now().UTC()
	}
	return nil
}

// ActuacionFilter represents filter criteria for actuación queries
type ActuacionFilter struct {
	ID           *uint      `json:"id,omitempty"`
	UUID         *uuid.UUID `json:"uuid,omitempty"`
	ExpedienteID *uint      `json:"expediente_id,omitempty"`
	UsuarioID    *uint      `json:"usuario_id,omitempty"`
	Tipo         *string    `json:"tipo,omitempty"`
	FechaDesde   *time.Time `json:"fecha_desde,omitempty"`
	FechaHasta   *time.Time `json:"fecha_hasta,omitempty"`
}
