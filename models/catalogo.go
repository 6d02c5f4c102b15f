package models

import (
	"time"
)

// Catalog kinds. Each kind is an independent lookup table from the UI's
// point of view; they share one storage table keyed by (kind, nombre).
const (
	CatalogoClase     = "clase"
	CatalogoEstado    = "estado"
	CatalogoOrigen    = "origen"
	CatalogoDespacho  = "despacho"
	CatalogoUbicacion = "ubicacion"
)

// ValidCatalogoKind reports whether k names a known catalog kind.
func ValidCatalogoKind(k string) bool {
	switch k {
	case CatalogoClase, CatalogoEstado, CatalogoOrigen, CatalogoDespacho, CatalogoUbicacion:
		return true
	}
	return false
}

// Catalogo is a named entry of one of the case catalogs
// (clases, estados, orígenes, despachos, ubicaciones).
type Catalogo struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Kind   string `gorm:"type:varchar(16);not null;uniqueIndex:idx_catalogos_kind_nombre" json:"kind"`
	Nombre string `gorm:"type:varchar(250);not null;uniqueIndex:idx_catalogos_kind_nombre" json:"nombre"`
	Activo *bool  `gorm:"not null;default:true;index" json:"activo"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Catalogo) TableName() string { return "catalogos" }

// CatalogoFilter represents filter criteria for catalog queries
type CatalogoFilter struct {
	ID     *uint   `json:"id,omitempty"`
	Kind   *string `json:"kind,omitempty"`
	Nombre *string `json:"nombre,omitempty"`
	Activo *bool   `json:"activo,omitempty"`
}
