package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles. Admin and auditor see every expediente; gestor and lectura only
// see cases assigned to them. Only admin mutates catalogs and users.
const (
	RoleAdmin   = "admin"
	RoleGestor  = "gestor"
	RoleAuditor = "auditor"
	RoleLectura = "lectura"
)

// ValidRole reports whether r names a known role.
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleGestor, RoleAuditor, RoleLectura:
		return true
	}
	return false
}

// CanSeeAllExpedientes reports whether the role has unrestricted read access.
func CanSeeAllExpedientes(role string) bool {
	return role == RoleAdmin || role == RoleAuditor
}

// AppUser represents an application user with role-based access
type AppUser struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID         uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	DisplayName  string    `gorm:"type:varchar(128);not null" json:"display_name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Rol          string    `gorm:"type:varchar(16);not null;default:'lectura';index" json:"rol"`
	Equipo       *string   `gorm:"type:varchar(128)" json:"equipo,omitempty"`
	IsActive     *bool     `gorm:"not null;default:true;index" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (AppUser) TableName() string { return "app_users" }

// BeforeCreate ensures UUID is set
func (u *AppUser) BeforeCreate(tx *gorm.DB) error {
	if u.UUID == uuid.Nil {
		u.UUID = uuid.New()
	}
	return nil
}

// AppUserFilter represents filter criteria for user queries
type AppUserFilter struct {
	ID       *uint   `json:"id,omitempty"`
	Email    *string `json:"email,omitempty"`
	Rol      *string `json:"rol,omitempty"`
	Equipo   *string `json:"equipo,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}
