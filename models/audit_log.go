package models

import (
	"time"
)

// AuditLog records security and case lifecycle events
type AuditLog struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	UserID       *uint   `gorm:"index:idx_audit_user_id" json:"user_id,omitempty"`
	Action       string  `gorm:"type:varchar(64);not null;index:idx_audit_action" json:"action"`
	Description  *string `gorm:"type:text" json:"description,omitempty"`
	IPAddress    *string `gorm:"type:inet" json:"ip_address,omitempty"`
	UserAgent    *string `gorm:"type:text" json:"user_agent,omitempty"`
	RequestID    *string `gorm:"size:255" json:"request_id,omitempty"`
	Success      *bool   `gorm:"default:true;index:idx_audit_success" json:"success"`
	ErrorMessage *string `gorm:"type:text" json:"error_message,omitempty"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP;index:idx_audit_created_at" json:"created_at"`

	// Relations
	User *AppUser `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}

// Audit action constants
const (
	AuditActionLoginSuccess         = "login_success"
	AuditActionLoginFailed          = "login_failed"
	AuditActionLogout               = "logout"
	AuditActionExpedienteCreated    = "expediente_created"
	AuditActionExpedienteCreationFailed = "expediente_creation_failed"
	AuditActionExpedienteUpdated    = "expediente_updated"
	AuditActionExpedienteReassigned = "expediente_reassigned"
	AuditActionActuacionCreated     = "actuacion_created"
	AuditActionCatalogoCreated      = "catalogo_created"
	AuditActionCatalogoToggled      = "catalogo_toggled"
)

// AuditLogFilter represents filter criteria for audit log queries
type AuditLogFilter struct {
	ID            *uint
	UserID        *uint
	Action        *string
	Success       *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

func (a *AuditLog) IsFailed() bool {
	return a.Success != nil && !*a.Success
}
