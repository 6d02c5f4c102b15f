// Package businessflow contains the business logic for the application.
package businessflow

import (
	"time"

	"github.com/caribelex/expedientes/app/dto"
	"github.com/caribelex/expedientes/models"
	"github.com/caribelex/expedientes/utils"
)

// ClientMetadata holds all client-related information for audit logging and session tracking
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	RequestID  string            `json:"request_id,omitempty"`
	SessionID  string            `json:"session_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Additional: make(map[string]string),
	}
}

// AddAdditional adds additional custom information to the metadata
func (cm *ClientMetadata) AddAdditional(key, value string) {
	if cm.Additional == nil {
		cm.Additional = make(map[string]string)
	}
	cm.Additional[key] = value
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// SetSessionID sets the session ID
func (cm *ClientMetadata) SetSessionID(sessionID string) {
	cm.SessionID = sessionID
}

// ToUserDTO converts a user model to its public DTO
func ToUserDTO(user models.AppUser) dto.UserDTO {
	return dto.UserDTO{
		ID:          user.ID,
		UUID:        user.UUID.String(),
		DisplayName: user.DisplayName,
		Email:       user.Email,
		Rol:         user.Rol,
		Equipo:      user.Equipo,
		IsActive:    utils.IsTrue(user.IsActive),
		CreatedAt:   user.CreatedAt.Format(time.RFC3339),
	}
}

// ToSessionDTO converts a session model to the token-pair DTO
func ToSessionDTO(session models.UserSession) dto.SessionDTO {
	refreshToken := ""
	if session.RefreshToken != nil {
		refreshToken = *session.RefreshToken
	}

	return dto.SessionDTO{
		SessionToken: session.SessionToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(time.Until(session.ExpiresAt).Seconds()),
		TokenType:    "Bearer",
		CreatedAt:    session.CreatedAt.Format(time.RFC3339),
	}
}

// ToCatalogoDTO converts a catalog model to its DTO
func ToCatalogoDTO(c models.Catalogo) dto.CatalogoDTO {
	return dto.CatalogoDTO{
		ID:     c.ID,
		Kind:   c.Kind,
		Nombre: c.Nombre,
		Activo: utils.IsTrue(c.Activo),
	}
}

// ToNotificacionDTO converts a notification model to its DTO
func ToNotificacionDTO(n models.Notificacion) dto.NotificacionDTO {
	return dto.NotificacionDTO{
		ID:              n.ID,
		ExpedienteID:    n.ExpedienteID,
		Tipo:            n.Tipo,
		Titulo:          n.Titulo,
		Mensaje:         n.Mensaje,
		RadicacionUnica: n.RadicacionUnica,
		Leida:           utils.IsTrue(n.Leida),
		CreatedAt:       n.CreatedAt.Format(time.RFC3339),
	}
}
