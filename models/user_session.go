package models

import (
	"time"
)

// UserSession represents an authenticated session backed by a JWT pair
type UserSession struct {
	ID           uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       uint    `gorm:"not null;index" json:"user_id"`
	SessionToken string  `gorm:"type:varchar(512);uniqueIndex;not null" json:"session_token"`
	RefreshToken *string `gorm:"type:varchar(512);uniqueIndex" json:"refresh_token,omitempty"`
	IsActive     *bool   `gorm:"not null;default:true;index" json:"is_active"`

	ExpiresAt      time.Time  `gorm:"not null;index" json:"expires_at"`
	LastAccessedAt *time.Time `json:"last_accessed_at,omitempty"`
	IPAddress      *string    `gorm:"type:inet" json:"ip_address,omitempty"`
	UserAgent      *string    `gorm:"type:text" json:"user_agent,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	// Relations
	User *AppUser `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

func (UserSession) TableName() string { return "user_sessions" }

// IsExpired checks whether the session has passed its expiry
func (s *UserSession) IsExpired() bool {
	return time.Now().UTC().After(s.ExpiresAt)
}

// UserSessionFilter represents filter criteria for session queries
type UserSessionFilter struct {
	ID           *uint   `json:"id,omitempty"`
	UserID       *uint   `json:"user_id,omitempty"`
	SessionToken *string `json:"session_token,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}
