package dto

// LoginRequest authenticates a user by email and password
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// UserDTO is the authenticated user's public representation
type UserDTO struct {
	ID          uint    `json:"id"`
	UUID        string  `json:"uuid"`
	DisplayName string  `json:"display_name"`
	Email       string  `json:"email"`
	Rol         string  `json:"rol"`
	Equipo      *string `json:"equipo,omitempty"`
	IsActive    bool    `json:"is_active"`
	CreatedAt   string  `json:"created_at"`
}

// SessionDTO carries the issued token pair
type SessionDTO struct {
	SessionToken string `json:"session_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
	CreatedAt    string `json:"created_at"`
}

// LoginResponse is the successful authentication result
type LoginResponse struct {
	Message string     `json:"message"`
	User    UserDTO    `json:"user"`
	Session SessionDTO `json:"session"`
}

// RefreshTokenRequest exchanges a refresh token for a new token pair
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse is the renewed session
type RefreshTokenResponse struct {
	Message string     `json:"message"`
	Session SessionDTO `json:"session"`
}

// LogoutResponse confirms session termination
type LogoutResponse struct {
	Message string `json:"message"`
}
