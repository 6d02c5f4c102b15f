package dto

// NotificacionDTO is one in-app notification
type NotificacionDTO struct {
	ID              uint    `json:"id"`
	ExpedienteID    uint    `json:"expediente_id"`
	Tipo            string  `json:"tipo"`
	Titulo          string  `json:"titulo"`
	Mensaje         string  `json:"mensaje"`
	RadicacionUnica *string `json:"radicacion_unica,omitempty"`
	Leida           bool    `json:"leida"`
	CreatedAt       string  `json:"created_at"`
}

// ListNotificacionesRequest pages through a user's notifications
type ListNotificacionesRequest struct {
	UserID uint `json:"-"`

	Page     int `json:"page" validate:"omitempty,min=1"`
	PageSize int `json:"page_size" validate:"omitempty,min=1,max=100"`
}

// ListNotificacionesResponse is the notification listing with the unread total
type ListNotificacionesResponse struct {
	Items    []NotificacionDTO `json:"items"`
	Unread   int64             `json:"unread"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// MarkNotificacionReadResponse confirms a read marker
type MarkNotificacionReadResponse struct {
	Message string `json:"message"`
}
