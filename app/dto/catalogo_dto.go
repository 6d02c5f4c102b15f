package dto

// CatalogoDTO is one entry of a case catalog
type CatalogoDTO struct {
	ID     uint   `json:"id"`
	Kind   string `json:"kind"`
	Nombre string `json:"nombre"`
	Activo bool   `json:"activo"`
}

// ListCatalogosRequest lists the entries of one catalog kind
type ListCatalogosRequest struct {
	Kind       string `json:"-" validate:"required,oneof=clase estado origen despacho ubicacion"`
	ActiveOnly bool   `json:"-"`
}

// ListCatalogosResponse is the catalog listing
type ListCatalogosResponse struct {
	Kind  string        `json:"kind"`
	Items []CatalogoDTO `json:"items"`
}

// CreateCatalogoRequest adds an entry to a catalog (admin only)
type CreateCatalogoRequest struct {
	UserID uint   `json:"-"`
	Kind   string `json:"-" validate:"required,oneof=clase estado origen despacho ubicacion"`
	Nombre string `json:"nombre" validate:"required,max=250"`
}

// CreateCatalogoResponse confirms the new entry
type CreateCatalogoResponse struct {
	Message string      `json:"message"`
	Item    CatalogoDTO `json:"item"`
}

// ToggleCatalogoRequest activates or deactivates an entry (admin only)
type ToggleCatalogoRequest struct {
	UserID uint  `json:"-"`
	ID     uint  `json:"-" validate:"required"`
	Activo *bool `json:"activo" validate:"required"`
}

// ToggleCatalogoResponse confirms the toggle
type ToggleCatalogoResponse struct {
	Message string `json:"message"`
	ID      uint   `json:"id"`
	Activo  bool   `json:"activo"`
}
