// Package businessflow contains the core business logic and use cases for the expediente workflows
package businessflow

import (
	"context"
	"fmt"

	"github.com/caribelex/expedientes/app/dto"
	"github.com/caribelex/expedientes/models"
	"github.com/caribelex/expedientes/repository"
	"github.com/caribelex/expedientes/utils"
)

// CatalogoFlow handles the case catalog business logic
type CatalogoFlow interface {
	ListCatalogos(ctx context.Context, req *dto.ListCatalogosRequest) (*dto.ListCatalogosResponse, error)
	CreateCatalogo(ctx context.Context, req *dto.CreateCatalogoRequest, metadata *ClientMetadata) (*dto.CreateCatalogoResponse, error)
	ToggleCatalogo(ctx context.Context, req *dto.ToggleCatalogoRequest, metadata *ClientMetadata) (*dto.ToggleCatalogoResponse, error)
}

// CatalogoFlowImpl implements the catalog business flow
type CatalogoFlowImpl struct {
	catalogoRepo repository.CatalogoRepository
	auditRepo    repository.AuditLogRepository
}

// NewCatalogoFlow creates a new catalog flow instance
func NewCatalogoFlow(catalogoRepo repository.CatalogoRepository, auditRepo repository.AuditLogRepository) CatalogoFlow {
	return &CatalogoFlowImpl{
		catalogoRepo: catalogoRepo,
		auditRepo:    auditRepo,
	}
}

// ListCatalogos lists entries of one catalog kind, ordered by name
func (s *CatalogoFlowImpl) ListCatalogos(ctx context.Context, req *dto.ListCatalogosRequest) (*dto.ListCatalogosResponse, error) {
	if !models.ValidCatalogoKind(req.Kind) {
		return nil, NewBusinessErrorf("INVALID_CATALOGO_KIND", "Unknown catalog kind %q", ErrInvalidCatalogoKind, req.Kind)
	}

	catalogos, err := s.catalogoRepo.ListByKind(ctx, req.Kind, req.ActiveOnly)
	if err != nil {
		return nil, NewBusinessError("CATALOGO_LIST_FAILED", "Failed to list catalog entries", err)
	}

	items := make([]dto.CatalogoDTO, 0, len(catalogos))
	for _, c := range catalogos {
		items = append(items, ToCatalogoDTO(*c))
	}

	return &dto.ListCatalogosResponse{
		Kind:  req.Kind,
		Items: items,
	}, nil
}

// CreateCatalogo adds an entry to a catalog. Names are unique per kind.
func (s *CatalogoFlowImpl) CreateCatalogo(ctx context.Context, req *dto.CreateCatalogoRequest, metadata *ClientMetadata) (*dto.CreateCatalogoResponse, error) {
	if !models.ValidCatalogoKind(req.Kind) {
		return nil, NewBusinessErrorf("INVALID_CATALOGO_KIND", "Unknown catalog kind %q", ErrInvalidCatalogoKind, req.Kind)
	}

	existing, err := s.catalogoRepo.ByKindAndNombre(ctx, req.Kind, req.Nombre)
	if err != nil {
		return nil, NewBusinessError("CATALOGO_LOOKUP_FAILED", "Failed to lookup catalog entry", err)
	}
	if existing != nil {
		return nil, NewBusinessErrorf("CATALOGO_ALREADY_EXISTS", "Catalog entry %q already exists", ErrCatalogoAlreadyExists, req.Nombre)
	}

	catalogo := &models.Catalogo{
		Kind:      req.Kind,
		Nombre:    req.Nombre,
		Activo:    utils.ToPtr(true),
		CreatedAt: utils.UTCNow(),
		UpdatedAt: utils.UTCNow(),
	}

	if err := s.catalogoRepo.Save(ctx, catalogo); err != nil {
		return nil, NewBusinessError("CATALOGO_CREATION_FAILED", "Catalog entry creation failed", err)
	}

	msg := fmt.Sprintf("Catalog entry created: %s/%s", req.Kind, req.Nombre)
	_ = s.createAuditLog(ctx, req.UserID, models.AuditActionCatalogoCreated, msg, metadata)

	return &dto.CreateCatalogoResponse{
		Message: "Catalog entry created successfully",
		Item:    ToCatalogoDTO(*catalogo),
	}, nil
}

// ToggleCatalogo activates or deactivates an entry. Deactivated entries stay
// referenced by existing cases but stop appearing in pick lists.
func (s *CatalogoFlowImpl) ToggleCatalogo(ctx context.Context, req *dto.ToggleCatalogoRequest, metadata *ClientMetadata) (*dto.ToggleCatalogoResponse, error) {
	catalogo, err := s.catalogoRepo.ByID(ctx, req.ID)
	if err != nil {
		return nil, NewBusinessError("CATALOGO_LOOKUP_FAILED", "Failed to lookup catalog entry", err)
	}
	if catalogo == nil {
		return nil, NewBusinessError("CATALOGO_NOT_FOUND", "Catalog entry not found", ErrCatalogoNotFound)
	}

	activo := utils.IsTrue(req.Activo)
	if err := s.catalogoRepo.SetActivo(ctx, req.ID, activo); err != nil {
		return nil, NewBusinessError("CATALOGO_TOGGLE_FAILED", "Catalog entry toggle failed", err)
	}

	msg := fmt.Sprintf("Catalog entry %s/%s set activo=%t", catalogo.Kind, catalogo.Nombre, activo)
	_ = s.createAuditLog(ctx, req.UserID, models.AuditActionCatalogoToggled, msg, metadata)

	return &dto.ToggleCatalogoResponse{
		Message: "Catalog entry updated successfully",
		ID:      req.ID,
		Activo:  activo,
	}, nil
}

func (s *CatalogoFlowImpl) createAuditLog(ctx context.Context, userID uint, action, description string, metadata *ClientMetadata) error {
	success := true
	audit := &models.AuditLog{
		UserID:      &userID,
		Action:      action,
		Description: &description,
		Success:     &success,
		CreatedAt:   utils.UTCNow(),
	}
	if metadata != nil {
		if metadata.IPAddress != "" {
			audit.IPAddress = &metadata.IPAddress
		}
		if metadata.UserAgent != "" {
			audit.UserAgent = &metadata.UserAgent
		}
		if metadata.RequestID != "" {
			audit.RequestID = &metadata.RequestID
		}
	}

	return s.auditRepo.Save(ctx, audit)
}
