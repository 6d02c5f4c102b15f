// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"
	"strconv"

	"github.com/caribelex/expedientes/app/dto"
	businessflow "github.com/caribelex/expedientes/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// CatalogoHandlerInterface defines the contract for catalog handlers
type CatalogoHandlerInterface interface {
	ListCatalogos(c fiber.Ctx) error
	CreateCatalogo(c fiber.Ctx) error
	ToggleCatalogo(c fiber.Ctx) error
}

// CatalogoHandler handles catalog-related HTTP requests
type CatalogoHandler struct {
	catalogoFlow businessflow.CatalogoFlow
	validator    *validator.Validate
}

// NewCatalogoHandler creates a new catalog handler
func NewCatalogoHandler(catalogoFlow businessflow.CatalogoFlow) *CatalogoHandler {
	return &CatalogoHandler{
		catalogoFlow: catalogoFlow,
		validator:    validator.New(),
	}
}

// ListCatalogos lists the entries of one catalog kind
func (h *CatalogoHandler) ListCatalogos(c fiber.Ctx) error {
	req := dto.ListCatalogosRequest{
		Kind:       c.Params("kind"),
		ActiveOnly: c.Query("active_only") == "true",
	}

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.catalogoFlow.ListCatalogos(requestContext(c, "/api/v1/catalogos/:kind"), &req)
	if err != nil {
		log.Println("Catalog listing failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Catalog listing failed", "CATALOGO_LIST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Catalog retrieved successfully", result)
}

// CreateCatalogo adds an entry to a catalog (admin only)
func (h *CatalogoHandler) CreateCatalogo(c fiber.Ctx) error {
	var req dto.CreateCatalogoRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.Kind = c.Params("kind")

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	userID, _, ok := authUser(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "User not found in context", "MISSING_USER_ID", nil)
	}
	req.UserID = userID

	result, err := h.catalogoFlow.CreateCatalogo(requestContext(c, "/api/v1/catalogos/:kind"), &req, clientMetadata(c))
	if err != nil {
		if be, ok := err.(*businessflow.BusinessError); ok {
			switch be.Code {
			case "INVALID_CATALOGO_KIND", "CATALOGO_ALREADY_EXISTS":
				return errorResponse(c, fiber.StatusBadRequest, be.Message, be.Code, nil)
			}
		}

		log.Println("Catalog entry creation failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Catalog entry creation failed", "CATALOGO_CREATION_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, "Catalog entry created successfully", result)
}

// ToggleCatalogo activates or deactivates an entry (admin only)
func (h *CatalogoHandler) ToggleCatalogo(c fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid catalog entry ID", "INVALID_REQUEST", nil)
	}

	var req dto.ToggleCatalogoRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.ID = uint(id)

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	userID, _, ok := authUser(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "User not found in context", "MISSING_USER_ID", nil)
	}
	req.UserID = userID

	result, err := h.catalogoFlow.ToggleCatalogo(requestContext(c, "/api/v1/catalogos/:kind/:id"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsCatalogoNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Catalog entry not found", "CATALOGO_NOT_FOUND", nil)
		}

		log.Println("Catalog entry toggle failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Catalog entry toggle failed", "CATALOGO_TOGGLE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Catalog entry updated successfully", result)
}
