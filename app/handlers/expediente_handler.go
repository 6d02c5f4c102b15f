// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"

	"github.com/caribelex/expedientes/app/dto"
	"github.com/caribelex/expedientes/app/middleware"
	businessflow "github.com/caribelex/expedientes/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// ExpedienteHandlerInterface defines the contract for expediente handlers
type ExpedienteHandlerInterface interface {
	CreateExpediente(c fiber.Ctx) error
	GetExpediente(c fiber.Ctx) error
	ListExpedientes(c fiber.Ctx) error
	UpdateExpediente(c fiber.Ctx) error
	ReassignExpediente(c fiber.Ctx) error
}

// ExpedienteHandler handles expediente-related HTTP requests
type ExpedienteHandler struct {
	expedienteFlow businessflow.ExpedienteFlow
	validator      *validator.Validate
}

// NewExpedienteHandler creates a new expediente handler
func NewExpedienteHandler(expedienteFlow businessflow.ExpedienteFlow) *ExpedienteHandler {
	return &ExpedienteHandler{
		expedienteFlow: expedienteFlow,
		validator:      validator.New(),
	}
}

// CreateExpediente opens a new case with server-generated identifiers
func (h *ExpedienteHandler) CreateExpediente(c fiber.Ctx) error {
	var req dto.CreateExpedienteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	userID, _, ok := authUser(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "User not found in context", "MISSING_USER_ID", nil)
	}
	req.UserID = userID

	result, err := h.expedienteFlow.CreateExpediente(requestContext(c, "/api/v1/expedientes"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsInvalidPriority(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid priority", "INVALID_PRIORITY", nil)
		}
		if businessflow.IsCatalogoNotFound(err) || businessflow.IsCatalogoInactive(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid catalog reference", "INVALID_CATALOGO", nil)
		}

		log.Println("Expediente creation failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Expediente creation failed", "EXPEDIENTE_CREATION_FAILED", nil)
	}

	middleware.CountRadicacionIssued("unica")
	if result.RadicadoInterno != nil {
		middleware.CountRadicacionIssued("interna")
	}

	return successResponse(c, fiber.StatusCreated, "Expediente created successfully", result)
}

// GetExpediente returns one case by UUID
func (h *ExpedienteHandler) GetExpediente(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("uuid"))
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid expediente UUID", "INVALID_UUID", nil)
	}

	userID, rol, ok := authUser(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "User not found in context", "MISSING_USER_ID", nil)
	}

	result, err := h.expedienteFlow.GetExpediente(requestContext(c, "/api/v1/expedientes/:uuid"), id, userID, rol)
	if err != nil {
		if businessflow.IsExpedienteNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Expediente not found", "EXPEDIENTE_NOT_FOUND", nil)
		}
		if businessflow.IsAccessDenied(err) {
			return errorResponse(c, fiber.StatusForbidden, "Access denied", "ACCESS_DENIED", nil)
		}

		log.Println("Expediente lookup failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Expediente lookup failed", "EXPEDIENTE_LOOKUP_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Expediente retrieved successfully", result)
}

// ListExpedientes returns a filtered page of cases
func (h *ExpedienteHandler) ListExpedientes(c fiber.Ctx) error {
	var req dto.ListExpedientesRequest
	if err := c.Bind().Query(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	userID, rol, ok := authUser(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "User not found in context", "MISSING_USER_ID", nil)
	}
	req.UserID = userID
	req.Rol = rol

	result, err := h.expedienteFlow.ListExpedientes(requestContext(c, "/api/v1/expedientes"), &req)
	if err != nil {
		log.Println("Expediente listing failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Expediente listing failed", "EXPEDIENTE_LIST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Expedientes retrieved successfully", result)
}

// UpdateExpediente applies partial updates to a case
func (h *ExpedienteHandler) UpdateExpediente(c fiber.Ctx) error {
	var req dto.UpdateExpedienteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.UUID = c.Params("uuid")

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	userID, _, ok := authUser(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "User not found in context", "MISSING_USER_ID", nil)
	}
	req.UserID = userID

	result, err := h.expedienteFlow.UpdateExpediente(requestContext(c, "/api/v1/expedientes/:uuid"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsExpedienteNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Expediente not found", "EXPEDIENTE_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidPriority(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid priority", "INVALID_PRIORITY", nil)
		}
		if businessflow.IsCatalogoNotFound(err) || businessflow.IsCatalogoInactive(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid catalog reference", "INVALID_CATALOGO", nil)
		}

		log.Println("Expediente update failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Expediente update failed", "EXPEDIENTE_UPDATE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Expediente updated successfully", result)
}

// ReassignExpediente moves a case to another responsible user
func (h *ExpedienteHandler) ReassignExpediente(c fiber.Ctx) error {
	var req dto.ReassignExpedienteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.UUID = c.Params("uuid")

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	userID, _, ok := authUser(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "User not found in context", "MISSING_USER_ID", nil)
	}
	req.UserID = userID

	result, err := h.expedienteFlow.ReassignExpediente(requestContext(c, "/api/v1/expedientes/:uuid/reassign"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsExpedienteNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Expediente not found", "EXPEDIENTE_NOT_FOUND", nil)
		}

		log.Println("Expediente reassignment failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Expediente reassignment failed", "EXPEDIENTE_REASSIGN_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Expediente reassigned successfully", result)
}
