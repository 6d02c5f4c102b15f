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

// NotificacionHandlerInterface defines the contract for notification handlers
type NotificacionHandlerInterface interface {
	ListNotificaciones(c fiber.Ctx) error
	MarkRead(c fiber.Ctx) error
	MarkAllRead(c fiber.Ctx) error
}

// NotificacionHandler handles notification HTTP requests
type NotificacionHandler struct {
	notificacionFlow businessflow.NotificacionFlow
	validator        *validator.Validate
}

// NewNotificacionHandler creates a new notification handler
func NewNotificacionHandler(notificacionFlow businessflow.NotificacionFlow) *NotificacionHandler {
	return &NotificacionHandler{
		notificacionFlow: notificacionFlow,
		validator:        validator.New(),
	}
}

// ListNotificaciones pages through the caller's notifications
func (h *NotificacionHandler) ListNotificaciones(c fiber.Ctx) error {
	var req dto.ListNotificacionesRequest
	if err := c.Bind().Query(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	userID, _, ok := authUser(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "User not found in context", "MISSING_USER_ID", nil)
	}
	req.UserID = userID

	result, err := h.notificacionFlow.ListNotificaciones(requestContext(c, "/api/v1/notificaciones"), &req)
	if err != nil {
		log.Println("Notification listing failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Notification listing failed", "NOTIFICACION_LIST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Notifications retrieved successfully", result)
}

// MarkRead marks one notification as read
func (h *NotificacionHandler) MarkRead(c fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid notification ID", "INVALID_REQUEST", nil)
	}

	userID, _, ok := authUser(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "User not found in context", "MISSING_USER_ID", nil)
	}

	result, err := h.notificacionFlow.MarkRead(requestContext(c, "/api/v1/notificaciones/:id/read"), uint(id), userID)
	if err != nil {
		if businessflow.IsNotificacionNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Notification not found", "NOTIFICACION_NOT_FOUND", nil)
		}

		log.Println("Notification mark read failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Notification mark read failed", "NOTIFICACION_MARK_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Notification marked as read", result)
}

// MarkAllRead marks all of the caller's notifications as read
func (h *NotificacionHandler) MarkAllRead(c fiber.Ctx) error {
	userID, _, ok := authUser(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "User not found in context", "MISSING_USER_ID", nil)
	}

	result, err := h.notificacionFlow.MarkAllRead(requestContext(c, "/api/v1/notificaciones/read-all"), userID)
	if err != nil {
		log.Println("Notification mark all read failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Notification mark all read failed", "NOTIFICACION_MARK_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "All notifications marked as read", result)
}
