// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caribelex/expedientes/app/dto"
	businessflow "github.com/caribelex/expedientes/business_flow"
	"github.com/caribelex/expedientes/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// ActuacionHandlerInterface defines the contract for actuación handlers
type ActuacionHandlerInterface interface {
	CreateActuacion(c fiber.Ctx) error
	ListActuaciones(c fiber.Ctx) error
}

// ActuacionHandler handles actuación-related HTTP requests
type ActuacionHandler struct {
	actuacionFlow businessflow.ActuacionFlow
	uploadsDir    string
	validator     *validator.Validate
}

// NewActuacionHandler creates a new actuación handler
func NewActuacionHandler(actuacionFlow businessflow.ActuacionFlow, uploadsDir string) *ActuacionHandler {
	if uploadsDir == "" {
		uploadsDir = filepath.Join("data", "uploads", "actuaciones")
	}
	return &ActuacionHandler{
		actuacionFlow: actuacionFlow,
		uploadsDir:    uploadsDir,
		validator:     validator.New(),
	}
}

// CreateActuacion logs an entry against a case. Accepts JSON or
// multipart/form-data with up to five attachments under "adjuntos".
func (h *ActuacionHandler) CreateActuacion(c fiber.Ctx) error {
	contentType := c.Get("Content-Type")

	var req dto.CreateActuacionRequest

	if strings.HasPrefix(contentType, "multipart/form-data") {
		if form, err := c.MultipartForm(); err == nil && form != nil {
			req.Anotacion = c.FormValue("anotacion")
			if tipo := c.FormValue("tipo"); tipo != "" {
				req.Tipo = &tipo
			}
			if fechaStr := c.FormValue("fecha"); fechaStr != "" {
				if fecha, err := time.Parse(time.RFC3339, fechaStr); err == nil {
					req.Fecha = &fecha
				}
			}

			for _, fileHeader := range form.File["adjuntos"] {
				path, err := h.saveUploadedFile(fileHeader)
				if err != nil {
					return errorResponse(c, fiber.StatusBadRequest, "File upload failed", "FILE_UPLOAD_FAILED", err.Error())
				}
				req.Adjuntos = append(req.Adjuntos, path)
				req.AdjuntoNombres = append(req.AdjuntoNombres, fileHeader.Filename)
			}
		}
	} else {
		if err := c.Bind().JSON(&req); err != nil {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
		}
	}

	req.ExpedienteUUID = c.Params("uuid")

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	userID, _, ok := authUser(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "User not found in context", "MISSING_USER_ID", nil)
	}
	req.UserID = userID

	result, err := h.actuacionFlow.CreateActuacion(requestContext(c, "/api/v1/expedientes/:uuid/actuaciones"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsExpedienteNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Expediente not found", "EXPEDIENTE_NOT_FOUND", nil)
		}
		if be, ok := err.(*businessflow.BusinessError); ok {
			switch be.Code {
			case "ANOTACION_REQUIRED", "TOO_MANY_ATTACHMENTS", "ATTACHMENT_NAME_REQUIRED":
				return errorResponse(c, fiber.StatusBadRequest, be.Message, be.Code, nil)
			}
		}

		log.Println("Actuación creation failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Actuación creation failed", "ACTUACION_CREATION_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, "Actuación created successfully", result)
}

// ListActuaciones pages through a case's activity history
func (h *ActuacionHandler) ListActuaciones(c fiber.Ctx) error {
	var req dto.ListActuacionesRequest
	if err := c.Bind().Query(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}
	req.ExpedienteUUID = c.Params("uuid")

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	userID, rol, ok := authUser(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "User not found in context", "MISSING_USER_ID", nil)
	}
	req.UserID = userID
	req.Rol = rol

	result, err := h.actuacionFlow.ListActuaciones(requestContext(c, "/api/v1/expedientes/:uuid/actuaciones"), &req)
	if err != nil {
		if businessflow.IsExpedienteNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Expediente not found", "EXPEDIENTE_NOT_FOUND", nil)
		}
		if businessflow.IsAccessDenied(err) {
			return errorResponse(c, fiber.StatusForbidden, "Access denied", "ACCESS_DENIED", nil)
		}

		log.Println("Actuación listing failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Actuación listing failed", "ACTUACION_LIST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Actuaciones retrieved successfully", result)
}

// saveUploadedFile writes a multipart upload to disk under uploadsDir/YYYY-MM-DD/
func (h *ActuacionHandler) saveUploadedFile(fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader == nil {
		return "", fmt.Errorf("no file provided")
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".pdf", ".docx", ".xlsx", ".zip":
	default:
		return "", fmt.Errorf("invalid file type")
	}

	if fileHeader.Size > utils.MaxAttachmentSizeBytes {
		return "", fmt.Errorf("file too large")
	}

	dateDir := utils.UTCNow().Format("2006-01-02")
	baseDir := filepath.Join(h.uploadsDir, dateDir)
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", err
	}

	fname := uuid.New().String() + ext
	fullPath := filepath.Join(baseDir, fname)

	src, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(fullPath)
		return "", err
	}

	return filepath.ToSlash(fullPath), nil
}
