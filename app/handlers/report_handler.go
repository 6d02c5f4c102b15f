// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"
	"time"

	"github.com/caribelex/expedientes/app/dto"
	businessflow "github.com/caribelex/expedientes/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// ReportHandlerInterface defines the contract for report handlers
type ReportHandlerInterface interface {
	AlertsReport(c fiber.Ctx) error
	ActuacionesReport(c fiber.Ctx) error
	ProductivityReport(c fiber.Ctx) error
}

// ReportHandler handles report download HTTP requests
type ReportHandler struct {
	reportFlow businessflow.ReportFlow
	validator  *validator.Validate
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportFlow businessflow.ReportFlow) *ReportHandler {
	return &ReportHandler{
		reportFlow: reportFlow,
		validator:  validator.New(),
	}
}

func sendReport(c fiber.Ctx, file *dto.ReportFile) error {
	c.Set("Content-Type", file.ContentType)
	c.Set("Content-Disposition", "attachment; filename=\""+file.FileName+"\"")
	return c.Send(file.Content)
}

// AlertsReport downloads the evaluated open-case report
func (h *ReportHandler) AlertsReport(c fiber.Ctx) error {
	userID, rol, ok := authUser(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "User not found in context", "MISSING_USER_ID", nil)
	}

	req := dto.AlertsReportRequest{
		UserID: userID,
		Rol:    rol,
		Format: c.Query("format", dto.ReportFormatCSV),
	}

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	file, err := h.reportFlow.AlertsReport(requestContext(c, "/api/v1/reportes/alertas"), &req)
	if err != nil {
		if businessflow.IsUnsupportedReportFormat(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Unsupported report format", "UNSUPPORTED_REPORT_FORMAT", nil)
		}

		log.Println("Alerts report failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Report generation failed", "REPORT_FAILED", nil)
	}

	return sendReport(c, file)
}

// ActuacionesReport downloads the activity report over an optional date range
func (h *ReportHandler) ActuacionesReport(c fiber.Ctx) error {
	userID, rol, ok := authUser(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "User not found in context", "MISSING_USER_ID", nil)
	}

	req := dto.ActuacionesReportRequest{
		UserID: userID,
		Rol:    rol,
		Format: c.Query("format", dto.ReportFormatCSV),
	}

	if desde := c.Query("fecha_desde"); desde != "" {
		if t, err := time.Parse(time.RFC3339, desde); err == nil {
			req.FechaDesde = &t
		}
	}
	if hasta := c.Query("fecha_hasta"); hasta != "" {
		if t, err := time.Parse(time.RFC3339, hasta); err == nil {
			req.FechaHasta = &t
		}
	}

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	file, err := h.reportFlow.ActuacionesReport(requestContext(c, "/api/v1/reportes/actuaciones"), &req)
	if err != nil {
		if businessflow.IsUnsupportedReportFormat(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Unsupported report format", "UNSUPPORTED_REPORT_FORMAT", nil)
		}
		if be, ok := err.(*businessflow.BusinessError); ok && be.Code == "INVALID_DATE_RANGE" {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid date range", be.Code, nil)
		}

		log.Println("Actuaciones report failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Report generation failed", "REPORT_FAILED", nil)
	}

	return sendReport(c, file)
}

// ProductivityReport downloads the per-user productivity report
func (h *ReportHandler) ProductivityReport(c fiber.Ctx) error {
	userID, rol, ok := authUser(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "User not found in context", "MISSING_USER_ID", nil)
	}

	req := dto.ProductivityReportRequest{
		UserID: userID,
		Rol:    rol,
		Format: c.Query("format", dto.ReportFormatCSV),
	}

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	file, err := h.reportFlow.ProductivityReport(requestContext(c, "/api/v1/reportes/productividad"), &req)
	if err != nil {
		if businessflow.IsUnsupportedReportFormat(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Unsupported report format", "UNSUPPORTED_REPORT_FORMAT", nil)
		}

		log.Println("Productivity report failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Report generation failed", "REPORT_FAILED", nil)
	}

	return sendReport(c, file)
}
