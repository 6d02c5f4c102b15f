// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"

	"github.com/caribelex/expedientes/app/dto"
	businessflow "github.com/caribelex/expedientes/business_flow"
	"github.com/gofiber/fiber/v3"
)

// AlertsHandlerInterface defines the contract for alerts handlers
type AlertsHandlerInterface interface {
	ListAlertas(c fiber.Ctx) error
	DashboardKPIs(c fiber.Ctx) error
}

// AlertsHandler handles alerts and dashboard HTTP requests
type AlertsHandler struct {
	alertsFlow businessflow.AlertsFlow
}

// NewAlertsHandler creates a new alerts handler
func NewAlertsHandler(alertsFlow businessflow.AlertsFlow) *AlertsHandler {
	return &AlertsHandler{alertsFlow: alertsFlow}
}

// ListAlertas returns the evaluated open-case list
func (h *AlertsHandler) ListAlertas(c fiber.Ctx) error {
	userID, rol, ok := authUser(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "User not found in context", "MISSING_USER_ID", nil)
	}

	req := dto.ListAlertasRequest{
		UserID:        userID,
		Rol:           rol,
		OnlyAttention: c.Query("only_attention") == "true",
	}

	result, err := h.alertsFlow.ListAlertas(requestContext(c, "/api/v1/alertas"), &req)
	if err != nil {
		log.Println("Alerts listing failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Alerts listing failed", "ALERTS_LIST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Alerts retrieved successfully", result)
}

// DashboardKPIs returns the aggregate dashboard counters
func (h *AlertsHandler) DashboardKPIs(c fiber.Ctx) error {
	if _, _, ok := authUser(c); !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "User not found in context", "MISSING_USER_ID", nil)
	}

	result, err := h.alertsFlow.DashboardKPIs(requestContext(c, "/api/v1/dashboard/kpis"))
	if err != nil {
		log.Println("Dashboard KPIs failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Dashboard KPIs failed", "KPI_EVALUATION_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Dashboard KPIs retrieved successfully", result)
}
