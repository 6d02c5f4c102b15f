// Package businessflow contains the core business logic and use cases for the expediente workflows
package businessflow

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/caribelex/expedientes/app/dto"
	"github.com/caribelex/expedientes/models"
	"github.com/caribelex/expedientes/repository"
	"github.com/caribelex/expedientes/utils"
	"github.com/xuri/excelize/v2"
)

const (
	csvContentType  = "text/csv"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ReportFlow generates downloadable reports in CSV and XLSX
type ReportFlow interface {
	AlertsReport(ctx context.Context, req *dto.AlertsReportRequest) (*dto.ReportFile, error)
	ActuacionesReport(ctx context.Context, req *dto.ActuacionesReportRequest) (*dto.ReportFile, error)
	ProductivityReport(ctx context.Context, req *dto.ProductivityReportRequest) (*dto.ReportFile, error)
}

// ReportFlowImpl implements the report business flow
type ReportFlowImpl struct {
	alerts         AlertsFlow
	actuacionRepo  repository.ActuacionRepository
	expedienteRepo repository.ExpedienteRepository
	userRepo       repository.AppUserRepository
}

// NewReportFlow creates a new report flow instance
func NewReportFlow(
	alerts AlertsFlow,
	actuacionRepo repository.ActuacionRepository,
	expedienteRepo repository.ExpedienteRepository,
	userRepo repository.AppUserRepository,
) ReportFlow {
	return &ReportFlowImpl{
		alerts:         alerts,
		actuacionRepo:  actuacionRepo,
		expedienteRepo: expedienteRepo,
		userRepo:       userRepo,
	}
}

// AlertsReport exports the evaluated open-case list
func (s *ReportFlowImpl) AlertsReport(ctx context.Context, req *dto.AlertsReportRequest) (*dto.ReportFile, error) {
	listing, err := s.alerts.ListAlertas(ctx, &dto.ListAlertasRequest{
		UserID: req.UserID,
		Rol:    req.Rol,
	})
	if err != nil {
		return nil, err
	}

	headers := []string{
		"Radicación única", "Estado", "Prioridad", "Responsable",
		"Demandante", "Demandado", "Estado SLA", "Días transcurridos",
		"Días límite", "Inactividad", "Días inactivo", "Alerta",
		"Última actuación", "Fecha creación",
	}

	rows := make([][]string, 0, len(listing.Items))
	for _, item := range listing.Items {
		ultima := ""
		if item.UltimaActuacion != nil {
			ultima = *item.UltimaActuacion
		}
		rows = append(rows, []string{
			item.RadicacionUnica,
			item.Estado,
			item.Prioridad,
			item.Responsable,
			derefString(item.Demandante),
			derefString(item.Demandado),
			item.SLAState,
			strconv.Itoa(item.ElapsedDays),
			strconv.Itoa(item.DeadlineDays),
			item.InactivityState,
			strconv.Itoa(item.InactiveDays),
			item.Alerta,
			ultima,
			item.CreatedAt,
		})
	}

	return s.render(req.Format, "informe_alertas", "Alertas", headers, rows)
}

// ActuacionesReport exports activity entries over an optional date range
func (s *ReportFlowImpl) ActuacionesReport(ctx context.Context, req *dto.ActuacionesReportRequest) (*dto.ReportFile, error) {
	if req.FechaDesde != nil && req.FechaHasta != nil && req.FechaDesde.After(*req.FechaHasta) {
		return nil, NewBusinessError("INVALID_DATE_RANGE", "Invalid date range", ErrStartDateAfterEndDate)
	}

	filter := models.ActuacionFilter{
		FechaDesde: req.FechaDesde,
		FechaHasta: req.FechaHasta,
	}

	actuaciones, err := s.actuacionRepo.ByFilter(ctx, filter, "fecha ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("ACTUACION_LIST_FAILED", "Failed to list actuaciones", err)
	}

	expedienteRads := make(map[uint]string)
	userNames := make(map[uint]string)

	headers := []string{"Radicación única", "Fecha", "Tipo", "Anotación", "Usuario", "Adjuntos"}
	rows := make([][]string, 0, len(actuaciones))

	for _, a := range actuaciones {
		radicacion, ok := expedienteRads[a.ExpedienteID]
		if !ok {
			if e, err := s.expedienteRepo.ByID(ctx, a.ExpedienteID); err == nil && e != nil {
				radicacion = e.RadicacionUnica
			}
			expedienteRads[a.ExpedienteID] = radicacion
		}

		usuario, ok := userNames[a.UsuarioID]
		if !ok {
			if user, err := s.userRepo.ByID(ctx, a.UsuarioID); err == nil && user != nil {
				usuario = user.DisplayName
			}
			userNames[a.UsuarioID] = usuario
		}

		rows = append(rows, []string{
			radicacion,
			a.Fecha.Format(time.RFC3339),
			derefString(a.Tipo),
			a.Anotacion,
			usuario,
			strconv.Itoa(len(a.Adjuntos)),
		})
	}

	return s.render(req.Format, "informe_actuaciones", "Actuaciones", headers, rows)
}

// ProductivityReport exports per-user case and activity totals
func (s *ReportFlowImpl) ProductivityReport(ctx context.Context, req *dto.ProductivityReportRequest) (*dto.ReportFile, error) {
	users, err := s.userRepo.ListActive(ctx)
	if err != nil {
		return nil, NewBusinessError("USER_LIST_FAILED", "Failed to list users", err)
	}

	headers := []string{"Usuario", "Email", "Equipo", "Expedientes asignados", "Actuaciones registradas"}
	rows := make([][]string, 0, len(users))

	for _, user := range users {
		assigned, err := s.expedienteRepo.Count(ctx, models.ExpedienteFilter{ResponsableUserID: &user.ID})
		if err != nil {
			return nil, NewBusinessError("EXPEDIENTE_COUNT_FAILED", "Failed to count expedientes", err)
		}

		logged, err := s.actuacionRepo.Count(ctx, models.ActuacionFilter{UsuarioID: &user.ID})
		if err != nil {
			return nil, NewBusinessError("ACTUACION_COUNT_FAILED", "Failed to count actuaciones", err)
		}

		rows = append(rows, []string{
			user.DisplayName,
			user.Email,
			derefString(user.Equipo),
			strconv.FormatInt(assigned, 10),
			strconv.FormatInt(logged, 10),
		})
	}

	return s.render(req.Format, "informe_productividad", "Productividad", headers, rows)
}

// render serializes a tabular report to the requested format
func (s *ReportFlowImpl) render(format, baseName, sheetName string, headers []string, rows [][]string) (*dto.ReportFile, error) {
	stamp := utils.UTCNow().Format("20060102_150405")

	switch format {
	case dto.ReportFormatCSV:
		content, err := renderCSV(headers, rows)
		if err != nil {
			return nil, NewBusinessError("REPORT_RENDER_FAILED", "Failed to render report", err)
		}
		return &dto.ReportFile{
			FileName:    fmt.Sprintf("%s_%s.csv", baseName, stamp),
			ContentType: csvContentType,
			Content:     content,
		}, nil

	case dto.ReportFormatXLSX:
		content, err := renderXLSX(sheetName, headers, rows)
		if err != nil {
			return nil, NewBusinessError("REPORT_RENDER_FAILED", "Failed to render report", err)
		}
		return &dto.ReportFile{
			FileName:    fmt.Sprintf("%s_%s.xlsx", baseName, stamp),
			ContentType: xlsxContentType,
			Content:     content,
		}, nil
	}

	return nil, NewBusinessErrorf("UNSUPPORTED_REPORT_FORMAT", "Unsupported report format %q", ErrUnsupportedReportFormat, format)
}

func renderCSV(headers []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func renderXLSX(sheetName string, headers []string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, err
		}
	}

	for rowIdx, row := range rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
