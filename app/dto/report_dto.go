package dto

import "time"

// Report formats
const (
	ReportFormatCSV  = "csv"
	ReportFormatXLSX = "xlsx"
)

// AlertsReportRequest exports the evaluated open-case list
type AlertsReportRequest struct {
	UserID uint   `json:"-"`
	Rol    string `json:"-"`

	Format string `json:"-" validate:"required,oneof=csv xlsx"`
}

// ActuacionesReportRequest exports activity entries over a date range
type ActuacionesReportRequest struct {
	UserID uint   `json:"-"`
	Rol    string `json:"-"`

	Format     string     `json:"-" validate:"required,oneof=csv xlsx"`
	FechaDesde *time.Time `json:"fecha_desde,omitempty"`
	FechaHasta *time.Time `json:"fecha_hasta,omitempty"`
}

// ProductivityReportRequest exports per-user case and activity totals
type ProductivityReportRequest struct {
	UserID uint   `json:"-"`
	Rol    string `json:"-"`

	Format string `json:"-" validate:"required,oneof=csv xlsx"`
}

// ReportFile is a generated report ready for download
type ReportFile struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"-"`
}
