package dto

// ExpedienteAlertaDTO is one open case as shown on the alerts dashboard,
// with its SLA and inactivity evaluations attached.
type ExpedienteAlertaDTO struct {
	ID              uint    `json:"id"`
	UUID            string  `json:"uuid"`
	RadicacionUnica string  `json:"radicacion_unica"`
	Estado          string  `json:"estado"`
	Prioridad       string  `json:"prioridad"`
	Responsable     string  `json:"responsable"`
	Demandante      *string `json:"demandante,omitempty"`
	Demandado       *string `json:"demandado,omitempty"`

	SLAState     string `json:"sla_state"`
	ElapsedDays  int    `json:"elapsed_days"`
	DeadlineDays int    `json:"deadline_days"`

	InactivityState string `json:"inactivity_state"`
	InactiveDays    int    `json:"inactive_days"`

	Alerta          string  `json:"alerta,omitempty"`
	UltimaActuacion *string `json:"ultima_actuacion,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

// ListAlertasRequest filters the alerts dashboard. UserID and Rol come from
// the session; non-admin, non-auditor callers only see their own cases.
type ListAlertasRequest struct {
	UserID uint   `json:"-"`
	Rol    string `json:"-"`

	// OnlyAttention drops rows that need no attention at all
	OnlyAttention bool `json:"only_attention"`
}

// ListAlertasResponse is the evaluated open-case list
type ListAlertasResponse struct {
	Items []ExpedienteAlertaDTO `json:"items"`
	Total int                   `json:"total"`
}

// DashboardKPIs are the aggregate counters shown on the dashboard header
type DashboardKPIs struct {
	TotalAbiertos     int64            `json:"total_abiertos"`
	TotalVencidos     int64            `json:"total_vencidos"`
	TotalProximos     int64            `json:"total_proximos"`
	TotalInactivos6M  int64            `json:"total_inactivos_6m"`
	TotalInactivos2Y  int64            `json:"total_inactivos_2y"`
	RequierenAtencion int64            `json:"requieren_atencion"`
	PorEstado         map[string]int64 `json:"por_estado"`
	PorPrioridad      map[string]int64 `json:"por_prioridad"`
	GeneratedAt       string           `json:"generated_at"`
}
