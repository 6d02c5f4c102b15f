// Package businessflow contains the core business logic and use cases for the expediente workflows
package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/caribelex/expedientes/app/dto"
	"github.com/caribelex/expedientes/config"
	"github.com/caribelex/expedientes/models"
	"github.com/caribelex/expedientes/repository"
	"github.com/caribelex/expedientes/utils"
	"github.com/redis/go-redis/v9"
)

// Estado names containing any of these substrings mark a case as closed for
// alerting purposes. Closed cases never appear on the dashboard.
var closedEstadoMarkers = []string{"cerrado", "resuelto", "archivado"}

const dashboardKPIsCacheKey = "dashboard:kpis"

// AlertsFlow evaluates open cases against the SLA and inactivity policies and
// aggregates the dashboard counters.
type AlertsFlow interface {
	ListAlertas(ctx context.Context, req *dto.ListAlertasRequest) (*dto.ListAlertasResponse, error)
	DashboardKPIs(ctx context.Context) (*dto.DashboardKPIs, error)
	// NotifyOverdue creates vencimiento notifications for overdue cases whose
	// assignee has no unread one yet. Meant for a periodic sweep.
	NotifyOverdue(ctx context.Context) (int, error)
}

// AlertsFlowImpl implements the alerts business flow
type AlertsFlowImpl struct {
	expedienteRepo repository.ExpedienteRepository
	actuacionRepo  repository.ActuacionRepository
	catalogoRepo   repository.CatalogoRepository
	userRepo       repository.AppUserRepository
	notifRepo      repository.NotificacionRepository
	tables         *config.DomainTables
	cacheConfig    *config.CacheConfig
	rc             *redis.Client
}

// NewAlertsFlow creates a new alerts flow instance
func NewAlertsFlow(
	expedienteRepo repository.ExpedienteRepository,
	actuacionRepo repository.ActuacionRepository,
	catalogoRepo repository.CatalogoRepository,
	userRepo repository.AppUserRepository,
	notifRepo repository.NotificacionRepository,
	tables *config.DomainTables,
	cacheConfig *config.CacheConfig,
	rc *redis.Client,
) AlertsFlow {
	return &AlertsFlowImpl{
		expedienteRepo: expedienteRepo,
		actuacionRepo:  actuacionRepo,
		catalogoRepo:   catalogoRepo,
		userRepo:       userRepo,
		notifRepo:      notifRepo,
		tables:         tables,
		cacheConfig:    cacheConfig,
		rc:             rc,
	}
}

// closedEstadoIDs resolves the estado catalog entries that count as closed
func (s *AlertsFlowImpl) closedEstadoIDs(ctx context.Context) ([]uint, error) {
	estados, err := s.catalogoRepo.ListByKind(ctx, models.CatalogoEstado, false)
	if err != nil {
		return nil, err
	}

	var ids []uint
	for _, estado := range estados {
		lower := strings.ToLower(estado.Nombre)
		for _, marker := range closedEstadoMarkers {
			if strings.Contains(lower, marker) {
				ids = append(ids, estado.ID)
				break
			}
		}
	}

	return ids, nil
}

// evaluated is one open case with both evaluations attached
type evaluated struct {
	expediente *models.Expediente
	sla        SLAResult
	inact      InactivityResult
	lastFecha  *time.Time
}

// evaluateOpen loads every open case and runs both evaluators against now
func (s *AlertsFlowImpl) evaluateOpen(ctx context.Context, now time.Time) ([]evaluated, error) {
	closedIDs, err := s.closedEstadoIDs(ctx)
	if err != nil {
		return nil, err
	}

	expedientes, err := s.expedienteRepo.ListExcludingEstados(ctx, closedIDs)
	if err != nil {
		return nil, err
	}

	results := make([]evaluated, 0, len(expedientes))
	for _, e := range expedientes {
		lastFecha, err := s.actuacionRepo.LatestFecha(ctx, e.ID)
		if err != nil {
			return nil, err
		}

		results = append(results, evaluated{
			expediente: e,
			sla:        EvaluateSLA(s.tables.SLA, e.Prioridad, e.CreatedAt, now),
			inact:      EvaluateInactivity(s.tables.Inactivity, e.CreatedAt, lastFecha, now),
			lastFecha:  lastFecha,
		})
	}

	return results, nil
}

// ListAlertas returns the evaluated open-case list for the dashboard
func (s *AlertsFlowImpl) ListAlertas(ctx context.Context, req *dto.ListAlertasRequest) (*dto.ListAlertasResponse, error) {
	now := utils.UTCNow()

	evaluations, err := s.evaluateOpen(ctx, now)
	if err != nil {
		return nil, NewBusinessError("ALERTS_EVALUATION_FAILED", "Failed to evaluate alerts", err)
	}

	restricted := !models.CanSeeAllExpedientes(req.Rol)

	estadoNames := make(map[uint]string)
	userNames := make(map[uint]string)

	items := make([]dto.ExpedienteAlertaDTO, 0, len(evaluations))
	for _, ev := range evaluations {
		e := ev.expediente

		if restricted && e.ResponsableUserID != req.UserID {
			continue
		}
		if req.OnlyAttention && !NeedsAttention(ev.sla, ev.inact) {
			continue
		}

		estado, ok := estadoNames[e.EstadoID]
		if !ok {
			if catalogo, err := s.catalogoRepo.ByID(ctx, e.EstadoID); err == nil && catalogo != nil {
				estado = catalogo.Nombre
			}
			estadoNames[e.EstadoID] = estado
		}

		responsable, ok := userNames[e.ResponsableUserID]
		if !ok {
			if user, err := s.userRepo.ByID(ctx, e.ResponsableUserID); err == nil && user != nil {
				responsable = user.DisplayName
			}
			userNames[e.ResponsableUserID] = responsable
		}

		var ultima *string
		if ev.lastFecha != nil {
			formatted := ev.lastFecha.Format(time.RFC3339)
			ultima = &formatted
		}

		items = append(items, dto.ExpedienteAlertaDTO{
			ID:              e.ID,
			UUID:            e.UUID.String(),
			RadicacionUnica: e.RadicacionUnica,
			Estado:          estado,
			Prioridad:       e.Prioridad,
			Responsable:     responsable,
			Demandante:      e.Demandante,
			Demandado:       e.Demandado,
			SLAState:        string(ev.sla.State),
			ElapsedDays:     ev.sla.ElapsedDays,
			DeadlineDays:    ev.sla.DeadlineDays,
			InactivityState: string(ev.inact.State),
			InactiveDays:    ev.inact.InactiveDays,
			Alerta:          string(Classify(ev.sla, ev.inact)),
			UltimaActuacion: ultima,
			CreatedAt:       e.CreatedAt.Format(time.RFC3339),
		})
	}

	return &dto.ListAlertasResponse{
		Items: items,
		Total: len(items),
	}, nil
}

// DashboardKPIs aggregates the dashboard counters over all open cases.
// The result is cached in redis for a short TTL; evaluation walks every open
// case and is too heavy to run on each dashboard poll.
func (s *AlertsFlowImpl) DashboardKPIs(ctx context.Context) (*dto.DashboardKPIs, error) {
	if kpis := s.cachedKPIs(ctx); kpis != nil {
		return kpis, nil
	}

	now := utils.UTCNow()

	evaluations, err := s.evaluateOpen(ctx, now)
	if err != nil {
		return nil, NewBusinessError("KPI_EVALUATION_FAILED", "Failed to compute dashboard KPIs", err)
	}

	kpis := &dto.DashboardKPIs{
		PorEstado:    make(map[string]int64),
		PorPrioridad: make(map[string]int64),
		GeneratedAt:  now.Format(time.RFC3339),
	}

	estadoNames := make(map[uint]string)
	for _, ev := range evaluations {
		e := ev.expediente
		kpis.TotalAbiertos++

		switch ev.sla.State {
		case SLAOverdue:
			kpis.TotalVencidos++
		case SLAApproaching:
			kpis.TotalProximos++
		}

		switch ev.inact.State {
		case InactivityDormant6M:
			kpis.TotalInactivos6M++
		case InactivityDormant2Y:
			kpis.TotalInactivos2Y++
		}

		if NeedsAttention(ev.sla, ev.inact) {
			kpis.RequierenAtencion++
		}

		estado, ok := estadoNames[e.EstadoID]
		if !ok {
			if catalogo, err := s.catalogoRepo.ByID(ctx, e.EstadoID); err == nil && catalogo != nil {
				estado = catalogo.Nombre
			}
			estadoNames[e.EstadoID] = estado
		}
		if estado != "" {
			kpis.PorEstado[estado]++
		}
		kpis.PorPrioridad[e.Prioridad]++
	}

	s.cacheKPIs(ctx, kpis)

	return kpis, nil
}

// NotifyOverdue sweeps open cases and notifies assignees of overdue ones.
// An assignee with an unread vencimiento notification for the same case is
// not notified again. Returns the number of notifications created.
func (s *AlertsFlowImpl) NotifyOverdue(ctx context.Context) (int, error) {
	now := utils.UTCNow()

	evaluations, err := s.evaluateOpen(ctx, now)
	if err != nil {
		return 0, NewBusinessError("ALERTS_EVALUATION_FAILED", "Failed to evaluate alerts", err)
	}

	created := 0
	for _, ev := range evaluations {
		if ev.sla.State != SLAOverdue {
			continue
		}
		e := ev.expediente

		tipo := models.NotificacionVencimiento
		unread := false
		pending, err := s.notifRepo.Exists(ctx, models.NotificacionFilter{
			UserID:       &e.ResponsableUserID,
			ExpedienteID: &e.ID,
			Tipo:         &tipo,
			Leida:        &unread,
		})
		if err != nil {
			return created, NewBusinessError("NOTIFICACION_LOOKUP_FAILED", "Failed to check pending notifications", err)
		}
		if pending {
			continue
		}

		notif := &models.Notificacion{
			UserID:          e.ResponsableUserID,
			ExpedienteID:    e.ID,
			Tipo:            models.NotificacionVencimiento,
			Titulo:          "Expediente vencido",
			Mensaje:         fmt.Sprintf("El expediente %s superó su plazo de resolución (%d de %d días)", e.RadicacionUnica, ev.sla.ElapsedDays, ev.sla.DeadlineDays),
			RadicacionUnica: &e.RadicacionUnica,
			Leida:           utils.ToPtr(false),
			CreatedAt:       utils.UTCNow(),
		}
		if err := s.notifRepo.Save(ctx, notif); err != nil {
			return created, NewBusinessError("NOTIFICACION_CREATION_FAILED", "Failed to create notification", err)
		}
		created++
	}

	return created, nil
}

func (s *AlertsFlowImpl) cachedKPIs(ctx context.Context) *dto.DashboardKPIs {
	if s.rc == nil || s.cacheConfig == nil || !s.cacheConfig.Enabled {
		return nil
	}

	data, err := s.rc.Get(ctx, dashboardKPIsCacheKey).Bytes()
	if err != nil {
		return nil
	}

	var kpis dto.DashboardKPIs
	if err := json.Unmarshal(data, &kpis); err != nil {
		return nil
	}

	return &kpis
}

func (s *AlertsFlowImpl) cacheKPIs(ctx context.Context, kpis *dto.DashboardKPIs) {
	if s.rc == nil || s.cacheConfig == nil || !s.cacheConfig.Enabled {
		return
	}

	data, err := json.Marshal(kpis)
	if err != nil {
		return
	}

	ttl := s.cacheConfig.DashboardTTL
	if ttl <= 0 {
		ttl = time.Minute
	}

	_ = s.rc.Set(ctx, dashboardKPIsCacheKey, data, ttl).Err()
}
