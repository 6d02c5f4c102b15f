// Package businessflow contains the core business logic and use cases for the expediente workflows
package businessflow

import (
	"context"
	"fmt"
	"time"

	"github.com/caribelex/expedientes/app/dto"
	"github.com/caribelex/expedientes/app/services"
	"github.com/caribelex/expedientes/models"
	"github.com/caribelex/expedientes/repository"
	"github.com/caribelex/expedientes/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExpedienteFlow handles the case lifecycle business logic
type ExpedienteFlow interface {
	CreateExpediente(ctx context.Context, req *dto.CreateExpedienteRequest, metadata *ClientMetadata) (*dto.CreateExpedienteResponse, error)
	GetExpediente(ctx context.Context, id uuid.UUID, userID uint, rol string) (*dto.ExpedienteDTO, error)
	ListExpedientes(ctx context.Context, req *dto.ListExpedientesRequest) (*dto.ListExpedientesResponse, error)
	UpdateExpediente(ctx context.Context, req *dto.UpdateExpedienteRequest, metadata *ClientMetadata) (*dto.UpdateExpedienteResponse, error)
	ReassignExpediente(ctx context.Context, req *dto.ReassignExpedienteRequest, metadata *ClientMetadata) (*dto.ReassignExpedienteResponse, error)
}

// ExpedienteFlowImpl implements the expediente business flow
type ExpedienteFlowImpl struct {
	expedienteRepo repository.ExpedienteRepository
	catalogoRepo   repository.CatalogoRepository
	userRepo       repository.AppUserRepository
	notifRepo      repository.NotificacionRepository
	auditRepo      repository.AuditLogRepository
	radicacion     RadicacionFlow
	notifier       services.NotificationService
	db             *gorm.DB
}

// NewExpedienteFlow creates a new expediente flow instance
func NewExpedienteFlow(
	expedienteRepo repository.ExpedienteRepository,
	catalogoRepo repository.CatalogoRepository,
	userRepo repository.AppUserRepository,
	notifRepo repository.NotificacionRepository,
	auditRepo repository.AuditLogRepository,
	radicacion RadicacionFlow,
	notifier services.NotificationService,
	db *gorm.DB,
) ExpedienteFlow {
	return &ExpedienteFlowImpl{
		expedienteRepo: expedienteRepo,
		catalogoRepo:   catalogoRepo,
		userRepo:       userRepo,
		notifRepo:      notifRepo,
		auditRepo:      auditRepo,
		radicacion:     radicacion,
		notifier:       notifier,
		db:             db,
	}
}

// CreateExpediente opens a new case. Both sequential identifiers are generated
// inside the same transaction that inserts the case row, so a failed insert
// never leaves a consumed number behind.
func (s *ExpedienteFlowImpl) CreateExpediente(ctx context.Context, req *dto.CreateExpedienteRequest, metadata *ClientMetadata) (*dto.CreateExpedienteResponse, error) {
	if !models.ValidPriority(req.Prioridad) {
		return nil, NewBusinessError("INVALID_PRIORITY", "Invalid priority", ErrInvalidPriority)
	}

	responsable, err := s.userRepo.ByID(ctx, req.ResponsableUserID)
	if err != nil {
		return nil, NewBusinessError("USER_LOOKUP_FAILED", "Failed to lookup assigned user", err)
	}
	if responsable == nil {
		return nil, NewBusinessError("RESPONSABLE_NOT_FOUND", "Assigned user not found", ErrResponsableNotFound)
	}
	if !utils.IsTrue(responsable.IsActive) {
		return nil, NewBusinessError("RESPONSABLE_INACTIVE", "Assigned user is inactive", ErrResponsableInactive)
	}

	origen, err := s.lookupCatalogo(ctx, models.CatalogoOrigen, req.OrigenID)
	if err != nil {
		return nil, err
	}
	for _, ref := range []struct {
		kind string
		id   uint
	}{
		{models.CatalogoClase, req.ClaseID},
		{models.CatalogoEstado, req.EstadoID},
		{models.CatalogoDespacho, req.DespachoID},
		{models.CatalogoUbicacion, req.UbicacionID},
	} {
		if _, err := s.lookupCatalogo(ctx, ref.kind, ref.id); err != nil {
			return nil, err
		}
	}

	var expediente *models.Expediente

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		radicacion, err := s.radicacion.NextRadicacionUnica(txCtx)
		if err != nil {
			return err
		}

		existing, err := s.expedienteRepo.ByRadicacionUnica(txCtx, radicacion)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: %s", ErrDuplicateRadicacion, radicacion)
		}

		// The internal docket only exists for origins with a configured prefix
		var radicadoInterno *string
		interno, err := s.radicacion.NextRadicadoInterno(txCtx, origen.Nombre)
		if err == nil {
			radicadoInterno = &interno
		} else if !IsUnknownOrigin(err) {
			return err
		}

		now := utils.UTCNow()
		expediente = &models.Expediente{
			UUID:                uuid.New(),
			RadicacionUnica:     radicacion,
			RadicadoInterno:     radicadoInterno,
			ClaseID:             req.ClaseID,
			EstadoID:            req.EstadoID,
			OrigenID:            req.OrigenID,
			DespachoID:          req.DespachoID,
			UbicacionID:         req.UbicacionID,
			Repositorio:         req.Repositorio,
			Demandante:          req.Demandante,
			ApoderadoDemandante: req.ApoderadoDemandante,
			Demandado:           req.Demandado,
			ApoderadoDemandado:  req.ApoderadoDemandado,
			Prioridad:           req.Prioridad,
			ResponsableUserID:   req.ResponsableUserID,
			CreadoPorID:         req.UserID,
			ModificadoPorID:     req.UserID,
			CreatedAt:           now,
			UpdatedAt:           now,
		}

		return s.expedienteRepo.Save(txCtx, expediente)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Expediente creation failed: %s", err.Error())
		_ = s.createAuditLog(ctx, req.UserID, models.AuditActionExpedienteCreationFailed, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("EXPEDIENTE_CREATION_FAILED", "Expediente creation failed", err)
	}

	msg := fmt.Sprintf("Expediente created: %s", expediente.RadicacionUnica)
	_ = s.createAuditLog(ctx, req.UserID, models.AuditActionExpedienteCreated, msg, true, nil, metadata)

	// Notify the assignee unless they opened the case themselves
	if req.ResponsableUserID != req.UserID {
		s.notifyAssignment(ctx, responsable, expediente, models.NotificacionAsignacion,
			"Nuevo expediente asignado",
			fmt.Sprintf("Se le ha asignado el expediente %s", expediente.RadicacionUnica))
	}

	return &dto.CreateExpedienteResponse{
		Message:         "Expediente created successfully",
		ID:              expediente.ID,
		UUID:            expediente.UUID.String(),
		RadicacionUnica: expediente.RadicacionUnica,
		RadicadoInterno: expediente.RadicadoInterno,
		CreatedAt:       expediente.CreatedAt.Format(time.RFC3339),
	}, nil
}

// GetExpediente returns one case with resolved display names. Callers without
// unrestricted read access only see cases assigned to them.
func (s *ExpedienteFlowImpl) GetExpediente(ctx context.Context, id uuid.UUID, userID uint, rol string) (*dto.ExpedienteDTO, error) {
	expediente, err := s.expedienteRepo.ByUUID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("EXPEDIENTE_LOOKUP_FAILED", "Failed to lookup expediente", err)
	}
	if expediente == nil {
		return nil, NewBusinessError("EXPEDIENTE_NOT_FOUND", "Expediente not found", ErrExpedienteNotFound)
	}

	if !models.CanSeeAllExpedientes(rol) && expediente.ResponsableUserID != userID {
		return nil, NewBusinessError("ACCESS_DENIED", "Access denied", ErrAccessDenied)
	}

	item, err := s.toExpedienteDTO(ctx, expediente)
	if err != nil {
		return nil, NewBusinessError("EXPEDIENTE_RESOLVE_FAILED", "Failed to resolve expediente", err)
	}

	return item, nil
}

// ListExpedientes returns a filtered page of cases
func (s *ExpedienteFlowImpl) ListExpedientes(ctx context.Context, req *dto.ListExpedientesRequest) (*dto.ListExpedientesResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	if req.CreatedAfter != nil && req.CreatedBefore != nil && req.CreatedAfter.After(*req.CreatedBefore) {
		return nil, NewBusinessError("INVALID_DATE_RANGE", "Invalid date range", ErrStartDateAfterEndDate)
	}

	filter := models.ExpedienteFilter{
		ClaseID:           req.ClaseID,
		EstadoID:          req.EstadoID,
		OrigenID:          req.OrigenID,
		DespachoID:        req.DespachoID,
		UbicacionID:       req.UbicacionID,
		Prioridad:         req.Prioridad,
		ResponsableUserID: req.ResponsableUserID,
		CreatedAfter:      req.CreatedAfter,
		CreatedBefore:     req.CreatedBefore,
	}

	// Restricted roles always list their own cases, whatever the filter says
	if !models.CanSeeAllExpedientes(req.Rol) {
		filter.ResponsableUserID = &req.UserID
	}

	orderBy := ""
	if req.OrderBy != "" {
		orderBy = req.OrderBy + " DESC"
	}

	expedientes, err := s.expedienteRepo.ByFilter(ctx, filter, orderBy, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("EXPEDIENTE_LIST_FAILED", "Failed to list expedientes", err)
	}

	total, err := s.expedienteRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("EXPEDIENTE_COUNT_FAILED", "Failed to count expedientes", err)
	}

	items := make([]dto.ExpedienteDTO, 0, len(expedientes))
	for _, e := range expedientes {
		item, err := s.toExpedienteDTO(ctx, e)
		if err != nil {
			return nil, NewBusinessError("EXPEDIENTE_RESOLVE_FAILED", "Failed to resolve expediente", err)
		}
		items = append(items, *item)
	}

	return &dto.ListExpedientesResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// UpdateExpediente applies partial updates to a case and stamps the modifier
func (s *ExpedienteFlowImpl) UpdateExpediente(ctx context.Context, req *dto.UpdateExpedienteRequest, metadata *ClientMetadata) (*dto.UpdateExpedienteResponse, error) {
	id, err := uuid.Parse(req.UUID)
	if err != nil {
		return nil, NewBusinessError("EXPEDIENTE_NOT_FOUND", "Expediente not found", ErrExpedienteNotFound)
	}

	expediente, err := s.expedienteRepo.ByUUID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("EXPEDIENTE_LOOKUP_FAILED", "Failed to lookup expediente", err)
	}
	if expediente == nil {
		return nil, NewBusinessError("EXPEDIENTE_NOT_FOUND", "Expediente not found", ErrExpedienteNotFound)
	}

	if req.Prioridad != nil && !models.ValidPriority(*req.Prioridad) {
		return nil, NewBusinessError("INVALID_PRIORITY", "Invalid priority", ErrInvalidPriority)
	}

	if req.ClaseID != nil {
		if _, err := s.lookupCatalogo(ctx, models.CatalogoClase, *req.ClaseID); err != nil {
			return nil, err
		}
		expediente.ClaseID = *req.ClaseID
	}
	if req.EstadoID != nil {
		if _, err := s.lookupCatalogo(ctx, models.CatalogoEstado, *req.EstadoID); err != nil {
			return nil, err
		}
		expediente.EstadoID = *req.EstadoID
	}
	if req.DespachoID != nil {
		if _, err := s.lookupCatalogo(ctx, models.CatalogoDespacho, *req.DespachoID); err != nil {
			return nil, err
		}
		expediente.DespachoID = *req.DespachoID
	}
	if req.UbicacionID != nil {
		if _, err := s.lookupCatalogo(ctx, models.CatalogoUbicacion, *req.UbicacionID); err != nil {
			return nil, err
		}
		expediente.UbicacionID = *req.UbicacionID
	}

	if req.Repositorio != nil {
		expediente.Repositorio = req.Repositorio
	}
	if req.Demandante != nil {
		expediente.Demandante = req.Demandante
	}
	if req.ApoderadoDemandante != nil {
		expediente.ApoderadoDemandante = req.ApoderadoDemandante
	}
	if req.Demandado != nil {
		expediente.Demandado = req.Demandado
	}
	if req.ApoderadoDemandado != nil {
		expediente.ApoderadoDemandado = req.ApoderadoDemandado
	}
	escalated := false
	if req.Prioridad != nil {
		escalated = *req.Prioridad == models.PriorityAlta && expediente.Prioridad != models.PriorityAlta
		expediente.Prioridad = *req.Prioridad
	}

	expediente.ModificadoPorID = req.UserID

	if err := s.expedienteRepo.Update(ctx, expediente); err != nil {
		return nil, NewBusinessError("EXPEDIENTE_UPDATE_FAILED", "Expediente update failed", err)
	}

	msg := fmt.Sprintf("Expediente updated: %s", expediente.RadicacionUnica)
	_ = s.createAuditLog(ctx, req.UserID, models.AuditActionExpedienteUpdated, msg, true, nil, metadata)

	// A raise to Alta escalates the case to its assignee
	if escalated && expediente.ResponsableUserID != req.UserID {
		if responsable, err := s.userRepo.ByID(ctx, expediente.ResponsableUserID); err == nil && responsable != nil {
			s.notifyAssignment(ctx, responsable, expediente, models.NotificacionEscalamiento,
				"Expediente escalado",
				fmt.Sprintf("El expediente %s fue escalado a prioridad Alta", expediente.RadicacionUnica))
		}
	}

	return &dto.UpdateExpedienteResponse{
		Message:   "Expediente updated successfully",
		UUID:      expediente.UUID.String(),
		UpdatedAt: expediente.UpdatedAt.Format(time.RFC3339),
	}, nil
}

// ReassignExpediente moves a case to another responsible user and notifies
// the new assignee.
func (s *ExpedienteFlowImpl) ReassignExpediente(ctx context.Context, req *dto.ReassignExpedienteRequest, metadata *ClientMetadata) (*dto.ReassignExpedienteResponse, error) {
	id, err := uuid.Parse(req.UUID)
	if err != nil {
		return nil, NewBusinessError("EXPEDIENTE_NOT_FOUND", "Expediente not found", ErrExpedienteNotFound)
	}

	expediente, err := s.expedienteRepo.ByUUID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("EXPEDIENTE_LOOKUP_FAILED", "Failed to lookup expediente", err)
	}
	if expediente == nil {
		return nil, NewBusinessError("EXPEDIENTE_NOT_FOUND", "Expediente not found", ErrExpedienteNotFound)
	}

	nuevo, err := s.userRepo.ByID(ctx, req.NuevoResponsableID)
	if err != nil {
		return nil, NewBusinessError("USER_LOOKUP_FAILED", "Failed to lookup assigned user", err)
	}
	if nuevo == nil {
		return nil, NewBusinessError("RESPONSABLE_NOT_FOUND", "Assigned user not found", ErrResponsableNotFound)
	}
	if !utils.IsTrue(nuevo.IsActive) {
		return nil, NewBusinessError("RESPONSABLE_INACTIVE", "Assigned user is inactive", ErrResponsableInactive)
	}

	expediente.ResponsableUserID = req.NuevoResponsableID
	expediente.ModificadoPorID = req.UserID

	if err := s.expedienteRepo.Update(ctx, expediente); err != nil {
		return nil, NewBusinessError("EXPEDIENTE_REASSIGN_FAILED", "Expediente reassignment failed", err)
	}

	msg := fmt.Sprintf("Expediente %s reassigned to user %d", expediente.RadicacionUnica, req.NuevoResponsableID)
	_ = s.createAuditLog(ctx, req.UserID, models.AuditActionExpedienteReassigned, msg, true, nil, metadata)

	if req.NuevoResponsableID != req.UserID {
		s.notifyAssignment(ctx, nuevo, expediente, models.NotificacionAsignacion,
			"Expediente reasignado",
			fmt.Sprintf("Se le ha reasignado el expediente %s", expediente.RadicacionUnica))
	}

	return &dto.ReassignExpedienteResponse{
		Message:            "Expediente reassigned successfully",
		UUID:               expediente.UUID.String(),
		NuevoResponsableID: req.NuevoResponsableID,
	}, nil
}

func (s *ExpedienteFlowImpl) lookupCatalogo(ctx context.Context, kind string, id uint) (*models.Catalogo, error) {
	catalogo, err := s.catalogoRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("CATALOGO_LOOKUP_FAILED", "Failed to lookup catalog entry", err)
	}
	if catalogo == nil || catalogo.Kind != kind {
		return nil, NewBusinessErrorf("CATALOGO_NOT_FOUND", "Catalog entry %d of kind %s not found", ErrCatalogoNotFound, id, kind)
	}
	if !utils.IsTrue(catalogo.Activo) {
		return nil, NewBusinessErrorf("CATALOGO_INACTIVE", "Catalog entry %s is inactive", ErrCatalogoInactive, catalogo.Nombre)
	}

	return catalogo, nil
}

func (s *ExpedienteFlowImpl) toExpedienteDTO(ctx context.Context, e *models.Expediente) (*dto.ExpedienteDTO, error) {
	names := make(map[uint]string)
	for _, id := range []uint{e.ClaseID, e.EstadoID, e.OrigenID, e.DespachoID, e.UbicacionID} {
		if _, ok := names[id]; ok {
			continue
		}
		catalogo, err := s.catalogoRepo.ByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if catalogo != nil {
			names[id] = catalogo.Nombre
		}
	}

	responsable := ""
	if user, err := s.userRepo.ByID(ctx, e.ResponsableUserID); err == nil && user != nil {
		responsable = user.DisplayName
	}

	return &dto.ExpedienteDTO{
		ID:                  e.ID,
		UUID:                e.UUID.String(),
		RadicacionUnica:     e.RadicacionUnica,
		RadicadoInterno:     e.RadicadoInterno,
		ClaseID:             e.ClaseID,
		Clase:               names[e.ClaseID],
		EstadoID:            e.EstadoID,
		Estado:              names[e.EstadoID],
		OrigenID:            e.OrigenID,
		Origen:              names[e.OrigenID],
		DespachoID:          e.DespachoID,
		Despacho:            names[e.DespachoID],
		UbicacionID:         e.UbicacionID,
		Ubicacion:           names[e.UbicacionID],
		Repositorio:         e.Repositorio,
		Demandante:          e.Demandante,
		ApoderadoDemandante: e.ApoderadoDemandante,
		Demandado:           e.Demandado,
		ApoderadoDemandado:  e.ApoderadoDemandado,
		Prioridad:           e.Prioridad,
		ResponsableUserID:   e.ResponsableUserID,
		Responsable:         responsable,
		CreatedAt:           e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           e.UpdatedAt.Format(time.RFC3339),
	}, nil
}

func (s *ExpedienteFlowImpl) notifyAssignment(ctx context.Context, user *models.AppUser, e *models.Expediente, tipo, titulo, mensaje string) {
	notif := &models.Notificacion{
		UserID:          user.ID,
		ExpedienteID:    e.ID,
		Tipo:            tipo,
		Titulo:          titulo,
		Mensaje:         mensaje,
		RadicacionUnica: &e.RadicacionUnica,
		Leida:           utils.ToPtr(false),
		CreatedAt:       utils.UTCNow(),
	}
	if err := s.notifRepo.Save(ctx, notif); err != nil {
		return
	}

	_ = s.notifier.SendEmail(user.Email, titulo, mensaje)
}

func (s *ExpedienteFlowImpl) createAuditLog(ctx context.Context, userID uint, action, description string, success bool, errorMessage *string, metadata *ClientMetadata) error {
	audit := &models.AuditLog{
		UserID:       &userID,
		Action:       action,
		Description:  &description,
		Success:      &success,
		ErrorMessage: errorMessage,
		CreatedAt:    utils.UTCNow(),
	}
	if metadata != nil {
		if metadata.IPAddress != "" {
			audit.IPAddress = &metadata.IPAddress
		}
		if metadata.UserAgent != "" {
			audit.UserAgent = &metadata.UserAgent
		}
		if metadata.RequestID != "" {
			audit.RequestID = &metadata.RequestID
		}
	}

	return s.auditRepo.Save(ctx, audit)
}
