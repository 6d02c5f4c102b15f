// Package businessflow contains the core business logic and use cases for the expediente workflows
package businessflow

import (
	"context"
	"fmt"
	"time"

	"github.com/caribelex/expedientes/app/dto"
	"github.com/caribelex/expedientes/models"
	"github.com/caribelex/expedientes/repository"
	"github.com/caribelex/expedientes/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActuacionFlow handles the case activity log business logic
type ActuacionFlow interface {
	CreateActuacion(ctx context.Context, req *dto.CreateActuacionRequest, metadata *ClientMetadata) (*dto.CreateActuacionResponse, error)
	ListActuaciones(ctx context.Context, req *dto.ListActuacionesRequest) (*dto.ListActuacionesResponse, error)
}

// ActuacionFlowImpl implements the actuación business flow
type ActuacionFlowImpl struct {
	actuacionRepo  repository.ActuacionRepository
	expedienteRepo repository.ExpedienteRepository
	userRepo       repository.AppUserRepository
	notifRepo      repository.NotificacionRepository
	auditRepo      repository.AuditLogRepository
	db             *gorm.DB
}

// NewActuacionFlow creates a new actuación flow instance
func NewActuacionFlow(
	actuacionRepo repository.ActuacionRepository,
	expedienteRepo repository.ExpedienteRepository,
	userRepo repository.AppUserRepository,
	notifRepo repository.NotificacionRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) ActuacionFlow {
	return &ActuacionFlowImpl{
		actuacionRepo:  actuacionRepo,
		expedienteRepo: expedienteRepo,
		userRepo:       userRepo,
		notifRepo:      notifRepo,
		auditRepo:      auditRepo,
		db:             db,
	}
}

// CreateActuacion logs a dated entry against a case. The entry, the case's
// modification stamp and the assignee notification are written in one
// transaction.
func (s *ActuacionFlowImpl) CreateActuacion(ctx context.Context, req *dto.CreateActuacionRequest, metadata *ClientMetadata) (*dto.CreateActuacionResponse, error) {
	if req.Anotacion == "" {
		return nil, NewBusinessError("ANOTACION_REQUIRED", "Anotación is required", ErrAnotacionRequired)
	}
	if len(req.Adjuntos) > utils.MaxAttachmentsPerEntry {
		return nil, NewBusinessError("TOO_MANY_ATTACHMENTS", "Too many attachments", ErrTooManyAttachments)
	}
	if len(req.Adjuntos) != len(req.AdjuntoNombres) {
		return nil, NewBusinessError("ATTACHMENT_NAME_REQUIRED", "Attachment name is required", ErrAttachmentNameRequired)
	}

	id, err := uuid.Parse(req.ExpedienteUUID)
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

	fecha := utils.UTCNow()
	if req.Fecha != nil && !req.Fecha.IsZero() {
		fecha = req.Fecha.UTC()
	}

	actuacion := &models.Actuacion{
		UUID:           uuid.New(),
		ExpedienteID:   expediente.ID,
		Fecha:          fecha,
		Tipo:           req.Tipo,
		Anotacion:      req.Anotacion,
		UsuarioID:      req.UserID,
		Adjuntos:       req.Adjuntos,
		AdjuntoNombres: req.AdjuntoNombres,
		CreatedAt:      utils.UTCNow(),
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		if err := s.actuacionRepo.Save(txCtx, actuacion); err != nil {
			return err
		}

		expediente.ModificadoPorID = req.UserID
		if err := s.expedienteRepo.Update(txCtx, expediente); err != nil {
			return err
		}

		// The assignee hears about activity logged by anyone else
		if expediente.ResponsableUserID != req.UserID {
			notif := &models.Notificacion{
				UserID:          expediente.ResponsableUserID,
				ExpedienteID:    expediente.ID,
				Tipo:            models.NotificacionActualizacion,
				Titulo:          "Nueva actuación",
				Mensaje:         fmt.Sprintf("Nueva actuación en el expediente %s", expediente.RadicacionUnica),
				RadicacionUnica: &expediente.RadicacionUnica,
				Leida:           utils.ToPtr(false),
				CreatedAt:       utils.UTCNow(),
			}
			if err := s.notifRepo.Save(txCtx, notif); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return nil, NewBusinessError("ACTUACION_CREATION_FAILED", "Actuación creation failed", err)
	}

	msg := fmt.Sprintf("Actuación logged on expediente %s", expediente.RadicacionUnica)
	_ = s.createAuditLog(ctx, req.UserID, models.AuditActionActuacionCreated, msg, true, nil, metadata)

	return &dto.CreateActuacionResponse{
		Message: "Actuación created successfully",
		ID:      actuacion.ID,
		UUID:    actuacion.UUID.String(),
		Fecha:   actuacion.Fecha.Format(time.RFC3339),
	}, nil
}

// ListActuaciones pages through a case's activity history, newest first
func (s *ActuacionFlowImpl) ListActuaciones(ctx context.Context, req *dto.ListActuacionesRequest) (*dto.ListActuacionesResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	id, err := uuid.Parse(req.ExpedienteUUID)
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

	if !models.CanSeeAllExpedientes(req.Rol) && expediente.ResponsableUserID != req.UserID {
		return nil, NewBusinessError("ACCESS_DENIED", "Access denied", ErrAccessDenied)
	}

	actuaciones, err := s.actuacionRepo.ListByExpediente(ctx, expediente.ID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("ACTUACION_LIST_FAILED", "Failed to list actuaciones", err)
	}

	total, err := s.actuacionRepo.CountByExpediente(ctx, expediente.ID)
	if err != nil {
		return nil, NewBusinessError("ACTUACION_COUNT_FAILED", "Failed to count actuaciones", err)
	}

	userNames := make(map[uint]string)
	items := make([]dto.ActuacionDTO, 0, len(actuaciones))
	for _, a := range actuaciones {
		name, ok := userNames[a.UsuarioID]
		if !ok {
			if user, err := s.userRepo.ByID(ctx, a.UsuarioID); err == nil && user != nil {
				name = user.DisplayName
			}
			userNames[a.UsuarioID] = name
		}

		items = append(items, dto.ActuacionDTO{
			ID:             a.ID,
			UUID:           a.UUID.String(),
			Fecha:          a.Fecha.Format(time.RFC3339),
			Tipo:           a.Tipo,
			Anotacion:      a.Anotacion,
			UsuarioID:      a.UsuarioID,
			Usuario:        name,
			Adjuntos:       a.Adjuntos,
			AdjuntoNombres: a.AdjuntoNombres,
		})
	}

	return &dto.ListActuacionesResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (s *ActuacionFlowImpl) createAuditLog(ctx context.Context, userID uint, action, description string, success bool, errorMessage *string, metadata *ClientMetadata) error {
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
