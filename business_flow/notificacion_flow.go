// Package businessflow contains the core business logic and use cases for the expediente workflows
package businessflow

import (
	"context"
	"errors"

	"github.com/caribelex/expedientes/app/dto"
	"github.com/caribelex/expedientes/repository"
	"gorm.io/gorm"
)

// NotificacionFlow handles the in-app notification business logic
type NotificacionFlow interface {
	ListNotificaciones(ctx context.Context, req *dto.ListNotificacionesRequest) (*dto.ListNotificacionesResponse, error)
	MarkRead(ctx context.Context, id, userID uint) (*dto.MarkNotificacionReadResponse, error)
	MarkAllRead(ctx context.Context, userID uint) (*dto.MarkNotificacionReadResponse, error)
}

// NotificacionFlowImpl implements the notification business flow
type NotificacionFlowImpl struct {
	notifRepo repository.NotificacionRepository
}

// NewNotificacionFlow creates a new notification flow instance
func NewNotificacionFlow(notifRepo repository.NotificacionRepository) NotificacionFlow {
	return &NotificacionFlowImpl{notifRepo: notifRepo}
}

// ListNotificaciones pages through the caller's notifications, newest first
func (s *NotificacionFlowImpl) ListNotificaciones(ctx context.Context, req *dto.ListNotificacionesRequest) (*dto.ListNotificacionesResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	notificaciones, err := s.notifRepo.ListByUser(ctx, req.UserID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("NOTIFICACION_LIST_FAILED", "Failed to list notifications", err)
	}

	unread, err := s.notifRepo.CountUnread(ctx, req.UserID)
	if err != nil {
		return nil, NewBusinessError("NOTIFICACION_COUNT_FAILED", "Failed to count notifications", err)
	}

	items := make([]dto.NotificacionDTO, 0, len(notificaciones))
	for _, n := range notificaciones {
		items = append(items, ToNotificacionDTO(*n))
	}

	return &dto.ListNotificacionesResponse{
		Items:    items,
		Unread:   unread,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// MarkRead marks one of the caller's notifications as read
func (s *NotificacionFlowImpl) MarkRead(ctx context.Context, id, userID uint) (*dto.MarkNotificacionReadResponse, error) {
	if err := s.notifRepo.MarkRead(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewBusinessError("NOTIFICACION_NOT_FOUND", "Notification not found", ErrNotificacionNotFound)
		}
		return nil, NewBusinessError("NOTIFICACION_MARK_FAILED", "Failed to mark notification read", err)
	}

	return &dto.MarkNotificacionReadResponse{Message: "Notification marked as read"}, nil
}

// MarkAllRead marks every unread notification of the caller as read
func (s *NotificacionFlowImpl) MarkAllRead(ctx context.Context, userID uint) (*dto.MarkNotificacionReadResponse, error) {
	if err := s.notifRepo.MarkAllRead(ctx, userID); err != nil {
		return nil, NewBusinessError("NOTIFICACION_MARK_FAILED", "Failed to mark notifications read", err)
	}

	return &dto.MarkNotificacionReadResponse{Message: "All notifications marked as read"}, nil
}
