// Package businessflow contains the core business logic and use cases for the expediente workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// User-related errors
	ErrUserNotFound      = errors.New("user not found")
	ErrAccountInactive   = errors.New("account is inactive")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrAccessDenied      = errors.New("access denied")
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionExpired    = errors.New("session has expired")

	// Radicación errors
	ErrUnknownOrigin       = errors.New("origin has no internal docket prefix")
	ErrDuplicateRadicacion = errors.New("radicación number already exists")
	ErrTransactionFailed   = errors.New("transaction failed")

	// Expediente errors
	ErrExpedienteNotFound   = errors.New("expediente not found")
	ErrInvalidPriority      = errors.New("priority must be Alta, Media or Baja")
	ErrResponsableNotFound  = errors.New("assigned user not found")
	ErrResponsableInactive  = errors.New("assigned user is inactive")
	ErrDemandanteRequired   = errors.New("demandante is required")
	ErrDemandadoRequired    = errors.New("demandado is required")

	// Actuación errors
	ErrActuacionNotFound       = errors.New("actuación not found")
	ErrAnotacionRequired       = errors.New("anotación is required")
	ErrAttachmentTooLarge      = errors.New("attachment exceeds the size limit")
	ErrTooManyAttachments      = errors.New("too many attachments")
	ErrAttachmentNameRequired  = errors.New("attachment name is required")

	// Catalog errors
	ErrCatalogoNotFound      = errors.New("catalog entry not found")
	ErrCatalogoInactive      = errors.New("catalog entry is inactive")
	ErrCatalogoAlreadyExists = errors.New("catalog entry already exists")
	ErrInvalidCatalogoKind   = errors.New("unknown catalog kind")

	// Notification errors
	ErrNotificacionNotFound = errors.New("notification not found")

	// Report errors
	ErrUnsupportedReportFormat = errors.New("unsupported report format")

	// Filter errors
	ErrInvalidPage           = errors.New("page must be at least 1")
	ErrInvalidPageSize       = errors.New("page size must be between 1 and 100")
	ErrStartDateAfterEndDate = errors.New("start date cannot be after end date")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

func IsAccountInactive(err error) bool {
	return errors.Is(err, ErrAccountInactive)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}

func IsUnknownOrigin(err error) bool {
	return errors.Is(err, ErrUnknownOrigin)
}

func IsDuplicateRadicacion(err error) bool {
	return errors.Is(err, ErrDuplicateRadicacion)
}

func IsExpedienteNotFound(err error) bool {
	return errors.Is(err, ErrExpedienteNotFound)
}

func IsInvalidPriority(err error) bool {
	return errors.Is(err, ErrInvalidPriority)
}

func IsResponsableNotFound(err error) bool {
	return errors.Is(err, ErrResponsableNotFound)
}

func IsResponsableInactive(err error) bool {
	return errors.Is(err, ErrResponsableInactive)
}

func IsCatalogoNotFound(err error) bool {
	return errors.Is(err, ErrCatalogoNotFound)
}

func IsCatalogoInactive(err error) bool {
	return errors.Is(err, ErrCatalogoInactive)
}

func IsCatalogoAlreadyExists(err error) bool {
	return errors.Is(err, ErrCatalogoAlreadyExists)
}

func IsInvalidCatalogoKind(err error) bool {
	return errors.Is(err, ErrInvalidCatalogoKind)
}

func IsNotificacionNotFound(err error) bool {
	return errors.Is(err, ErrNotificacionNotFound)
}

func IsUnsupportedReportFormat(err error) bool {
	return errors.Is(err, ErrUnsupportedReportFormat)
}
