package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dropDatabas3/backoffice/internal/domain"
	"github.com/dropDatabas3/backoffice/internal/domain/repository"
)

// AppError define la estructura estándar para errores del admin API.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	HTTPStatus int    `json:"-"` // No se serializa, usado para el header
	Err        error  `json:"-"` // Causa original, útil para logs, no se expone al cliente
}

// Error implementa la interfaz error.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap permite acceder al error original.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail agrega detalle al error. Devuelve una COPIA para no mutar las
// variables globales base.
func (e *AppError) WithDetail(detail string) *AppError {
	newErr := *e
	newErr.Detail = detail
	return &newErr
}

// WithCause agrega la causa original. Devuelve una COPIA.
func (e *AppError) WithCause(err error) *AppError {
	newErr := *e
	newErr.Err = err
	return &newErr
}

// =================================================================================
// LISTA DE ERRORES PREDEFINIDOS
// =================================================================================

var (
	// 400
	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "La solicitud contiene sintaxis inválida o parámetros faltantes.",
		HTTPStatus: http.StatusBadRequest,
	}
	ErrInvalidJSON = &AppError{
		Code:       "INVALID_JSON",
		Message:    "El cuerpo de la solicitud no es un JSON válido.",
		HTTPStatus: http.StatusBadRequest,
	}
	ErrValidation = &AppError{
		Code:       "VALIDATION_FAILED",
		Message:    "Uno o más campos no pasan la validación.",
		HTTPStatus: http.StatusBadRequest,
	}

	// 401
	ErrUnauthorized = &AppError{
		Code:       "UNAUTHORIZED",
		Message:    "No autorizado. Se requiere autenticación.",
		HTTPStatus: http.StatusUnauthorized,
	}
	ErrInvalidCredentials = &AppError{
		Code:       "INVALID_CREDENTIALS",
		Message:    "Las credenciales proporcionadas son inválidas.",
		HTTPStatus: http.StatusUnauthorized,
	}

	// 403
	ErrForbidden = &AppError{
		Code:       "FORBIDDEN",
		Message:    "No tiene permisos para realizar esta acción.",
		HTTPStatus: http.StatusForbidden,
	}

	// 404
	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "El recurso solicitado no fue encontrado.",
		HTTPStatus: http.StatusNotFound,
	}

	// 409
	ErrConflict = &AppError{
		Code:       "CONFLICT",
		Message:    "La operación entra en conflicto con el estado actual.",
		HTTPStatus: http.StatusConflict,
	}
	ErrDuplicateName = &AppError{
		Code:       "DUPLICATE_NAME",
		Message:    "Ya existe un recurso activo con ese nombre.",
		HTTPStatus: http.StatusConflict,
	}
	ErrDuplicatePermission = &AppError{
		Code:       "DUPLICATE_PERMISSION",
		Message:    "El código de permiso ya existe en el ledger del usuario.",
		HTTPStatus: http.StatusConflict,
	}
	ErrAlreadyDeleted = &AppError{
		Code:       "ALREADY_DELETED",
		Message:    "El recurso ya fue eliminado.",
		HTTPStatus: http.StatusConflict,
	}

	// 500
	ErrInternalServerError = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "Error interno del servidor.",
		HTTPStatus: http.StatusInternalServerError,
	}
)

// FromError convierte cualquier error en un AppError, mapeando los errores
// del dominio y de los repositorios a su status correspondiente.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case domain.IsValidation(err):
		return ErrValidation.WithDetail(err.Error()).WithCause(err)
	case errors.Is(err, domain.ErrDuplicatePermission):
		return ErrDuplicatePermission.WithCause(err)
	case errors.Is(err, domain.ErrRoleDeleted), errors.Is(err, domain.ErrUserDeleted):
		return ErrAlreadyDeleted.WithCause(err)
	case errors.Is(err, domain.ErrRoleNotAssigned):
		return ErrNotFound.WithDetail("el usuario no tiene ese rol").WithCause(err)
	case repository.IsNotFound(err):
		return ErrNotFound.WithCause(err)
	case repository.IsConflict(err):
		return ErrConflict.WithCause(err)
	}
	return ErrInternalServerError.WithCause(err)
}
