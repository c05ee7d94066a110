package domain

import "errors"

var (
	// ErrNameRequired indica que el nombre del rol está vacío.
	ErrNameRequired = errors.New("name is required")

	// ErrNameTooLong indica que el nombre supera los 50 caracteres.
	ErrNameTooLong = errors.New("name exceeds 50 characters")

	// ErrDescriptionTooLong indica que la descripción supera los 200 caracteres.
	ErrDescriptionTooLong = errors.New("description exceeds 200 characters")

	// ErrRoleDeleted indica que el rol ya fue eliminado (soft-delete).
	ErrRoleDeleted = errors.New("role already deleted")

	// ErrDuplicatePermission indica que el código de permiso ya existe en el
	// ledger del usuario (directo o derivado de rol).
	ErrDuplicatePermission = errors.New("duplicate permission code")

	// ErrRoleNotAssigned indica que el usuario no tiene asignado el rol.
	ErrRoleNotAssigned = errors.New("role not assigned to user")

	// ErrEmailRequired indica que el email del usuario está vacío.
	ErrEmailRequired = errors.New("email is required")

	// ErrUserDeleted indica que el usuario ya fue eliminado.
	ErrUserDeleted = errors.New("user already deleted")

	// ErrMenuNotFound indica que un grant referencia un menú inexistente.
	ErrMenuNotFound = errors.New("menu not found")
)

// IsValidation verifica si el error es de validación de campos.
// Estos errores son sincrónicos y no reintentable: el caller debe corregir
// el request.
func IsValidation(err error) bool {
	return errors.Is(err, ErrNameRequired) ||
		errors.Is(err, ErrNameTooLong) ||
		errors.Is(err, ErrDescriptionTooLong) ||
		errors.Is(err, ErrEmailRequired) ||
		errors.Is(err, ErrMenuNotFound)
}

// IsConflict verifica si el error es una violación de regla de negocio.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicatePermission)
}
