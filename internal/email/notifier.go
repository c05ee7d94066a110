// Package email notifica por correo a los usuarios afectados por cambios
// de acceso. Best-effort: los fallos se loguean y nunca bloquean la
// sincronización.
package email

import "context"

// Notifier es el contrato que consume el synchronizer.
type Notifier interface {
	NotifyRoleRevoked(ctx context.Context, email, roleName string)
}

// Noop es un Notifier que no hace nada (SMTP deshabilitado).
type Noop struct{}

func (Noop) NotifyRoleRevoked(ctx context.Context, email, roleName string) {}
