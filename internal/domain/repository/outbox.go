package repository

import (
	"context"

	"github.com/dropDatabas3/backoffice/internal/domain"
)

// OutboxEvent es una fila pendiente del outbox: un RoleEvent durablemente
// comiteado junto con la mutación que lo originó, esperando entrega.
type OutboxEvent struct {
	ID       int64
	Event    domain.RoleEvent
	Attempts int
}

// OutboxRepository define la cola de entrega at-least-once de eventos de
// rol. Las filas se insertan vía RoleRepository.Save (misma transacción);
// el relay las drena, y solo las marca Done cuando el synchronizer procesó
// el evento completo. Un evento fallido queda pendiente y se reintenta:
// es seguro porque toda reacción del synchronizer es idempotente.
type OutboxRepository interface {
	// Pending retorna hasta limit eventos sin entregar, en orden de inserción.
	Pending(ctx context.Context, limit int) ([]OutboxEvent, error)

	// MarkDone marca el evento como entregado.
	MarkDone(ctx context.Context, id int64) error

	// MarkFailed registra un intento fallido; la fila sigue pendiente.
	MarkFailed(ctx context.Context, id int64, cause string) error
}
