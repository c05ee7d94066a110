// Package events entrega los eventos de rol al synchronizer con semántica
// at-least-once. Las filas del outbox se insertan en la misma transacción
// que el Save del rol; el relay las drena y solo las marca entregadas
// cuando el handler procesó el evento completo.
package events

import (
	"context"
	"time"

	"github.com/dropDatabas3/backoffice/internal/domain"
	"github.com/dropDatabas3/backoffice/internal/domain/repository"
	"github.com/dropDatabas3/backoffice/internal/observability/logger"
)

// Handler procesa un evento de rol. Debe ser idempotente: un evento puede
// entregarse más de una vez (replay tras fallo parcial).
type Handler interface {
	Handle(ctx context.Context, ev domain.RoleEvent) error
}

const (
	defaultInterval  = 2 * time.Second
	defaultBatchSize = 50
)

// Relay es el poller del outbox.
type Relay struct {
	outbox   repository.OutboxRepository
	handler  Handler
	interval time.Duration
	batch    int
}

// NewRelay crea un relay. interval y batch en cero usan defaults.
func NewRelay(outbox repository.OutboxRepository, handler Handler, interval time.Duration, batch int) *Relay {
	if interval <= 0 {
		interval = defaultInterval
	}
	if batch <= 0 {
		batch = defaultBatchSize
	}
	return &Relay{outbox: outbox, handler: handler, interval: interval, batch: batch}
}

// Run drena el outbox en loop hasta que el contexto se cancele.
// Pensado para correr en una goroutine propia desde main.
func (r *Relay) Run(ctx context.Context) {
	log := logger.Named("events.relay")
	log.Info("relay started",
		logger.Duration(r.interval),
		logger.Int("batch", r.batch),
	)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("relay stopped")
			return
		case <-ticker.C:
			r.DrainOnce(ctx)
		}
	}
}

// DrainOnce procesa un batch de eventos pendientes. Un evento que falla se
// marca Failed y queda pendiente para el próximo ciclo; no bloquea a los
// siguientes del batch porque cada evento afecta usuarios distintos o es
// idempotente sobre los mismos.
func (r *Relay) DrainOnce(ctx context.Context) {
	log := logger.From(ctx).With(logger.Component("events.relay"))

	pending, err := r.outbox.Pending(ctx, r.batch)
	if err != nil {
		log.Error("outbox poll failed", logger.Err(err))
		return
	}

	for _, row := range pending {
		if ctx.Err() != nil {
			return
		}
		if err := r.handler.Handle(ctx, row.Event); err != nil {
			log.Warn("event delivery failed, will retry",
				logger.Int64("outbox_id", row.ID),
				logger.Event(string(row.Event.Kind)),
				logger.Int("attempts", row.Attempts+1),
				logger.Err(err),
			)
			if mErr := r.outbox.MarkFailed(ctx, row.ID, err.Error()); mErr != nil {
				log.Error("mark failed errored", logger.Int64("outbox_id", row.ID), logger.Err(mErr))
			}
			continue
		}
		if err := r.outbox.MarkDone(ctx, row.ID); err != nil {
			// El evento ya se procesó; si MarkDone falla se reentregará.
			// Inocuo: el handler es idempotente.
			log.Error("mark done errored", logger.Int64("outbox_id", row.ID), logger.Err(err))
		}
	}
}
