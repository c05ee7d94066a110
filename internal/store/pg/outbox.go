package pg

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dropDatabas3/backoffice/internal/domain"
	"github.com/dropDatabas3/backoffice/internal/domain/repository"
)

// OutboxStore implementa repository.OutboxRepository sobre la tabla
// role_event_outbox. Las filas las inserta RoleStore.Save en la misma
// transacción que el rol.
type OutboxStore struct{ s *Store }

// Outbox retorna el repositorio del outbox.
func (s *Store) Outbox() *OutboxStore { return &OutboxStore{s: s} }

func (o *OutboxStore) Pending(ctx context.Context, limit int) ([]repository.OutboxEvent, error) {
	const q = `
		SELECT id, payload, attempts
		  FROM role_event_outbox
		 WHERE done_at IS NULL
		 ORDER BY id
		 LIMIT $1`

	rows, err := o.s.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.OutboxEvent
	for rows.Next() {
		var (
			row     repository.OutboxEvent
			payload []byte
		)
		if err := rows.Scan(&row.ID, &payload, &row.Attempts); err != nil {
			return nil, err
		}
		var ev domain.RoleEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			return nil, fmt.Errorf("outbox row %d: bad payload: %w", row.ID, err)
		}
		row.Event = ev
		out = append(out, row)
	}
	return out, rows.Err()
}

func (o *OutboxStore) MarkDone(ctx context.Context, id int64) error {
	_, err := o.s.pool.Exec(ctx,
		`UPDATE role_event_outbox SET done_at = now() WHERE id = $1`, id)
	return err
}

func (o *OutboxStore) MarkFailed(ctx context.Context, id int64, cause string) error {
	_, err := o.s.pool.Exec(ctx,
		`UPDATE role_event_outbox SET attempts = attempts + 1, last_error = $2 WHERE id = $1`,
		id, cause)
	return err
}
