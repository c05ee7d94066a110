package events_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/dropDatabas3/backoffice/internal/domain"
	"github.com/dropDatabas3/backoffice/internal/domain/repository"
	"github.com/dropDatabas3/backoffice/internal/events"
)

type fakeOutbox struct {
	rows   []repository.OutboxEvent
	done   []int64
	failed []int64
}

func (f *fakeOutbox) Pending(_ context.Context, limit int) ([]repository.OutboxEvent, error) {
	var out []repository.OutboxEvent
	for _, r := range f.rows {
		if len(out) == limit {
			break
		}
		if !contains(f.done, r.ID) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeOutbox) MarkDone(_ context.Context, id int64) error {
	f.done = append(f.done, id)
	return nil
}

func (f *fakeOutbox) MarkFailed(_ context.Context, id int64, _ string) error {
	f.failed = append(f.failed, id)
	return nil
}

func contains(s []int64, v int64) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// handlerFunc adapta una función a events.Handler.
type handlerFunc func(context.Context, domain.RoleEvent) error

func (h handlerFunc) Handle(ctx context.Context, ev domain.RoleEvent) error { return h(ctx, ev) }

func outboxRow(id int64, kind domain.RoleEventKind) repository.OutboxEvent {
	return repository.OutboxEvent{
		ID:    id,
		Event: domain.RoleEvent{Kind: kind, Role: domain.RoleSnapshot{ID: uuid.New()}},
	}
}

func TestDrainOnce_MarksDone(t *testing.T) {
	outbox := &fakeOutbox{rows: []repository.OutboxEvent{
		outboxRow(1, domain.RoleEventInfoChanged),
		outboxRow(2, domain.RoleEventDeleted),
	}}

	var handled []int64
	relay := events.NewRelay(outbox, handlerFunc(func(_ context.Context, ev domain.RoleEvent) error {
		handled = append(handled, 1)
		return nil
	}), 0, 0)

	relay.DrainOnce(context.Background())

	if len(handled) != 2 {
		t.Fatalf("handled %d events, want 2", len(handled))
	}
	if len(outbox.done) != 2 || len(outbox.failed) != 0 {
		t.Fatalf("done=%v failed=%v, want both done", outbox.done, outbox.failed)
	}
}

func TestDrainOnce_FailureDoesNotBlockBatch(t *testing.T) {
	outbox := &fakeOutbox{rows: []repository.OutboxEvent{
		outboxRow(1, domain.RoleEventInfoChanged),
		outboxRow(2, domain.RoleEventInfoChanged),
		outboxRow(3, domain.RoleEventInfoChanged),
	}}

	// Solo el segundo evento falla.
	calls := 0
	relay := events.NewRelay(outbox, handlerFunc(func(_ context.Context, ev domain.RoleEvent) error {
		calls++
		if calls == 2 {
			return errors.New("transient")
		}
		return nil
	}), 0, 0)

	relay.DrainOnce(context.Background())

	if !contains(outbox.done, 1) || !contains(outbox.done, 3) {
		t.Fatalf("done=%v, events 1 and 3 must complete", outbox.done)
	}
	if !contains(outbox.failed, 2) {
		t.Fatalf("failed=%v, event 2 must be marked failed", outbox.failed)
	}

	// El evento fallido sigue pendiente: el próximo ciclo lo reentrega.
	pending, _ := outbox.Pending(context.Background(), 10)
	if len(pending) != 1 || pending[0].ID != 2 {
		t.Fatalf("pending=%v, want only the failed event", pending)
	}
}

func TestDrainOnce_RespectsBatchLimit(t *testing.T) {
	outbox := &fakeOutbox{}
	for i := int64(1); i <= 5; i++ {
		outbox.rows = append(outbox.rows, outboxRow(i, domain.RoleEventDeleted))
	}

	handled := 0
	relay := events.NewRelay(outbox, handlerFunc(func(context.Context, domain.RoleEvent) error {
		handled++
		return nil
	}), 0, 2)

	relay.DrainOnce(context.Background())
	if handled != 2 {
		t.Fatalf("handled %d, want batch of 2", handled)
	}

	relay.DrainOnce(context.Background())
	if handled != 4 {
		t.Fatalf("handled %d after second drain, want 4", handled)
	}
}
