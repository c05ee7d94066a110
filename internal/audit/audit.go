// Package audit registra eventos de auditoría de mutaciones administrativas.
package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/dropDatabas3/backoffice/internal/observability/logger"
)

// Log escribe un evento de auditoría estructurado a través del logger.
// En el futuro puede cablearse a una tabla o sink externo.
func Log(ctx context.Context, event string, fields map[string]any) {
	zfields := make([]zap.Field, 0, len(fields)+1)
	zfields = append(zfields, zap.String("audit_event", event))
	for k, v := range fields {
		zfields = append(zfields, zap.Any(k, v))
	}
	logger.From(ctx).Named("audit").Info("audit", zfields...)
}
