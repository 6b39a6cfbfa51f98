package audit

import (
	"context"
	"time"

	"product-catalog/internal/middleware"

	"go.uber.org/zap"
)

// Recorder appends one immutable audit line per business mutation.
type Recorder interface {
	Record(ctx context.Context, action, entityName, entityID, performedBy string)
}

type logRecorder struct {
	logger *zap.Logger
}

// NewRecorder creates a Recorder that writes audit lines to the operational
// log. Recording is best-effort: it never fails the caller's mutation, even
// when no sink is available.
func NewRecorder(logger *zap.Logger) Recorder {
	return &logRecorder{logger: logger}
}

// Record composes one structured audit line correlating the action, entity,
// actor and ambient correlation id. Outside a request scope the correlation
// id degrades to "N/A".
func (r *logRecorder) Record(ctx context.Context, action, entityName, entityID, performedBy string) {
	if r.logger == nil {
		return
	}

	correlationID, ok := middleware.GetCorrelationID(ctx)
	if !ok {
		correlationID = "N/A"
	}

	r.logger.Info("audit",
		zap.String("action", action),
		zap.String("entity", entityName),
		zap.String("entity_id", entityID),
		zap.String("performed_by", performedBy),
		zap.String("correlation_id", correlationID),
		zap.Time("at", time.Now().UTC()),
	)
}
