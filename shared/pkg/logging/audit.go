package logging

import (
	"context"
	"log/slog"
)

// Auditor records who changed what. Audit lines go through the regular logger
// tagged logger=audit so they can be routed separately.
type Auditor struct {
	log *slog.Logger
}

func NewAuditor(log *slog.Logger) *Auditor {
	return &Auditor{log: log.With("logger", "audit")}
}

// Event writes a single audit record.
func (a *Auditor) Event(ctx context.Context, action, actor string, attrs ...any) {
	if a == nil {
		return
	}
	args := append([]any{"action", action, "actor", actor}, attrs...)
	a.log.InfoContext(ctx, "audit", args...)
}
