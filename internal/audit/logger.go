package audit

import (
	"context"

	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/observability"
)

// Logger records routing decisions to the structured log and, when a store
// is configured, to the audit database. Persistence failures are logged and
// swallowed; auditing never breaks a request.
type Logger struct {
	logger *observability.Logger
	store  *Store
}

// NewLogger creates an audit logger. store may be nil to log only.
func NewLogger(logger *observability.Logger, store *Store) *Logger {
	return &Logger{
		logger: logger.WithComponent("audit"),
		store:  store,
	}
}

// Record logs one routing decision.
func (l *Logger) Record(ctx context.Context, event Event) {
	l.logger.Info().
		Str("session_id", event.SessionID).
		Str("decision", event.Decision).
		Str("trigger_id", event.TriggerID).
		Int("documents", event.DocumentCount).
		Uint64("generation", event.GenerationSeq).
		Int64("latency_ms", event.LatencyMs).
		Msg("Routing decision")

	if l.store == nil {
		return
	}
	if err := l.store.Insert(ctx, &event); err != nil {
		l.logger.Warn().Err(err).Msg("Persisting routing event failed")
	}
}
