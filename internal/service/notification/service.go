package notification

import (
	"context"
	"log/slog"

	"github.com/workpulse-hr/workpulse-backend-go/internal/domain/notification"
)

// LogSink emits events to the structured log. Delivery to real channels
// (push, email) is handled by a downstream consumer tailing these entries.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) notification.Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

// Notify implements notification.Sink. It never blocks and never fails the
// calling operation.
func (s *LogSink) Notify(ctx context.Context, event notification.Event) {
	s.logger.InfoContext(ctx, "notification emitted",
		"type", event.Type,
		"recipient_id", event.RecipientID,
		"title", event.Title,
		"message", event.Message,
		"data", event.Data,
	)
}
