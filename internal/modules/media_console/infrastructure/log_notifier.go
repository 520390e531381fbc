package infrastructure

import (
	"log/slog"

	"github.com/sglre6355/heimdall/internal/modules/media_console/application/ports"
)

// LogNotifier writes notifications to the log. It is used when no
// notification channel is configured.
type LogNotifier struct {
	logger *slog.Logger
}

// Ensure LogNotifier implements ports.NotificationSink.
var _ ports.NotificationSink = (*LogNotifier)(nil)

// NewLogNotifier creates a new LogNotifier. A nil logger uses slog.Default.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger.With("component", "notifications")}
}

// Notify logs the message at the level matching the notification.
func (n *LogNotifier) Notify(notification ports.Notification) {
	switch notification.Level {
	case ports.NotificationError:
		n.logger.Error(notification.Message)
	case ports.NotificationWarning:
		n.logger.Warn(notification.Message)
	default:
		n.logger.Info(notification.Message, "level", notification.Level)
	}
}
