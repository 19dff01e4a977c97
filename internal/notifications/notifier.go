// internal/notifications/notifier.go - Notification coordinator with critical/standard channels
package notifications

import (
	"log/slog"

	"seq-sentry/internal/config"
)

type Notifier struct {
	standard *ShoutrrrNotifier
	critical *ShoutrrrNotifier
	logger   *slog.Logger
}

func New(cfg *config.Config, logger *slog.Logger) *Notifier {
	return &Notifier{
		standard: NewShoutrrrNotifier(cfg.ShoutrrrURLs, logger),
		critical: NewShoutrrrNotifier(cfg.CriticalShoutrrrURLs, logger),
		logger:   logger,
	}
}

// Send delivers to the standard channels only.
func (n *Notifier) Send(message string) {
	n.logger.Info("Sending notification", "level", "STANDARD", "message_length", len(message))
	n.standard.Send(message)
}

// SendCritical delivers to both standard and critical channels. Delivery
// failures are logged by the senders and never fail the run.
func (n *Notifier) SendCritical(message string) {
	n.logger.Info("Sending notification", "level", "CRITICAL", "message_length", len(message))
	n.standard.Send(message)
	n.critical.Send(message)
}
