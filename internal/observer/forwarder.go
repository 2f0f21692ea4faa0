package observer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-course-patterns/internal/models"
)

// NotificationSink stores or transmits a flattened notification.
type NotificationSink interface {
	Save(ctx context.Context, notification models.Notification) error
}

// Forwarder flattens each event into a Notification and hands it to a sink.
// Sink errors are logged and never reach the schedule manager.
type Forwarder struct {
	name    string
	sink    NotificationSink
	timeout time.Duration
	logger  *zap.Logger
}

// NewForwarder builds a forwarder. name is stored as the notification recipient.
func NewForwarder(name string, sink NotificationSink, timeout time.Duration, logger *zap.Logger) *Forwarder {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Forwarder{name: name, sink: sink, timeout: timeout, logger: logger}
}

// Notify forwards the event to the sink.
func (f *Forwarder) Notify(event models.ScheduleEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
	defer cancel()

	notification := models.NewNotification(event, f.name)
	if err := f.sink.Save(ctx, notification); err != nil {
		f.logger.Warn("failed to forward schedule notification",
			zap.String("recipient", f.name),
			zap.String("event_id", event.ID),
			zap.String("kind", string(event.Kind)),
			zap.Error(err),
		)
	}
}
