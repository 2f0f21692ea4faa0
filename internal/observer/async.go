package observer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-course-patterns/internal/models"
	"github.com/noah-isme/sma-course-patterns/pkg/jobs"
)

// Notifier is the observer contract shared with the schedule manager.
type Notifier interface {
	Notify(event models.ScheduleEvent)
}

const asyncJobType = "schedule_notification"

// AsyncObserver hands events to a worker queue and delivers them to the wrapped observer off the caller's goroutine.
// Use it for slow sinks; the schedule manager only waits for the enqueue.
type AsyncObserver struct {
	inner  Notifier
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewAsyncObserver wraps inner with a dedicated queue. Call Start before attaching and Stop to flush.
func NewAsyncObserver(name string, inner Notifier, cfg jobs.QueueConfig) *AsyncObserver {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	a := &AsyncObserver{inner: inner, logger: cfg.Logger}
	a.queue = jobs.NewQueue(name, a.handle, cfg)
	return a
}

// Start launches the delivery workers.
func (a *AsyncObserver) Start(ctx context.Context) {
	a.queue.Start(ctx)
}

// Stop waits until every queued event has been delivered.
func (a *AsyncObserver) Stop() {
	a.queue.Stop()
}

// Notify enqueues the event.
func (a *AsyncObserver) Notify(event models.ScheduleEvent) {
	job := jobs.Job{ID: event.ID, Type: asyncJobType, Payload: event}
	if err := a.queue.Enqueue(job); err != nil {
		a.logger.Warn("dropping schedule notification", zap.String("event_id", event.ID), zap.Error(err))
	}
}

func (a *AsyncObserver) handle(ctx context.Context, job jobs.Job) (err error) {
	event, ok := job.Payload.(models.ScheduleEvent)
	if !ok {
		a.logger.Error("unexpected job payload", zap.String("job_id", job.ID), zap.String("type", job.Type))
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("observer panicked: %v", r)
		}
	}()
	a.inner.Notify(event)
	return nil
}
