package service

import (
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-course-patterns/internal/models"
	appErrors "github.com/noah-isme/sma-course-patterns/pkg/errors"
)

// Observer reacts to schedule events.
type Observer interface {
	Notify(event models.ScheduleEvent)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(event models.ScheduleEvent)

// Notify calls f(event).
func (f ObserverFunc) Notify(event models.ScheduleEvent) { f(event) }

// Subscription identifies one attachment of an observer.
type Subscription struct {
	ID       string
	Observer Observer
}

type notificationRecorder interface {
	ObserveEvent(kind models.ScheduleEventKind, recipients int)
	ObserveDeliveryFailure(kind models.ScheduleEventKind)
	SetObservers(count int)
}

// ScheduleManager broadcasts schedule events to attached observers, synchronously and in attachment order.
// The same observer may be attached more than once and then receives each event once per attachment.
type ScheduleManager struct {
	mu            sync.Mutex
	subscriptions []Subscription

	metrics notificationRecorder
	logger  *zap.Logger
	now     func() time.Time
}

// NewScheduleManager constructs an empty manager. metrics may be nil.
func NewScheduleManager(metrics notificationRecorder, logger *zap.Logger) *ScheduleManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleManager{
		metrics: metrics,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Attach appends observer to the registry.
func (m *ScheduleManager) Attach(observer Observer) Subscription {
	sub := Subscription{ID: uuid.NewString(), Observer: observer}

	m.mu.Lock()
	m.subscriptions = append(m.subscriptions, sub)
	count := len(m.subscriptions)
	m.mu.Unlock()

	m.recordObservers(count)
	m.logger.Debug("observer attached", zap.String("subscription_id", sub.ID), zap.Int("observers", count))
	return sub
}

// Detach removes the first subscription of observer. It reports whether anything was removed.
func (m *ScheduleManager) Detach(observer Observer) bool {
	return m.remove(func(sub Subscription) bool { return sameObserver(sub.Observer, observer) })
}

// DetachByID removes the subscription with the given id.
func (m *ScheduleManager) DetachByID(id string) bool {
	return m.remove(func(sub Subscription) bool { return sub.ID == id })
}

// Observers returns the number of current subscriptions.
func (m *ScheduleManager) Observers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subscriptions)
}

// AddCourse notifies every observer that course was added.
func (m *ScheduleManager) AddCourse(course models.Schedulable) (models.ScheduleEvent, error) {
	if models.IsNilSchedulable(course) {
		return models.ScheduleEvent{}, appErrors.Clone(appErrors.ErrValidation, "course is required")
	}
	event := m.newEvent(models.ScheduleEventCourseAdded)
	event.Course = course
	event.Description = course.Description()
	m.publish(event)
	return event, nil
}

// ModifyCourse notifies every observer that course changed, with a free-text note.
func (m *ScheduleManager) ModifyCourse(course models.Schedulable, note string) (models.ScheduleEvent, error) {
	if models.IsNilSchedulable(course) {
		return models.ScheduleEvent{}, appErrors.Clone(appErrors.ErrValidation, "course is required")
	}
	event := m.newEvent(models.ScheduleEventCourseModified)
	event.Course = course
	event.Description = course.Description()
	event.Note = note
	m.publish(event)
	return event, nil
}

// SetChange notifies every observer of a general schedule change.
func (m *ScheduleManager) SetChange(message string) models.ScheduleEvent {
	event := m.newEvent(models.ScheduleEventChanged)
	event.Message = message
	m.publish(event)
	return event
}

func (m *ScheduleManager) newEvent(kind models.ScheduleEventKind) models.ScheduleEvent {
	return models.ScheduleEvent{ID: uuid.NewString(), Kind: kind, OccurredAt: m.now()}
}

// publish delivers over a snapshot so observers may attach or detach while being notified.
func (m *ScheduleManager) publish(event models.ScheduleEvent) {
	m.mu.Lock()
	snapshot := make([]Subscription, len(m.subscriptions))
	copy(snapshot, m.subscriptions)
	m.mu.Unlock()

	for _, sub := range snapshot {
		m.deliver(sub, event)
	}
	if m.metrics != nil {
		m.metrics.ObserveEvent(event.Kind, len(snapshot))
	}
	m.logger.Debug("schedule event published",
		zap.String("event_id", event.ID),
		zap.String("kind", string(event.Kind)),
		zap.Int("recipients", len(snapshot)),
	)
}

func (m *ScheduleManager) deliver(sub Subscription, event models.ScheduleEvent) {
	defer func() {
		if r := recover(); r != nil {
			if m.metrics != nil {
				m.metrics.ObserveDeliveryFailure(event.Kind)
			}
			m.logger.Error("observer panicked",
				zap.String("subscription_id", sub.ID),
				zap.String("event_id", event.ID),
				zap.String("panic", fmt.Sprint(r)),
			)
		}
	}()
	sub.Observer.Notify(event)
}

func (m *ScheduleManager) remove(match func(Subscription) bool) bool {
	m.mu.Lock()
	removed := false
	var removedID string
	for i, sub := range m.subscriptions {
		if match(sub) {
			removedID = sub.ID
			next := make([]Subscription, 0, len(m.subscriptions)-1)
			next = append(next, m.subscriptions[:i]...)
			next = append(next, m.subscriptions[i+1:]...)
			m.subscriptions = next
			removed = true
			break
		}
	}
	count := len(m.subscriptions)
	m.mu.Unlock()

	if removed {
		m.recordObservers(count)
		m.logger.Debug("observer detached", zap.String("subscription_id", removedID), zap.Int("observers", count))
	}
	return removed
}

func (m *ScheduleManager) recordObservers(count int) {
	if m.metrics != nil {
		m.metrics.SetObservers(count)
	}
}

// sameObserver compares by identity; values of non-comparable types never match.
func sameObserver(a, b Observer) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
