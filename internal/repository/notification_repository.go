package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-course-patterns/internal/models"
)

// NotificationRepository persists delivered schedule notifications for auditing.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository creates the repository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

const notificationSchema = `CREATE TABLE IF NOT EXISTS schedule_notifications (
	id TEXT NOT NULL,
	kind TEXT NOT NULL,
	description TEXT,
	note TEXT,
	message TEXT,
	hours DOUBLE PRECISION,
	recipient TEXT NOT NULL,
	occurred_at TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (id, recipient)
)`

// EnsureSchema creates the notification table when missing.
func (r *NotificationRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, notificationSchema); err != nil {
		return fmt.Errorf("ensure schedule_notifications schema: %w", err)
	}
	return nil
}

// Save implements observer.NotificationSink.
func (r *NotificationRepository) Save(ctx context.Context, notification models.Notification) error {
	return r.Create(ctx, &notification)
}

// Create inserts a notification row. Rows are keyed by (id, recipient): one event yields one row per recipient.
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO schedule_notifications (id, kind, description, note, message, hours, recipient, occurred_at, created_at)
VALUES (:id, :kind, :description, :note, :message, :hours, :recipient, :occurred_at, :created_at)
ON CONFLICT (id, recipient) DO NOTHING`
	if _, err := r.db.NamedExecContext(ctx, query, notification); err != nil {
		return fmt.Errorf("create schedule notification: %w", err)
	}
	return nil
}

// ListByEvent returns every recipient row recorded for an event.
func (r *NotificationRepository) ListByEvent(ctx context.Context, eventID string) ([]models.Notification, error) {
	const query = `SELECT id, kind, description, note, message, hours, recipient, occurred_at, created_at
FROM schedule_notifications WHERE id = $1 ORDER BY created_at ASC`
	var notifications []models.Notification
	if err := r.db.SelectContext(ctx, &notifications, query, eventID); err != nil {
		return nil, fmt.Errorf("list schedule notifications: %w", err)
	}
	return notifications, nil
}

// ListRecent returns the latest notifications, newest first.
func (r *NotificationRepository) ListRecent(ctx context.Context, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := fmt.Sprintf(`SELECT id, kind, description, note, message, hours, recipient, occurred_at, created_at
FROM schedule_notifications ORDER BY occurred_at DESC LIMIT %d`, limit)
	var notifications []models.Notification
	if err := r.db.SelectContext(ctx, &notifications, query); err != nil {
		return nil, fmt.Errorf("list recent schedule notifications: %w", err)
	}
	return notifications, nil
}
