package models

import "time"

// ScheduleEventKind identifies what changed in the schedule.
type ScheduleEventKind string

const (
	ScheduleEventCourseAdded    ScheduleEventKind = "COURSE_ADDED"
	ScheduleEventCourseModified ScheduleEventKind = "COURSE_MODIFIED"
	ScheduleEventChanged        ScheduleEventKind = "SCHEDULE_CHANGED"
)

// ScheduleEvent is broadcast by the schedule manager to its observers.
// Course is nil for general changes; Note is only set for modifications and Message only for general changes.
type ScheduleEvent struct {
	ID          string
	Kind        ScheduleEventKind
	Course      Schedulable
	Description string
	Note        string
	Message     string
	OccurredAt  time.Time
}

// Notification is the flat record of a delivered schedule event.
type Notification struct {
	ID          string            `db:"id" json:"id"`
	Kind        ScheduleEventKind `db:"kind" json:"kind"`
	Description *string           `db:"description" json:"description,omitempty"`
	Note        *string           `db:"note" json:"note,omitempty"`
	Message     *string           `db:"message" json:"message,omitempty"`
	Hours       *float64          `db:"hours" json:"hours,omitempty"`
	Recipient   string            `db:"recipient" json:"recipient"`
	OccurredAt  time.Time         `db:"occurred_at" json:"occurred_at"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`
}

// NewNotification flattens an event for the given recipient.
func NewNotification(event ScheduleEvent, recipient string) Notification {
	n := Notification{
		ID:         event.ID,
		Kind:       event.Kind,
		Recipient:  recipient,
		OccurredAt: event.OccurredAt,
	}
	if event.Description != "" {
		n.Description = stringPtr(event.Description)
	}
	if event.Note != "" {
		n.Note = stringPtr(event.Note)
	}
	if event.Message != "" {
		n.Message = stringPtr(event.Message)
	}
	if event.Course != nil {
		hours := event.Course.Hours()
		n.Hours = &hours
	}
	return n
}

// TimetableEntry is a course recorded from the event stream.
type TimetableEntry struct {
	EventID    string
	Kind       ScheduleEventKind
	Course     Schedulable
	Note       string
	RecordedAt time.Time
}

// ExportFormat identifies a timetable rendering.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatPDF  ExportFormat = "pdf"
	ExportFormatJSON ExportFormat = "json"
	ExportFormatICS  ExportFormat = "ics"
)

func stringPtr(s string) *string {
	return &s
}
