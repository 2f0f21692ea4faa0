package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
)

// CalendarEvent is one session in an iCalendar export.
// Events with a zero Start are written without DTSTART/DTEND.
type CalendarEvent struct {
	UID         string
	Summary     string
	Description string
	Location    string
	Organizer   string
	Start       time.Time
	End         time.Time
}

// ICSExporter renders calendar events as an RFC 5545 calendar.
type ICSExporter struct {
	productID string
	now       func() time.Time
}

// NewICSExporter constructs an exporter announcing productID.
func NewICSExporter(productID string) *ICSExporter {
	if productID == "" {
		productID = "-//sma-course-patterns//timetable//EN"
	}
	return &ICSExporter{productID: productID, now: time.Now}
}

// Render serialises the events.
func (e *ICSExporter) Render(name string, events []CalendarEvent) ([]byte, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(e.productID)
	if name != "" {
		cal.SetName(name)
	}

	stamp := e.now().UTC()
	for _, ev := range events {
		if ev.UID == "" {
			return nil, fmt.Errorf("calendar event %q has no uid", ev.Summary)
		}
		vevent := cal.AddEvent(ev.UID)
		vevent.SetDtStampTime(stamp)
		vevent.SetSummary(ev.Summary)
		if ev.Description != "" {
			vevent.SetDescription(ev.Description)
		}
		if ev.Location != "" {
			vevent.SetLocation(ev.Location)
		}
		if ev.Organizer != "" {
			vevent.SetOrganizer("mailto:noreply@example.invalid", ics.WithCN(ev.Organizer))
		}
		if !ev.Start.IsZero() {
			vevent.SetStartAt(ev.Start)
			if ev.End.After(ev.Start) {
				vevent.SetEndAt(ev.End)
			}
		}
	}
	return []byte(cal.Serialize()), nil
}
