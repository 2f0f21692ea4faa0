package observer

import (
	"fmt"
	"io"
	"os"

	"github.com/noah-isme/sma-course-patterns/internal/models"
)

// templates holds the printed line for each event kind; the first verb is always the observer name.
type templates struct {
	added    string
	modified string
	changed  string
}

// printer writes one line per event to out. Student and Responsible differ only in their templates.
type printer struct {
	name string
	out  io.Writer
	tpl  templates
}

func newPrinter(name string, out io.Writer, tpl templates) printer {
	if out == nil {
		out = os.Stdout
	}
	return printer{name: name, out: out, tpl: tpl}
}

func (p printer) notify(event models.ScheduleEvent) {
	switch event.Kind {
	case models.ScheduleEventCourseAdded:
		fmt.Fprintf(p.out, p.tpl.added+"\n", p.name, event.Description)
	case models.ScheduleEventCourseModified:
		fmt.Fprintf(p.out, p.tpl.modified+"\n", p.name, event.Description, event.Note)
	case models.ScheduleEventChanged:
		fmt.Fprintf(p.out, p.tpl.changed+"\n", p.name, event.Message)
	}
}

// Student is notified of every schedule change affecting their courses.
type Student struct {
	printer
}

// NewStudent builds a student observer printing to out (stdout when nil).
func NewStudent(name string, out io.Writer) *Student {
	return &Student{printer: newPrinter(name, out, templates{
		added:    "[Student %s] New course added: %s",
		modified: "[Student %s] Course modified: %s (%s)",
		changed:  "[Student %s] Schedule change: %s",
	})}
}

// Name returns the display name.
func (s *Student) Name() string { return s.name }

// Notify prints the event.
func (s *Student) Notify(event models.ScheduleEvent) { s.notify(event) }

// Responsible is the staff member accountable for the schedule.
type Responsible struct {
	printer
}

// NewResponsible builds a responsible observer printing to out (stdout when nil).
func NewResponsible(name string, out io.Writer) *Responsible {
	return &Responsible{printer: newPrinter(name, out, templates{
		added:    "[Responsible %s] Course added to the schedule: %s",
		modified: "[Responsible %s] Course modification to review: %s (%s)",
		changed:  "[Responsible %s] Schedule updated: %s",
	})}
}

// Name returns the display name.
func (r *Responsible) Name() string { return r.name }

// Notify prints the event.
func (r *Responsible) Notify(event models.ScheduleEvent) { r.notify(event) }
