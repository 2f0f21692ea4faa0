package models

import "strings"

// DefaultCourseHours is the base duration of every built course.
const DefaultCourseHours = 1.0

// Schedulable is anything that can be placed on a timetable: a Course or a decoration of one.
type Schedulable interface {
	Description() string
	Hours() float64
}

// Course is an immutable scheduled class session. Build it with CourseBuilder.
type Course struct {
	subject        string
	teacher        string
	room           string
	date           string
	startTime      string
	optional       bool
	level          string
	needsProjector bool
	hours          float64
}

// Subject returns the course subject.
func (c *Course) Subject() string { return c.subject }

// Teacher returns the teaching staff name.
func (c *Course) Teacher() string { return c.teacher }

// Room returns the room the course takes place in.
func (c *Course) Room() string { return c.room }

// Date returns the free-text date of the session.
func (c *Course) Date() string { return c.date }

// StartTime returns the free-text start time of the session.
func (c *Course) StartTime() string { return c.startTime }

// Optional reports whether attendance is optional.
func (c *Course) Optional() bool { return c.optional }

// Level returns the study level the course targets.
func (c *Course) Level() string { return c.level }

// NeedsProjector reports whether the room needs a projector.
func (c *Course) NeedsProjector() bool { return c.needsProjector }

// Description renders the set fields in a fixed order followed by the level, optional and projector annotations.
func (c *Course) Description() string {
	fields := make([]string, 0, 5)
	appendField := func(label, value string) {
		if value != "" {
			fields = append(fields, label+": "+value)
		}
	}
	appendField("Course", c.subject)
	appendField("Teacher", c.teacher)
	appendField("Room", c.room)
	appendField("Date", c.date)
	appendField("Start", c.startTime)

	var b strings.Builder
	b.WriteString(strings.Join(fields, ", "))
	if c.level != "" {
		b.WriteString(" [Level " + c.level + "]")
	}
	if c.optional {
		b.WriteString(" (optional)")
	}
	if c.needsProjector {
		b.WriteString(" (projector required)")
	}
	return b.String()
}

// Hours returns the base duration in hours.
func (c *Course) Hours() float64 { return c.hours }
