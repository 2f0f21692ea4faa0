package observer

import (
	"reflect"
	"sync"
	"time"

	"github.com/noah-isme/sma-course-patterns/internal/models"
)

// TimetableRecorder keeps the courses seen on the event stream, in delivery order.
// General changes carry no course and are not recorded.
type TimetableRecorder struct {
	mu      sync.Mutex
	entries []models.TimetableEntry
	now     func() time.Time
}

// NewTimetableRecorder returns an empty recorder.
func NewTimetableRecorder() *TimetableRecorder {
	return &TimetableRecorder{now: func() time.Time { return time.Now().UTC() }}
}

// Notify records course additions and modifications.
func (r *TimetableRecorder) Notify(event models.ScheduleEvent) {
	if event.Course == nil {
		return
	}
	entry := models.TimetableEntry{
		EventID:    event.ID,
		Kind:       event.Kind,
		Course:     event.Course,
		Note:       event.Note,
		RecordedAt: r.now(),
	}
	r.mu.Lock()
	r.entries = append(r.entries, entry)
	r.mu.Unlock()
}

// Entries returns a copy of everything recorded so far.
func (r *TimetableRecorder) Entries() []models.TimetableEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.TimetableEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Courses returns the latest version of each recorded course, in first-seen order.
// Entries sharing a base Course are one course: a later event, such as a modification that
// re-decorates it, replaces the earlier version. Courses without a base Course are matched by
// value when their type is comparable and are otherwise kept as separate entries.
func (r *TimetableRecorder) Courses() []models.Schedulable {
	entries := r.Entries()
	index := make(map[interface{}]int, len(entries))
	courses := make([]models.Schedulable, 0, len(entries))
	for _, entry := range entries {
		key, ok := courseKey(entry.Course)
		if !ok {
			courses = append(courses, entry.Course)
			continue
		}
		if i, seen := index[key]; seen {
			courses[i] = entry.Course
			continue
		}
		index[key] = len(courses)
		courses = append(courses, entry.Course)
	}
	return courses
}

func courseKey(course models.Schedulable) (interface{}, bool) {
	if base := models.BaseCourse(course); base != nil {
		return base, true
	}
	if reflect.TypeOf(course).Comparable() {
		return course, true
	}
	return nil, false
}

// Reset clears the recorder.
func (r *TimetableRecorder) Reset() {
	r.mu.Lock()
	r.entries = nil
	r.mu.Unlock()
}
