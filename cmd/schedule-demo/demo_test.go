package main

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-course-patterns/internal/observer"
	"github.com/noah-isme/sma-course-patterns/internal/service"
	"github.com/noah-isme/sma-course-patterns/pkg/config"
)

const qaOnline = "Course: Software Quality Assurance, Teacher: Mr Omar, Room: C15, Date: Tuesday 21/11/2024, Start: 10h00 (Online)"

func runDemo(t *testing.T) (string, *observer.TimetableRecorder, *service.MetricsService) {
	t.Helper()
	var out bytes.Buffer
	timetable := observer.NewTimetableRecorder()
	metrics := service.NewMetricsService()
	d := &demo{out: &out, metrics: metrics, logger: zap.NewNop(), shared: []service.Observer{timetable}}
	require.NoError(t, d.run())
	return out.String(), timetable, metrics
}

func TestDemoTranscript(t *testing.T) {
	out, _, _ := runDemo(t)

	assert.Contains(t, out, "Course: Software Engineering, Teacher: Mr Oussama, Room: D23, Date: Monday 20/11/2024, Start: 8h00 [Level 2A] (projector required)\nEstimated duration: 1.0h")
	assert.Contains(t, out, "  + Online   -> "+qaOnline+"\n")
	assert.Contains(t, out, "  * "+qaOnline+" (Lecture) [1.5h]")

	assert.Contains(t, out, "[Student Alice] New course added: "+qaOnline)
	assert.Contains(t, out, "[Student Bob] Course modified: "+qaOnline+" (Course moved to room D23)")
	assert.Contains(t, out, "[Responsible Dr. Martin] Schedule updated: Monday 8h course cancelled")
	assert.Contains(t, out, "[Student Alice] Schedule change: C15 becomes C16")
	assert.Contains(t, out, "[Responsible Dr. Martin] Schedule updated: C15 becomes C16")
	assert.NotContains(t, out, "[Student Bob] Schedule change: C15 becomes C16")

	assert.Contains(t, out, "[Responsible Prof. Lovelace] Course added to the schedule: Course: Artificial Intelligence, Teacher: Dr. Turing, Room: Amphi A, Date: Wednesday 22/11/2024, Start: 14h00 [Level 3A] (optional) (projector required) (Online) (Lecture)")
	assert.True(t, strings.HasSuffix(out, "END OF DEMO ==============\n"))
}

func TestDemoObserverOrder(t *testing.T) {
	out, _, _ := runDemo(t)

	alice := strings.Index(out, "[Student Alice] New course added")
	bob := strings.Index(out, "[Student Bob] New course added")
	martin := strings.Index(out, "[Responsible Dr. Martin] Course added")
	require.True(t, alice >= 0 && bob >= 0 && martin >= 0)
	assert.Less(t, alice, bob)
	assert.Less(t, bob, martin)
}

func TestDemoFeedsSharedObservers(t *testing.T) {
	_, timetable, metrics := runDemo(t)

	courses := timetable.Courses()
	require.Len(t, courses, 2)
	assert.Equal(t, qaOnline, courses[0].Description())
	assert.InDelta(t, 1.5, courses[1].Hours(), 0.0001)
	assert.Len(t, timetable.Entries(), 3)

	snap := metrics.Snapshot()
	// add, modify, two changes, final add
	assert.Equal(t, uint64(5), snap.Events)
	// 4 observers for three events, 3 after Bob leaves, 4 for the final add
	assert.Equal(t, uint64(4*3+3+4), snap.Deliveries)
	assert.Zero(t, snap.DeliveryFailures)
}

func TestOpenSinksWithNothingEnabled(t *testing.T) {
	set := openSinks(context.Background(), &config.Config{}, zap.NewNop())
	assert.Empty(t, set.observers)
	set.Close()
	set.Close()
}

func TestOpenSinksBoundsUnreachableAuditDatabase(t *testing.T) {
	cfg := &config.Config{
		Notifications: config.NotificationsConfig{AuditEnabled: true, SinkTimeout: 200 * time.Millisecond},
		Database:      config.DatabaseConfig{Host: "10.255.255.1", Port: 5432, User: "audit", Name: "course_schedule", SSLMode: "disable"},
	}

	start := time.Now()
	set := openSinks(context.Background(), cfg, zap.NewNop())
	defer set.Close()

	assert.Empty(t, set.observers)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestSinkTimeoutDefault(t *testing.T) {
	assert.Equal(t, 5*time.Second, sinkTimeout(config.NotificationsConfig{}))
	assert.Equal(t, time.Second, sinkTimeout(config.NotificationsConfig{SinkTimeout: time.Second}))
}

func TestExportTimetableWritesConfiguredFormats(t *testing.T) {
	_, timetable, metrics := runDemo(t)
	dir := t.TempDir()
	cfg := &config.Config{Export: config.ExportConfig{
		Enabled:    true,
		StorageDir: dir,
		BaseName:   "week47",
		Formats:    []string{"csv", "json", "ics"},
		Timezone:   "UTC",
	}}

	require.NoError(t, exportTimetable(cfg, timetable, metrics, zap.NewNop()))
	assert.FileExists(t, dir+"/week47.csv")
	assert.FileExists(t, dir+"/week47.json")
	assert.FileExists(t, dir+"/week47.ics")
	assert.Equal(t, uint64(3), metrics.Snapshot().Exports)
}

func TestExportTimetableRejectsUnknownFormat(t *testing.T) {
	timetable := observer.NewTimetableRecorder()
	cfg := &config.Config{Export: config.ExportConfig{StorageDir: t.TempDir(), Formats: []string{"xlsx"}}}

	assert.Error(t, exportTimetable(cfg, timetable, nil, zap.NewNop()))
}

func TestDumpMetricsWritesTextfile(t *testing.T) {
	_, _, metrics := runDemo(t)
	path := t.TempDir() + "/schedule.prom"

	dumpMetrics(metrics, path, zap.NewNop())

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(body), `schedule_events_total{kind="SCHEDULE_CHANGED"} 2`)
	assert.Contains(t, string(body), "schedule_notifications_total")
}

func TestDumpMetricsSkipsEmptyPath(t *testing.T) {
	assert.NotPanics(t, func() { dumpMetrics(nil, "", zap.NewNop()) })
}
