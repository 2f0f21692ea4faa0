package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-course-patterns/internal/models"
	appErrors "github.com/noah-isme/sma-course-patterns/pkg/errors"
	"github.com/noah-isme/sma-course-patterns/pkg/export"
)

type timetableSource interface {
	Courses() []models.Schedulable
}

type exportStorage interface {
	Save(filename string, data []byte) (string, error)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type calendarRenderer interface {
	Render(name string, events []export.CalendarEvent) ([]byte, error)
}

type exportRecorder interface {
	ObserveExport(format models.ExportFormat)
}

// TimetableExportConfig tunes file naming and calendar placement.
type TimetableExportConfig struct {
	BaseName string
	Title    string
	Location *time.Location
}

// ExportResult describes one written export file.
type ExportResult struct {
	Format       models.ExportFormat
	RelativePath string
	Courses      int
}

var timetableHeaders = []string{"subject", "teacher", "room", "date", "start", "level", "optional", "projector", "formats", "hours", "description"}

var (
	datePattern = regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})`)
	timePattern = regexp.MustCompile(`(\d{1,2})\s*[hH:]\s*(\d{2})?`)
)

// TimetableExportService renders the recorded timetable in the supported formats.
type TimetableExportService struct {
	source   timetableSource
	storage  exportStorage
	csv      datasetRenderer
	pdf      datasetRenderer
	json     datasetRenderer
	calendar calendarRenderer
	metrics  exportRecorder
	logger   *zap.Logger
	cfg      TimetableExportConfig
}

// NewTimetableExportService wires the default renderers. metrics may be nil.
func NewTimetableExportService(source timetableSource, storage exportStorage, cfg TimetableExportConfig, metrics exportRecorder, logger *zap.Logger) *TimetableExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BaseName == "" {
		cfg.BaseName = "timetable"
	}
	if cfg.Title == "" {
		cfg.Title = "Timetable"
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &TimetableExportService{
		source:   source,
		storage:  storage,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		json:     export.NewJSONExporter(),
		calendar: export.NewICSExporter(""),
		metrics:  metrics,
		logger:   logger,
		cfg:      cfg,
	}
}

// ParseExportFormats maps configured names to formats, rejecting unknown ones.
func ParseExportFormats(raw []string) ([]models.ExportFormat, error) {
	formats := make([]models.ExportFormat, 0, len(raw))
	for _, name := range raw {
		format := models.ExportFormat(strings.ToLower(strings.TrimSpace(name)))
		switch format {
		case models.ExportFormatCSV, models.ExportFormatPDF, models.ExportFormatJSON, models.ExportFormatICS:
			formats = append(formats, format)
		default:
			return nil, appErrors.Clone(appErrors.ErrUnsupported, fmt.Sprintf("unsupported export format %q", name))
		}
	}
	return formats, nil
}

// ExportAll writes one file per format and stops at the first failure.
func (s *TimetableExportService) ExportAll(formats []models.ExportFormat) ([]ExportResult, error) {
	results := make([]ExportResult, 0, len(formats))
	for _, format := range formats {
		result, err := s.Export(format)
		if err != nil {
			return results, err
		}
		results = append(results, *result)
	}
	return results, nil
}

// Export renders the current timetable in format and stores it.
func (s *TimetableExportService) Export(format models.ExportFormat) (*ExportResult, error) {
	courses := s.source.Courses()

	var (
		payload []byte
		err     error
	)
	switch format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(s.Dataset(courses))
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(s.Dataset(courses))
	case models.ExportFormatJSON:
		payload, err = s.json.Render(s.Dataset(courses))
	case models.ExportFormatICS:
		payload, err = s.calendar.Render(s.cfg.Title, s.CalendarEvents(courses))
	default:
		return nil, appErrors.Clone(appErrors.ErrUnsupported, fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable")
	}

	filename := fmt.Sprintf("%s.%s", s.cfg.BaseName, format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store timetable")
	}
	if s.metrics != nil {
		s.metrics.ObserveExport(format)
	}
	s.logger.Info("timetable exported", zap.String("format", string(format)), zap.String("path", relPath), zap.Int("courses", len(courses)))
	return &ExportResult{Format: format, RelativePath: relPath, Courses: len(courses)}, nil
}

// Dataset flattens courses into export rows. Decorated courses report their base fields plus the decoration chain.
func (s *TimetableExportService) Dataset(courses []models.Schedulable) export.Dataset {
	rows := make([]map[string]string, 0, len(courses))
	for _, course := range courses {
		row := map[string]string{
			"formats":     strings.Join(models.Decorations(course), "+"),
			"hours":       strconv.FormatFloat(course.Hours(), 'f', 1, 64),
			"description": course.Description(),
		}
		if base := models.BaseCourse(course); base != nil {
			row["subject"] = base.Subject()
			row["teacher"] = base.Teacher()
			row["room"] = base.Room()
			row["date"] = base.Date()
			row["start"] = base.StartTime()
			row["level"] = base.Level()
			row["optional"] = strconv.FormatBool(base.Optional())
			row["projector"] = strconv.FormatBool(base.NeedsProjector())
		}
		rows = append(rows, row)
	}
	return export.Dataset{Title: s.cfg.Title, Headers: timetableHeaders, Rows: rows}
}

// CalendarEvents maps courses to calendar sessions. Sessions are timed only when the date text holds a dd/mm/yyyy date.
func (s *TimetableExportService) CalendarEvents(courses []models.Schedulable) []export.CalendarEvent {
	events := make([]export.CalendarEvent, 0, len(courses))
	for _, course := range courses {
		description := course.Description()
		event := export.CalendarEvent{
			UID:         uuid.NewSHA1(uuid.NameSpaceOID, []byte(description)).String(),
			Summary:     description,
			Description: description,
		}
		if base := models.BaseCourse(course); base != nil {
			event.Summary = base.Subject()
			event.Location = base.Room()
			event.Organizer = base.Teacher()
			if start, ok := parseSessionStart(base.Date(), base.StartTime(), s.cfg.Location); ok {
				event.Start = start
				event.End = start.Add(time.Duration(course.Hours() * float64(time.Hour)))
			}
		}
		events = append(events, event)
	}
	return events
}

// parseSessionStart reads dates such as "Monday 20/11/2024" and times such as "8h00", "14:30" or "9h".
// A missing time means midnight.
func parseSessionStart(date, clock string, loc *time.Location) (time.Time, bool) {
	d := datePattern.FindStringSubmatch(date)
	if d == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(d[1])
	month, _ := strconv.Atoi(d[2])
	year, _ := strconv.Atoi(d[3])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	hour, minute := 0, 0
	if t := timePattern.FindStringSubmatch(clock); t != nil {
		hour, _ = strconv.Atoi(t[1])
		if t[2] != "" {
			minute, _ = strconv.Atoi(t[2])
		}
		if hour > 23 || minute > 59 {
			return time.Time{}, false
		}
	}
	start := time.Date(year, time.Month(month), day, hour, minute, 0, 0, loc)
	if start.Day() != day {
		return time.Time{}, false
	}
	return start, true
}
