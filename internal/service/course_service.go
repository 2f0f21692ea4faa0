package service

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-course-patterns/internal/models"
	appErrors "github.com/noah-isme/sma-course-patterns/pkg/errors"
)

type scheduleNotifier interface {
	AddCourse(course models.Schedulable) (models.ScheduleEvent, error)
	ModifyCourse(course models.Schedulable, note string) (models.ScheduleEvent, error)
	SetChange(message string) models.ScheduleEvent
}

// CreateCourseRequest describes a course to build and publish.
// Formats are applied in order, so ["online", "lecture"] yields a lecture wrapping an online course.
type CreateCourseRequest struct {
	Subject        string   `json:"subject" validate:"required"`
	Teacher        string   `json:"teacher" validate:"required"`
	Room           string   `json:"room" validate:"required"`
	Date           string   `json:"date"`
	StartTime      string   `json:"start_time"`
	Optional       bool     `json:"optional"`
	Level          string   `json:"level"`
	NeedsProjector bool     `json:"needs_projector"`
	Formats        []string `json:"formats" validate:"omitempty,dive,course_format"`
}

// ModifyCourseRequest describes a change to an already published course.
type ModifyCourseRequest struct {
	Note string `json:"note" validate:"required"`
}

// AnnounceChangeRequest describes a general schedule change.
type AnnounceChangeRequest struct {
	Message string `json:"message" validate:"required"`
}

// CourseResult is a published course and the event that announced it.
type CourseResult struct {
	Course models.Schedulable
	Event  models.ScheduleEvent
}

var courseFormats = map[string]models.Decoration{
	models.OnlineDecoration.Label:  models.OnlineDecoration,
	models.LectureDecoration.Label: models.LectureDecoration,
}

// CourseService validates course requests, assembles them with the builder and decorators and publishes them.
type CourseService struct {
	notifier  scheduleNotifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs the service.
func NewCourseService(notifier scheduleNotifier, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &CourseService{notifier: notifier, validator: validate, logger: logger}
	svc.validator.RegisterValidation("course_format", func(fl validator.FieldLevel) bool { //nolint:errcheck
		_, ok := courseFormats[strings.ToLower(fl.Field().String())]
		return ok
	})
	return svc
}

// Build assembles the course described by req without publishing it.
func (s *CourseService) Build(req CreateCourseRequest) (models.Schedulable, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	var course models.Schedulable = models.NewCourseBuilder().
		Subject(strings.TrimSpace(req.Subject)).
		Teacher(strings.TrimSpace(req.Teacher)).
		Room(strings.TrimSpace(req.Room)).
		Date(strings.TrimSpace(req.Date)).
		StartTime(strings.TrimSpace(req.StartTime)).
		Optional(req.Optional).
		Level(strings.TrimSpace(req.Level)).
		NeedsProjector(req.NeedsProjector).
		Build()
	for _, format := range req.Formats {
		course = models.Decorate(course, courseFormats[strings.ToLower(format)])
	}
	return course, nil
}

// Create builds the course and announces it to every observer.
func (s *CourseService) Create(req CreateCourseRequest) (*CourseResult, error) {
	course, err := s.Build(req)
	if err != nil {
		return nil, err
	}
	event, err := s.notifier.AddCourse(course)
	if err != nil {
		return nil, err
	}
	s.logger.Info("course published",
		zap.String("event_id", event.ID),
		zap.String("subject", req.Subject),
		zap.Strings("formats", req.Formats),
		zap.Float64("hours", course.Hours()),
	)
	return &CourseResult{Course: course, Event: event}, nil
}

// Modify announces a change to course.
func (s *CourseService) Modify(course models.Schedulable, req ModifyCourseRequest) (*CourseResult, error) {
	if models.IsNilSchedulable(course) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid modification payload")
	}
	event, err := s.notifier.ModifyCourse(course, strings.TrimSpace(req.Note))
	if err != nil {
		return nil, err
	}
	return &CourseResult{Course: course, Event: event}, nil
}

// Announce broadcasts a general schedule change.
func (s *CourseService) Announce(req AnnounceChangeRequest) (models.ScheduleEvent, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.ScheduleEvent{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid change payload")
	}
	return s.notifier.SetChange(strings.TrimSpace(req.Message)), nil
}
