package models

// CourseBuilder accumulates course fields. Unset fields default to their zero value.
// A builder is not safe for concurrent use; each Build call returns an independent Course.
type CourseBuilder struct {
	course Course
}

// NewCourseBuilder returns an empty builder.
func NewCourseBuilder() *CourseBuilder {
	return &CourseBuilder{}
}

func (b *CourseBuilder) Subject(subject string) *CourseBuilder {
	b.course.subject = subject
	return b
}

func (b *CourseBuilder) Teacher(teacher string) *CourseBuilder {
	b.course.teacher = teacher
	return b
}

func (b *CourseBuilder) Room(room string) *CourseBuilder {
	b.course.room = room
	return b
}

func (b *CourseBuilder) Date(date string) *CourseBuilder {
	b.course.date = date
	return b
}

func (b *CourseBuilder) StartTime(startTime string) *CourseBuilder {
	b.course.startTime = startTime
	return b
}

func (b *CourseBuilder) Optional(optional bool) *CourseBuilder {
	b.course.optional = optional
	return b
}

func (b *CourseBuilder) Level(level string) *CourseBuilder {
	b.course.level = level
	return b
}

func (b *CourseBuilder) NeedsProjector(needsProjector bool) *CourseBuilder {
	b.course.needsProjector = needsProjector
	return b
}

// Build finalises the accumulated fields into a new Course.
func (b *CourseBuilder) Build() *Course {
	course := b.course
	course.hours = DefaultCourseHours
	return &course
}
