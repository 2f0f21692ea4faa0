package main

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-course-patterns/internal/models"
	"github.com/noah-isme/sma-course-patterns/internal/observer"
	"github.com/noah-isme/sma-course-patterns/internal/service"
)

const rule = "=============================================="

// demo walks through the builder, the decorators and the observer fan-out, writing the transcript to out.
type demo struct {
	out     io.Writer
	metrics *service.MetricsService
	logger  *zap.Logger
	// shared observers are attached to every manager after the printing observers.
	shared []service.Observer
}

func (d *demo) run() error {
	d.banner("COURSE DESIGN PATTERNS DEMO")

	if err := d.builderSection(); err != nil {
		return err
	}
	online, err := d.decoratorSection()
	if err != nil {
		return err
	}
	if err := d.observerSection(online); err != nil {
		return err
	}
	if err := d.finalSection(); err != nil {
		return err
	}

	fmt.Fprintln(d.out, "\n============== END OF DEMO ==============")
	return nil
}

func (d *demo) banner(title string) {
	fmt.Fprintln(d.out, rule)
	fmt.Fprintf(d.out, "%*s\n", (len(rule)+len(title))/2, title)
	fmt.Fprintf(d.out, "%s\n\n", rule)
}

func (d *demo) newManager() *service.ScheduleManager {
	return service.NewScheduleManager(d.metrics, d.logger)
}

func (d *demo) attachShared(manager *service.ScheduleManager) {
	for _, obs := range d.shared {
		manager.Attach(obs)
	}
}

func (d *demo) builderSection() error {
	fmt.Fprint(d.out, "[ PART 1: BUILDER ]\n\n")

	courses := service.NewCourseService(nil, nil, d.logger)
	course, err := courses.Build(service.CreateCourseRequest{
		Subject:        "Software Engineering",
		Teacher:        "Mr Oussama",
		Room:           "D23",
		Date:           "Monday 20/11/2024",
		StartTime:      "8h00",
		Level:          "2A",
		NeedsProjector: true,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(d.out, ">> Course created:")
	fmt.Fprintln(d.out, strings.Repeat("-", 50))
	fmt.Fprintln(d.out, course.Description())
	fmt.Fprintf(d.out, "Estimated duration: %.1fh\n", course.Hours())
	fmt.Fprintf(d.out, "%s\n\n", strings.Repeat("-", 50))
	return nil
}

// decoratorSection prints each decoration and returns the online variant used by the observer section.
func (d *demo) decoratorSection() (models.Schedulable, error) {
	fmt.Fprint(d.out, "[ PART 2: DECORATOR ]\n\n")

	courses := service.NewCourseService(nil, nil, d.logger)
	base, err := courses.Build(service.CreateCourseRequest{
		Subject:   "Software Quality Assurance",
		Teacher:   "Mr Omar",
		Room:      "C15",
		Date:      "Tuesday 21/11/2024",
		StartTime: "10h00",
	})
	if err != nil {
		return nil, err
	}

	online := models.NewOnlineCourse(base)
	lecture := models.NewLectureCourse(base)
	combined := models.NewLectureCourse(models.NewOnlineCourse(base))

	fmt.Fprintln(d.out, "Base course:")
	fmt.Fprintf(d.out, "  - %s\n", base.Description())
	fmt.Fprintln(d.out, "\nWith decorations:")
	fmt.Fprintf(d.out, "  + Online   -> %s\n", online.Description())
	fmt.Fprintf(d.out, "  + Lecture  -> %s\n", lecture.Description())
	fmt.Fprintln(d.out, "\nCombined:")
	fmt.Fprintf(d.out, "  * %s [%.1fh]\n\n", combined.Description(), combined.Hours())
	return online, nil
}

func (d *demo) observerSection(course models.Schedulable) error {
	fmt.Fprint(d.out, "[ PART 3: OBSERVER ]\n\n")

	manager := d.newManager()
	courses := service.NewCourseService(manager, nil, d.logger)

	alice := observer.NewStudent("Alice", d.out)
	bob := observer.NewStudent("Bob", d.out)
	martin := observer.NewResponsible("Dr. Martin", d.out)
	manager.Attach(alice)
	manager.Attach(bob)
	manager.Attach(martin)
	d.attachShared(manager)

	fmt.Fprintln(d.out, ">>> Adding a course (notification sent)")
	if _, err := manager.AddCourse(course); err != nil {
		return err
	}

	fmt.Fprintln(d.out, "\n>>> Modifying a course")
	if _, err := courses.Modify(course, service.ModifyCourseRequest{Note: "Course moved to room D23"}); err != nil {
		return err
	}

	fmt.Fprintln(d.out, "\n>>> General schedule change")
	if _, err := courses.Announce(service.AnnounceChangeRequest{Message: "Monday 8h course cancelled"}); err != nil {
		return err
	}

	fmt.Fprintln(d.out, "\n>>> Bob unsubscribes")
	manager.Detach(bob)

	fmt.Fprintln(d.out, ">>> Another change (Bob no longer receives it)")
	_, err := courses.Announce(service.AnnounceChangeRequest{Message: "C15 becomes C16"})
	return err
}

func (d *demo) finalSection() error {
	fmt.Fprintln(d.out)
	d.banner("FINAL DEMONSTRATION")

	manager := d.newManager()
	manager.Attach(observer.NewStudent("Charlie", d.out))
	manager.Attach(observer.NewStudent("Diana", d.out))
	manager.Attach(observer.NewResponsible("Prof. Lovelace", d.out))
	d.attachShared(manager)

	fmt.Fprintln(d.out, ">>> Adding the fully decorated course:")
	courses := service.NewCourseService(manager, nil, d.logger)
	_, err := courses.Create(service.CreateCourseRequest{
		Subject:        "Artificial Intelligence",
		Teacher:        "Dr. Turing",
		Room:           "Amphi A",
		Date:           "Wednesday 22/11/2024",
		StartTime:      "14h00",
		Optional:       true,
		Level:          "3A",
		NeedsProjector: true,
		Formats:        []string{models.OnlineDecoration.Label, models.LectureDecoration.Label},
	})
	return err
}
