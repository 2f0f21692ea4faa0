package models

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrNilCourse is the panic value used when a decorator is given nothing to wrap.
var ErrNilCourse = errors.New("decorated course must not be nil")

// Decoration describes what a decorator adds to the course it wraps.
type Decoration struct {
	Label      string
	Suffix     string
	ExtraHours float64
}

var (
	OnlineDecoration  = Decoration{Label: "online", Suffix: " (Online)"}
	LectureDecoration = Decoration{Label: "lecture", Suffix: " (Lecture)", ExtraHours: 0.5}
)

// DecoratedCourse wraps a Schedulable and augments its description and duration on read.
// The wrapped value is fixed at construction and never modified.
type DecoratedCourse struct {
	inner      Schedulable
	decoration Decoration
}

// Decorate wraps inner with decoration. It panics with ErrNilCourse when inner is nil.
func Decorate(inner Schedulable, decoration Decoration) *DecoratedCourse {
	if IsNilSchedulable(inner) {
		panic(fmt.Errorf("%w: %s decoration", ErrNilCourse, decoration.Label))
	}
	return &DecoratedCourse{inner: inner, decoration: decoration}
}

// NewOnlineCourse marks a course as held online.
func NewOnlineCourse(inner Schedulable) *DecoratedCourse {
	return Decorate(inner, OnlineDecoration)
}

// NewLectureCourse marks a course as a lecture, which runs half an hour longer.
func NewLectureCourse(inner Schedulable) *DecoratedCourse {
	return Decorate(inner, LectureDecoration)
}

func (d *DecoratedCourse) Description() string {
	return d.inner.Description() + d.decoration.Suffix
}

func (d *DecoratedCourse) Hours() float64 {
	return d.inner.Hours() + d.decoration.ExtraHours
}

// Decoration returns what this layer adds.
func (d *DecoratedCourse) Decoration() Decoration { return d.decoration }

// Unwrap returns the wrapped value.
func (d *DecoratedCourse) Unwrap() Schedulable { return d.inner }

// BaseCourse walks a decoration chain down to the underlying Course.
// It returns nil when the chain does not end in a *Course.
func BaseCourse(s Schedulable) *Course {
	for s != nil {
		switch v := s.(type) {
		case *Course:
			return v
		case interface{ Unwrap() Schedulable }:
			s = v.Unwrap()
		default:
			return nil
		}
	}
	return nil
}

// Decorations lists the decoration labels of a chain, innermost first.
func Decorations(s Schedulable) []string {
	var labels []string
	for {
		d, ok := s.(*DecoratedCourse)
		if !ok || d == nil {
			break
		}
		labels = append([]string{d.decoration.Label}, labels...)
		s = d.inner
	}
	return labels
}

// IsNilSchedulable reports whether s is nil or a typed nil of any pointer-like implementation.
func IsNilSchedulable(s Schedulable) bool {
	if s == nil {
		return true
	}
	rv := reflect.ValueOf(s)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
