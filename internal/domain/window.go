package domain

import (
	"errors"
	"time"
)

// ErrInvalidWindow is returned when study window boundaries are out of order.
var ErrInvalidWindow = errors.New("invalid study window: require study_start < feature_end <= study_end")

// StudyWindow defines the three calendar boundaries of the study period.
// Features are computed over [StudyStart, FeatureEnd); the target covers
// [StudyStart, StudyEnd), i.e. realized value across the whole study.
type StudyWindow struct {
	StudyStart time.Time // inclusive start of the feature window
	FeatureEnd time.Time // exclusive end of the feature window, inclusive start of the target window
	StudyEnd   time.Time // exclusive end of the target window
}

// Validate checks boundary ordering: study_start < feature_end <= study_end.
func (w StudyWindow) Validate() error {
	if !w.StudyStart.Before(w.FeatureEnd) {
		return ErrInvalidWindow
	}
	if w.StudyEnd.Before(w.FeatureEnd) {
		return ErrInvalidWindow
	}
	return nil
}

// InFeatureWindow reports whether d falls in [StudyStart, FeatureEnd).
func (w StudyWindow) InFeatureWindow(d time.Time) bool {
	return !d.Before(w.StudyStart) && d.Before(w.FeatureEnd)
}

// InStudyWindow reports whether d falls in [StudyStart, StudyEnd).
func (w StudyWindow) InStudyWindow(d time.Time) bool {
	return !d.Before(w.StudyStart) && d.Before(w.StudyEnd)
}

// TargetDays returns the calendar length of the target window in days.
func (w StudyWindow) TargetDays() int {
	return DaysBetween(w.FeatureEnd, w.StudyEnd)
}

// DaysBetween returns the whole number of days from start to end.
// Both are expected to be UTC-midnight dates.
func DaysBetween(start, end time.Time) int {
	return int(end.Sub(start) / (24 * time.Hour))
}
