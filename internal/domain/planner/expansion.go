package planner

import (
	"time"

	"github.com/lifeos/backend/internal/domain/shared"
)

// ExpansionWindowDays is the look-ahead horizon for recurring templates.
// The scan is next-occurrence-only: each run guarantees that the template's
// next matching day has an instance, not that the whole window is filled.
// Frequent re-invocation by the external scheduler keeps the horizon covered.
const ExpansionWindowDays = 30

// ExpandNext scans day offsets 0..ExpansionWindowDays from today and returns
// the instance to create for the template, or nil if the next occurrence is
// already covered. The scan stops at the first matching day that has either
// an existing instance (any completion state) or a completed occurrence of
// this template; a completed occurrence is never resurrected.
//
// existing must hold the owner's non-template steps.
func ExpandNext(tmpl *Step, today time.Time, existing []Step) (*Step, error) {
	if !tmpl.IsTemplate() {
		return nil, shared.NewDomainError("INVALID_STATE", "Step is not a recurring template")
	}
	if err := tmpl.Recurrence.Validate(); err != nil {
		return nil, err
	}

	prefix := tmpl.InstancePrefix()
	for offset := 0; offset <= ExpansionWindowDays; offset++ {
		day := today.AddDate(0, 0, offset)
		if !tmpl.Recurrence.Matches(day) {
			continue
		}

		title := tmpl.InstanceTitle(day)
		if hasInstance(existing, title, day) {
			return nil, nil
		}
		if hasCompletedOccurrence(existing, prefix, day) {
			return nil, nil
		}
		return tmpl.NewInstance(day)
	}
	return nil, nil
}

// hasInstance reports whether an instance with the exact title exists on the
// day, completed or not.
func hasInstance(existing []Step, title string, day time.Time) bool {
	for i := range existing {
		s := &existing[i]
		if s.IsTemplate() || s.ScheduledDate == nil {
			continue
		}
		if s.Title == title && SameCalendarDay(*s.ScheduledDate, day) {
			return true
		}
	}
	return false
}

// hasCompletedOccurrence reports whether any completed instance of the
// template (matched by title prefix) exists on the day.
func hasCompletedOccurrence(existing []Step, prefix string, day time.Time) bool {
	for i := range existing {
		s := &existing[i]
		if s.IsTemplate() || s.ScheduledDate == nil || !s.Completed {
			continue
		}
		if len(s.Title) >= len(prefix) && s.Title[:len(prefix)] == prefix && SameCalendarDay(*s.ScheduledDate, day) {
			return true
		}
	}
	return false
}
