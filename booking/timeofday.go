package booking

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock instant at minute resolution, counted as minutes
// since midnight. Availability rules store their windows as "HH:MM" strings;
// all window arithmetic happens on this type.
type TimeOfDay int

const minutesPerDay = 24 * 60

// EndOfDay is the exclusive upper bound of a day's windows (24:00).
const EndOfDay TimeOfDay = minutesPerDay

// ParseTimeOfDay parses a "HH:MM" 24h string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q: out of range", s)
	}
	return TimeOfDay(h*60 + m), nil
}

// TimeOfDayFrom extracts the wall-clock minute of t in its own location.
func TimeOfDayFrom(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// DateOf truncates t to midnight in its own location.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDate reports whether a and b fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// ruleWindow is an availability rule's [start, end) window resolved to
// minute precision.
type ruleWindow struct {
	start TimeOfDay
	end   TimeOfDay
}

func parseRuleWindow(startTime, endTime string) (ruleWindow, error) {
	start, err := ParseTimeOfDay(startTime)
	if err != nil {
		return ruleWindow{}, err
	}
	end, err := ParseTimeOfDay(endTime)
	if err != nil {
		return ruleWindow{}, err
	}
	if start >= end {
		return ruleWindow{}, fmt.Errorf("window start %s is not before end %s", start, end)
	}
	return ruleWindow{start: start, end: end}, nil
}

// contains reports whether the instant at lies inside the half-open window.
func (w ruleWindow) contains(at TimeOfDay) bool {
	return w.start <= at && at < w.end
}

// covers reports whether the whole half-open interval [from, to) lies inside
// the window. to == w.end is allowed since both bounds are exclusive.
func (w ruleWindow) covers(from, to TimeOfDay) bool {
	return w.start <= from && to <= w.end
}
