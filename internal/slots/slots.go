// Package slots is the single source of truth for slot and booking-window
// rules. Every entry point (booking, availability listing, per-date counts)
// goes through this package so the cutoff table exists in exactly one place.
package slots

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// Slot is one of the two fixed afternoon collection windows.
type Slot string

const (
	Slot2to3 Slot = "2-3" // 2:00 PM - 3:00 PM
	Slot3to4 Slot = "3-4" // 3:00 PM - 4:00 PM
)

// LastBookableDay is the day-of-month ceiling of the booking window.
// Appointments can only be booked from today through this day of the
// current month.
const LastBookableDay = 21

// DateLayout is the wire format for calendar dates (no timezone).
const DateLayout = "2006-01-02"

var (
	ErrPastDate       = errors.New("cannot book slots for past dates")
	ErrWindowExceeded = errors.New("booking only available until 21st of current month")
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// All returns the two slots in booking order.
func All() []Slot {
	return []Slot{Slot2to3, Slot3to4}
}

// Valid reports whether s is one of the two known slots.
func Valid(s Slot) bool {
	return s == Slot2to3 || s == Slot3to4
}

// Label returns the human-readable time range used in emails.
func Label(s Slot) string {
	if s == Slot2to3 {
		return "2:00 PM - 3:00 PM"
	}
	return "3:00 PM - 4:00 PM"
}

// cutoffHour gives the wall-clock hour at which same-day booking closes for
// a slot: three hours before the slot starts (2 PM and 3 PM respectively).
func cutoffHour(s Slot) int {
	if s == Slot2to3 {
		return 11
	}
	return 12
}

// IsBookable reports whether a same-day booking for s is still open at now.
// Hour resolution: the slot closes the moment the cutoff hour begins.
func IsBookable(s Slot, now time.Time) bool {
	return now.Hour() < cutoffHour(s)
}

// ParseDate validates the YYYY-MM-DD wire format and splits it into
// calendar components. The time-of-day and timezone are deliberately not
// modelled; all comparisons in this package are date-only.
func ParseDate(date string) (year int, month time.Month, day int, err error) {
	if !dateRe.MatchString(date) {
		return 0, 0, 0, fmt.Errorf("date must be in YYYY-MM-DD format: %q", date)
	}
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid date %q: %w", date, err)
	}
	y, m, d := t.Date()
	return y, m, d, nil
}

// CheckDate verifies that date falls inside the booking window relative to
// now: not strictly before today (ErrPastDate) and not beyond the 21st of
// the current month (ErrWindowExceeded).
func CheckDate(date string, now time.Time) error {
	y, m, d, err := ParseDate(date)
	if err != nil {
		return err
	}
	ny, nm, nd := now.Date()

	switch {
	case y < ny, y == ny && m < nm, y == ny && m == nm && d < nd:
		return ErrPastDate
	case y > ny, y == ny && m > nm, d > LastBookableDay:
		return ErrWindowExceeded
	}
	return nil
}

// IsToday reports whether date names the same calendar day as now.
// A malformed date is simply not today.
func IsToday(date string, now time.Time) bool {
	y, m, d, err := ParseDate(date)
	if err != nil {
		return false
	}
	ny, nm, nd := now.Date()
	return y == ny && m == nm && d == nd
}

// AvailableDates returns the ordered bookable dates from today through the
// 21st of the current month. Past the 21st the window is closed and the
// result is empty. Today is only included while at least one slot is still
// bookable.
func AvailableDates(now time.Time) []string {
	dates := []string{}
	year, month, today := now.Date()
	if today > LastBookableDay {
		return dates
	}

	for day := today; day <= LastBookableDay; day++ {
		if day == today {
			anyOpen := false
			for _, s := range All() {
				if IsBookable(s, now) {
					anyOpen = true
					break
				}
			}
			if !anyOpen {
				continue
			}
		}
		dates = append(dates, fmt.Sprintf("%04d-%02d-%02d", year, int(month), day))
	}
	return dates
}

// Availability maps each slot to its current booking count for date,
// validated against the booking window. Capacity is unlimited; the count is
// informational, except that a same-day slot whose cutoff has passed is
// forced to 0 as a closed signal.
func Availability(date string, now time.Time, counts map[Slot]int) (map[Slot]int, error) {
	if err := CheckDate(date, now); err != nil {
		return nil, err
	}

	out := make(map[Slot]int, 2)
	for _, s := range All() {
		out[s] = counts[s]
	}

	if IsToday(date, now) {
		for _, s := range All() {
			if !IsBookable(s, now) {
				out[s] = 0
			}
		}
	}
	return out, nil
}
