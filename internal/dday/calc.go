// Package dday implements the date arithmetic behind the countdown display.
//
// Compute is pure and cheap; callers re-run it against the current clock on
// every render instead of caching results per entry, so a display can never
// go stale.
package dday

import "time"

// DateLayout is the wire format for calendar dates ("2006-01-02").
const DateLayout = "2006-01-02"

const dayMillis = 24 * 60 * 60 * 1000

// Mode discriminates the three possible display shapes.
type Mode string

const (
	// ModeRemaining: the target date is in the future.
	ModeRemaining Mode = "remaining"
	// ModeToday: the target date is exactly now.
	ModeToday Mode = "today"
	// ModeElapsed: the target date has passed.
	ModeElapsed Mode = "elapsed"
)

// Display is the structured result of Compute.
// Only the fields for the given Mode are meaningful.
type Display struct {
	Mode Mode

	// ModeRemaining
	DaysLeft int

	// ModeElapsed
	DaysPassed int
	Years      int
	Months     int
	Days       int
}

// Compute turns a target date and an evaluation instant into a display value.
//
// For future dates the whole-day count is rounded up, so any fraction of a
// day still counts as a full day remaining. For past dates the count is
// rounded down, and a calendar breakdown into years/months/days is added.
//
// The breakdown borrows from the month immediately preceding now's month
// when the day component goes negative. Near boundaries of months with
// different lengths this can disagree with a breakdown anchored on the
// target's month; that behavior is intentional and pinned by tests.
func Compute(target, now time.Time) Display {
	diff := target.Sub(now).Milliseconds()

	if diff < 0 {
		daysPassed := int(-diff / dayMillis)

		years := now.Year() - target.Year()
		months := int(now.Month()) - int(target.Month())
		days := now.Day() - target.Day()

		if days < 0 {
			months--
			// day 0 resolves to the last day of the previous month
			prevMonthLen := time.Date(now.Year(), now.Month(), 0, 0, 0, 0, 0, now.Location()).Day()
			days += prevMonthLen
		}
		if months < 0 {
			years--
			months += 12
		}

		return Display{
			Mode:       ModeElapsed,
			DaysPassed: daysPassed,
			Years:      years,
			Months:     months,
			Days:       days,
		}
	}

	daysLeft := int((diff + dayMillis - 1) / dayMillis)
	if daysLeft == 0 {
		return Display{Mode: ModeToday}
	}
	return Display{Mode: ModeRemaining, DaysLeft: daysLeft}
}

// ParseDate parses a calendar date in DateLayout, anchored at local midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}
