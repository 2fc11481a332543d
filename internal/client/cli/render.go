package cli

import (
	"fmt"
	"time"

	"github.com/avolkovs/daykeeper/internal/client/store"
	"github.com/avolkovs/daykeeper/internal/dday"
)

// FormatBadge renders a countdown display as the classic D-notation:
// "D-5" for upcoming, "D-Day!" for today, "D+812 (2y 3m 10d)" for past.
func FormatBadge(d dday.Display) string {
	switch d.Mode {
	case dday.ModeToday:
		return "D-Day!"
	case dday.ModeRemaining:
		return fmt.Sprintf("D-%d", d.DaysLeft)
	default:
		return fmt.Sprintf("D+%d (%dy %dm %dd)", d.DaysPassed, d.Years, d.Months, d.Days)
	}
}

// FormatEntry renders one list line: title, target date, badge.
func FormatEntry(e store.Entry, now time.Time) string {
	target, err := dday.ParseDate(e.Date)
	if err != nil {
		return fmt.Sprintf("%-20s %s  (invalid date)", e.Title, e.Date)
	}
	return fmt.Sprintf("%-20s %s  %s", e.Title, e.Date, FormatBadge(dday.Compute(target, now)))
}
