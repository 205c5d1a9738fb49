package timeutil

import (
	"fmt"
	"time"
)

// Window is a bounded time range used for duration aggregation.
// Start is inclusive, End is the effective upper bound (clamped to "now"
// for in-progress periods so future time never contributes).
type Window struct {
	Start time.Time
	End   time.Time
}

// Clip returns the overlap between [start, end] and [w.Start, w.End].
// Disjoint ranges yield zero, never a negative duration.
func (w Window) Clip(start, end time.Time) time.Duration {
	return Clip(start, end, w.Start, w.End)
}

// Clip computes max(0, min(end, winEnd) - max(start, winStart)).
func Clip(start, end, winStart, winEnd time.Time) time.Duration {
	lo := start
	if winStart.After(lo) {
		lo = winStart
	}
	hi := end
	if winEnd.Before(hi) {
		hi = winEnd
	}
	if !hi.After(lo) {
		return 0
	}
	return hi.Sub(lo)
}

// DayWindow returns the window from UTC midnight of now's date until now.
func DayWindow(now time.Time) Window {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return Window{Start: start, End: now}
}

// WeekWindow returns the ISO week window: Monday 00:00:00 UTC through the
// earlier of now and Sunday 23:59:59.999.
func WeekWindow(now time.Time) Window {
	now = now.UTC()
	// Weekday() is Sunday=0; shift so Monday=0.
	diffToMonday := (int(now.Weekday()) + 6) % 7
	monday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, -diffToMonday)
	sundayEnd := monday.AddDate(0, 0, 6).
		Add(23*time.Hour + 59*time.Minute + 59*time.Second + 999*time.Millisecond)
	end := now
	if sundayEnd.Before(end) {
		end = sundayEnd
	}
	return Window{Start: monday, End: end}
}

// MonthWindow returns the window from the first of now's month (UTC) until now.
func MonthWindow(now time.Time) Window {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Window{Start: start, End: now}
}

// FormatHMS renders a duration as zero-padded HH:MM:SS. Hours are not
// wrapped, so 26h renders as "26:00:00".
func FormatHMS(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	h := ms / 3_600_000
	m := (ms % 3_600_000) / 60_000
	s := (ms % 60_000) / 1_000
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
