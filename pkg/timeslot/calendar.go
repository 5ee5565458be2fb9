package timeslot

import (
	"strings"
	"time"
)

// DayWindow is a weekly recurring window, e.g. an instructor's Monday hours.
type DayWindow struct {
	Day   string `json:"day"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// DayOfWeek returns the English weekday name ("Sunday" ... "Saturday").
func DayOfWeek(date time.Time) string {
	return date.Weekday().String()
}

// WindowsForDay selects the windows declared for day (case-insensitive).
func WindowsForDay(hours []DayWindow, day string) []Window {
	out := make([]Window, 0, len(hours))
	for _, h := range hours {
		if strings.EqualFold(h.Day, day) {
			out = append(out, Window{Start: h.Start, End: h.End})
		}
	}
	return out
}

// DayOptions lists every quarter hour of the day, 00:00 through 23:45.
func DayOptions() []string {
	out := make([]string, 0, int(EndOfDay)/Granularity)
	for t := Clock(0); t < EndOfDay; t += Granularity {
		out = append(out, t.String())
	}
	return out
}

// Combine places clock on the calendar day of date in loc.
func Combine(date time.Time, clock string, loc *time.Location) (time.Time, error) {
	c, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := date.In(loc).Date()
	return time.Date(y, m, d, c.Hour(), c.Minute(), 0, 0, loc), nil
}

// WeekBounds returns Sunday 00:00 and the last instant of Saturday for the
// week containing date, in date's location.
func WeekBounds(date time.Time) (time.Time, time.Time) {
	y, m, d := date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, date.Location())
	start := day.AddDate(0, 0, -int(day.Weekday()))
	end := start.AddDate(0, 0, 7).Add(-time.Nanosecond)
	return start, end
}
