package timeslot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidClock is returned when a value is not a 24-hour HH:MM time.
var ErrInvalidClock = errors.New("invalid HH:MM time")

// Clock is a time of day expressed in minutes since midnight.
type Clock int

// EndOfDay is 24:00. It closes a window but is never a start time.
const EndOfDay Clock = 24 * 60

// ParseClock parses "HH:MM" (or "H:MM"). 24:00 is accepted as the end of day.
func ParseClock(raw string) (Clock, error) {
	hourPart, minutePart, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok || len(minutePart) != 2 || hourPart == "" || len(hourPart) > 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	hour, err := strconv.Atoi(hourPart)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	minute, err := strconv.Atoi(minutePart)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	if hour < 0 || minute < 0 || minute > 59 || hour > 24 || (hour == 24 && minute != 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	return Clock(hour*60 + minute), nil
}

// MustParseClock is ParseClock for constants; it panics on malformed input.
func MustParseClock(raw string) Clock {
	c, err := ParseClock(raw)
	if err != nil {
		panic(err)
	}
	return c
}

// Hour returns the hour component.
func (c Clock) Hour() int { return int(c) / 60 }

// Minute returns the minute component.
func (c Clock) Minute() int { return int(c) % 60 }

// String formats the clock as zero padded HH:MM.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// Ceil rounds c up to the next multiple of step minutes.
func (c Clock) Ceil(step int) Clock {
	if step <= 0 {
		return c
	}
	rem := int(c) % step
	if rem == 0 {
		return c
	}
	return c + Clock(step-rem)
}

// Floor rounds c down to the previous multiple of step minutes.
func (c Clock) Floor(step int) Clock {
	if step <= 0 {
		return c
	}
	return c - Clock(int(c)%step)
}
