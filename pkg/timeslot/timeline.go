// Package timeslot turns availability windows into fixed-granularity
// occupancy timelines and picker options. All functions are pure.
package timeslot

// Granularity is the default slot size in minutes.
const Granularity = 15

// Status describes how much of a slot is available.
type Status string

const (
	StatusFree    Status = "free"
	StatusPartial Status = "partial"
	StatusBusy    Status = "busy"
)

// Window is a time-of-day range [Start, End) on a 24-hour clock.
type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Slot is one step of a timeline.
type Slot struct {
	Time   string `json:"time"`
	Status Status `json:"status"`
}

// Bounds parses the window. ok is false for malformed or inverted windows.
func (w Window) Bounds() (start, end Clock, ok bool) {
	start, err := ParseClock(w.Start)
	if err != nil {
		return 0, 0, false
	}
	end, err = ParseClock(w.End)
	if err != nil {
		return 0, 0, false
	}
	if start >= end {
		return 0, 0, false
	}
	return start, end, true
}

// Valid reports whether the window parses and Start < End.
func (w Window) Valid() bool {
	_, _, ok := w.Bounds()
	return ok
}

// String renders the window the way pickers label it ("09:00 - 10:00").
func (w Window) String() string {
	return w.Start + " - " + w.End
}

// BuildTimeline lays out Granularity-minute slots from the earliest start to
// the latest end of allForDay and marks them against the declared free
// windows. Slots start busy; a slot inside a declared window becomes free,
// and a slot whose successor crosses a window edge becomes partial.
// Malformed windows are ignored; no usable outer window yields an empty
// timeline.
func BuildTimeline(declared, allForDay []Window) []Slot {
	earliest, latest, ok := outerBounds(allForDay)
	if !ok {
		return []Slot{}
	}

	times := make([]Clock, 0, int(latest-earliest)/Granularity+1)
	for t := earliest; t < latest; t += Granularity {
		times = append(times, t)
	}

	slots := make([]Slot, len(times))
	for i, t := range times {
		slots[i] = Slot{Time: t.String(), Status: StatusBusy}
	}

	for _, w := range declared {
		start, end, ok := w.Bounds()
		if !ok {
			continue
		}
		for i, t := range times {
			if t >= start && t < end {
				slots[i].Status = StatusFree
				continue
			}
			if i+1 >= len(times) {
				continue
			}
			next := times[i+1]
			if (t < start && next > start) || (t < end && next > end) {
				slots[i].Status = StatusPartial
			}
		}
	}

	return slots
}

func outerBounds(windows []Window) (Clock, Clock, bool) {
	var (
		earliest, latest Clock
		found            bool
	)
	for _, w := range windows {
		start, end, ok := w.Bounds()
		if !ok {
			continue
		}
		if !found || start < earliest {
			earliest = start
		}
		if !found || end > latest {
			latest = end
		}
		found = true
	}
	return earliest, latest, found
}

// SlotsBetween lists the grid times a user may pick inside [start, end].
// The start is rounded up to the grid and the end is rounded down, so raw
// off-grid inputs never appear. Rounding the end down departs from the
// ceiling-on-both-ends rule on purpose: 09:05-09:50 yields 09:15 through
// 09:45 and never 10:00. A start that rounds to 24:00 leaves nothing to
// pick. An empty result means there is nothing selectable.
func SlotsBetween(start, end string, granularity int) []string {
	if granularity <= 0 {
		granularity = Granularity
	}
	from, err := ParseClock(start)
	if err != nil {
		return []string{}
	}
	to, err := ParseClock(end)
	if err != nil {
		return []string{}
	}

	from = from.Ceil(granularity)
	to = to.Floor(granularity)
	if from >= EndOfDay || from > to {
		return []string{}
	}

	out := make([]string, 0, int(to-from)/granularity+1)
	for t := from; t <= to; t += Clock(granularity) {
		out = append(out, t.String())
	}
	return out
}
