// Package prayer derives the board state from a day's prayer schedule: the
// prayer currently in effect, the next one, and the minutes until it starts.
package prayer

import (
	"fmt"
	"sort"
	"time"
)

// Prayer represents a single prayer with its name and time.
// The zero value is the "no prayer" sentinel.
type Prayer struct {
	Name string
	Time time.Time
}

// IsZero reports whether p is the empty sentinel.
func (p Prayer) IsZero() bool {
	return p.Name == "" && p.Time.IsZero()
}

// Names lists the prayers a computed schedule contains, in chronological order.
var Names = []string{"Fajr", "Sunrise", "Dhuhr", "Asr", "Maghrib", "Isha"}

// ShortNames maps full prayer names to short abbreviations.
var ShortNames = map[string]string{
	"Fajr":    "F",
	"Sunrise": "S",
	"Dhuhr":   "D",
	"Asr":     "A",
	"Maghrib": "M",
	"Isha":    "I",
}

// Status is the display state of a prayer relative to now.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusUpcoming  Status = "upcoming"
)

// Label returns the capitalized status for display.
func (s Status) Label() string {
	switch s {
	case StatusCompleted:
		return "Completed"
	case StatusUpcoming:
		return "Upcoming"
	default:
		return string(s)
	}
}

// State is the derived board state for one instant.
// Next and MinutesUntilNext are nil once every prayer of the day has passed.
type State struct {
	Current          Prayer
	Next             *Prayer
	MinutesUntilNext *int
}

// CurrentPrayer returns the last prayer whose time is at or before now.
// If now precedes every prayer, or the schedule is empty, it returns the
// zero Prayer. The schedule must be sorted ascending by time.
func CurrentPrayer(schedule []Prayer, now time.Time) Prayer {
	var current Prayer
	for _, p := range schedule {
		if !p.Time.After(now) {
			current = p
		}
	}
	return current
}

// NextPrayer finds the next upcoming prayer from the given slice, relative to now.
// If all prayers for today have passed, it returns nil (caller should fetch tomorrow's Fajr).
func NextPrayer(schedule []Prayer, now time.Time) *Prayer {
	for i := range schedule {
		if schedule[i].Time.After(now) {
			return &schedule[i]
		}
	}
	return nil
}

// MinutesUntil returns the whole minutes from now until p, rounded down.
// It never returns a negative value.
func MinutesUntil(p Prayer, now time.Time) int {
	d := TimeRemaining(p, now)
	if d <= 0 {
		return 0
	}
	return int(d / time.Minute)
}

// Derive computes the full board state for now.
func Derive(schedule []Prayer, now time.Time) State {
	state := State{Current: CurrentPrayer(schedule, now)}
	if next := NextPrayer(schedule, now); next != nil {
		n := *next
		mins := MinutesUntil(n, now)
		state.Next = &n
		state.MinutesUntilNext = &mins
	}
	return state
}

// StatusOf reports whether p has already started at now.
func StatusOf(p Prayer, now time.Time) Status {
	if p.Time.After(now) {
		return StatusUpcoming
	}
	return StatusCompleted
}

// Sort orders a schedule ascending by time, in place.
// Prayers with equal times keep their relative order.
func Sort(schedule []Prayer) {
	sort.SliceStable(schedule, func(i, j int) bool {
		return schedule[i].Time.Before(schedule[j].Time)
	})
}

// TimeRemaining returns the duration until the given prayer time.
func TimeRemaining(p Prayer, now time.Time) time.Duration {
	return p.Time.Sub(now)
}

// FormatRemaining formats a duration as "Xh Ym" or "Ym" if less than an hour.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		return "0m"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60

	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
