package api

import (
	"time"

	"github.com/cockroachdb/errors"

	"github.com/smokyabdulrahman/prayer-board/internal/calc"
	"github.com/smokyabdulrahman/prayer-board/internal/prayer"
)

// Prayer is one entry of the schedule endpoint's JSON array.
// Time is an RFC 3339 timestamp.
type Prayer struct {
	Name string `json:"name"`
	Time string `json:"time"`
}

// State is the body of the derived-state endpoint.
type State struct {
	Current          *Prayer `json:"current"`
	Next             *Prayer `json:"next"`
	MinutesUntilNext *int    `json:"minutes_until_next"`
}

// Method describes a calculation method on the methods endpoint.
type Method struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	FajrAngle   float64 `json:"fajr_angle"`
	IshaAngle   float64 `json:"isha_angle,omitempty"`
	IshaMinutes int     `json:"isha_minutes,omitempty"`
}

// FromMethods converts calculation methods to their wire form.
func FromMethods(methods []calc.Method) []Method {
	out := make([]Method, len(methods))
	for i, m := range methods {
		out[i] = Method{
			Name:        m.Name,
			Description: m.Description,
			FajrAngle:   m.FajrAngle,
			IshaAngle:   m.IshaAngle,
			IshaMinutes: m.IshaMinutes,
		}
	}
	return out
}

// ErrorResponse is the body of every non-200 endpoint response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FromPrayer converts a schedule entry to its wire form.
func FromPrayer(p prayer.Prayer) Prayer {
	return Prayer{Name: p.Name, Time: p.Time.Format(time.RFC3339)}
}

// FromSchedule converts a whole schedule to its wire form.
func FromSchedule(schedule []prayer.Prayer) []Prayer {
	out := make([]Prayer, len(schedule))
	for i, p := range schedule {
		out[i] = FromPrayer(p)
	}
	return out
}

// FromState converts a derived state to its wire form.
// The empty current-prayer sentinel becomes null.
func FromState(s prayer.State) State {
	var out State
	if !s.Current.IsZero() {
		cur := FromPrayer(s.Current)
		out.Current = &cur
	}
	if s.Next != nil {
		next := FromPrayer(*s.Next)
		out.Next = &next
	}
	out.MinutesUntilNext = s.MinutesUntilNext
	return out
}

// ToSchedule parses wire entries into a schedule sorted by time.
func ToSchedule(entries []Prayer) ([]prayer.Prayer, error) {
	schedule := make([]prayer.Prayer, 0, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			return nil, errors.Newf("schedule entry with time %q has no name", e.Time)
		}
		t, err := parseTime(e.Time)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid time for %s", e.Name)
		}
		schedule = append(schedule, prayer.Prayer{Name: e.Name, Time: t})
	}
	prayer.Sort(schedule)
	return schedule, nil
}

// parseTime accepts RFC 3339 and, failing that, an ISO 8601 local date-time
// without offset, which is taken as UTC.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	if t, localErr := time.Parse("2006-01-02T15:04:05", s); localErr == nil {
		return t, nil
	}
	return time.Time{}, err
}
