package prayer

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// Output modes for a single upcoming prayer.
const (
	FormatTimeRemaining      = "time-remaining"
	FormatNextPrayerTime     = "next-prayer-time"
	FormatNameAndTime        = "name-and-time"
	FormatNameAndRemaining   = "name-and-remaining"
	FormatShortNameAndTime   = "short-name-and-time"
	FormatShortNameAndRemain = "short-name-and-remaining"
	FormatStartsIn           = "starts-in"
	FormatFull               = "full"
)

// Modes lists the named output modes, for help text and validation.
var Modes = []string{
	FormatTimeRemaining, FormatNextPrayerTime, FormatNameAndTime,
	FormatNameAndRemaining, FormatShortNameAndTime, FormatShortNameAndRemain,
	FormatStartsIn, FormatFull,
}

// Layout returns the Go time layout for a "12h" or "24h" setting.
func Layout(timeFormat string) string {
	if timeFormat == "12h" {
		return "3:04 PM"
	}
	return "15:04"
}

// FormatData is the data passed to custom templates.
type FormatData struct {
	Name         string // Full prayer name, e.g. "Asr"
	ShortName    string // e.g. "A"
	Time         string // Formatted prayer time, e.g. "15:02" or "3:02 PM"
	Remaining    string // e.g. "2h 15m"
	Hours        int    // Whole hours remaining
	Minutes      int    // Remaining minutes after hours
	TotalMinutes int    // Whole minutes remaining, e.g. 135
	Current      string // Name of the prayer in effect, empty before Fajr
}

// FormatOutput renders the next prayer of a state according to mode.
// layout is a Go time layout (see Layout).
//
// If mode contains "{{", it is executed as a text/template against FormatData:
//
//	"{{.Name}} in {{.Remaining}}" -> "Asr in 2h 15m"
func FormatOutput(next Prayer, current Prayer, now time.Time, mode string, layout string) string {
	d := TimeRemaining(next, now)
	if d < 0 {
		d = 0
	}
	remaining := FormatRemaining(d)
	timeStr := next.Time.Format(layout)
	short := ShortNames[next.Name]
	if short == "" {
		short = next.Name
	}

	if strings.Contains(mode, "{{") {
		return formatCustom(mode, FormatData{
			Name:         next.Name,
			ShortName:    short,
			Time:         timeStr,
			Remaining:    remaining,
			Hours:        int(d.Hours()),
			Minutes:      int(d.Minutes()) % 60,
			TotalMinutes: MinutesUntil(next, now),
			Current:      current.Name,
		})
	}

	switch mode {
	case FormatTimeRemaining:
		return remaining
	case FormatNextPrayerTime:
		return timeStr
	case FormatNameAndRemaining:
		return fmt.Sprintf("%s %s", next.Name, remaining)
	case FormatShortNameAndTime:
		return fmt.Sprintf("%s %s", short, timeStr)
	case FormatShortNameAndRemain:
		return fmt.Sprintf("%s %s", short, remaining)
	case FormatStartsIn:
		return StartsIn(next, MinutesUntil(next, now))
	case FormatFull:
		return fmt.Sprintf("%s %s (%s)", next.Name, timeStr, remaining)
	default:
		return fmt.Sprintf("%s %s", next.Name, timeStr)
	}
}

// StartsIn phrases a countdown the way the board card shows it.
func StartsIn(next Prayer, minutes int) string {
	unit := "mins"
	if minutes == 1 {
		unit = "min"
	}
	return fmt.Sprintf("%s, Starts in %d %s", next.Name, minutes, unit)
}

func formatCustom(tmpl string, data FormatData) string {
	t, err := template.New("custom").Parse(tmpl)
	if err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	return buf.String()
}
