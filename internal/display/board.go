package display

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/smokyabdulrahman/prayer-board/internal/prayer"
)

const (
	greeting     = "Assalamu Alaikum"
	unsetCurrent = "—"
	dateLayout   = "Monday, 2 Jan"
)

// Frame is everything one board render needs.
type Frame struct {
	Now      time.Time
	Schedule []prayer.Prayer
	// Location labels the board footer; empty omits it.
	Location string
}

// Header renders the greeting and today's date.
func (r *Renderer) Header(now time.Time) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		r.s.greeting.Render(greeting),
		r.s.date.Render(now.Format(dateLayout)),
	)
}

// Card renders the current prayer and, when there is one, the countdown to
// the next.
func (r *Renderer) Card(state prayer.State) string {
	name := unsetCurrent
	if !state.Current.IsZero() {
		name = state.Current.Name
	}

	lines := []string{
		r.s.label.Render("Current Prayer"),
		r.s.current.Render(name),
	}
	if state.Next != nil && state.MinutesUntilNext != nil {
		lines = append(lines, r.s.countdown.Render(prayer.StartsIn(*state.Next, *state.MinutesUntilNext)))
	}
	return r.s.card.Render(strings.Join(lines, "\n"))
}

// List renders the day's prayers with their completion status. The next
// prayer is highlighted and completed ones are dimmed.
func (r *Renderer) List(schedule []prayer.Prayer, now time.Time) string {
	tbl := r.NewTable([]string{"Prayer", "Time", "Status"})
	next := prayer.NextPrayer(schedule, now)
	for i, p := range schedule {
		status := prayer.StatusOf(p, now)
		tbl.AddRow([]string{p.Name, p.Time.Format(r.layout), status.Label()})
		switch {
		case next != nil && &schedule[i] == next:
			tbl.SetHighlightRow(i)
		case status == prayer.StatusCompleted:
			tbl.SetFaintRow(i)
		}
	}

	title := r.s.title.Render("Today's Prayers")
	if len(schedule) == 0 {
		return title + "\n" + r.s.faint.Render("  No prayer times for today.") + "\n"
	}
	return title + "\n" + tbl.Render()
}

// Board renders the full board: header, current-prayer card and list.
func (r *Renderer) Board(f Frame) string {
	state := prayer.Derive(f.Schedule, f.Now)
	parts := []string{
		r.Header(f.Now),
		"",
		r.Card(state),
		"",
		r.List(f.Schedule, f.Now),
	}
	if f.Location != "" {
		parts = append(parts, r.s.faint.Render(f.Location))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Error renders a failure message for the live board.
func (r *Renderer) Error(err error) string {
	return r.s.errorText.Render("error: " + err.Error())
}

// Faint renders secondary text such as key hints.
func (r *Renderer) Faint(text string) string {
	return r.s.faint.Render(text)
}
