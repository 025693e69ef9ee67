// Package board is the live, self-refreshing prayer board.
//
// The model re-derives the board every refresh interval and fetches a new
// schedule when the local date changes. Fetches run as commands outside the
// update loop; a failed fetch is shown in the view and retried on the next
// tick.
package board

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/prayer-board/internal/display"
	"github.com/smokyabdulrahman/prayer-board/internal/prayer"
)

// DefaultRefresh is how often the board re-derives its state.
const DefaultRefresh = 30 * time.Second

// Fetcher returns the schedule for the calendar day of day.
type Fetcher func(ctx context.Context, day time.Time) ([]prayer.Prayer, error)

// Options configures a Model.
type Options struct {
	Fetch    Fetcher
	Renderer *display.Renderer
	Refresh  time.Duration
	// Location is the timezone the board's clock runs in. Nil uses time.Local.
	Location *time.Location
	// LocationLabel is shown under the list.
	LocationLabel string
	Now           func() time.Time
}

type tickMsg time.Time

type scheduleMsg struct {
	day      time.Time
	schedule []prayer.Prayer
	err      error
}

// Model is the bubbletea model for the live board.
type Model struct {
	ctx     context.Context
	opts    Options
	keys    KeyMap
	spinner spinner.Model

	now      time.Time
	day      time.Time
	schedule []prayer.Prayer
	loaded   bool
	loading  bool
	err      error
}

// New creates a board model. Fetches use ctx.
func New(ctx context.Context, opts Options) Model {
	if opts.Refresh <= 0 {
		opts.Refresh = DefaultRefresh
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	m := Model{
		ctx:     ctx,
		opts:    opts,
		keys:    DefaultKeyMap,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		loading: true,
	}
	m.now = m.clock()
	return m
}

func (m Model) clock() time.Time {
	return m.opts.Now().In(m.opts.Location)
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetch(m.now), m.tick(), m.spinner.Tick)
}

func (m Model) fetch(day time.Time) tea.Cmd {
	ctx, fetch := m.ctx, m.opts.Fetch
	return func() tea.Msg {
		schedule, err := fetch(ctx, day)
		return scheduleMsg{day: startOfDay(day), schedule: schedule, err: err}
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.opts.Refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			return m.startFetch()
		}

	case tickMsg:
		m.now = m.clock()
		cmds := []tea.Cmd{m.tick()}
		stale := m.loaded && !startOfDay(m.now).Equal(m.day)
		if !m.loading && (stale || m.err != nil) {
			next, cmd := m.startFetch()
			m = next.(Model)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case scheduleMsg:
		m.loading = false
		if msg.err != nil {
			// Keep showing the last good schedule under the error.
			m.err = msg.err
			log.Warn().Err(msg.err).Time("day", msg.day).Msg("fetching schedule")
			return m, nil
		}
		m.err = nil
		m.schedule = msg.schedule
		m.day = msg.day
		m.loaded = true
		m.now = m.clock()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) startFetch() (tea.Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}
	m.loading = true
	m.now = m.clock()
	return m, tea.Batch(m.fetch(m.now), m.spinner.Tick)
}

func (m Model) View() string {
	r := m.opts.Renderer
	var body string
	switch {
	case m.loaded:
		body = r.Board(display.Frame{
			Now:      m.now,
			Schedule: m.schedule,
			Location: m.opts.LocationLabel,
		})
	case m.err == nil:
		body = m.spinner.View() + " Loading prayer times..."
	}
	if m.err != nil {
		if body != "" {
			body += "\n"
		}
		body += r.Error(m.err)
	}
	return body + "\n\n" + r.Faint(m.keys.hints()) + "\n"
}

// Run shows the board until the user quits or ctx is canceled.
func Run(ctx context.Context, m Model, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		// Cancellation is a normal way to stop the board.
		if ctx.Err() != nil {
			return nil
		}
		return errors.Wrap(err, "running board")
	}
	return nil
}

func startOfDay(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, t.Location())
}
