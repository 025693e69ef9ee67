package board

import (
	"bytes"
	"context"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smokyabdulrahman/prayer-board/internal/display"
	"github.com/smokyabdulrahman/prayer-board/internal/prayer"
)

var zone = time.FixedZone("AST", 3*60*60)

func scheduleFor(day time.Time) []prayer.Prayer {
	y, m, d := day.Date()
	at := func(h, min int) time.Time { return time.Date(y, m, d, h, min, 0, 0, zone) }
	return []prayer.Prayer{
		{Name: "Fajr", Time: at(5, 0)},
		{Name: "Dhuhr", Time: at(12, 30)},
		{Name: "Maghrib", Time: at(18, 0)},
		{Name: "Isha", Time: at(19, 30)},
	}
}

// clock is a settable time source.
type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

type fakeFetcher struct {
	calls atomic.Int32
	err   error
}

func (f *fakeFetcher) fetch(_ context.Context, day time.Time) ([]prayer.Prayer, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return scheduleFor(day), nil
}

func newModel(c *clock, f *fakeFetcher) Model {
	return New(context.Background(), Options{
		Fetch:    f.fetch,
		Renderer: display.NewRenderer(&bytes.Buffer{}, true, "15:04"),
		Refresh:  time.Millisecond,
		Location: zone,
		Now:      c.now,
	})
}

// deliver runs cmd and feeds any schedule result back into the model.
func deliver(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for _, msg := range collect(cmd) {
		if sm, ok := msg.(scheduleMsg); ok {
			next, _ := m.Update(sm)
			m = next.(Model)
		}
	}
	return m
}

// collect runs cmd and any batched commands, returning their messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestInit_FetchesToday(t *testing.T) {
	c := &clock{t: time.Date(2026, 2, 28, 19, 0, 0, 0, zone)}
	f := &fakeFetcher{}
	m := newModel(c, f)

	assert.Contains(t, m.View(), "Loading prayer times...")

	m = deliver(t, m, m.Init())
	assert.EqualValues(t, 1, f.calls.Load())
	assert.False(t, m.loading)

	view := m.View()
	assert.Contains(t, view, "Assalamu Alaikum")
	assert.Contains(t, view, "Saturday, 28 Feb")
	assert.Contains(t, view, "Maghrib")
	assert.Contains(t, view, "Isha, Starts in 30 mins")
	assert.Contains(t, view, "q quit")
}

func TestTick_RederivesWithoutFetching(t *testing.T) {
	c := &clock{t: time.Date(2026, 2, 28, 19, 0, 0, 0, zone)}
	f := &fakeFetcher{}
	m := newModel(c, f)
	m = deliver(t, m, m.fetch(c.t))

	c.t = c.t.Add(20 * time.Minute)
	m, _ = update(m, tickMsg(c.t))

	assert.False(t, m.loading)
	assert.EqualValues(t, 1, f.calls.Load())
	assert.Contains(t, m.View(), "Isha, Starts in 10 mins")
}

func TestTick_AfterLastPrayer(t *testing.T) {
	c := &clock{t: time.Date(2026, 2, 28, 19, 0, 0, 0, zone)}
	f := &fakeFetcher{}
	m := newModel(c, f)
	m = deliver(t, m, m.fetch(c.t))

	c.t = time.Date(2026, 2, 28, 20, 0, 0, 0, zone)
	m, _ = update(m, tickMsg(c.t))

	view := m.View()
	assert.NotContains(t, view, "Starts in")
	assert.Contains(t, view, "Completed")
	assert.NotContains(t, view, "Upcoming")
}

func TestTick_RefetchesOnNewDay(t *testing.T) {
	c := &clock{t: time.Date(2026, 2, 28, 23, 59, 0, 0, zone)}
	f := &fakeFetcher{}
	m := newModel(c, f)
	m = deliver(t, m, m.fetch(c.t))
	require.EqualValues(t, 1, f.calls.Load())

	c.t = time.Date(2026, 3, 1, 0, 1, 0, 0, zone)
	m, cmd := update(m, tickMsg(c.t))
	assert.True(t, m.loading)

	m = deliver(t, m, cmd)
	assert.EqualValues(t, 2, f.calls.Load())
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, zone), m.day)
	assert.Contains(t, m.View(), "Sunday, 1 Mar")
	assert.Contains(t, m.View(), "Fajr, Starts in 299 mins")
}

func TestFetchError_ShownAndRetried(t *testing.T) {
	c := &clock{t: time.Date(2026, 2, 28, 19, 0, 0, 0, zone)}
	f := &fakeFetcher{err: errors.New("API returned status 503: down")}
	m := newModel(c, f)
	m = deliver(t, m, m.fetch(c.t))

	assert.Contains(t, m.View(), "error: API returned status 503: down")
	assert.NotContains(t, m.View(), "Loading")

	f.err = nil
	m, cmd := update(m, tickMsg(c.t))
	require.True(t, m.loading)
	m = deliver(t, m, cmd)

	assert.NotContains(t, m.View(), "error:")
	assert.Contains(t, m.View(), "Current Prayer")
}

func TestFetchError_KeepsLastSchedule(t *testing.T) {
	c := &clock{t: time.Date(2026, 2, 28, 19, 0, 0, 0, zone)}
	f := &fakeFetcher{}
	m := newModel(c, f)
	m = deliver(t, m, m.fetch(c.t))

	m, _ = update(m, scheduleMsg{day: m.day, err: errors.New("connection refused")})

	view := m.View()
	assert.Contains(t, view, "Current Prayer")
	assert.Contains(t, view, "error: connection refused")
}

func TestKeys(t *testing.T) {
	c := &clock{t: time.Date(2026, 2, 28, 19, 0, 0, 0, zone)}
	f := &fakeFetcher{}
	m := newModel(c, f)
	m = deliver(t, m, m.fetch(c.t))

	_, cmd := update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	_, cmd = update(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	m, cmd = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	assert.True(t, m.loading)
	deliver(t, m, cmd)
	assert.EqualValues(t, 2, f.calls.Load())

	// A refresh while loading is ignored.
	_, cmd = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	assert.Nil(t, cmd)
}

func TestRun_StopsOnCancel(t *testing.T) {
	c := &clock{t: time.Date(2026, 2, 28, 19, 0, 0, 0, zone)}
	m := newModel(c, &fakeFetcher{})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	err := Run(ctx, m, tea.WithInput(nil), tea.WithOutput(&out), tea.WithoutRenderer())
	assert.NoError(t, err)
}
