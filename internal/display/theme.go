// Package display renders the prayer board for the terminal with lipgloss.
//
// Colors follow the output's capabilities: NO_COLOR, a non-terminal writer
// or an explicit plain renderer produce unstyled text.
package display

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme is the board's palette, in ANSI 256-color codes.
type Theme struct {
	Accent lipgloss.Color
	Text   lipgloss.Color
	Faint  lipgloss.Color
	Border lipgloss.Color
}

// DefaultTheme targets dark terminals.
var DefaultTheme = Theme{
	Accent: lipgloss.Color("79"), // teal
	Text:   lipgloss.Color("252"),
	Faint:  lipgloss.Color("245"),
	Border: lipgloss.Color("240"),
}

type styles struct {
	greeting  lipgloss.Style
	date      lipgloss.Style
	card      lipgloss.Style
	label     lipgloss.Style
	current   lipgloss.Style
	countdown lipgloss.Style
	title     lipgloss.Style
	header    lipgloss.Style
	separator lipgloss.Style
	highlight lipgloss.Style
	faint     lipgloss.Style
	errorText lipgloss.Style
}

// Renderer draws board sections for one output.
type Renderer struct {
	lr     *lipgloss.Renderer
	theme  Theme
	layout string
	s      styles
}

// NewRenderer creates a renderer for w. plain forces unstyled output;
// otherwise the color profile is detected from w and the environment.
// layout is the Go time layout for prayer times.
func NewRenderer(w io.Writer, plain bool, layout string) *Renderer {
	lr := lipgloss.NewRenderer(w)
	if plain {
		lr.SetColorProfile(termenv.Ascii)
	}
	if layout == "" {
		layout = "15:04"
	}
	r := &Renderer{lr: lr, theme: DefaultTheme, layout: layout}
	r.s = newStyles(lr, r.theme)
	return r
}

// Plain reports whether the renderer emits unstyled text.
func (r *Renderer) Plain() bool {
	return r.lr.ColorProfile() == termenv.Ascii
}

func newStyles(lr *lipgloss.Renderer, t Theme) styles {
	return styles{
		greeting: lr.NewStyle().Bold(true).Foreground(t.Accent),
		date:     lr.NewStyle().Foreground(t.Faint),
		card: lr.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 2),
		label:     lr.NewStyle().Foreground(t.Faint),
		current:   lr.NewStyle().Bold(true).Foreground(t.Text),
		countdown: lr.NewStyle().Foreground(t.Accent),
		title:     lr.NewStyle().Bold(true).Foreground(t.Text),
		header:    lr.NewStyle().Bold(true),
		separator: lr.NewStyle().Foreground(t.Border),
		highlight: lr.NewStyle().Bold(true).Foreground(t.Accent),
		faint:     lr.NewStyle().Foreground(t.Faint),
		errorText: lr.NewStyle().Foreground(lipgloss.Color("196")),
	}
}
