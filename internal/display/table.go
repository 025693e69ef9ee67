package display

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table renders an aligned text table.
type Table struct {
	r       *Renderer
	headers []string
	rows    [][]string
	// highlightRow is the 0-based row index to highlight (typically the next prayer). -1 = none.
	highlightRow int
	faintRows    map[int]bool
}

// NewTable creates a new table with the given column headers.
func (r *Renderer) NewTable(headers []string) *Table {
	return &Table{
		r:            r,
		headers:      headers,
		highlightRow: -1,
		faintRows:    map[int]bool{},
	}
}

// AddRow appends a row of values. The number of values should match the number of headers.
func (t *Table) AddRow(values []string) {
	t.rows = append(t.rows, values)
}

// SetHighlightRow sets which row index (0-based) should be highlighted.
func (t *Table) SetHighlightRow(idx int) {
	t.highlightRow = idx
}

// SetFaintRow dims the row at idx.
func (t *Table) SetFaintRow(idx int) {
	t.faintRows[idx] = true
}

// Render produces the formatted table string with leading indent.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	// Widths are measured in cells so styled or wide text still aligns.
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	s := t.r.s
	var sb strings.Builder

	sb.WriteString("  " + s.header.Render(formatRow(t.headers, widths)) + "\n")

	sepParts := make([]string, len(widths))
	for i, w := range widths {
		sepParts[i] = strings.Repeat("─", w)
	}
	sb.WriteString("  " + s.separator.Render(strings.Join(sepParts, "  ")) + "\n")

	for i, row := range t.rows {
		line := formatRow(row, widths)
		switch {
		case i == t.highlightRow:
			line = s.highlight.Render(line)
		case t.faintRows[i]:
			line = s.faint.Render(line)
		}
		sb.WriteString("  " + line + "\n")
	}

	return sb.String()
}

// formatRow pads each cell to its column width and joins them.
func formatRow(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = cell + strings.Repeat(" ", w-lipgloss.Width(cell))
	}
	return strings.TrimRight(strings.Join(parts, "  "), " ")
}
