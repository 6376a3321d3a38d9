package display

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Align is the horizontal alignment of a column.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

const (
	indent = "  "
	gutter = "  "
)

// Table lays out rows of cells in columns sized by terminal cell width, so
// Bengali names and styled cells line up.
type Table struct {
	headers   []string
	rows      [][]string
	align     []Align
	highlight int // row index, -1 for none
}

// NewTable creates a table with the given column headers.
func NewTable(headers []string) *Table {
	return &Table{
		headers:   headers,
		align:     make([]Align, len(headers)),
		highlight: -1,
	}
}

// AddRow appends a row. Missing cells render empty; extra cells are dropped.
func (t *Table) AddRow(values []string) {
	t.rows = append(t.rows, values)
}

// SetHighlightRow marks one row (usually today) for the accent color.
func (t *Table) SetHighlightRow(idx int) {
	t.highlight = idx
}

// AlignRight right-aligns the given columns, for numbers and durations.
func (t *Table) AlignRight(cols ...int) {
	for _, c := range cols {
		if c >= 0 && c < len(t.align) {
			t.align[c] = AlignRight
		}
	}
}

func (t *Table) widths() []int {
	w := make([]int, len(t.headers))
	for i, h := range t.headers {
		w[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i := 0; i < len(w) && i < len(row); i++ {
			w[i] = max(w[i], lipgloss.Width(row[i]))
		}
	}
	return w
}

// Render returns the table indented by two spaces, one line per row, with a
// bold header and a dim rule under it.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}
	widths := t.widths()

	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = strings.Repeat("─", w)
	}

	var sb strings.Builder
	sb.WriteString(indent + Bold(t.formatRow(t.headers, widths)) + "\n")
	sb.WriteString(Dim(indent+strings.Join(rule, gutter)) + "\n")
	for i, row := range t.rows {
		line := t.formatRow(row, widths)
		if i == t.highlight {
			line = Accent(line)
		}
		sb.WriteString(indent + line + "\n")
	}
	return sb.String()
}

// formatRow pads each cell to its column width. Trailing padding on the
// last column is dropped.
func (t *Table) formatRow(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		pad := strings.Repeat(" ", max(0, w-lipgloss.Width(cell)))
		if t.align[i] == AlignRight {
			parts[i] = pad + cell
		} else {
			parts[i] = cell + pad
		}
	}
	return strings.TrimRight(strings.Join(parts, gutter), " ")
}
