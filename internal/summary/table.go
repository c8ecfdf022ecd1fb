package summary

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// Column represents a table column with its configuration.
type Column struct {
	Header   string
	MinWidth int
	MaxWidth int
	Align    Alignment
}

// Alignment specifies how content is aligned within a column.
type Alignment int

const (
	// AlignLeft aligns content to the left.
	AlignLeft Alignment = iota
	// AlignRight aligns content to the right.
	AlignRight
)

// Table is a set of rows under fixed columns. Cells may carry SGR styling;
// widths are measured in terminal cells with the styling ignored.
type Table struct {
	columns []Column
	rows    [][]string
	widths  []int
}

// NewTable creates a table with the specified columns.
func NewTable(columns ...Column) *Table {
	t := &Table{
		columns: columns,
		widths:  make([]int, len(columns)),
	}
	for i, col := range columns {
		t.widths[i] = max(xansi.StringWidth(col.Header), col.MinWidth)
	}
	return t
}

// AddRow adds a row. Missing values are left blank and extra ones dropped.
func (t *Table) AddRow(values ...string) {
	row := make([]string, len(t.columns))
	copy(row, values)
	for i, val := range row {
		t.widths[i] = max(t.widths[i], xansi.StringWidth(val))
	}
	t.rows = append(t.rows, row)
}

func (t *Table) finalWidths() []int {
	widths := make([]int, len(t.widths))
	for i, col := range t.columns {
		widths[i] = t.widths[i]
		if col.MaxWidth > 0 && widths[i] > col.MaxWidth {
			widths[i] = col.MaxWidth
		}
	}
	return widths
}

// formatCell pads or truncates value to width cells.
func formatCell(value string, width int, align Alignment) string {
	if xansi.StringWidth(value) > width {
		tail := "..."
		if width <= len(tail) {
			tail = ""
		}
		value = xansi.Truncate(value, width, tail)
	}
	pad := strings.Repeat(" ", width-xansi.StringWidth(value))
	if align == AlignRight {
		return pad + value
	}
	return value + pad
}

func (t *Table) renderCells(cells []string, widths []int) string {
	parts := make([]string, len(t.columns))
	for i, col := range t.columns {
		parts[i] = formatCell(cells[i], widths[i], col.Align)
	}
	return strings.TrimRight(strings.Join(parts, " │ "), " ")
}

// Lines returns the header, the separator and every row.
func (t *Table) Lines() []string {
	widths := t.finalWidths()

	headers := make([]string, len(t.columns))
	for i, col := range t.columns {
		headers[i] = col.Header
	}
	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("─", w)
	}

	lines := []string{
		t.renderCells(headers, widths),
		strings.Join(sep, "─┼─"),
	}
	for _, row := range t.rows {
		lines = append(lines, t.renderCells(row, widths))
	}
	return lines
}
