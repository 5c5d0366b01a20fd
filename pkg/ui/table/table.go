// Package table renders rectangular string grids as aligned plain-text tables.
package table

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrRaggedTable is returned when rows do not all have the same column count.
var ErrRaggedTable = errors.New("table rows have differing column counts")

// DefaultPadding is the minimum inter-column spacing used when callers pass
// a non-positive padding.
const DefaultPadding = 1

// Table holds a grid of cells. The first row is treated as the header for
// width purposes only; no separator line is drawn.
type Table struct {
	rows    [][]string
	padding int
}

// New creates a Table from the given rows. Padding is the minimum number of
// spaces between columns; values below 1 fall back to DefaultPadding.
func New(rows [][]string, padding int) *Table {
	if padding < 1 {
		padding = DefaultPadding
	}

	return &Table{rows: rows, padding: padding}
}

// FormatRow coerces heterogeneous cell values (numbers, strings, slices) to
// their text representation. Summarizer outputs flow through here so the
// renderer never has to care what type an aggregation produced.
func FormatRow(values []any) []string {
	cells := make([]string, 0, len(values))
	for _, value := range values {
		cells = append(cells, fmt.Sprint(value))
	}

	return cells
}

// Write renders the table to the writer, each column padded to the width of
// its widest cell plus the configured padding, rows newline-terminated.
//
// Rendering is all-or-nothing: rectangularity is validated and widths are
// computed before a single byte is written, so a ragged grid returns
// ErrRaggedTable without emitting a partial table.
func (t *Table) Write(writer io.Writer) error {
	if len(t.rows) == 0 {
		return nil
	}

	widths, err := t.columnWidths()
	if err != nil {
		return err
	}

	var builder strings.Builder

	for _, row := range t.rows {
		for col, cell := range row {
			builder.WriteString(cell)
			builder.WriteString(strings.Repeat(" ", widths[col]-len([]rune(cell))))
		}

		builder.WriteString("\n")
	}

	_, err = io.WriteString(writer, builder.String())
	if err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}

	return nil
}

// columnWidths computes per-column widths and validates that every row has
// the same column count as the header row.
func (t *Table) columnWidths() ([]int, error) {
	columns := len(t.rows[0])
	widths := make([]int, columns)

	for index, row := range t.rows {
		if len(row) != columns {
			return nil, fmt.Errorf(
				"%w: row %d has %d columns, expected %d",
				ErrRaggedTable, index, len(row), columns,
			)
		}

		for col, cell := range row {
			width := len([]rune(cell)) + t.padding
			if width > widths[col] {
				widths[col] = width
			}
		}
	}

	return widths, nil
}
