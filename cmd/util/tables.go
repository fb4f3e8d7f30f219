package cmdutil

import (
	"fmt"

	"github.com/InVisionApp/tabular"
)

// LongestFieldFromColumn returns the longest string for a particular column index
// from the provided table.
func LongestFieldFromColumn(rows [][]string, colIdx int) string {
	max := 0
	var match string
	for _, row := range rows {
		s := row[colIdx]
		l := len(s)
		if l > max {
			max = l
			match = s
		}
	}
	return match
}

// ColumnHeader describes a short and long name for a column.
type ColumnHeader struct {
	ShortName, FullName string
}

// FormatTable formats the provided headers and string table to display
// with sufficient padding to align columns.
func FormatTable(headers []ColumnHeader, rows [][]string) string {
	// Setup the output table
	tab := tabular.New()
	for i, column := range headers {
		// Don't pad the last column
		var width int
		if i < len(headers)-1 {
			width = len(LongestFieldFromColumn(rows, i)) + 2
		}
		tab.Col(column.ShortName, column.FullName, width)
	}

	table := tab.Parse("*")
	out := fmt.Sprintln(table.Header)

	values := make([]interface{}, len(headers))
	for _, row := range rows {
		if len(values) != len(row) {
			panic("all rows must be the same length")
		}
		for i, item := range row {
			values[i] = item
		}
		out += fmt.Sprintf(table.Format, values...)
	}
	return out
}

// Table is a two-column listing used for usage output.
type Table struct {
	rows [][]string
}

// NewTable creates a table from the given rows.
func NewTable(rows ...[]string) *Table {
	return &Table{rows: rows}
}

// Append adds more rows to the table.
func (t *Table) Append(rows ...[]string) {
	t.rows = append(t.rows, rows...)
}

// Format renders the table with aligned columns.
func (t *Table) Format() string {
	width := 0
	for _, row := range t.rows {
		if len(row[0]) > width {
			width = len(row[0])
		}
	}
	out := ""
	for _, row := range t.rows {
		out += fmt.Sprintf("%-*s  %s\n", width, row[0], row[1])
	}
	return out
}
