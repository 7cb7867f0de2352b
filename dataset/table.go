// Package dataset contains the tabular representation of the corpus and the
// collaborators that read and write it.
package dataset

import (
	"github.com/pkg/errors"
)

// Columns are always present, in this order, in the raw corpus and in every feature table.
const (
	IDColumn         = "_id"
	DatasetColumn    = "dataset"
	OriginalIDColumn = "of_id"
	LabelColumn      = "sexist"
	TextColumn       = "text"
)

// BaseColumns is the identifying block of every table.
var BaseColumns = []string{IDColumn, DatasetColumn, OriginalIDColumn, LabelColumn, TextColumn}

// Table is an ordered sequence of rows with named columns. All cells are strings;
// interpretation of a cell is left to whoever reads the column.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable creates a table, checking that every row has one cell per column.
func NewTable(columns []string, rows ...[]string) (Table, error) {
	for i, row := range rows {
		if len(row) != len(columns) {
			return Table{}, errors.Wrapf(ErrMalformedInput, "row %d has %d cells, expected %d", i, len(row), len(columns))
		}
	}
	return Table{Columns: columns, Rows: rows}, nil
}

// Len is the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// Index returns the position of a column, or -1.
func (t Table) Index(column string) int {
	for i, c := range t.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// Require checks that the table has all of the named columns.
func (t Table) Require(columns ...string) error {
	for _, c := range columns {
		if t.Index(c) < 0 {
			return errors.Wrapf(ErrMalformedInput, "missing column %q", c)
		}
	}
	return nil
}

// Values returns the cells of one column in row order.
func (t Table) Values(column string) ([]string, error) {
	idx := t.Index(column)
	if idx < 0 {
		return nil, errors.Wrapf(ErrMalformedInput, "missing column %q", column)
	}
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[idx]
	}
	return values, nil
}

// Column extracts a single column as its own table.
func (t Table) Column(column string) (Table, error) {
	values, err := t.Values(column)
	if err != nil {
		return Table{}, err
	}
	rows := make([][]string, len(values))
	for i, v := range values {
		rows[i] = []string{v}
	}
	return Table{Columns: []string{column}, Rows: rows}, nil
}

// Clone makes a deep copy so the result can be modified freely.
func (t Table) Clone() Table {
	c := Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		c.Rows[i] = append([]string(nil), row...)
	}
	return c
}

// WithColumn returns a copy of the table with one extra column appended.
func (t Table) WithColumn(column string, values []string) (Table, error) {
	if len(values) != len(t.Rows) {
		return Table{}, errors.Wrapf(ErrMisaligned, "column %q has %d values for %d rows", column, len(values), len(t.Rows))
	}
	if t.Index(column) >= 0 {
		return Table{}, errors.Wrapf(ErrMalformedInput, "column %q already exists", column)
	}
	c := t.Clone()
	c.Columns = append(c.Columns, column)
	for i := range c.Rows {
		c.Rows[i] = append(c.Rows[i], values[i])
	}
	return c, nil
}

// HConcat joins two tables side by side by row position.
func HConcat(left, right Table) (Table, error) {
	if left.Len() != right.Len() {
		return Table{}, errors.Wrapf(ErrMisaligned, "cannot join %d rows with %d rows", left.Len(), right.Len())
	}
	for _, c := range right.Columns {
		if left.Index(c) >= 0 {
			return Table{}, errors.Wrapf(ErrMalformedInput, "column %q already exists", c)
		}
	}
	c := left.Clone()
	c.Columns = append(c.Columns, right.Columns...)
	for i := range c.Rows {
		c.Rows[i] = append(c.Rows[i], right.Rows[i]...)
	}
	return c, nil
}

// Equal reports whether both tables have the same columns and cells in the same order.
func (t Table) Equal(o Table) bool {
	if len(t.Columns) != len(o.Columns) || len(t.Rows) != len(o.Rows) {
		return false
	}
	for i := range t.Columns {
		if t.Columns[i] != o.Columns[i] {
			return false
		}
	}
	for i := range t.Rows {
		if len(t.Rows[i]) != len(o.Rows[i]) {
			return false
		}
		for j := range t.Rows[i] {
			if t.Rows[i][j] != o.Rows[i][j] {
				return false
			}
		}
	}
	return true
}
