package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// ErrRowCountMismatch is returned when two tables merged by row position
// do not share the same number of rows.
var ErrRowCountMismatch = errors.New("tables must have the same number of rows")

// ColumnCollisionError reports column names shared by two tables merged
// by row position. A merge never silently picks one side.
type ColumnCollisionError struct {
	Columns []string
}

func (e *ColumnCollisionError) Error() string {
	return fmt.Sprintf("duplicate columns in merge: %s", strings.Join(e.Columns, ", "))
}

// Table is an ordered sequence of records sharing a column set. Row
// position is the stable row index assigned when the rows were produced
// and is the join key for every merge. Column order is preserved for
// deterministic output only.
type Table struct {
	columns []string
	rows    []Record
}

// NewTable creates an empty table with the given columns.
func NewTable(columns ...string) *Table {
	return &Table{
		columns: append([]string{}, columns...),
	}
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return append([]string{}, t.columns...)
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	for _, col := range t.columns {
		if col == name {
			return true
		}
	}

	return false
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	return len(t.rows)
}

// AppendRow adds a record to the table. Keys that are not part of the
// column set are kept on the record but stay invisible until a column of
// that name exists.
func (t *Table) AppendRow(r Record) {
	if r == nil {
		r = Record{}
	}
	t.rows = append(t.rows, r)
}

// Row returns the record at the given position. The record is shared
// with the table and must not be modified by the caller.
func (t *Table) Row(i int) Record {
	if i < 0 || i >= len(t.rows) {
		return nil
	}

	return t.rows[i]
}

// Value returns the value at a row and column, nil when absent.
func (t *Table) Value(row int, col string) any {
	if row < 0 || row >= len(t.rows) {
		return nil
	}

	return t.rows[row][col]
}

// Column returns all values of one column in row order.
func (t *Table) Column(name string) []any {
	out := make([]any, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[name]
	}

	return out
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{
		columns: append([]string{}, t.columns...),
		rows:    make([]Record, len(t.rows)),
	}
	for i, row := range t.rows {
		out.rows[i] = row.Clone()
	}

	return out
}

// Drop removes the given columns and their values. Missing columns are
// ignored.
func (t *Table) Drop(cols ...string) {
	if len(cols) == 0 {
		return
	}

	dropped := make(map[string]struct{}, len(cols))
	for _, col := range cols {
		dropped[col] = struct{}{}
	}

	kept := t.columns[:0]
	for _, col := range t.columns {
		if _, ok := dropped[col]; ok {
			for _, row := range t.rows {
				delete(row, col)
			}

			continue
		}
		kept = append(kept, col)
	}
	t.columns = kept
}

// DropPrefixed removes every column whose name starts with prefix.
func (t *Table) DropPrefixed(prefix string) {
	var cols []string
	for _, col := range t.columns {
		if strings.HasPrefix(col, prefix) {
			cols = append(cols, col)
		}
	}
	t.Drop(cols...)
}

// Rename renames columns in one simultaneous pass: every source name is
// looked up against the original column set, so chained entries such as
// {a: b, b: c} never cascade. Sources that do not exist are ignored.
// When two sources end up on the same destination, the destination keeps
// the position of the first and the value of the last.
func (t *Table) Rename(renames map[string]string) {
	if len(renames) == 0 {
		return
	}

	newCols := make([]string, 0, len(t.columns))
	seen := make(map[string]struct{}, len(t.columns))
	for _, col := range t.columns {
		name := col
		if renamed, ok := renames[col]; ok {
			name = renamed
		}
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			newCols = append(newCols, name)
		}
	}

	for i, row := range t.rows {
		next := make(Record, len(row))
		for _, col := range t.columns {
			name := col
			if renamed, ok := renames[col]; ok {
				name = renamed
			}
			if v, ok := row[col]; ok {
				next[name] = v
			}
		}
		t.rows[i] = next
	}
	t.columns = newCols
}

// SortByIntColumn reorders rows by the integer value of the given
// column, ascending. The sort is stable.
func (t *Table) SortByIntColumn(name string) error {
	if !t.HasColumn(name) {
		return errors.Errorf("column %s not found", name)
	}

	var convErr error
	sort.SliceStable(t.rows, func(i, j int) bool {
		left, err := toInt64(t.rows[i][name])
		if err != nil && convErr == nil {
			convErr = err
		}
		right, err := toInt64(t.rows[j][name])
		if err != nil && convErr == nil {
			convErr = err
		}

		return left < right
	})

	return errors.Wrapf(convErr, "unable to sort by column %s", name)
}

// Records returns one map per row holding every column's value, nil for
// absent cells. The maps are copies and safe to modify.
func (t *Table) Records() []Record {
	out := make([]Record, len(t.rows))
	for i, row := range t.rows {
		rec := make(Record, len(t.columns))
		for _, col := range t.columns {
			rec[col] = row[col]
		}
		out[i] = rec
	}

	return out
}

// Concat merges two tables column-wise, aligned by row position, left
// columns first. Any column name present on both sides fails with a
// *ColumnCollisionError and a differing row count with
// ErrRowCountMismatch.
func Concat(left, right *Table) (*Table, error) {
	if left.NumRows() != right.NumRows() {
		return nil, errors.Wrapf(ErrRowCountMismatch, "%d vs %d", left.NumRows(), right.NumRows())
	}

	var collisions []string
	for _, col := range right.columns {
		if left.HasColumn(col) {
			collisions = append(collisions, col)
		}
	}
	if len(collisions) > 0 {
		sort.Strings(collisions)

		return nil, &ColumnCollisionError{Columns: collisions}
	}

	out := NewTable(append(left.Columns(), right.Columns()...)...)
	for i := range left.rows {
		rec := make(Record, len(out.columns))
		for _, col := range left.columns {
			rec[col] = left.rows[i][col]
		}
		for _, col := range right.columns {
			rec[col] = right.rows[i][col]
		}
		out.AppendRow(rec)
	}

	return out, nil
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		return int64(n), nil
	case json.Number:
		return n.Int64()
	default:
		return 0, errors.Errorf("value %v is not an integer", v)
	}
}
