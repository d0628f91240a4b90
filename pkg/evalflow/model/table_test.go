package model_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-evalflow/pkg/evalflow/model"
)

func newTable(t *testing.T, columns []string, rows ...model.Record) *model.Table {
	t.Helper()
	tab := model.NewTable(columns...)
	for _, row := range rows {
		tab.AppendRow(row)
	}

	return tab
}

func TestTableRename(t *testing.T) {
	t.Parallel()
	testCases := map[string]struct {
		renames      map[string]string
		expectedCols []string
		expectedRow  model.Record
	}{
		"simple": {
			renames:      map[string]string{"a": "b"},
			expectedCols: []string{"b"},
			expectedRow:  model.Record{"b": 1},
		},
		"missing source is ignored": {
			renames:      map[string]string{"nope": "b"},
			expectedCols: []string{"a"},
			expectedRow:  model.Record{"a": 1},
		},
		"empty": {
			renames:      nil,
			expectedCols: []string{"a"},
			expectedRow:  model.Record{"a": 1},
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			tab := newTable(t, []string{"a"}, model.Record{"a": 1})
			tab.Rename(testCase.renames)
			assert.Equal(t, testCase.expectedCols, tab.Columns())
			assert.Equal(t, []model.Record{testCase.expectedRow}, tab.Records())
		})
	}
}

func TestTableRenameSimultaneous(t *testing.T) {
	t.Parallel()
	tab := newTable(t, []string{"a", "b"}, model.Record{"a": 1, "b": 2})

	// a chained rename must not cascade: a lands on b, the original b on c.
	tab.Rename(map[string]string{"a": "b", "b": "c"})

	assert.Equal(t, []string{"b", "c"}, tab.Columns())
	assert.Equal(t, []model.Record{{"b": 1, "c": 2}}, tab.Records())
}

func TestTableDrop(t *testing.T) {
	t.Parallel()
	tab := newTable(t, []string{"a", "b", "c"}, model.Record{"a": 1, "b": 2, "c": 3})
	tab.Drop("b", "missing")

	assert.Equal(t, []string{"a", "c"}, tab.Columns())
	assert.Equal(t, []model.Record{{"a": 1, "c": 3}}, tab.Records())
}

func TestTableDropPrefixed(t *testing.T) {
	t.Parallel()
	tab := newTable(t, []string{"inputs.a", "outputs.b", "c"},
		model.Record{"inputs.a": 1, "outputs.b": 2, "c": 3},
	)
	tab.DropPrefixed("inputs.")

	assert.Equal(t, []string{"outputs.b", "c"}, tab.Columns())
}

func TestTableSortByIntColumn(t *testing.T) {
	t.Parallel()
	tab := newTable(t, []string{"line", "v"},
		model.Record{"line": 2, "v": "c"},
		model.Record{"line": json.Number("0"), "v": "a"},
		model.Record{"line": 1, "v": "b"},
	)

	require.NoError(t, tab.SortByIntColumn("line"))
	assert.Equal(t, []any{"a", "b", "c"}, tab.Column("v"))

	err := tab.SortByIntColumn("missing")
	require.Error(t, err)
}

func TestTableRecordsFillsAbsentCells(t *testing.T) {
	t.Parallel()
	tab := newTable(t, []string{"a", "b"}, model.Record{"a": 1})

	assert.Equal(t, []model.Record{{"a": 1, "b": nil}}, tab.Records())
}

func TestTableClone(t *testing.T) {
	t.Parallel()
	tab := newTable(t, []string{"a"}, model.Record{"a": 1})
	clone := tab.Clone()
	clone.Rename(map[string]string{"a": "b"})

	assert.Equal(t, []string{"a"}, tab.Columns())
	assert.Equal(t, []string{"b"}, clone.Columns())
	assert.Equal(t, 1, tab.Value(0, "a"))
}

func TestConcat(t *testing.T) {
	t.Parallel()
	left := newTable(t, []string{"a"}, model.Record{"a": 1}, model.Record{"a": 2})
	right := newTable(t, []string{"b"}, model.Record{"b": "x"}, model.Record{"b": "y"})

	merged, err := model.Concat(left, right)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, merged.Columns())
	assert.Equal(t, []model.Record{{"a": 1, "b": "x"}, {"a": 2, "b": "y"}}, merged.Records())
}

func TestConcatCollision(t *testing.T) {
	t.Parallel()
	left := newTable(t, []string{"a", "b"}, model.Record{"a": 1, "b": 2})
	right := newTable(t, []string{"b", "c"}, model.Record{"b": 3, "c": 4})

	_, err := model.Concat(left, right)
	collisionErr := &model.ColumnCollisionError{}
	require.ErrorAs(t, err, &collisionErr)
	assert.Equal(t, []string{"b"}, collisionErr.Columns)
}

func TestConcatRowCountMismatch(t *testing.T) {
	t.Parallel()
	left := newTable(t, []string{"a"}, model.Record{"a": 1})
	right := newTable(t, []string{"b"})

	_, err := model.Concat(left, right)
	require.ErrorIs(t, err, model.ErrRowCountMismatch)
}

func TestFuncCallable(t *testing.T) {
	t.Parallel()
	callable := model.NewFunc(
		func(_ context.Context, inputs model.Record) (model.Record, error) {
			return model.Record{"echo": inputs["msg"]}, nil
		},
		model.Parameter{Name: "msg"},
	)

	require.Len(t, callable.Parameters(), 1)
	out, err := callable.Call(context.Background(), model.Record{"msg": "hi"})
	require.NoError(t, err)
	assert.Equal(t, model.Record{"echo": "hi"}, out)
}
