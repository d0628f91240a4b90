package evalflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-evalflow/pkg/evalflow/model"
)

func TestApplyColumnMapping(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		columns  []string
		row      model.Record
		mapping  model.ColumnMapping
		wantCols []string
		wantRow  model.Record
	}{
		"empty mapping unchanged": {
			columns:  []string{"a"},
			row:      model.Record{"a": 1},
			mapping:  nil,
			wantCols: []string{"a"},
			wantRow:  model.Record{"a": 1},
		},
		"data round trip": {
			columns:  []string{"a"},
			row:      model.Record{"a": 1},
			mapping:  model.ColumnMapping{"b": "${data.a}"},
			wantCols: []string{"b"},
			wantRow:  model.Record{"b": 1},
		},
		"literal is a no-op": {
			columns:  []string{"a"},
			row:      model.Record{"a": 1},
			mapping:  model.ColumnMapping{"b": "plain text"},
			wantCols: []string{"a"},
			wantRow:  model.Record{"a": 1},
		},
		"unparseable reference is a no-op": {
			columns:  []string{"a"},
			row:      model.Record{"a": 1},
			mapping:  model.ColumnMapping{"b": "${data.a} and more"},
			wantCols: []string{"a"},
			wantRow:  model.Record{"a": 1},
		},
		"missing source renames nothing": {
			columns:  []string{"a"},
			row:      model.Record{"a": 1},
			mapping:  model.ColumnMapping{"b": "${data.missing}"},
			wantCols: []string{"a"},
			wantRow:  model.Record{"a": 1},
		},
		"run outputs unprefixed source": {
			columns:  []string{"answer"},
			row:      model.Record{"answer": "x"},
			mapping:  model.ColumnMapping{"expected": "${run.outputs.answer}"},
			wantCols: []string{"expected"},
			wantRow:  model.Record{"expected": "x"},
		},
		"run outputs prefers prefixed column": {
			columns:  []string{"outputs.answer", "answer"},
			row:      model.Record{"outputs.answer": "generated", "answer": "original"},
			mapping:  model.ColumnMapping{"answer": "${run.outputs.answer}"},
			wantCols: []string{"answer"},
			wantRow:  model.Record{"answer": "generated"},
		},
		"dropped destination survives as rename source": {
			columns:  []string{"a", "b"},
			row:      model.Record{"a": 1, "b": 2},
			mapping:  model.ColumnMapping{"b": "${run.outputs.a}", "c": "${run.outputs.b}"},
			wantCols: []string{"b", "c"},
			wantRow:  model.Record{"b": 1, "c": 2},
		},
	}

	for name, tc := range tcs {
		tc := tc

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			src := newTestTable(t, tc.columns, tc.row)

			got := applyColumnMapping(src, tc.mapping, false)

			assert.Equal(t, tc.wantCols, got.Columns())
			assert.Equal(t, []model.Record{tc.wantRow}, got.Records())
		})
	}
}

func TestApplyColumnMappingInPlace(t *testing.T) {
	t.Parallel()

	src := newTestTable(t, []string{"a"}, model.Record{"a": 1})

	got := applyColumnMapping(src, model.ColumnMapping{"b": "${data.a}"}, false)
	assert.Equal(t, []string{"a"}, src.Columns(), "source must stay untouched")
	assert.Equal(t, []string{"b"}, got.Columns())

	got = applyColumnMapping(src, model.ColumnMapping{"b": "${data.a}"}, true)
	assert.Same(t, src, got)
	assert.Equal(t, []string{"b"}, src.Columns())
}

func TestProcessEvaluatorConfig(t *testing.T) {
	t.Parallel()

	cfg := Config{
		"default": model.ColumnMapping{
			"answer":   "${target.answer}",
			"question": "${data.question}",
		},
	}

	processed, err := processEvaluatorConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, Config{
		"default": model.ColumnMapping{
			"answer":   "${run.outputs.answer}",
			"question": "${data.question}",
		},
	}, processed)

	// the caller's config keeps its target references
	assert.Equal(t, "${target.answer}", cfg["default"]["answer"])
}

func TestProcessEvaluatorConfigUnexpectedReference(t *testing.T) {
	t.Parallel()

	tcs := map[string]string{
		"unknown root":            "${foo.bar}",
		"run outputs not allowed": "${run.outputs.answer}",
		"embedded occurrence":     "prefix ${context.chat} suffix",
	}

	for name, expr := range tcs {
		expr := expr

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := processEvaluatorConfig(Config{
				"default": model.ColumnMapping{"x": expr},
			})
			require.ErrorIs(t, err, ErrUnexpectedReference)
		})
	}
}

func TestProcessEvaluatorConfigSkipsNilMappings(t *testing.T) {
	t.Parallel()

	processed, err := processEvaluatorConfig(Config{"default": nil})
	require.NoError(t, err)
	assert.Empty(t, processed)
}
