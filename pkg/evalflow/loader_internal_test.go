package evalflow

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDataFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "data.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadData(t *testing.T) {
	t.Parallel()

	path := writeDataFile(t, `{"question":"q1","id":1}
{"id":2,"context":{"lang":"en"},"question":"q2"}

`)

	table, err := loadData(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"question", "id", "context"}, table.Columns())
	require.Equal(t, 2, table.NumRows())

	assert.Equal(t, "q1", table.Value(0, "question"))
	assert.Equal(t, json.Number("2"), table.Value(1, "id"))
	assert.Nil(t, table.Value(0, "context"))
}

func TestLoadDataErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		content string
	}{
		"not json":           {content: "plainly not json\n"},
		"array line":         {content: "[1, 2]\n"},
		"trailing data":      {content: `{"a":1} {"b":2}` + "\n"},
		"broken second line": {content: `{"a":1}` + "\n" + `{"a":` + "\n"},
	}

	for name, tc := range tcs {
		tc := tc

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := writeDataFile(t, tc.content)

			_, err := loadData(path)
			require.Error(t, err)

			var loadErr *DataLoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, path, loadErr.Path)
			assert.Contains(t, err.Error(), "expected valid jsonl")
		})
	}
}

func TestLoadDataMissingFile(t *testing.T) {
	t.Parallel()

	_, err := loadData(filepath.Join(t.TempDir(), "absent.jsonl"))

	var loadErr *DataLoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestLoadDataEmptyPath(t *testing.T) {
	t.Parallel()

	_, err := loadData("")
	require.ErrorIs(t, err, ErrNoData)
}
