package evalflow

import (
	"testing"

	"github.com/askiada/go-evalflow/pkg/evalflow/model"
)

func newTestTable(t *testing.T, columns []string, rows ...model.Record) *model.Table {
	t.Helper()

	table := model.NewTable(columns...)
	for _, row := range rows {
		table.AppendRow(row)
	}

	return table
}
