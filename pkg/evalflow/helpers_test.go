package evalflow_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/askiada/go-evalflow/pkg/evalflow/model"
	"github.com/askiada/go-evalflow/pkg/runner"
)

func writeJSONL(t *testing.T, lines ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "data.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600))

	return path
}

func lengthEvaluator() model.Callable {
	return model.NewFunc(func(_ context.Context, inputs model.Record) (model.Record, error) {
		q, _ := inputs["question"].(string)

		return model.Record{"length": len(q)}, nil
	}, model.Parameter{Name: "question"})
}

func upperTarget() model.Callable {
	return model.NewFunc(func(_ context.Context, inputs model.Record) (model.Record, error) {
		q, _ := inputs["question"].(string)

		return model.Record{"answer": strings.ToUpper(q)}, nil
	}, model.Parameter{Name: "question"})
}

func matchEvaluator() model.Callable {
	return model.NewFunc(func(_ context.Context, inputs model.Record) (model.Record, error) {
		answer, _ := inputs["answer"].(string)
		question, _ := inputs["question"].(string)

		return model.Record{"same": answer == strings.ToUpper(question)}, nil
	}, model.Parameter{Name: "answer"}, model.Parameter{Name: "question"})
}

func staticEvaluator(outputs model.Record, params ...model.Parameter) model.Callable {
	return model.NewFunc(func(_ context.Context, _ model.Record) (model.Record, error) {
		return outputs.Clone(), nil
	}, params...)
}

// trackingRunner records whether any run was submitted, so tests can
// assert that configuration errors fire before any execution.
type trackingRunner struct {
	runner.Runner
	submitted bool
}

func (r *trackingRunner) Submit(ctx context.Context, callable model.Callable, data *model.Table, mapping model.ColumnMapping, opts ...runner.SubmitOption) (*runner.Run, error) {
	r.submitted = true

	return r.Runner.Submit(ctx, callable, data, mapping, opts...)
}

type stubReporter struct {
	url string
	err error

	gotName string
	gotRows int
}

func (r *stubReporter) Report(_ context.Context, name string, rows *model.Table, _ map[string]float64) (string, error) {
	r.gotName = name
	r.gotRows = rows.NumRows()

	return r.url, r.err
}
