package drawer_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-evalflow/pkg/evalflow/drawer"
	"github.com/askiada/go-evalflow/pkg/evalflow/measure"
	"github.com/askiada/go-evalflow/pkg/evalflow/model"
)

func TestEvaluationDrawer(t *testing.T) {
	t.Parallel()

	fileName := filepath.Join(t.TempDir(), "evaluation.gv")

	drw := drawer.NewSVGDrawer(fileName)
	msr := measure.NewDefaultMeasure()

	monitors := []model.Monitor{
		measure.EvaluationMeasure(msr),
		drawer.EvaluationDrawer(drw, msr),
	}

	data := &model.StageInfo{Type: model.DataStageType, Name: "data", Concurrent: 1}
	target := &model.StageInfo{Type: model.TargetStageType, Name: "target", Concurrent: 4}
	evaluator := &model.StageInfo{Type: model.EvaluatorStageType, Name: "evaluator.relevance", Concurrent: 4}
	report := &model.StageInfo{Type: model.ReportStageType, Name: "report", Concurrent: 1}

	for _, monitor := range monitors {
		require.NoError(t, monitor.New())

		require.NoError(t, monitor.PrepareStage(nil, data))
		require.NoError(t, monitor.PrepareStage([]*model.StageInfo{data}, target))
		require.NoError(t, monitor.PrepareStage([]*model.StageInfo{target}, evaluator))
		require.NoError(t, monitor.PrepareStage([]*model.StageInfo{evaluator}, report))

		require.NoError(t, monitor.OnStageRow(target, 40*time.Millisecond))
		require.NoError(t, monitor.OnStageRow(target, 60*time.Millisecond))
		require.NoError(t, monitor.OnStageRow(evaluator, 20*time.Millisecond))

		require.NoError(t, monitor.AfterStage(target, 100*time.Millisecond))
		require.NoError(t, monitor.AfterStage(evaluator, 20*time.Millisecond))

		require.NoError(t, monitor.Finish(120*time.Millisecond))
	}

	got, err := os.ReadFile(fileName)
	require.NoError(t, err)

	rendered := string(got)

	assert.Contains(t, rendered, "strict digraph")
	assert.Contains(t, rendered, `"start" -> "data"`)
	assert.Contains(t, rendered, `"data" -> "target"`)
	assert.Contains(t, rendered, `"target" -> "evaluator.relevance"`)
	assert.Contains(t, rendered, `"evaluator.relevance" -> "report"`)
	assert.Contains(t, rendered, `"report" -> "end"`)

	// The stage totals colour the incoming edges and label the vertices.
	assert.Contains(t, rendered, `color="#`)
	assert.Contains(t, rendered, `label="100ms"`)
	assert.Contains(t, rendered, "50ms")
}

func TestSVGDrawerAddLinkUnknownStep(t *testing.T) {
	t.Parallel()

	drw := drawer.NewSVGDrawer(filepath.Join(t.TempDir(), "evaluation.gv"))

	require.NoError(t, drw.AddStep("data"))
	require.Error(t, drw.AddLink("data", "missing"))
}
