package measure

import (
	"time"

	"github.com/askiada/go-evalflow/pkg/evalflow/model"
)

type evaluationMeasure struct {
	Measure
}

func (em *evaluationMeasure) New() error {
	em.AddMetric(model.StartStage.Name, 1)
	em.AddMetric(model.EndStage.Name, 1)

	return nil
}

func (em *evaluationMeasure) PrepareStage(_ []*model.StageInfo, stage *model.StageInfo) error {
	em.AddMetric(stage.Name, stage.Concurrent)

	return nil
}

func (em *evaluationMeasure) OnStageRow(stage *model.StageInfo, elapsed time.Duration) error {
	em.GetMetric(stage.Name).AddDuration(elapsed)

	return nil
}

func (em *evaluationMeasure) AfterStage(stage *model.StageInfo, totalDuration time.Duration) error {
	em.GetMetric(stage.Name).SetTotalDuration(totalDuration)

	return nil
}

func (em *evaluationMeasure) Finish(totalDuration time.Duration) error {
	em.GetMetric(model.EndStage.Name).SetTotalDuration(totalDuration)

	return nil
}

// EvaluationMeasure creates a monitor recording a metric for every stage
// of an evaluation.
func EvaluationMeasure(measure Measure) model.Monitor {
	return &evaluationMeasure{measure}
}
