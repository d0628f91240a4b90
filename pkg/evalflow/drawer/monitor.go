package drawer

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-evalflow/pkg/evalflow/measure"
	"github.com/askiada/go-evalflow/pkg/evalflow/model"
)

// evaluationDrawer records every stage of an evaluation in a Drawer and
// renders the graph once the evaluation finishes.
type evaluationDrawer struct {
	drawer    Drawer
	measure   measure.Measure
	startTime time.Time
}

// EvaluationDrawer returns a monitor backed by drw. When msr is not nil the
// timings it collected are added to the graph before it is rendered.
func EvaluationDrawer(drw Drawer, msr measure.Measure) model.Monitor {
	return &evaluationDrawer{drawer: drw, measure: msr}
}

// New initialises the monitor.
func (e *evaluationDrawer) New() error {
	e.startTime = time.Now()

	err := e.drawer.AddStep(model.StartStage.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add start step")
	}

	err = e.drawer.AddStep(model.EndStage.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add end step")
	}

	return nil
}

// PrepareStage adds the stage and its incoming links to the graph. A stage
// without parents hangs off the start vertex, the report stage links to the
// end vertex.
func (e *evaluationDrawer) PrepareStage(parents []*model.StageInfo, stage *model.StageInfo) error {
	err := e.drawer.AddStep(stage.Name)
	if err != nil {
		return errors.Wrapf(err, "unable to add step %s", stage.Name)
	}

	if len(parents) == 0 {
		err = e.drawer.AddLink(model.StartStage.Name, stage.Name)
		if err != nil {
			return errors.Wrapf(err, "unable to add link from %s to %s", model.StartStage.Name, stage.Name)
		}
	}

	for _, parent := range parents {
		err = e.drawer.AddLink(parent.Name, stage.Name)
		if err != nil {
			return errors.Wrapf(err, "unable to add link from %s to %s", parent.Name, stage.Name)
		}
	}

	if stage.Type == model.ReportStageType {
		err = e.drawer.AddLink(stage.Name, model.EndStage.Name)
		if err != nil {
			return errors.Wrapf(err, "unable to add link from %s to %s", stage.Name, model.EndStage.Name)
		}
	}

	return nil
}

// OnStageRow does nothing, rows do not change the shape of the graph.
func (e *evaluationDrawer) OnStageRow(_ *model.StageInfo, _ time.Duration) error {
	return nil
}

// AfterStage does nothing, timings are added when the evaluation finishes.
func (e *evaluationDrawer) AfterStage(_ *model.StageInfo, _ time.Duration) error {
	return nil
}

// Finish decorates the graph with the collected timings and renders it.
func (e *evaluationDrawer) Finish(_ time.Duration) error {
	err := e.drawer.SetTotalTime(model.EndStage.Name, e.startTime)
	if err != nil {
		return errors.Wrap(err, "unable to set total time")
	}

	if e.measure != nil {
		err = e.drawer.AddMeasure(e.measure)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	err = e.drawer.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw")
	}

	return nil
}

var _ model.Monitor = (*evaluationDrawer)(nil)
