package evalflow

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-evalflow/pkg/evalflow/model"
)

// monitorSet fans the lifecycle hooks out to every attached monitor.
type monitorSet []model.Monitor

func (m monitorSet) initialise() error {
	for _, mon := range m {
		err := mon.New()
		if err != nil {
			return errors.Wrap(err, "unable to initialise monitor")
		}
	}

	return nil
}

func (m monitorSet) prepareStage(parents []*model.StageInfo, stage *model.StageInfo) error {
	for _, mon := range m {
		err := mon.PrepareStage(parents, stage)
		if err != nil {
			return errors.Wrapf(err, "unable to prepare stage %s", stage.Name)
		}
	}

	return nil
}

func (m monitorSet) stageRows(stage *model.StageInfo, durations []time.Duration) error {
	for _, mon := range m {
		for _, elapsed := range durations {
			err := mon.OnStageRow(stage, elapsed)
			if err != nil {
				return errors.Wrapf(err, "unable to record row of stage %s", stage.Name)
			}
		}
	}

	return nil
}

func (m monitorSet) afterStage(stage *model.StageInfo, total time.Duration) error {
	for _, mon := range m {
		err := mon.AfterStage(stage, total)
		if err != nil {
			return errors.Wrapf(err, "unable to close stage %s", stage.Name)
		}
	}

	return nil
}

func (m monitorSet) finish(total time.Duration) error {
	for _, mon := range m {
		err := mon.Finish(total)
		if err != nil {
			return errors.Wrap(err, "unable to finish monitors")
		}
	}

	return nil
}
