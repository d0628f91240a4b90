package drawer

import (
	"time"

	"github.com/askiada/go-evalflow/pkg/evalflow/measure"
)

// Drawer is an interface that defines the methods for drawing an
// evaluation graph.
type Drawer interface {
	// AddStep adds a stage to the evaluation graph.
	AddStep(stepName string) error
	// AddLink adds a link between a parent and a child stage.
	AddLink(parentStepName, childStepName string) error
	// Draw creates a file with the evaluation graph.
	Draw() error
	// SetTotalTime sets the total time for the stage.
	SetTotalTime(stepName string, startTime time.Time) error
	// AddMeasure adds timing information to the evaluation graph.
	AddMeasure(measure measure.Measure) error
}
