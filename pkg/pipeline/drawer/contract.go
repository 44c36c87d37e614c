package drawer

import (
	"time"

	"github.com/askiada/lm-pipeline/pkg/pipeline/measure"
	"github.com/askiada/lm-pipeline/pkg/pipeline/model"
)

// Drawer is an interface that defines the methods for drawing a training pipeline.
type Drawer interface {
	// AddStage adds a stage to the pipeline drawer. The stage type drives how the
	// stage is rendered.
	AddStage(stageName string, stageType model.StageType) error
	// AddLink adds a link between parent and children stages.
	AddLink(parentStageName, childrenStageName string) error
	// Draw creates a file with the pipeline graph.
	Draw() error
	// SetTotalTime sets the total time for the stage.
	SetTotalTime(stageName string, startTime time.Time) error
	// AddMeasure adds a measure to the pipeline drawer.
	AddMeasure(measure measure.Measure) error
}
