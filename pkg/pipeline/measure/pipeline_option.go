package measure

import (
	"time"

	"github.com/askiada/lm-pipeline/pkg/pipeline/model"
)

type pipelineMeasure struct {
	m         Measure
	startTime time.Time
}

func (pm *pipelineMeasure) New() error {
	return nil
}

func (pm *pipelineMeasure) BeforeStage(parentStage, stage *model.StageInfo) error {
	if pm.m.GetMetric(stage.Name) == nil {
		pm.m.AddMetric(stage.Name)
	}

	return nil
}

func (pm *pipelineMeasure) AfterStage(parentStage, stage *model.StageInfo, elapsed time.Duration) error {
	metric := pm.m.GetMetric(stage.Name)
	if metric == nil {
		metric = pm.m.AddMetric(stage.Name)
	}
	metric.AddDuration(elapsed)
	metric.AddTransitionDuration(parentStage.Name, elapsed)
	metric.SetTotalDuration(time.Since(pm.startTime))

	return nil
}

func (pm *pipelineMeasure) Finish() error {
	return nil
}

// PipelineMeasure returns a pipeline option that records the duration of every stage
// of a training pipeline run.
func PipelineMeasure(m Measure) model.Option {
	return &pipelineMeasure{m, time.Now()}
}
