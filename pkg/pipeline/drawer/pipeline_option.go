package drawer

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/lm-pipeline/pkg/pipeline/measure"
	"github.com/askiada/lm-pipeline/pkg/pipeline/model"
)

type pipelineDrawer struct {
	Drawer
	m         measure.Measure
	startTime time.Time
	lastStage string
}

func (pd *pipelineDrawer) New() error {
	err := pd.AddStage(model.StartStage.Name, model.StartStage.Type)
	if err != nil {
		return errors.Wrap(err, "unable to add start stage to drawer")
	}
	err = pd.AddStage(model.EndStage.Name, model.EndStage.Type)
	if err != nil {
		return errors.Wrap(err, "unable to add end stage to drawer")
	}
	pd.lastStage = model.StartStage.Name

	return nil
}

func (pd *pipelineDrawer) BeforeStage(parentStage, stage *model.StageInfo) error {
	err := pd.AddStage(stage.Name, stage.Type)
	if err != nil {
		return err
	}
	err = pd.AddLink(parentStage.Name, stage.Name)
	if err != nil {
		return err
	}
	pd.lastStage = stage.Name

	return nil
}

func (pd *pipelineDrawer) AfterStage(parentStage, stage *model.StageInfo, elapsed time.Duration) error {
	return nil
}

func (pd *pipelineDrawer) Finish() error {
	if pd.lastStage != "" && pd.lastStage != model.StartStage.Name {
		err := pd.AddLink(pd.lastStage, model.EndStage.Name)
		if err != nil {
			return errors.Wrap(err, "unable to link last stage to end")
		}
	}

	if pd.m != nil {
		err := pd.SetTotalTime(model.EndStage.Name, pd.startTime)
		if err != nil {
			return errors.Wrap(err, "unable to set total time")
		}
		err = pd.AddMeasure(pd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	err := pd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw pipeline")
	}

	return nil
}

// PipelineDrawer returns a pipeline option that draws the stages of a training
// pipeline run and decorates them with the recorded measures.
func PipelineDrawer(drawer Drawer, measure measure.Measure) model.Option {
	return &pipelineDrawer{drawer, measure, time.Now(), ""}
}
