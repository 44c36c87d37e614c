package pipeline

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/lm-pipeline/pkg/pipeline/model"
)

type recordingOption struct {
	events []string
}

func (o *recordingOption) New() error {
	o.events = append(o.events, "new")

	return nil
}

func (o *recordingOption) BeforeStage(parentStage, stage *model.StageInfo) error {
	o.events = append(o.events, "before:"+parentStage.Name+"->"+stage.Name)

	return nil
}

func (o *recordingOption) AfterStage(parentStage, stage *model.StageInfo, elapsed time.Duration) error {
	o.events = append(o.events, "after:"+stage.Name)

	return nil
}

func (o *recordingOption) Finish() error {
	o.events = append(o.events, "finish")

	return nil
}

func TestWalkStages(t *testing.T) {
	stages := []*model.StageInfo{
		{Type: model.DatasetStageType, Name: "data"},
		{Type: model.TrainerStageType, Name: "trainer"},
	}
	opt := &recordingOption{}

	executed := []string{}
	err := WalkStages(stages, []model.Option{opt}, func(stage *model.StageInfo) error {
		executed = append(executed, stage.Name)

		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"data", "trainer"}, executed)
	assert.Equal(t, []string{
		"before:start->data",
		"after:data",
		"before:data->trainer",
		"after:trainer",
	}, opt.events)
}

func TestWalkStagesNilFn(t *testing.T) {
	stages := []*model.StageInfo{{Type: model.DatasetStageType, Name: "data"}}
	opt := &recordingOption{}

	err := WalkStages(stages, []model.Option{opt}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"before:start->data", "after:data"}, opt.events)
}

func TestWalkStagesStopsOnError(t *testing.T) {
	stages := []*model.StageInfo{
		{Type: model.DatasetStageType, Name: "data"},
		{Type: model.TrainerStageType, Name: "trainer"},
	}
	expectedErr := errors.New("boom")

	executed := []string{}
	err := WalkStages(stages, nil, func(stage *model.StageInfo) error {
		executed = append(executed, stage.Name)

		return expectedErr
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, []string{"data"}, executed)
}
