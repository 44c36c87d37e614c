package drawer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/lm-pipeline/pkg/pipeline/measure"
	"github.com/askiada/lm-pipeline/pkg/pipeline/model"
)

func TestSVGDrawerDraw(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "pipeline.svg")
	d := NewSVGDrawer(fileName)

	require.NoError(t, d.AddStage("start", model.StartStage.Type))
	require.NoError(t, d.AddStage("data", model.DatasetStageType))
	require.NoError(t, d.AddLink("start", "data"))
	require.NoError(t, d.Draw())

	content, err := os.ReadFile(fileName)
	require.NoError(t, err)
	assert.Contains(t, string(content), "digraph")
	assert.Contains(t, string(content), `"start"`)
	assert.Contains(t, string(content), `"start" -> "data"`)
}

func TestSVGDrawerStageShapes(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "pipeline.svg")
	d := NewSVGDrawer(fileName)

	require.NoError(t, d.AddStage("data", model.DatasetStageType))
	require.NoError(t, d.AddStage("model", model.ModelStageType))
	require.NoError(t, d.AddStage("checkpoint", model.CallbackStageType))
	require.NoError(t, d.AddStage("trainer", model.TrainerStageType))
	require.NoError(t, d.AddStage("start", model.StartStage.Type))
	require.NoError(t, d.Draw())

	content, err := os.ReadFile(fileName)
	require.NoError(t, err)
	assert.Contains(t, string(content), `shape="cylinder"`)
	assert.Contains(t, string(content), `shape="box3d"`)
	assert.Contains(t, string(content), `shape="note"`)
	assert.Contains(t, string(content), `shape="component"`)
	assert.Contains(t, string(content), `shape="circle"`)
}

func TestSVGDrawerAddStageTwice(t *testing.T) {
	d := NewSVGDrawer(filepath.Join(t.TempDir(), "pipeline.svg"))

	require.NoError(t, d.AddStage("data", model.DatasetStageType))
	assert.Error(t, d.AddStage("data", model.DatasetStageType))
}

func TestSVGDrawerAddLinkUnknownStage(t *testing.T) {
	d := NewSVGDrawer(filepath.Join(t.TempDir(), "pipeline.svg"))

	require.NoError(t, d.AddStage("data", model.DatasetStageType))
	assert.Error(t, d.AddLink("data", "missing"))
}

func TestSVGDrawerAddMeasureNoTransitions(t *testing.T) {
	d := NewSVGDrawer(filepath.Join(t.TempDir(), "pipeline.svg"))
	m := measure.NewDefaultMeasure()
	m.AddMetric("data")
	require.NoError(t, d.AddStage("data", model.DatasetStageType))

	assert.NoError(t, d.AddMeasure(m))
}

func TestPipelineDrawerOption(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "pipeline.svg")
	d := NewSVGDrawer(fileName)
	m := measure.NewDefaultMeasure()

	opt := PipelineDrawer(d, m)
	require.NoError(t, opt.New())

	dataStage := &model.StageInfo{Type: model.DatasetStageType, Name: "data"}
	trainerStage := &model.StageInfo{Type: model.TrainerStageType, Name: "trainer"}

	require.NoError(t, opt.BeforeStage(model.StartStage, dataStage))
	require.NoError(t, opt.AfterStage(model.StartStage, dataStage, time.Second))
	require.NoError(t, opt.BeforeStage(dataStage, trainerStage))
	require.NoError(t, opt.AfterStage(dataStage, trainerStage, time.Second))
	require.NoError(t, opt.Finish())

	content, err := os.ReadFile(fileName)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"start" -> "data"`)
	assert.Contains(t, string(content), `"data" -> "trainer"`)
	assert.Contains(t, string(content), `"trainer" -> "end"`)
}

func TestPipelineDrawerOptionWithMeasuredStages(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "pipeline.svg")
	d := NewSVGDrawer(fileName)
	m := measure.NewDefaultMeasure()

	drawerOpt := PipelineDrawer(d, m)
	measureOpt := measure.PipelineMeasure(m)
	require.NoError(t, drawerOpt.New())
	require.NoError(t, measureOpt.New())

	dataStage := &model.StageInfo{Type: model.DatasetStageType, Name: "data"}

	for _, opt := range []model.Option{drawerOpt, measureOpt} {
		require.NoError(t, opt.BeforeStage(model.StartStage, dataStage))
	}
	for _, opt := range []model.Option{drawerOpt, measureOpt} {
		require.NoError(t, opt.AfterStage(model.StartStage, dataStage, 2*time.Second))
	}
	require.NoError(t, measureOpt.Finish())
	require.NoError(t, drawerOpt.Finish())

	content, err := os.ReadFile(fileName)
	require.NoError(t, err)
	assert.Contains(t, string(content), "2s")
}
