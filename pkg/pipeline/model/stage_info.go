package model

// StageType classifies the stages of a configured training pipeline.
type StageType string

const (
	DatasetStageType  StageType = "dataset"
	ModelStageType    StageType = "model"
	TrainerStageType  StageType = "trainer"
	CallbackStageType StageType = "callback"
)

// StageInfo describes one stage of a configured training pipeline.
type StageInfo struct {
	Type StageType
	Name string
}

var (
	StartStage = &StageInfo{Name: "start"}
	EndStage   = &StageInfo{Name: "end"}
)
