package model

import "time"

// Option defines the interface for training pipeline options.
type Option interface {
	// New initialises the pipeline option.
	New() error

	// BeforeStage runs before the stage is executed.
	BeforeStage(parentStage, stage *StageInfo) error
	// AfterStage runs after the stage is executed with the time the stage took.
	AfterStage(parentStage, stage *StageInfo, elapsed time.Duration) error

	// Finish runs after the pipeline run is finished.
	Finish() error
}
