package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStageTypeConstants(t *testing.T) {
	stage := &StageInfo{Type: CallbackStageType, Name: "model-checkpoint"}

	// The constants carry the field's type, so they compare equal to it.
	assert.Equal(t, CallbackStageType, stage.Type)
	assert.IsType(t, StageType(""), stage.Type)
}

func TestStartAndEndStagesHaveNoType(t *testing.T) {
	assert.Equal(t, StageType(""), StartStage.Type)
	assert.Equal(t, StageType(""), EndStage.Type)
	assert.Equal(t, "start", StartStage.Name)
	assert.Equal(t, "end", EndStage.Name)
}
