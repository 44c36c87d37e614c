package pipeline

import (
	"github.com/pkg/errors"
)

var (
	ErrConfigMustBeSet    = errors.New("config must be set")
	ErrModelArgsMustBeSet = errors.New("model args must be set")
	ErrUnknownModelType   = errors.New("unknown model type")
	ErrUnknownPipeline    = errors.New("unknown pipeline")
)
