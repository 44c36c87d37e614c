package pipeline

import (
	"context"
	"time"

	"github.com/gomlx/gomlx/graph"
	mlcontext "github.com/gomlx/gomlx/ml/context"
	"github.com/gomlx/gomlx/ml/train"
	"github.com/pkg/errors"

	"github.com/askiada/lm-pipeline/pkg/pipeline/model"
)

// DataModule prepares the datasets a pipeline trains and evaluates on. Setup is where
// file reading and tokenization happen; constructing a module never touches the disk.
type DataModule interface {
	Name() string
	// DatasetArguments returns the arguments the module was constructed with,
	// unmodified.
	DatasetArguments() Args
	// Setup loads the tokenizer and materialises the datasets.
	Setup(ctx context.Context) error
	// TrainDataset cycles forever over the training examples.
	TrainDataset() train.Dataset
	// ValidationDataset yields the validation examples once.
	ValidationDataset() train.Dataset
}

// ModelModule builds the framework trainer for a training objective.
type ModelModule interface {
	Name() string
	// ModelArguments returns the arguments the module was constructed with,
	// unmodified.
	ModelArguments() Args
	// Build creates the framework trainer and the context holding its variables and
	// hyperparameters.
	Build(manager *graph.Manager) (*train.Trainer, *mlcontext.Context, error)
}

// TrainingPipeline pairs data and model modules for a training objective and runs the
// framework training loop on them.
type TrainingPipeline interface {
	// GetDataAndModelModules dispatches on the model arguments and returns the data
	// and model module pair for the requested objective. The argument maps are
	// forwarded unmodified.
	GetDataAndModelModules(modelArgs, datasetArgs Args) (DataModule, ModelModule, error)
	// AddCallbacks builds the callbacks requested by the arguments.
	AddCallbacks(callbackArgs map[string]Args) ([]Callback, error)
	// Stages describes the stages a run of this pipeline goes through.
	Stages(cfg *Config) []*model.StageInfo
	// Train runs the pipeline on the given configuration.
	Train(ctx context.Context, cfg *Config, opts ...model.Option) error
}

// WalkStages runs fn once per stage, surrounding every stage with the option hooks.
// A nil fn walks the stages without executing them, which is how a pipeline is
// described without being run.
func WalkStages(stages []*model.StageInfo, opts []model.Option, fn func(stage *model.StageInfo) error) error {
	parent := model.StartStage
	for _, stage := range stages {
		for _, opt := range opts {
			err := opt.BeforeStage(parent, stage)
			if err != nil {
				return errors.Wrapf(err, "unable to prepare stage %s", stage.Name)
			}
		}

		start := time.Now()
		if fn != nil {
			err := fn(stage)
			if err != nil {
				return errors.Wrapf(err, "stage %s", stage.Name)
			}
		}
		elapsed := time.Since(start)

		for _, opt := range opts {
			err := opt.AfterStage(parent, stage, elapsed)
			if err != nil {
				return errors.Wrapf(err, "unable to finalise stage %s", stage.Name)
			}
		}

		parent = stage
	}

	return nil
}
