package lm

import (
	"context"
	"log"

	"github.com/gomlx/gomlx/graph"
	mlcontext "github.com/gomlx/gomlx/ml/context"
	"github.com/gomlx/gomlx/ml/context/checkpoints"
	"github.com/gomlx/gomlx/ml/data"
	"github.com/gomlx/gomlx/ml/train"
	"github.com/gomlx/gomlx/ml/train/commandline"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/askiada/lm-pipeline/pkg/pipeline"
	"github.com/askiada/lm-pipeline/pkg/pipeline/model"
)

// PipelineName is the name the language modeling pipeline registers under.
const PipelineName = "language-modeling-trainer"

const defaultMaxEpochs = 1

func init() {
	pipeline.Register(PipelineName, func() pipeline.TrainingPipeline { return &Pipeline{} })
}

// Pipeline is the language modeling training pipeline. It dispatches on the `type`
// entry of the model arguments and delegates training to the framework loop.
type Pipeline struct {
	// AuthToken is used to download gated tokenizers from the hub.
	AuthToken string
}

// GetDataAndModelModules returns the data and model module pair for the objective
// selected by `model_args["type"]`. The argument maps are forwarded unmodified.
func (p *Pipeline) GetDataAndModelModules(modelArgs, datasetArgs pipeline.Args) (pipeline.DataModule, pipeline.ModelModule, error) {
	if modelArgs == nil {
		return nil, nil, pipeline.ErrModelArgsMustBeSet
	}

	var (
		dataModule  pipeline.DataModule
		modelModule pipeline.ModelModule
	)

	modelType := modelArgs.String("type", "")
	switch modelType {
	case "mlm":
		dataModule, modelModule = NewMLMDataModule(modelArgs, datasetArgs), NewMLMModule(modelArgs)
	case "clm":
		dataModule, modelModule = NewCLMDataModule(modelArgs, datasetArgs), NewCLMModule(modelArgs)
	case "cgm":
		dataModule, modelModule = NewCGMDataModule(modelArgs, datasetArgs), NewCGMModule(modelArgs)
	case "plm":
		dataModule, modelModule = NewPLMDataModule(modelArgs, datasetArgs), NewPLMModule(modelArgs)
	default:
		return nil, nil, errors.Wrapf(pipeline.ErrUnknownModelType, "%q", modelType)
	}

	return dataModule, modelModule, nil
}

// AddCallbacks builds the callbacks requested by the callback arguments.
func (p *Pipeline) AddCallbacks(callbackArgs map[string]pipeline.Args) ([]pipeline.Callback, error) {
	return pipeline.BuildCallbacks(callbackArgs)
}

// Stages describes the stages a run of this pipeline goes through, in order.
func (p *Pipeline) Stages(cfg *pipeline.Config) []*model.StageInfo {
	modelType := "lm"
	hasCheckpoint := false
	if cfg != nil {
		modelType = cfg.ModelArgs.String("type", modelType)
		hasCheckpoint = len(pipeline.CheckpointArgs(cfg.TrainerArgs)) > 0
	}

	stages := []*model.StageInfo{
		{Type: model.DatasetStageType, Name: modelType + "-data-module"},
		{Type: model.ModelStageType, Name: modelType + "-model-module"},
	}
	if hasCheckpoint {
		stages = append(stages, &model.StageInfo{Type: model.CallbackStageType, Name: "model-checkpoint"})
	}
	stages = append(stages, &model.StageInfo{Type: model.TrainerStageType, Name: "trainer"})

	return stages
}

// Train builds the modules and callbacks from the configuration and runs the
// framework training loop on them.
func (p *Pipeline) Train(ctx context.Context, cfg *pipeline.Config, opts ...model.Option) error {
	if cfg == nil {
		return pipeline.ErrConfigMustBeSet
	}

	runID := uuid.NewString()
	log.Printf("starting %s run %s", PipelineName, runID)

	dataModule, modelModule, err := p.GetDataAndModelModules(cfg.ModelArgs, cfg.DatasetArgs)
	if err != nil {
		return errors.Wrap(err, "unable to get data and model modules")
	}
	if p.AuthToken != "" {
		if withToken, ok := dataModule.(interface{ SetAuthToken(string) }); ok {
			withToken.SetAuthToken(p.AuthToken)
		}
	}

	callbacks, err := p.AddCallbacks(pipeline.CheckpointArgs(cfg.TrainerArgs))
	if err != nil {
		return errors.Wrap(err, "unable to add callbacks")
	}

	for _, opt := range opts {
		err := opt.New()
		if err != nil {
			return errors.Wrap(err, "unable to apply pipeline option")
		}
	}

	var (
		trainer    *train.Trainer
		trainerCtx *mlcontext.Context
		loop       *train.Loop
		checkpoint *checkpoints.Handler
	)

	err = pipeline.WalkStages(p.Stages(cfg), opts, func(stage *model.StageInfo) error {
		switch stage.Type {
		case model.DatasetStageType:
			return dataModule.Setup(ctx)

		case model.ModelStageType:
			manager := graph.BuildManager().
				NumThreads(cfg.TrainerArgs.Int("num_threads", -1)).
				Platform(cfg.TrainerArgs.String("platform", "")).
				Done()
			var err error
			trainer, trainerCtx, err = modelModule.Build(manager)
			if err != nil {
				return errors.Wrap(err, "unable to build model module")
			}
			loop = train.NewLoop(trainer)
			commandline.AttachProgressBar(loop)

			return nil

		case model.CallbackStageType:
			rootDir := cfg.TrainerArgs.String("default_root_dir", "")
			if rootDir != "" {
				rootDir = data.ReplaceTildeInDir(rootDir)
				keep := cfg.TrainerArgs.Int("save_top_k", 1)
				var err error
				checkpoint, err = checkpoints.Build(trainerCtx).
					DirFromBase(runID, rootDir).
					Keep(keep).Done()
				if err != nil {
					return errors.Wrap(err, "unable to build checkpoint handler")
				}
			}
			for _, callback := range callbacks {
				err := callback.Attach(loop, checkpoint)
				if err != nil {
					return errors.Wrapf(err, "unable to attach callback %s", callback.Name())
				}
			}

			return nil

		case model.TrainerStageType:
			steps := p.trainSteps(cfg, dataModule)
			_, err := loop.RunSteps(data.Parallel(dataModule.TrainDataset()), steps)
			if err != nil {
				return errors.Wrap(err, "training loop failed")
			}
			log.Printf("run %s: %d steps, median train step %s",
				runID, loop.LoopStep, loop.MedianTrainStepDuration())

			err = commandline.ReportEval(trainer, dataModule.ValidationDataset())
			if err != nil {
				return errors.Wrap(err, "evaluation failed")
			}
			if checkpoint != nil {
				return checkpoint.Save()
			}

			return nil
		}

		return nil
	})
	if err != nil {
		return err
	}

	for _, opt := range opts {
		err := opt.Finish()
		if err != nil {
			return errors.Wrap(err, "unable to finish pipeline option")
		}
	}

	return nil
}

// trainSteps derives the number of loop steps from the trainer arguments: an explicit
// `max_steps` wins, otherwise `max_epochs` over the training batches.
func (p *Pipeline) trainSteps(cfg *pipeline.Config, dataModule pipeline.DataModule) int {
	if steps := cfg.TrainerArgs.Int("max_steps", 0); steps > 0 {
		return steps
	}

	epochs := cfg.TrainerArgs.Int("max_epochs", defaultMaxEpochs)
	batches := 0
	if counter, ok := dataModule.(interface{ NumTrainBatches() int }); ok {
		batches = counter.NumTrainBatches()
	}
	if batches == 0 {
		batches = 1
	}

	return epochs * batches
}

var _ pipeline.TrainingPipeline = (*Pipeline)(nil)
