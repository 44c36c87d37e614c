package pipeline

import (
	"github.com/gomlx/gomlx/ml/context/checkpoints"
	"github.com/gomlx/gomlx/ml/train"
	"github.com/gomlx/gomlx/types/tensor"
	"github.com/pkg/errors"
)

// ModelCheckpointKey is the callback arguments entry that configures checkpointing.
const ModelCheckpointKey = "model_checkpoint_callback"

// Callback hooks extra behaviour into the framework training loop.
type Callback interface {
	Name() string
	// Attach registers the callback on the loop. The checkpoint handler may be nil
	// when the trainer arguments do not configure a checkpoint directory.
	Attach(loop *train.Loop, handler *checkpoints.Handler) error
}

// ModelCheckpoint saves a checkpoint of the model variables every N training steps.
type ModelCheckpoint struct {
	Monitor          string
	Mode             string
	SaveTopK         int
	EveryNTrainSteps int
}

func (c *ModelCheckpoint) Name() string { return "model-checkpoint" }

// Attach hooks the checkpoint save on the training loop. Without a handler there is
// nowhere to save to and the callback is a no-op.
func (c *ModelCheckpoint) Attach(loop *train.Loop, handler *checkpoints.Handler) error {
	if loop == nil {
		return errors.New("loop must be set")
	}
	if handler == nil {
		return nil
	}

	every := c.EveryNTrainSteps
	if every <= 0 {
		every = 1
	}
	train.EveryNSteps(loop, every, c.Name(), 100,
		func(loop *train.Loop, metrics []tensor.Tensor) error {
			return handler.Save()
		})

	return nil
}

// BuildCallbacks constructs the callbacks requested by the callback arguments.
// Unrecognised entries are ignored.
func BuildCallbacks(callbackArgs map[string]Args) ([]Callback, error) {
	callbacks := []Callback{}

	if args, ok := callbackArgs[ModelCheckpointKey]; ok {
		callbacks = append(callbacks, &ModelCheckpoint{
			Monitor:          args.String("monitor", "val_loss"),
			Mode:             args.String("mode", "min"),
			SaveTopK:         args.Int("save_top_k", 1),
			EveryNTrainSteps: args.Int("every_n_train_steps", 0),
		})
	}

	return callbacks, nil
}

// CheckpointArgs extracts the checkpoint callback arguments from the trainer
// arguments, keeping only the keys the callback understands.
func CheckpointArgs(trainerArgs Args) map[string]Args {
	args := Args{}
	for _, key := range []string{"monitor", "save_top_k", "mode", "every_n_train_steps"} {
		if trainerArgs.Has(key) {
			args[key] = trainerArgs[key]
		}
	}
	if len(args) == 0 {
		return map[string]Args{}
	}

	return map[string]Args{ModelCheckpointKey: args}
}
