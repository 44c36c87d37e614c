package lm

import (
	"github.com/gomlx/gomlx/graph"
	mlcontext "github.com/gomlx/gomlx/ml/context"
	"github.com/gomlx/gomlx/ml/train"
	"github.com/gomlx/gomlx/ml/train/metrics"
	"github.com/gomlx/gomlx/ml/train/optimizers"

	"github.com/askiada/lm-pipeline/pkg/pipeline"
)

// modelModule holds the shared behaviour of the four objective model modules: it keeps
// the model arguments verbatim and builds the framework trainer on demand.
type modelModule struct {
	name      string
	modelArgs pipeline.Args
}

func newModelModule(name string, modelArgs pipeline.Args) modelModule {
	return modelModule{name: name, modelArgs: modelArgs}
}

func (m *modelModule) Name() string { return m.name }

// ModelArguments returns the arguments the module was constructed with, unmodified.
func (m *modelModule) ModelArguments() pipeline.Args { return m.modelArgs }

// Build creates the framework trainer. The learning rate, the optimizer and the
// backbone dimensions come from the model arguments; everything else is left to the
// framework defaults. Unknown optimizer names fail inside the framework.
func (m *modelModule) Build(manager *graph.Manager) (*train.Trainer, *mlcontext.Context, error) {
	ctx := mlcontext.NewContext(manager)
	ctx.SetParam(optimizers.LearningRateKey, m.modelArgs.Float("lr", 2e-5))

	cfg := backboneConfigFromArgs(m.modelArgs)
	optimizer := optimizers.MustOptimizerByName(m.modelArgs.String("optimizer", "adam"))

	trainer := train.NewTrainer(manager, ctx, cfg.modelGraph, sequenceCrossEntropy,
		optimizer,
		nil, // trainMetrics
		[]metrics.Interface{metrics.NewSparseCategoricalAccuracy("Mean Accuracy", "#acc")})

	return trainer, ctx, nil
}

// MLMModule trains with the masked language modeling objective.
type MLMModule struct{ modelModule }

func NewMLMModule(modelArgs pipeline.Args) *MLMModule {
	return &MLMModule{newModelModule("mlm-model-module", modelArgs)}
}

// CLMModule trains with the causal language modeling objective.
type CLMModule struct{ modelModule }

func NewCLMModule(modelArgs pipeline.Args) *CLMModule {
	return &CLMModule{newModelModule("clm-model-module", modelArgs)}
}

// CGMModule trains with the conditional generation objective.
type CGMModule struct{ modelModule }

func NewCGMModule(modelArgs pipeline.Args) *CGMModule {
	return &CGMModule{newModelModule("cgm-model-module", modelArgs)}
}

// PLMModule trains with the permutation language modeling objective.
type PLMModule struct{ modelModule }

func NewPLMModule(modelArgs pipeline.Args) *PLMModule {
	return &PLMModule{newModelModule("plm-model-module", modelArgs)}
}
