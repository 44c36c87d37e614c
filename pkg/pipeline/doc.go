// Package pipeline provides training pipelines for language models.
//
// A training pipeline pairs a data module with a model module for a given training
// objective, wires the callbacks requested by the trainer arguments and delegates the
// actual optimisation work to the underlying training framework. Pipelines register
// themselves under a name and are looked up through the package registry, so a
// configuration file is all that is needed to go from raw arguments to a training run.
//
// The package only moves configuration around: model architectures, tokenization,
// optimizers and the training loop itself all belong to the frameworks the pipelines
// delegate to.
package pipeline
