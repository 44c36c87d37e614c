// Package lm provides the language modeling training pipeline.
//
// The pipeline dispatches on the `type` entry of the model arguments and pairs a data
// module with a model module for one of four objectives: masked language modeling
// (mlm), causal language modeling (clm), conditional generation (cgm) and permutation
// language modeling (plm). The argument maps are forwarded unmodified to the modules;
// tokenization, the model layers and the training loop are delegated to the
// go-huggingface and gomlx frameworks.
package lm
