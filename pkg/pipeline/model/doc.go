// Package model provides the data structures shared by the training pipeline packages.
// It defines the description of the stages a configured pipeline is made of and the
// options that can observe a pipeline run.
package model
